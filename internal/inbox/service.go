package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/joshsymonds/hitautotrack/internal/gmail"
	"github.com/joshsymonds/hitautotrack/internal/rate"
)

// NoSubject is shown for messages without a Subject header.
const NoSubject = "(No Subject)"

// Record is one dashboard row.
type Record struct {
	ID      gmail.MessageID `json:"id"`
	Subject string          `json:"subject"`
	Snippet string          `json:"snippet"`
}

// Service assembles dashboard records from Gmail.
type Service struct {
	Client  gmail.Client
	Limiter rate.Limiter
	Logger  *slog.Logger
	// Concurrency bounds in-flight detail fetches. Values below 2 fetch sequentially.
	Concurrency int
}

// NewService constructs a Service that fetches details sequentially.
func NewService(client gmail.Client, limiter rate.Limiter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Service{
		Client:      client,
		Limiter:     limiter,
		Logger:      logger,
		Concurrency: 1,
	}
}

// ListRecent issues a single list call and returns at most limit references.
func (s *Service) ListRecent(ctx context.Context, filter string, limit int) ([]gmail.MessageID, error) {
	if limit <= 0 {
		return nil, nil
	}
	if limit > gmail.MaxPageSize {
		limit = gmail.MaxPageSize
	}
	if err := s.wait(ctx, "rate limit list"); err != nil {
		return nil, err
	}
	page, err := s.Client.List(ctx, gmail.Query{Raw: filter}, "", limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	ids := page.IDs
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// FetchDetail retrieves one message.
func (s *Service) FetchDetail(ctx context.Context, id gmail.MessageID) (gmail.Message, error) {
	if err := s.wait(ctx, "rate limit get"); err != nil {
		return gmail.Message{}, err
	}
	msg, err := s.Client.Get(ctx, id)
	if err != nil {
		return gmail.Message{}, fmt.Errorf("get message %s: %w", id, err)
	}
	return msg, nil
}

// Aggregate lists messages matching filter and builds one Record per reference,
// in list order. Any failed fetch fails the whole call.
func (s *Service) Aggregate(ctx context.Context, filter string, limit int) ([]Record, error) {
	ids, err := s.ListRecent(ctx, filter, limit)
	if err != nil {
		return nil, err
	}
	s.Logger.DebugContext(ctx, "listed messages", slog.String("query", filter), slog.Int("count", len(ids)))
	if len(ids) == 0 {
		return []Record{}, nil
	}
	if s.Concurrency > 1 && len(ids) > 1 {
		return s.fanOut(ctx, ids)
	}

	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		msg, err := s.FetchDetail(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, NewRecord(id, msg))
	}
	return records, nil
}

func (s *Service) fanOut(ctx context.Context, ids []gmail.MessageID) ([]Record, error) {
	records := make([]Record, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			msg, err := s.FetchDetail(gctx, id)
			if err != nil {
				return err
			}
			records[i] = NewRecord(id, msg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// NewRecord derives a dashboard row from a fetched message. The reference id is
// used even if the provider echoes a different one.
func NewRecord(id gmail.MessageID, msg gmail.Message) Record {
	subject, ok := msg.Header("Subject")
	if !ok {
		subject = NoSubject
	}
	return Record{ID: id, Subject: subject, Snippet: msg.Snippet}
}

func (s *Service) wait(ctx context.Context, operation string) error {
	if s.Limiter == nil {
		return nil
	}
	if err := s.Limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}
