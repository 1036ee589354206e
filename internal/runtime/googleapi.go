package runtime

import (
	"context"

	gmailv1 "google.golang.org/api/gmail/v1"

	gc "github.com/joshsymonds/hitautotrack/internal/gmail"
)

const userID = "me"

// googleClient adapts *gmail.Service to the narrow gmail.Client interface.
type googleClient struct{ svc *gmailv1.Service }

func NewGoogleAPIClient(svc *gmailv1.Service) gc.Client { return &googleClient{svc} }

func (g *googleClient) List(ctx context.Context, q gc.Query, pageToken string, pageSize int) (gc.ListPage, error) {
	call := g.svc.Users.Messages.List(userID).MaxResults(int64(pageSize))
	if q.Raw != "" {
		call = call.Q(q.Raw)
	}
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	res, err := call.Context(ctx).Do()
	if err != nil {
		return gc.ListPage{}, err
	}
	ids := make([]gc.MessageID, 0, len(res.Messages))
	for _, m := range res.Messages {
		ids = append(ids, gc.MessageID(m.Id))
	}
	return gc.ListPage{IDs: ids, NextPageToken: res.NextPageToken}, nil
}

func (g *googleClient) Get(ctx context.Context, id gc.MessageID) (gc.Message, error) {
	msg, err := g.svc.Users.Messages.Get(userID, string(id)).Format("full").Context(ctx).Do()
	if err != nil {
		return gc.Message{}, err
	}
	out := gc.Message{ID: gc.MessageID(msg.Id), Snippet: msg.Snippet}
	if msg.Payload != nil {
		out.Headers = make([]gc.Header, 0, len(msg.Payload.Headers))
		for _, h := range msg.Payload.Headers {
			out.Headers = append(out.Headers, gc.Header{Name: h.Name, Value: h.Value})
		}
	}
	return out, nil
}
