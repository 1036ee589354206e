package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/joshsymonds/hitautotrack/internal/inbox"
	"github.com/joshsymonds/hitautotrack/internal/session"
)

// Aggregator produces the dashboard rows.
type Aggregator interface {
	Aggregate(ctx context.Context, filter string, limit int) ([]inbox.Record, error)
}

// Authenticator validates login form submissions.
type Authenticator interface {
	Check(username, password string) bool
}

// Options controls what the dashboard shows.
type Options struct {
	Query      string
	MaxResults int
	Logger     *slog.Logger
}

// Server is the HTTP front end of the dashboard.
type Server struct {
	app        *fiber.App
	gate       *session.Gate
	auth       Authenticator
	mail       Aggregator
	views      *views
	query      string
	maxResults int
	logger     *slog.Logger
}

func NewServer(gate *session.Gate, auth Authenticator, mail Aggregator, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	v, err := loadViews()
	if err != nil {
		return nil, err
	}
	s := &Server{
		gate:       gate,
		auth:       auth,
		mail:       mail,
		views:      v,
		query:      opts.Query,
		maxResults: opts.MaxResults,
		logger:     logger,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "hitautotrack",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(requestLogger(s.logger))
	s.app.Use("/static", filesystem.New(filesystem.Config{
		Root:       http.FS(assets),
		PathPrefix: "static",
	}))

	s.app.Get("/healthz", s.healthz)
	s.app.Get("/", s.index)
	s.app.Get("/login", s.loginForm)
	s.app.Post("/login", s.login)
	s.app.Post("/logout", s.logout)
	s.app.Get("/dashboard", s.dashboard)
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("dashboard listening", slog.String("addr", addr))
	if err := s.app.Listen(addr); err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(code).SendString(msg)
}
