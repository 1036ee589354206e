package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailv1 "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	gc "github.com/joshsymonds/hitautotrack/internal/gmail"
)

// NewGmailClient builds a read-only Gmail client from the credentials and token
// files previously written by Bootstrap.
func NewGmailClient(ctx context.Context, dir string) (gc.Client, error) {
	credPath := filepath.Join(dir, CredentialsFile)
	b, err := os.ReadFile(credPath) // #nosec G304 - path from operator config
	if err != nil {
		return nil, fmt.Errorf("read credentials at %s: %w", credPath, err)
	}
	cfg, err := google.ConfigFromJSON(b, gmailv1.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse oauth config: %w", err)
	}
	tok, err := readToken(filepath.Join(dir, TokenFile))
	if err != nil {
		return nil, err
	}
	svc, err := gmailv1.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return NewGoogleAPIClient(svc), nil
}

// storedToken accepts both the golang.org/x/oauth2 layout and the one written by
// the Node googleapis client (expiry_date in epoch milliseconds).
type storedToken struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry"`
	ExpiryDate   int64     `json:"expiry_date"`
}

func readToken(path string) (*oauth2.Token, error) {
	b, err := os.ReadFile(path) // #nosec G304 - path from operator config
	if err != nil {
		return nil, fmt.Errorf("read token at %s: %w", path, err)
	}
	return parseToken(b)
}

func parseToken(b []byte) (*oauth2.Token, error) {
	var st storedToken
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if st.AccessToken == "" && st.RefreshToken == "" {
		return nil, fmt.Errorf("decode token: no access or refresh token")
	}
	tok := &oauth2.Token{
		AccessToken:  st.AccessToken,
		TokenType:    st.TokenType,
		RefreshToken: st.RefreshToken,
		Expiry:       st.Expiry,
	}
	if tok.Expiry.IsZero() && st.ExpiryDate > 0 {
		tok.Expiry = time.UnixMilli(st.ExpiryDate)
	}
	return tok, nil
}

// NewLogger returns a text logger on stderr at the named level.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func DefaultLogger() *slog.Logger {
	return NewLogger("info")
}
