package runtime

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testCredentials = `{
  "installed": {
    "client_id": "client-id.apps.googleusercontent.com",
    "client_secret": "secret",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "redirect_uris": ["http://localhost"]
  }
}`

func TestParseTokenGoLayout(t *testing.T) {
	tok, err := parseToken([]byte(`{
		"access_token": "ya29.a",
		"token_type": "Bearer",
		"refresh_token": "1//r",
		"expiry": "2030-01-02T03:04:05Z"
	}`))
	require.NoError(t, err)
	require.Equal(t, "ya29.a", tok.AccessToken)
	require.Equal(t, "1//r", tok.RefreshToken)
	require.Equal(t, time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC), tok.Expiry.UTC())
}

func TestParseTokenNodeLayout(t *testing.T) {
	tok, err := parseToken([]byte(`{
		"access_token": "ya29.b",
		"refresh_token": "1//r",
		"scope": "https://www.googleapis.com/auth/gmail.readonly",
		"token_type": "Bearer",
		"expiry_date": 1893553445000
	}`))
	require.NoError(t, err)
	require.Equal(t, "ya29.b", tok.AccessToken)
	require.Equal(t, time.UnixMilli(1893553445000).UTC(), tok.Expiry.UTC())
}

func TestParseTokenRejectsEmpty(t *testing.T) {
	_, err := parseToken([]byte(`{"token_type":"Bearer"}`))
	require.Error(t, err)

	_, err = parseToken([]byte(`not json`))
	require.Error(t, err)
}

func TestNewGmailClientFromFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CredentialsFile), []byte(testCredentials), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, TokenFile), []byte(`{"access_token":"x","refresh_token":"y"}`), 0o600))

	client, err := NewGmailClient(context.Background(), dir)
	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestNewGmailClientMissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := NewGmailClient(context.Background(), dir)
	require.ErrorContains(t, err, "read credentials")

	require.NoError(t, os.WriteFile(filepath.Join(dir, CredentialsFile), []byte(testCredentials), 0o600))
	_, err = NewGmailClient(context.Background(), dir)
	require.ErrorContains(t, err, "read token")
}

func TestNewLoggerLevels(t *testing.T) {
	ctx := context.Background()
	require.True(t, NewLogger("debug").Enabled(ctx, -4))
	require.False(t, NewLogger("info").Enabled(ctx, -4))
	require.False(t, NewLogger("warn").Enabled(ctx, 0))
	require.True(t, NewLogger("bogus").Enabled(ctx, 0))
}
