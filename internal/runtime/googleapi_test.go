package runtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	gmailv1 "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	gc "github.com/joshsymonds/hitautotrack/internal/gmail"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *gmailv1.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	svc, err := gmailv1.NewService(
		context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return svc
}

func TestGoogleClientList(t *testing.T) {
	var gotPath, gotQuery, gotMax string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotMax = r.URL.Query().Get("maxResults")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"messages": []map[string]string{
				{"id": "m1", "threadId": "t1"},
				{"id": "m2", "threadId": "t2"},
			},
			"nextPageToken": "next",
		})
	})

	page, err := NewGoogleAPIClient(svc).List(context.Background(), gc.Query{Raw: "from:(drn@domain.com)"}, "", 10)
	require.NoError(t, err)
	require.Equal(t, []gc.MessageID{"m1", "m2"}, page.IDs)
	require.Equal(t, "next", page.NextPageToken)
	require.Equal(t, "from:(drn@domain.com)", gotQuery)
	require.Equal(t, "10", gotMax)
	require.True(t, strings.HasSuffix(gotPath, "/users/me/messages"), gotPath)
}

func TestGoogleClientGet(t *testing.T) {
	var gotPath string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "m1",
			"snippet": "hello there",
			"payload": {"headers": [
				{"name": "From", "value": "drn@domain.com"},
				{"name": "Subject", "value": "Invoice #42"},
				{"name": "Subject", "value": "duplicate"}
			]}
		}`))
	})

	msg, err := NewGoogleAPIClient(svc).Get(context.Background(), "m1")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(gotPath, "/users/me/messages/m1"), gotPath)
	require.Equal(t, gc.MessageID("m1"), msg.ID)
	require.Equal(t, "hello there", msg.Snippet)
	require.Len(t, msg.Headers, 3)
	subject, ok := msg.Header("Subject")
	require.True(t, ok)
	require.Equal(t, "Invoice #42", subject)
}

func TestGoogleClientGetWithoutPayload(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "m2"}`))
	})

	msg, err := NewGoogleAPIClient(svc).Get(context.Background(), "m2")
	require.NoError(t, err)
	require.Empty(t, msg.Headers)
	require.Empty(t, msg.Snippet)
}

func TestGoogleClientErrorPropagates(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":404,"message":"not found"}}`, http.StatusNotFound)
	})

	_, err := NewGoogleAPIClient(svc).List(context.Background(), gc.Query{}, "", 10)
	require.Error(t, err)
}
