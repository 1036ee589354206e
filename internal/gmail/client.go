package gmail

import "context"

// MaxPageSize is the largest maxResults the Gmail list endpoint accepts.
const MaxPageSize = 500

// Client is the narrow Gmail surface required by the dashboard.
type Client interface {
	List(ctx context.Context, q Query, pageToken string, pageSize int) (ListPage, error)
	Get(ctx context.Context, id MessageID) (Message, error)
}
