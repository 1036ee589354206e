package gmail

type MessageID string

// Header is a single name/value pair as returned by the provider. Names may repeat.
type Header struct {
	Name  string
	Value string
}

// Message carries the fields of a full message fetch that the dashboard consumes.
type Message struct {
	ID      MessageID
	Headers []Header
	Snippet string
}

// Header returns the value of the first header whose name matches exactly.
func (m Message) Header(name string) (string, bool) {
	for _, h := range m.Headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}

type ListPage struct {
	IDs           []MessageID
	NextPageToken string
}

type Query struct {
	Raw string // Gmail search string, e.g. `from:(alerts@example.com) newer_than:7d`
}
