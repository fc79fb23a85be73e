package refsource

import "context"

// Page is the reference source's view of one looked-up title
type Page struct {
	Exists   bool   `json:"exists"`
	Title    string `json:"title,omitempty"`     // canonical title
	Summary  string `json:"summary,omitempty"`   // lead summary
	FullText string `json:"full_text,omitempty"` // visible article text
	URL      string `json:"url,omitempty"`       // canonical page URL
}

// Source is the external knowledge base claims are checked against.
// Lookups are pure reads; implementations must be safe for concurrent use.
type Source interface {
	Lookup(ctx context.Context, title string) (*Page, error)
}
