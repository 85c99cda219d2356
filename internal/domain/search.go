package domain

// Search is a query builder bound to one backend
type Search struct {
	backend Backend
	baseURL string
	token   string
	q       string
}

// SearchResults is the outcome of a Search.
// Description and URL are never populated yet.
type SearchResults struct {
	Backend     Backend `json:"backend"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
}

// NewSearch binds the backend base URL and resolves its token immediately
func NewSearch(backend Backend, creds Credentials) (*Search, error) {
	token, err := creds.Token(backend)
	if err != nil {
		return nil, err
	}

	return &Search{
		backend: backend,
		baseURL: backend.BaseURL(),
		token:   token,
	}, nil
}

// SetQ replaces the query string
func (s *Search) SetQ(q string) *Search {
	s.q = q
	return s
}

// Get builds the results for the current query without contacting the backend.
// TODO: execute the query once the per-backend search response shape is settled.
func (s *Search) Get() *SearchResults {
	return &SearchResults{Backend: s.backend}
}

func (s *Search) Backend() Backend {
	return s.backend
}

func (s *Search) BaseURL() string {
	return s.baseURL
}

func (s *Search) Query() string {
	return s.q
}
