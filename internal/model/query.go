package model

// Query is a natural-language question posed against a corpus. Queries in a
// batch share the corpus but never share mutable state.
type Query struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`

	// Keyword optionally narrows the candidate segments through the lexical
	// pre-filter before any oracle call is made. Empty means no pre-filter.
	Keyword       string `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	CaseSensitive bool   `json:"case_sensitive,omitempty" yaml:"case_sensitive,omitempty"`
}
