// Package knowledge answers "what is the capital of X" from a local table
// and, on a miss, from a remote SPARQL knowledge base.
package knowledge

import "strings"

// Store maps lowercase country names to canonical capital names.
// It is read-only after construction and safe for concurrent use.
type Store struct {
	capitals map[string]string
}

// NewStore creates a store from the given table; keys are lowercased
func NewStore(table map[string]string) *Store {
	capitals := make(map[string]string, len(table))
	for country, capital := range table {
		capitals[strings.ToLower(country)] = capital
	}
	return &Store{capitals: capitals}
}

// DefaultStore returns the built-in table. Both native and post-normalization
// names are present for countries whose aliases normalize elsewhere.
func DefaultStore() *Store {
	return NewStore(map[string]string{
		"france":                   "Paris",
		"germany":                  "Berlin",
		"japan":                    "Tokyo",
		"united states":            "Washington, D.C.",
		"united states of america": "Washington, D.C.",
		"australia":                "Canberra",
		"brazil":                   "Brasília",
		"canada":                   "Ottawa",
		"italy":                    "Rome",
		"spain":                    "Madrid",
		"united kingdom":           "London",
		"china":                    "Beijing",
		"russia":                   "Moscow",
		"india":                    "New Delhi",
		"south korea":              "Seoul",
		"republic of korea":        "Seoul",
	})
}

// Lookup returns the capital for a lowercase country key
func (s *Store) Lookup(country string) (string, bool) {
	capital, ok := s.capitals[strings.ToLower(country)]
	return capital, ok
}

// Resolve tries the normalized name first, then the name as written
func (s *Store) Resolve(normalized, raw string) (string, bool) {
	if capital, ok := s.Lookup(normalized); ok {
		return capital, true
	}
	return s.Lookup(raw)
}

// Entries returns a copy of the table, for listing and tests
func (s *Store) Entries() map[string]string {
	out := make(map[string]string, len(s.capitals))
	for k, v := range s.capitals {
		out[k] = v
	}
	return out
}

// Len returns the number of entries
func (s *Store) Len() int {
	return len(s.capitals)
}
