// Package normalize canonicalizes country and capital name variants.
package normalize

import "strings"

// Table maps a lowercase alias to its canonical name
type Table map[string]string

// Normalizer holds the alias tables used before lookup and comparison.
// It is never mutated after construction and is safe for concurrent use.
type Normalizer struct {
	countries Table
	capitals  Table
}

// New creates a normalizer from the given alias tables.
// Keys are lowercased on the way in.
func New(countries, capitals Table) *Normalizer {
	return &Normalizer{
		countries: lowerKeys(countries),
		capitals:  lowerKeys(capitals),
	}
}

// Default returns a normalizer built from the built-in alias tables
func Default() *Normalizer {
	return New(DefaultCountryAliases(), DefaultCapitalAliases())
}

// DefaultCountryAliases returns the built-in country aliases
func DefaultCountryAliases() Table {
	return Table{
		"united states": "United States of America",
		"us":            "United States of America",
		"usa":           "United States of America",
		"uk":            "United Kingdom",
		"great britain": "United Kingdom",
		"south korea":   "Republic of Korea",
		"north korea":   "Democratic People's Republic of Korea",
	}
}

// DefaultCapitalAliases returns the built-in capital aliases
func DefaultCapitalAliases() Table {
	return Table{
		"washington":      "Washington, D.C.",
		"washington dc":   "Washington, D.C.",
		"washington d.c.": "Washington, D.C.",
		"new york":        "New York City",
	}
}

// Country returns the canonical country name, or raw unchanged on a miss
func (n *Normalizer) Country(raw string) string {
	return lookup(n.countries, raw)
}

// Capital returns the canonical capital name, or raw unchanged on a miss
func (n *Normalizer) Capital(raw string) string {
	return lookup(n.capitals, raw)
}

func lookup(t Table, raw string) string {
	if canonical, ok := t[strings.ToLower(raw)]; ok {
		return canonical
	}
	return raw
}

func lowerKeys(t Table) Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[strings.ToLower(k)] = v
	}
	return out
}
