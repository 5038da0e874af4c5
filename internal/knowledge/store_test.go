package knowledge

import "testing"

func TestDefaultStore(t *testing.T) {
	s := DefaultStore()

	tests := []struct {
		country string
		want    string
	}{
		{"france", "Paris"},
		{"France", "Paris"},
		{"united states", "Washington, D.C."},
		{"United States of America", "Washington, D.C."},
		{"brazil", "Brasília"},
		{"republic of korea", "Seoul"},
		{"south korea", "Seoul"},
	}

	for _, tt := range tests {
		got, ok := s.Lookup(tt.country)
		if !ok {
			t.Errorf("Lookup(%q): expected hit", tt.country)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%q) = %q, want %q", tt.country, got, tt.want)
		}
	}

	if _, ok := s.Lookup("atlantis"); ok {
		t.Error("expected miss for unknown country")
	}
	if s.Len() != 16 {
		t.Errorf("expected 16 entries, got %d", s.Len())
	}
}

func TestStore_Resolve(t *testing.T) {
	s := NewStore(map[string]string{
		"Germany": "Berlin",
		"usa":     "Washington, D.C.",
	})

	if got, ok := s.Resolve("germany", "Deutschland"); !ok || got != "Berlin" {
		t.Errorf("expected normalized key hit, got %q (ok=%v)", got, ok)
	}
	if got, ok := s.Resolve("United States of America", "USA"); !ok || got != "Washington, D.C." {
		t.Errorf("expected raw key fallback, got %q (ok=%v)", got, ok)
	}
	if _, ok := s.Resolve("narnia", "Narnia"); ok {
		t.Error("expected miss")
	}
}

func TestStore_EntriesIsCopy(t *testing.T) {
	s := NewStore(map[string]string{"france": "Paris"})
	entries := s.Entries()
	entries["france"] = "Lyon"

	if got, _ := s.Lookup("france"); got != "Paris" {
		t.Errorf("store mutated through Entries: %q", got)
	}
}
