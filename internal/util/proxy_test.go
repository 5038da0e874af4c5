package util

import (
	"net/http"
	"testing"
)

func resolve(t *testing.T, httpProxy, httpsProxy, noProxy, target string) string {
	t.Helper()
	fn := NewProxyFunc(httpProxy, httpsProxy, noProxy)
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	u, err := fn(req)
	if err != nil {
		t.Fatalf("proxy func: %v", err)
	}
	if u == nil {
		return ""
	}
	return u.String()
}

func TestNewProxyFunc(t *testing.T) {
	tests := []struct {
		name       string
		httpProxy  string
		httpsProxy string
		noProxy    string
		target     string
		want       string
	}{
		{"http via http proxy", "http://proxy:3128", "", "", "http://example.com/", "http://proxy:3128"},
		{"https falls back to http proxy", "http://proxy:3128", "", "", "https://query.wikidata.org/sparql", "http://proxy:3128"},
		{"https via dedicated proxy", "http://proxy:3128", "http://secure:3129", "", "https://query.wikidata.org/sparql", "http://secure:3129"},
		{"no_proxy host bypasses", "http://proxy:3128", "", "wikidata.org", "https://query.wikidata.org/sparql", ""},
		{"no_proxy other host still proxied", "http://proxy:3128", "", "wikidata.org", "https://example.com/", "http://proxy:3128"},
		{"loopback is direct", "http://proxy:3128", "", "", "http://127.0.0.1:5000/fact-check", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolve(t, tt.httpProxy, tt.httpsProxy, tt.noProxy, tt.target)
			if got != tt.want {
				t.Errorf("proxy for %s = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

func TestNewProxyFunc_EnvironmentFallback(t *testing.T) {
	fn := NewProxyFunc("", "", "")
	if fn == nil {
		t.Fatal("expected non-nil proxy func")
	}
}
