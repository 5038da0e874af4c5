package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const testUA = "factcheck/0.1 (+https://github.com/ppiankov/factcheck)"

func robotsServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusOK)
			return
		}
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRobotsChecker_CanFetch(t *testing.T) {
	srv := robotsServer(t, http.StatusOK, "User-agent: factcheck\nDisallow: /private\nCrawl-delay: 2\n\nUser-agent: *\nDisallow:\n", nil)
	rc := NewRobotsChecker(testUA, time.Second, nil)
	ctx := context.Background()

	allowed, delay, err := rc.CanFetch(ctx, srv.URL+"/wiki/France")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Error("expected /wiki/France to be allowed")
	}
	if delay != 2*time.Second {
		t.Errorf("expected crawl delay 2s, got %v", delay)
	}

	allowed, _, err = rc.CanFetch(ctx, srv.URL+"/private/page")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if allowed {
		t.Error("expected /private/page to be disallowed")
	}
}

func TestRobotsChecker_CachesPerHost(t *testing.T) {
	var hits int32
	srv := robotsServer(t, http.StatusOK, "User-agent: *\nDisallow:\n", &hits)
	rc := NewRobotsChecker(testUA, time.Second, nil)

	for i := 0; i < 3; i++ {
		if _, _, err := rc.CanFetch(context.Background(), srv.URL+"/page"); err != nil {
			t.Fatalf("CanFetch failed: %v", err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("expected robots.txt fetched once, got %d", got)
	}
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	srv := robotsServer(t, http.StatusNotFound, "", nil)
	rc := NewRobotsChecker(testUA, time.Second, nil)

	allowed, _, err := rc.CanFetch(context.Background(), srv.URL+"/anything")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Error("expected missing robots.txt to allow everything")
	}
}

func TestRobotsChecker_ServerErrorDisallows(t *testing.T) {
	srv := robotsServer(t, http.StatusInternalServerError, "", nil)
	rc := NewRobotsChecker(testUA, time.Second, nil)

	allowed, _, err := rc.CanFetch(context.Background(), srv.URL+"/anything")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if allowed {
		t.Error("expected 5xx robots.txt to disallow")
	}
}

func TestRobotsChecker_InvalidURL(t *testing.T) {
	rc := NewRobotsChecker(testUA, time.Second, nil)
	if _, _, err := rc.CanFetch(context.Background(), "not a url"); err == nil {
		t.Error("expected error for URL without host")
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	tests := map[string]string{
		testUA:               "factcheck",
		"FactCheckerMCP/1.0": "FactCheckerMCP",
		"curl":               "curl",
		"":                   "",
	}
	for in, want := range tests {
		if got := NormalizeUserAgent(in); got != want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", in, got, want)
		}
	}
}
