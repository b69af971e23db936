package gateway

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestGatewayStripsPrefix(t *testing.T) {
	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("ok"))
	}))
	defer upstream.Close()

	h, err := New([]Route{{Prefix: "/api/scout", Target: upstream.URL}}, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/scout/v1/leagues")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("got %d %q", resp.StatusCode, body)
	}
	if gotPath != "/v1/leagues" {
		t.Fatalf("upstream path = %q", gotPath)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS header")
	}
}

func TestGatewayPreflightAndUnknown(t *testing.T) {
	h, err := New([]Route{{Prefix: "/api/scout", Target: "http://127.0.0.1:1"}}, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/scout/v1/players", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/other/x", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown prefix = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scout/v1/leagues", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("dead upstream = %d", rec.Code)
	}
}

func TestGatewayInvalidTarget(t *testing.T) {
	if _, err := New([]Route{{Prefix: "/api/x", Target: "not a url"}}, zap.NewNop()); err == nil {
		t.Fatal("expected error for invalid target")
	}
}
