package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthz(t *testing.T) {
	tests := []struct {
		name     string
		healthFn HealthFunc
		status   int
		body     string
	}{
		{"nil check", nil, http.StatusOK, "ok"},
		{"healthy", func(context.Context) error { return nil }, http.StatusOK, "ok"},
		{"unhealthy", func(context.Context) error { return errors.New("pg down") }, http.StatusServiceUnavailable, "unhealthy: pg down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Handler(tt.healthFn).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if !strings.Contains(rec.Body.String(), tt.body) {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}
