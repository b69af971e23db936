package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/radieske/dota2-scout/internal/match-ingest/service"
)

type fakeIngester struct {
	done chan []int64
}

func (f *fakeIngester) Fresh(ids []int64) ([]int64, int) {
	var fresh []int64
	for _, id := range ids {
		if id%2 == 0 {
			fresh = append(fresh, id)
		}
	}
	return fresh, len(ids) - len(fresh)
}

func (f *fakeIngester) IngestMatches(_ context.Context, ids []int64) (service.Result, error) {
	f.done <- ids
	return service.Result{Accepted: len(ids), Published: len(ids)}, nil
}

func TestIngestMatches(t *testing.T) {
	ing := &fakeIngester{done: make(chan []int64, 1)}
	api := &API{Ingester: ing, Log: zap.NewNop()}

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"empty list", `{"matchIds":[]}`, http.StatusBadRequest},
		{"accepted", `{"matchIds":[1,2,3,4]}`, http.StatusAccepted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/ingest/matches", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			api.Router().ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}

	got := <-ing.done
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Fatalf("ingested = %v", got)
	}
}

func TestIngestMatchesResponseBody(t *testing.T) {
	ing := &fakeIngester{done: make(chan []int64, 1)}
	api := &API{Ingester: ing, Log: zap.NewNop()}

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest/matches", strings.NewReader(`{"matchIds":[2,3,5]}`))
	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, req)

	var body ingestResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Accepted != 1 || body.Skipped != 2 {
		t.Fatalf("body = %+v", body)
	}
	<-ing.done
}

func TestIngestMatchesTooMany(t *testing.T) {
	api := &API{Ingester: &fakeIngester{}, Log: zap.NewNop()}

	ids := make([]int64, maxBatch+1)
	b, _ := json.Marshal(ingestRequest{MatchIDs: ids})
	req := httptest.NewRequest(http.MethodPost, "/v1/ingest/matches", strings.NewReader(string(b)))
	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
