package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/dota2-scout/internal/match-ingest/service"
)

// maxBatch limita quantos IDs uma requisição admin pode enfileirar
const maxBatch = 1000

// Ingester é o subconjunto do service.Ingester usado pela API admin
type Ingester interface {
	Fresh(matchIDs []int64) ([]int64, int)
	IngestMatches(ctx context.Context, matchIDs []int64) (service.Result, error)
}

type API struct {
	Ingester Ingester
	Log      *zap.Logger
	// BaseCtx é o contexto do processo; a ingestão roda depois da resposta 202
	BaseCtx context.Context
}

type ingestRequest struct {
	MatchIDs []int64 `json:"matchIds"`
}

type ingestResponse struct {
	Accepted int `json:"accepted"`
	Skipped  int `json:"skipped"`
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/ingest/matches", a.ingestMatches)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *API) ingestMatches(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if len(req.MatchIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "matchIds is required"})
		return
	}
	if len(req.MatchIDs) > maxBatch {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "too many matchIds"})
		return
	}

	fresh, skipped := a.Ingester.Fresh(req.MatchIDs)
	if len(fresh) > 0 {
		ctx := a.BaseCtx
		if ctx == nil {
			ctx = context.Background()
		}
		go func() {
			res, err := a.Ingester.IngestMatches(ctx, fresh)
			if err != nil {
				a.Log.Warn("admin ingest interrupted", zap.Error(err))
				return
			}
			a.Log.Info("admin ingest done",
				zap.Int("published", res.Published),
				zap.Int("not_found", res.NotFound),
				zap.Int("failed", res.Failed),
			)
		}()
	}

	writeJSON(w, http.StatusAccepted, ingestResponse{Accepted: len(fresh), Skipped: skipped})
}
