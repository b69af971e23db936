package sim

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Server expõe o Generator nas mesmas rotas da OpenDota
type Server struct {
	Gen *Generator
	Log *zap.Logger

	OnServed func() // métricas
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/leagues/{leagueId}/matchIds", s.leagueMatchIDs)
	r.Get("/api/matches/{matchId}", s.match)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) leagueMatchIDs(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "leagueId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid league id"})
		return
	}
	ids, ok := s.Gen.MatchIDs(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) match(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "matchId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid match id"})
		return
	}
	m, ok := s.Gen.Match(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not Found"})
		return
	}
	if s.OnServed != nil {
		s.OnServed()
	}
	s.Log.Debug("match served", zap.Int64("match_id", id))
	writeJSON(w, http.StatusOK, m)
}
