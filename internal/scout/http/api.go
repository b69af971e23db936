package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/dota2-scout/internal/scout/aggregate"
	"github.com/radieske/dota2-scout/internal/scout/cache"
	"github.com/radieske/dota2-scout/internal/scout/dto"
	"github.com/radieske/dota2-scout/internal/scout/heroes"
	"github.com/radieske/dota2-scout/internal/scout/repo"
	"github.com/radieske/dota2-scout/internal/scout/ws"
	sharedcache "github.com/radieske/dota2-scout/internal/shared/cache"
)

// Repository é o acesso ao Postgres usado pelos handlers (implementado por repo.ReadRepo)
type Repository interface {
	ListLeagues(ctx context.Context) ([]dto.League, error)
	TeamsByLeague(ctx context.Context, leagueID int64) (dto.LeagueTeams, error)
	GetMatches(ctx context.Context, leagueID, teamID int64) ([]dto.MatchAPIResponse, error)
	GetMatchesByPlayer(ctx context.Context, leagueID, playerID int64) ([]dto.MatchAPIResponse, error)

	ListPlayersByTeam(ctx context.Context, teamID int64) ([]dto.Player, error)
	GetPlayer(ctx context.Context, id int64) (dto.Player, error)
	CreatePlayer(ctx context.Context, p dto.Player) (dto.Player, error)
	DeletePlayer(ctx context.Context, id int64) error

	PubStats(ctx context.Context, playerID int64) ([]dto.PlayerPubMatchStats, error)
	ReplacePubStats(ctx context.Context, playerID int64, stats []dto.PlayerPubMatchStats) ([]dto.PlayerPubMatchStats, error)
}

// PubStatsFetcher busca as estatísticas de pubs no Stratz
type PubStatsFetcher interface {
	FetchPubStats(ctx context.Context, playerID int64, positions []dto.Position) ([]dto.PlayerPubMatchStats, error)
}

// API expõe os endpoints REST do scout-service
type API struct {
	Repo   Repository
	Cache  *cache.Cache    // opcional
	Stratz PubStatsFetcher // opcional; sem ele o refresh de pubs responde 503
	Hub    *ws.Hub         // opcional
	Log    *zap.Logger

	OnCacheHit  func() // métricas
	OnCacheMiss func() // métricas

	// Middlewares rodam dentro do router, antes das rotas (ex.: Instrument)
	Middlewares []func(http.Handler) http.Handler
}

// MatchesResponse é o payload de GET /v1/matches
type MatchesResponse struct {
	Matches   []dto.MatchAPIResponse `json:"matches"`
	Aggregate aggregate.Aggregate    `json:"aggregate"`
}

type pubStatsResponse struct {
	Success bool         `json:"success"`
	Data    dto.PubStats `json:"data"`
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(a.Middlewares...)
	r.Get("/v1/leagues", a.listLeagues)
	r.Get("/v1/leagues/{leagueId}/teams", a.listTeams)
	r.Get("/v1/matches", a.getMatches)
	r.Get("/v1/heroes", a.listHeroes)

	r.Get("/v1/players", a.listPlayers)
	r.Post("/v1/players", a.createPlayer)
	r.Delete("/v1/players/{playerId}", a.deletePlayer)
	r.Get("/v1/players/{playerId}/league-heroes", a.playerLeagueHeroes)
	r.Get("/v1/players/{playerId}/pub-stats", a.getPubStats)
	r.Post("/v1/players/{playerId}/pub-stats", a.refreshPubStats)

	if a.Hub != nil {
		r.Get("/v1/ws", a.Hub.HandleWS)
	}
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// idParam lê um ID positivo da query string ou da rota
func idParam(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

// cached implementa o cache-aside: falhas do Redis viram miss e nunca derrubam a requisição
func cached[T any](ctx context.Context, a *API, key string, tags []string, load func() (T, error)) (T, error) {
	if a.Cache != nil {
		var v T
		ok, err := a.Cache.Get(ctx, key, &v)
		if err != nil {
			a.Log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		if ok && err == nil {
			if a.OnCacheHit != nil {
				a.OnCacheHit()
			}
			return v, nil
		}
		if a.OnCacheMiss != nil {
			a.OnCacheMiss()
		}
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if a.Cache != nil {
		if err := a.Cache.Set(ctx, key, v, tags...); err != nil {
			a.Log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}

func (a *API) listLeagues(w http.ResponseWriter, r *http.Request) {
	leagues, err := cached(r.Context(), a, cache.LeaguesKey, []string{sharedcache.LeaguesTag}, func() ([]dto.League, error) {
		return a.Repo.ListLeagues(r.Context())
	})
	if err != nil {
		a.Log.Error("list leagues", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch league data")
		return
	}
	writeJSON(w, http.StatusOK, leagues)
}

func (a *API) listTeams(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := idParam(chi.URLParam(r, "leagueId"))
	if !ok {
		writeError(w, http.StatusBadRequest, "leagueId is required")
		return
	}
	teams, err := cached(r.Context(), a, cache.TeamsKey(leagueID), []string{sharedcache.LeagueTag(leagueID)}, func() (dto.LeagueTeams, error) {
		return a.Repo.TeamsByLeague(r.Context(), leagueID)
	})
	if err != nil {
		a.Log.Error("list teams", zap.Int64("league_id", leagueID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch teams data")
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// getMatches devolve as partidas de (liga, time) e a agregação sobre elas
func (a *API) getMatches(w http.ResponseWriter, r *http.Request) {
	leagueID, okL := idParam(r.URL.Query().Get("leagueId"))
	teamID, okT := idParam(r.URL.Query().Get("teamId"))
	if !okL || !okT {
		writeError(w, http.StatusBadRequest, "leagueId and teamId are required")
		return
	}

	tags := []string{sharedcache.LeagueTag(leagueID), sharedcache.TeamTag(teamID)}
	resp, err := cached(r.Context(), a, cache.MatchesKey(leagueID, teamID), tags, func() (MatchesResponse, error) {
		matches, err := a.Repo.GetMatches(r.Context(), leagueID, teamID)
		if err != nil {
			return MatchesResponse{}, err
		}
		return MatchesResponse{Matches: matches, Aggregate: aggregate.Build(matches, teamID)}, nil
	})
	if err != nil {
		a.Log.Error("get matches", zap.Int64("league_id", leagueID), zap.Int64("team_id", teamID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch matches, please try again")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) listHeroes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, heroes.All())
}

func (a *API) listPlayers(w http.ResponseWriter, r *http.Request) {
	teamID, ok := idParam(r.URL.Query().Get("teamId"))
	if !ok {
		writeError(w, http.StatusBadRequest, "teamId is required")
		return
	}
	players, err := a.Repo.ListPlayersByTeam(r.Context(), teamID)
	if err != nil {
		a.Log.Error("list players", zap.Int64("team_id", teamID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch players")
		return
	}
	writeJSON(w, http.StatusOK, players)
}

type createPlayerRequest struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Rank   string `json:"rank"`
	Role   string `json:"role"`
	TeamID int64  `json:"team_id"`
}

// createPlayer cadastra o jogador e tenta buscar as pubs dele; falha no Stratz não impede o cadastro
func (a *API) createPlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.ID <= 0 || req.Name == "" || req.Rank == "" || req.Role == "" || req.TeamID <= 0 {
		writeError(w, http.StatusBadRequest, "id, name, rank, role, and team_id are required")
		return
	}

	p, err := a.Repo.CreatePlayer(r.Context(), dto.Player{ID: req.ID, Name: req.Name, Rank: req.Rank, Role: req.Role, TeamID: req.TeamID})
	if errors.Is(err, repo.ErrAlreadyExists) {
		writeError(w, http.StatusConflict, "player already exists")
		return
	}
	if err != nil {
		a.Log.Error("create player", zap.Int64("player_id", req.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create player")
		return
	}

	if a.Stratz != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()
		if _, err := a.storePubStats(ctx, p.ID, dto.RolePositions(p.Role)); err != nil {
			a.Log.Warn("pub stats fetch failed", zap.Int64("player_id", p.ID), zap.Error(err))
		}
	}

	writeJSON(w, http.StatusCreated, p)
}

func (a *API) deletePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(chi.URLParam(r, "playerId"))
	if !ok {
		writeError(w, http.StatusBadRequest, "playerId is required")
		return
	}
	err := a.Repo.DeletePlayer(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}
	if err != nil {
		a.Log.Error("delete player", zap.Int64("player_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete player")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// playerLeagueHeroes devolve o histórico de heróis do jogador numa liga
func (a *API) playerLeagueHeroes(w http.ResponseWriter, r *http.Request) {
	playerID, okP := idParam(chi.URLParam(r, "playerId"))
	leagueID, okL := idParam(r.URL.Query().Get("leagueId"))
	if !okP || !okL {
		writeError(w, http.StatusBadRequest, "playerId and leagueId are required")
		return
	}

	stats, err := cached(r.Context(), a, cache.PlayerHeroesKey(leagueID, playerID), []string{sharedcache.LeagueTag(leagueID)}, func() ([]aggregate.PlayerHeroStats, error) {
		matches, err := a.Repo.GetMatchesByPlayer(r.Context(), leagueID, playerID)
		if err != nil {
			return nil, err
		}
		return aggregate.PlayerLeagueHeroes(matches, playerID), nil
	})
	if err != nil {
		a.Log.Error("player league heroes", zap.Int64("player_id", playerID), zap.Int64("league_id", leagueID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch player heroes")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) getPubStats(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(chi.URLParam(r, "playerId"))
	if !ok {
		writeError(w, http.StatusBadRequest, "playerId must be a valid number")
		return
	}
	rows, err := a.Repo.PubStats(r.Context(), id)
	if err != nil {
		a.Log.Error("get pub stats", zap.Int64("player_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch player stats")
		return
	}
	writeJSON(w, http.StatusOK, pubStatsResponse{Success: true, Data: dto.GroupPubStats(rows)})
}

type refreshRequest struct {
	Positions []dto.Position `json:"positions"`
}

// refreshPubStats busca novamente no Stratz; sem posições no body usa o papel do jogador
func (a *API) refreshPubStats(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(chi.URLParam(r, "playerId"))
	if !ok {
		writeError(w, http.StatusBadRequest, "playerId must be a valid number")
		return
	}
	if a.Stratz == nil {
		writeError(w, http.StatusServiceUnavailable, "stratz is not configured")
		return
	}

	var req refreshRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "positions must be an array")
			return
		}
	}

	p, err := a.Repo.GetPlayer(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch and store player stats")
		return
	}

	positions := req.Positions
	if len(positions) == 0 {
		positions = dto.RolePositions(p.Role)
	}

	rows, err := a.storePubStats(r.Context(), id, positions)
	var fetchErr *fetchError
	switch {
	case errors.As(err, &fetchErr):
		a.Log.Warn("stratz fetch failed", zap.Int64("player_id", id), zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to fetch data from Stratz API")
		return
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, http.StatusNotFound, "player not found")
		return
	case err != nil:
		a.Log.Error("store pub stats", zap.Int64("player_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch and store player stats")
		return
	}
	writeJSON(w, http.StatusOK, pubStatsResponse{Success: true, Data: dto.GroupPubStats(rows)})
}

// fetchError separa falhas do provedor (502) das falhas do banco (500)
type fetchError struct{ err error }

func (e *fetchError) Error() string {
	return "stratz: " + e.err.Error()
}

func (e *fetchError) Unwrap() error {
	return e.err
}

func (a *API) storePubStats(ctx context.Context, playerID int64, positions []dto.Position) ([]dto.PlayerPubMatchStats, error) {
	rows, err := a.Stratz.FetchPubStats(ctx, playerID, positions)
	if err != nil {
		return nil, &fetchError{err: err}
	}
	return a.Repo.ReplacePubStats(ctx, playerID, rows)
}
