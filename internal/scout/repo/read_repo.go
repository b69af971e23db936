package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/radieske/dota2-scout/internal/scout/dto"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// ReadRepo concentra as consultas do scout-service (lib/pq)
type ReadRepo struct {
	DB *sql.DB
}

func NewReadRepo(db *sql.DB) *ReadRepo { return &ReadRepo{DB: db} }

func (r *ReadRepo) ListLeagues(ctx context.Context) ([]dto.League, error) {
	const q = `
		SELECT id, name, has_divisions, created_at, updated_at
		FROM league
		ORDER BY id;
	`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []dto.League{}
	for rows.Next() {
		var l dto.League
		if err := rows.Scan(&l.ID, &l.Name, &l.HasDivisions, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// TeamsByLeague devolve {leagueId: {teamId: nome}}; liga sem times vira mapa vazio
func (r *ReadRepo) TeamsByLeague(ctx context.Context, leagueID int64) (dto.LeagueTeams, error) {
	const q = `
		SELECT t.id, t.name
		FROM league_teams lt
		JOIN team t ON t.id = lt.team_id
		WHERE lt.league_id = $1
		ORDER BY t.id;
	`
	rows, err := r.DB.QueryContext(ctx, q, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := map[int64]string{}
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		teams[id] = name
	}
	return dto.LeagueTeams{leagueID: teams}, rows.Err()
}

// GetMatches devolve as partidas da liga em que o time jogou de qualquer lado
func (r *ReadRepo) GetMatches(ctx context.Context, leagueID, teamID int64) ([]dto.MatchAPIResponse, error) {
	const q = `
		SELECT id, league_id, winning_team_id, radiant_team_id, dire_team_id, start_date_time, end_date_time
		FROM match
		WHERE league_id = $1 AND (radiant_team_id = $2 OR dire_team_id = $2)
		ORDER BY start_date_time, id;
	`
	return r.loadMatches(ctx, q, leagueID, teamID)
}

// GetMatchesByPlayer devolve as partidas da liga em que o jogador aparece
func (r *ReadRepo) GetMatchesByPlayer(ctx context.Context, leagueID, playerID int64) ([]dto.MatchAPIResponse, error) {
	const q = `
		SELECT id, league_id, winning_team_id, radiant_team_id, dire_team_id, start_date_time, end_date_time
		FROM match
		WHERE league_id = $1
		  AND id IN (SELECT match_id FROM match_player WHERE player_id = $2)
		ORDER BY start_date_time, id;
	`
	return r.loadMatches(ctx, q, leagueID, playerID)
}

// loadMatches busca as partidas e depois jogadores e draft com uma query cada (ANY($1))
func (r *ReadRepo) loadMatches(ctx context.Context, q string, args ...any) ([]dto.MatchAPIResponse, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	var matches []dto.Match
	for rows.Next() {
		var m dto.Match
		if err := rows.Scan(&m.ID, &m.LeagueID, &m.WinningTeamID, &m.RadiantTeamID, &m.DireTeamID, &m.StartDateTime, &m.EndDateTime); err != nil {
			rows.Close()
			return nil, err
		}
		matches = append(matches, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return []dto.MatchAPIResponse{}, nil
	}

	ids := make([]int64, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}

	players, err := r.playersOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	draft, err := r.draftOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	return Assemble(matches, players, draft), nil
}

func (r *ReadRepo) playersOf(ctx context.Context, matchIDs []int64) ([]dto.MatchPlayer, error) {
	const q = `
		SELECT player_id, match_id, team_id, player_name, hero_id, position, lane, lane_outcome,
		       kills, deaths, assists, last_hits, denies, gpm, xpm, hero_damage, tower_damage
		FROM match_player
		WHERE match_id = ANY($1)
		ORDER BY match_id, team_id, position, player_id;
	`
	rows, err := r.DB.QueryContext(ctx, q, pq.Array(matchIDs))
	if err != nil {
		return nil, fmt.Errorf("query match players: %w", err)
	}
	defer rows.Close()
	var out []dto.MatchPlayer
	for rows.Next() {
		var p dto.MatchPlayer
		if err := rows.Scan(&p.PlayerID, &p.MatchID, &p.TeamID, &p.PlayerName, &p.HeroID, &p.Position, &p.Lane, &p.LaneOutcome,
			&p.Kills, &p.Deaths, &p.Assists, &p.LastHits, &p.Denies, &p.GPM, &p.XPM, &p.HeroDamage, &p.TowerDamage); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ReadRepo) draftOf(ctx context.Context, matchIDs []int64) ([]dto.MatchDraftEntry, error) {
	const q = `
		SELECT match_id, "order", hero_id, team_id, is_pick
		FROM match_draft
		WHERE match_id = ANY($1)
		ORDER BY match_id, "order";
	`
	rows, err := r.DB.QueryContext(ctx, q, pq.Array(matchIDs))
	if err != nil {
		return nil, fmt.Errorf("query match draft: %w", err)
	}
	defer rows.Close()
	var out []dto.MatchDraftEntry
	for rows.Next() {
		var d dto.MatchDraftEntry
		if err := rows.Scan(&d.MatchID, &d.Order, &d.HeroID, &d.TeamID, &d.IsPick); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Assemble distribui jogadores e draft nas respectivas partidas, preservando a ordem
// das partidas. Players e Draft nunca ficam nil (serializam como []).
func Assemble(matches []dto.Match, players []dto.MatchPlayer, draft []dto.MatchDraftEntry) []dto.MatchAPIResponse {
	out := make([]dto.MatchAPIResponse, len(matches))
	idx := make(map[int64]int, len(matches))
	for i, m := range matches {
		out[i] = dto.MatchAPIResponse{Match: m, Players: []dto.MatchPlayer{}, Draft: []dto.MatchDraftEntry{}}
		idx[m.ID] = i
	}
	for _, p := range players {
		if i, ok := idx[p.MatchID]; ok {
			out[i].Players = append(out[i].Players, p)
		}
	}
	for _, d := range draft {
		if i, ok := idx[d.MatchID]; ok {
			out[i].Draft = append(out[i].Draft, d)
		}
	}
	return out
}
