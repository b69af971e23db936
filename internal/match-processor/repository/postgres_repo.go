package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/radieske/dota2-scout/pkg/contracts/events"
)

// PostgresRepo grava partidas normalizadas no Postgres.
// Tudo de uma partida vai num único pgx.Batch dentro de uma transação.
type PostgresRepo struct {
	Pool *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{Pool: pool}
}

const (
	upsertLeague = `
		INSERT INTO league (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING`

	upsertTeam = `
		INSERT INTO team (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET
		  name       = EXCLUDED.name,
		  updated_at = now()`

	linkLeagueTeam = `
		INSERT INTO league_teams (league_id, team_id)
		VALUES ($1, $2)
		ON CONFLICT (league_id, team_id) DO NOTHING`

	upsertMatch = `
		INSERT INTO match
		  (id, league_id, winning_team_id, radiant_team_id, dire_team_id, start_date_time, end_date_time)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET
		  league_id       = EXCLUDED.league_id,
		  winning_team_id = EXCLUDED.winning_team_id,
		  radiant_team_id = EXCLUDED.radiant_team_id,
		  dire_team_id    = EXCLUDED.dire_team_id,
		  start_date_time = EXCLUDED.start_date_time,
		  end_date_time   = EXCLUDED.end_date_time`

	deletePlayers = `DELETE FROM match_player WHERE match_id = $1`
	deleteDraft   = `DELETE FROM match_draft WHERE match_id = $1`

	insertPlayer = `
		INSERT INTO match_player
		  (player_id, match_id, team_id, player_name, hero_id, position, lane, lane_outcome,
		   kills, deaths, assists, last_hits, denies, gpm, xpm, hero_damage, tower_damage)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`

	insertDraft = `
		INSERT INTO match_draft (match_id, "order", hero_id, team_id, is_pick)
		VALUES ($1,$2,$3,$4,$5)`
)

// SaveMatch persiste a partida de forma idempotente: upsert de match/times/liga
// e substituição de jogadores e draft.
func (r *PostgresRepo) SaveMatch(ctx context.Context, e events.MatchIngested) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	br := tx.SendBatch(ctx, BuildBatch(e))
	if err := br.Close(); err != nil {
		return fmt.Errorf("match %d batch: %w", e.Match.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit match %d: %w", e.Match.ID, err)
	}
	return nil
}

// BuildBatch monta os comandos na ordem exigida pelas FKs:
// liga e times antes da partida, partida antes de jogadores e draft.
func BuildBatch(e events.MatchIngested) *pgx.Batch {
	b := &pgx.Batch{}
	m := e.Match

	if m.LeagueID != 0 {
		b.Queue(upsertLeague, m.LeagueID, fmt.Sprintf("League %d", m.LeagueID))
	}
	for _, t := range []*events.Team{e.RadiantTeam, e.DireTeam} {
		if t == nil {
			continue
		}
		b.Queue(upsertTeam, t.ID, t.Name)
		if m.LeagueID != 0 {
			b.Queue(linkLeagueTeam, m.LeagueID, t.ID)
		}
	}

	b.Queue(upsertMatch, m.ID, m.LeagueID, m.WinningTeamID, m.RadiantTeamID, m.DireTeamID, m.StartDateTime, m.EndDateTime)
	b.Queue(deletePlayers, m.ID)
	b.Queue(deleteDraft, m.ID)

	for _, p := range e.Players {
		b.Queue(insertPlayer,
			p.PlayerID, m.ID, p.TeamID, p.PlayerName, p.HeroID, p.Position, p.Lane, p.LaneOutcome,
			p.Kills, p.Deaths, p.Assists, p.LastHits, p.Denies, p.GPM, p.XPM, p.HeroDamage, p.TowerDamage,
		)
	}
	for _, d := range e.Draft {
		b.Queue(insertDraft, m.ID, d.Order, d.HeroID, d.TeamID, d.IsPick)
	}
	return b
}
