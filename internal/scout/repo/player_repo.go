package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/radieske/dota2-scout/internal/scout/dto"
)

// código do Postgres para violação de unique/PK
const uniqueViolation = "23505"

func (r *ReadRepo) ListPlayersByTeam(ctx context.Context, teamID int64) ([]dto.Player, error) {
	const q = `
		SELECT id, name, rank, role, team_id, created_at
		FROM player
		WHERE team_id = $1
		ORDER BY name;
	`
	rows, err := r.DB.QueryContext(ctx, q, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []dto.Player{}
	for rows.Next() {
		var p dto.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Rank, &p.Role, &p.TeamID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ReadRepo) GetPlayer(ctx context.Context, id int64) (dto.Player, error) {
	var p dto.Player
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, rank, role, team_id, created_at FROM player WHERE id=$1`, id,
	).Scan(&p.ID, &p.Name, &p.Rank, &p.Role, &p.TeamID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

func (r *ReadRepo) CreatePlayer(ctx context.Context, p dto.Player) (dto.Player, error) {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO player(id, name, rank, role, team_id) VALUES($1,$2,$3,$4,$5) RETURNING created_at`,
		p.ID, p.Name, p.Rank, p.Role, p.TeamID,
	).Scan(&p.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return p, ErrAlreadyExists
	}
	return p, err
}

// DeletePlayer remove as estatísticas de pubs e depois o jogador, na mesma transação
func (r *ReadRepo) DeletePlayer(ctx context.Context, id int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM player_pub_match_stats WHERE player_id=$1`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM player WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

func (r *ReadRepo) PubStats(ctx context.Context, playerID int64) ([]dto.PlayerPubMatchStats, error) {
	const q = `
		SELECT id, player_id, hero_id, wins, losses, type, last_match_date_time, created_at
		FROM player_pub_match_stats
		WHERE player_id = $1
		ORDER BY type, wins + losses DESC, hero_id;
	`
	rows, err := r.DB.QueryContext(ctx, q, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.PlayerPubMatchStats
	for rows.Next() {
		var s dto.PlayerPubMatchStats
		if err := rows.Scan(&s.ID, &s.PlayerID, &s.HeroID, &s.Wins, &s.Losses, &s.Type, &s.LastMatchDateTime, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ReplacePubStats apaga as estatísticas atuais do jogador e grava as novas (delete-then-insert)
func (r *ReadRepo) ReplacePubStats(ctx context.Context, playerID int64, stats []dto.PlayerPubMatchStats) ([]dto.PlayerPubMatchStats, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists bool
	if err = tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM player WHERE id=$1)`, playerID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM player_pub_match_stats WHERE player_id=$1`, playerID); err != nil {
		return nil, err
	}

	const ins = `
		INSERT INTO player_pub_match_stats(player_id, hero_id, wins, losses, type, last_match_date_time)
		VALUES($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at
	`
	out := make([]dto.PlayerPubMatchStats, 0, len(stats))
	for _, s := range stats {
		s.PlayerID = playerID
		if err = tx.QueryRowContext(ctx, ins, playerID, s.HeroID, s.Wins, s.Losses, s.Type, s.LastMatchDateTime).Scan(&s.ID, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}
