package stratz

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/radieske/dota2-scout/internal/scout/dto"
)

// FetchPubStats busca as três visões (recentes, top 10 por posição, top 10 geral)
// em paralelo e devolve as linhas prontas para persistir.
func (c *Client) FetchPubStats(ctx context.Context, playerID int64, positions []dto.Position) ([]dto.PlayerPubMatchStats, error) {
	ids := PositionIDs(positions)

	var recent, byPosition, overall []HeroStat
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		recent, err = c.RecentHeroes(gctx, playerID, ids)
		return err
	})
	g.Go(func() (err error) {
		byPosition, err = c.TopHeroesByPosition(gctx, playerID, ids)
		return err
	})
	g.Go(func() (err error) {
		overall, err = c.TopHeroes(gctx, playerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := PubStatRows(recent, playerID, dto.PubStatRecent)
	rows = append(rows, PubStatRows(byPosition, playerID, dto.PubStatTopHeroesByPosition)...)
	rows = append(rows, PubStatRows(overall, playerID, dto.PubStatTopHeroesOverall)...)
	return rows, nil
}
