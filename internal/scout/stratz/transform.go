package stratz

import (
	"cmp"
	"slices"
	"time"

	"github.com/radieske/dota2-scout/internal/scout/dto"
)

// Top ordena por partidas (desc, empate pelo herói) e corta em n; não altera stats
func Top(stats []HeroStat, n int) []HeroStat {
	out := slices.Clone(stats)
	slices.SortStableFunc(out, func(a, b HeroStat) int {
		if c := cmp.Compare(b.MatchCount, a.MatchCount); c != 0 {
			return c
		}
		return cmp.Compare(a.HeroID, b.HeroID)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// PubStatRows converte o group-by nas linhas de player_pub_match_stats
func PubStatRows(stats []HeroStat, playerID int64, typ dto.PubStatType) []dto.PlayerPubMatchStats {
	rows := make([]dto.PlayerPubMatchStats, 0, len(stats))
	for _, s := range stats {
		row := dto.PlayerPubMatchStats{
			PlayerID: playerID,
			HeroID:   s.HeroID,
			Wins:     s.WinCount,
			Losses:   s.MatchCount - s.WinCount,
			Type:     typ,
		}
		if s.LastMatchDateTime > 0 {
			t := time.Unix(s.LastMatchDateTime, 0).UTC()
			row.LastMatchDateTime = &t
		}
		rows = append(rows, row)
	}
	return rows
}

// PositionIDs converte posições do domínio no formato aceito pelo Stratz
func PositionIDs(positions []dto.Position) []string {
	if len(positions) == 0 {
		return nil
	}
	out := make([]string, 0, len(positions))
	for _, p := range positions {
		if p.Valid() {
			out = append(out, string(p))
		}
	}
	return out
}
