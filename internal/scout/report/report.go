// Package report monta o relatório de heróis de um jogador (pubs via Stratz)
// no formato texto usado pelo CLI scout-report.
package report

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/radieske/dota2-scout/internal/scout/dto"
	"github.com/radieske/dota2-scout/internal/scout/heroes"
	"github.com/radieske/dota2-scout/internal/scout/stratz"
)

// ParsePositions traduz o papel informado no CLI para as posições do Stratz
func ParsePositions(s string) ([]dto.Position, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CARRY":
		return []dto.Position{dto.Position1}, nil
	case "MID":
		return []dto.Position{dto.Position2}, nil
	case "OFFLANE":
		return []dto.Position{dto.Position3}, nil
	case "SOFT_SUPPORT":
		return []dto.Position{dto.Position4}, nil
	case "HARD_SUPPORT":
		return []dto.Position{dto.Position5}, nil
	case "SUPPORT":
		return []dto.Position{dto.Position4, dto.Position5}, nil
	}
	return nil, fmt.Errorf("invalid position: %q", s)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// RelativeTime descreve há quanto tempo foi ts (unix, segundos).
// Entre 28 e 29 dias o mês ainda é 0, então vira "4 weeks ago".
func RelativeTime(now time.Time, ts int64) string {
	secs := int(now.Unix() - ts)
	if secs < 60 {
		return "just now"
	}
	minutes := secs / 60
	if minutes < 60 {
		return plural(minutes, "minute")
	}
	hours := minutes / 60
	if hours < 24 {
		return plural(hours, "hour")
	}
	days := hours / 24
	if days < 7 {
		return plural(days, "day")
	}
	if weeks := days / 7; weeks < 4 {
		return plural(weeks, "week")
	}
	if months := days / 30; months < 12 {
		if months == 0 {
			return "4 weeks ago"
		}
		return plural(months, "month")
	}
	return plural(days/365, "year")
}

// FormatLine gera "Hero: W-L (pct%), <tempo relativo>"
func FormatLine(s stratz.HeroStat, now time.Time) string {
	pct := 0.0
	if s.MatchCount > 0 {
		pct = math.Round(float64(s.WinCount) / float64(s.MatchCount) * 100)
	}
	return fmt.Sprintf("%s: %d-%d (%.0f%%), %s",
		heroes.Name(s.HeroID), s.WinCount, s.MatchCount-s.WinCount, pct, RelativeTime(now, s.LastMatchDateTime))
}

// Source é o subconjunto do cliente Stratz usado pelo relatório
type Source interface {
	RecentHeroes(ctx context.Context, steamID int64, positions []string) ([]stratz.HeroStat, error)
	TopHeroesByPosition(ctx context.Context, steamID int64, positions []string) ([]stratz.HeroStat, error)
	TopHeroes(ctx context.Context, steamID int64) ([]stratz.HeroStat, error)
}

type Report struct {
	Recent     []stratz.HeroStat
	ByPosition []stratz.HeroStat
	Overall    []stratz.HeroStat
}

// Fetch busca as três visões em paralelo
func Fetch(ctx context.Context, src Source, playerID int64, positions []dto.Position) (Report, error) {
	ids := stratz.PositionIDs(positions)

	var r Report
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		r.Recent, err = src.RecentHeroes(gctx, playerID, ids)
		return err
	})
	g.Go(func() (err error) {
		r.ByPosition, err = src.TopHeroesByPosition(gctx, playerID, ids)
		return err
	})
	g.Go(func() (err error) {
		r.Overall, err = src.TopHeroes(gctx, playerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return r, nil
}

// Print escreve as três seções, cada uma ordenada por partidas (desc)
func Print(w io.Writer, r Report, now time.Time) error {
	sections := []struct {
		title string
		stats []stratz.HeroStat
	}{
		{"Recent heroes:", r.Recent},
		{"Top heroes by position:", r.ByPosition},
		{"Top 10 heroes:", r.Overall},
	}
	for _, s := range sections {
		stats := slices.Clone(s.stats)
		slices.SortStableFunc(stats, func(a, b stratz.HeroStat) int { return cmp.Compare(b.MatchCount, a.MatchCount) })

		if _, err := fmt.Fprintln(w, s.title); err != nil {
			return err
		}
		for _, st := range stats {
			if _, err := fmt.Fprintln(w, FormatLine(st, now)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
