package aggregate

import (
	"cmp"
	"slices"

	"github.com/radieske/dota2-scout/internal/scout/dto"
)

// RankedHero é uma linha ordenada para exibição
type RankedHero struct {
	HeroID int
	HeroRecord
}

// RankedBan é uma linha ordenada de bans sofridos
type RankedBan struct {
	HeroID int
	BanRecord
}

// RankedContest é uma linha ordenada de contest rate
type RankedContest struct {
	HeroID int
	ContestRecord
}

// byCountDesc ordena por contagem decrescente e, no empate, heroID crescente
func byCountDesc(countA, countB, heroA, heroB int) int {
	if c := cmp.Compare(countB, countA); c != 0 {
		return c
	}
	return cmp.Compare(heroA, heroB)
}

// RankHeroes ordena um bucket de posição por jogos
func RankHeroes(bucket map[int]HeroRecord) []RankedHero {
	out := make([]RankedHero, 0, len(bucket))
	for id, r := range bucket {
		out = append(out, RankedHero{HeroID: id, HeroRecord: r})
	}
	slices.SortFunc(out, func(a, b RankedHero) int { return byCountDesc(a.Games, b.Games, a.HeroID, b.HeroID) })
	return out
}

// RankByPosition ordena todos os buckets, preservando a ordem de dto.Positions
func RankByPosition(h HeroesByPosition) map[dto.Position][]RankedHero {
	out := make(map[dto.Position][]RankedHero, len(dto.Positions))
	for _, p := range dto.Positions {
		out[p] = RankHeroes(h[p])
	}
	return out
}

// RankBans ordena os bans sofridos por contagem
func RankBans(bans map[int]BanRecord) []RankedBan {
	out := make([]RankedBan, 0, len(bans))
	for id, r := range bans {
		out = append(out, RankedBan{HeroID: id, BanRecord: r})
	}
	slices.SortFunc(out, func(a, b RankedBan) int { return byCountDesc(a.Count, b.Count, a.HeroID, b.HeroID) })
	return out
}

// RankContest ordena o contest rate por contagem total
func RankContest(contest map[int]ContestRecord) []RankedContest {
	out := make([]RankedContest, 0, len(contest))
	for id, r := range contest {
		out = append(out, RankedContest{HeroID: id, ContestRecord: r})
	}
	slices.SortFunc(out, func(a, b RankedContest) int { return byCountDesc(a.Count, b.Count, a.HeroID, b.HeroID) })
	return out
}
