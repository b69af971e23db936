package aggregate

import (
	"slices"

	"github.com/radieske/dota2-scout/internal/scout/dto"
)

// PlayerHeroStats resume o histórico de um jogador com um herói
type PlayerHeroStats struct {
	HeroID       int   `json:"heroId"`
	Games        int   `json:"games"`
	Wins         int   `json:"wins"`
	Losses       int   `json:"losses"`
	TotalKills   int   `json:"totalKills"`
	TotalDeaths  int   `json:"totalDeaths"`
	TotalAssists int   `json:"totalAssists"`
	LastPlayed   int64 `json:"lastPlayed"` // start_date_time mais recente
}

// PlayerLeagueHeroes acumula os heróis usados por playerID nas partidas,
// ordenados por jogos (desc) e heroID (asc) no empate.
// Partidas em que o jogador não aparece são puladas.
func PlayerLeagueHeroes(matches []dto.MatchAPIResponse, playerID int64) []PlayerHeroStats {
	byHero := map[int]PlayerHeroStats{}
	for _, m := range matches {
		i := slices.IndexFunc(m.Players, func(p dto.MatchPlayer) bool { return p.PlayerID == playerID })
		if i < 0 {
			continue
		}
		p := m.Players[i]

		s, ok := byHero[p.HeroID]
		if !ok {
			s = PlayerHeroStats{HeroID: p.HeroID, LastPlayed: m.StartDateTime}
		}
		s.Games++
		// time nulo nunca vence, nem quando winning_team_id também é nulo
		if p.TeamID != nil && m.WonBy(*p.TeamID) {
			s.Wins++
		} else {
			s.Losses++
		}
		s.TotalKills += p.Kills
		s.TotalDeaths += p.Deaths
		s.TotalAssists += p.Assists
		if m.StartDateTime > s.LastPlayed {
			s.LastPlayed = m.StartDateTime
		}
		byHero[p.HeroID] = s
	}

	out := make([]PlayerHeroStats, 0, len(byHero))
	for _, s := range byHero {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b PlayerHeroStats) int {
		return byCountDesc(a.Games, b.Games, a.HeroID, b.HeroID)
	})
	return out
}
