package aggregate

import "github.com/radieske/dota2-scout/internal/scout/dto"

// NewHeroesByPosition devolve o formato vazio canônico: os seis buckets, todos vazios
func NewHeroesByPosition() HeroesByPosition {
	out := make(HeroesByPosition, len(dto.Positions))
	for _, p := range dto.Positions {
		out[p] = map[int]HeroRecord{}
	}
	return out
}

// HeroesPlayedByPosition conta os heróis jogados pelo próprio time observado,
// agrupados pela posição do jogador (UNCATEGORIZED quando ausente).
// Jogadores do outro lado são ignorados.
func HeroesPlayedByPosition(matches []dto.MatchAPIResponse, scoutedTeamID int64) HeroesByPosition {
	out := NewHeroesByPosition()
	for _, m := range matches {
		won := m.WonBy(scoutedTeamID)
		for _, p := range m.Players {
			if !dto.IsTeam(p.TeamID, scoutedTeamID) {
				continue
			}
			bucket := out[p.Bucket()]
			bucket[p.HeroID] = bucket[p.HeroID].add(won)
		}
	}
	return out
}

func (r HeroRecord) add(won bool) HeroRecord {
	r.Games++
	if won {
		r.Wins++
	} else {
		r.Losses++
	}
	return r
}
