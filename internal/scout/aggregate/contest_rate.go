package aggregate

import "github.com/radieske/dota2-scout/internal/scout/dto"

// ContestRate mede o quanto cada herói foi disputado no conjunto de partidas,
// somando picks (linhas de jogador, dos dois lados) e bans (draft, dos dois lados).
// Picks do draft não são consultados: os jogadores já representam os picks realizados.
func ContestRate(matches []dto.MatchAPIResponse, scoutedTeamID int64) map[int]ContestRecord {
	out := map[int]ContestRecord{}
	for _, m := range matches {
		for _, p := range m.Players {
			out[p.HeroID] = out[p.HeroID].pick(dto.IsTeam(p.TeamID, scoutedTeamID))
		}
		for _, d := range m.Draft {
			if d.IsPick {
				continue
			}
			out[d.HeroID] = out[d.HeroID].ban(dto.IsTeam(d.TeamID, scoutedTeamID))
		}
	}
	return out
}

func (r ContestRecord) pick(ours bool) ContestRecord {
	r.Count++
	r.Picks++
	if ours {
		r.Breakdown.ScoutedTeamPicks++
	} else {
		r.Breakdown.OpponentPicks++
	}
	return r
}

func (r ContestRecord) ban(ours bool) ContestRecord {
	r.Count++
	r.Bans++
	if ours {
		r.Breakdown.ScoutedTeamBans++
	} else {
		r.Breakdown.OpponentBans++
	}
	return r
}
