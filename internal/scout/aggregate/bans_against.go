package aggregate

import "github.com/radieske/dota2-scout/internal/scout/dto"

// BansAgainst conta os bans feitos pelos adversários do time observado.
// Bans do próprio time não entram; ban com team_id nulo conta como do adversário.
// Wins/Losses refletem o resultado do time observado na partida do ban.
// Partida sem draft é ignorada (draft desconhecido, não "zero bans").
func BansAgainst(matches []dto.MatchAPIResponse, scoutedTeamID int64) map[int]BanRecord {
	out := map[int]BanRecord{}
	for _, m := range matches {
		if len(m.Draft) == 0 {
			continue
		}
		won := m.WonBy(scoutedTeamID)
		for _, d := range m.Draft {
			if d.IsPick || dto.IsTeam(d.TeamID, scoutedTeamID) {
				continue
			}
			out[d.HeroID] = out[d.HeroID].add(won)
		}
	}
	return out
}

func (r BanRecord) add(won bool) BanRecord {
	r.Count++
	if won {
		r.Wins++
	} else {
		r.Losses++
	}
	return r
}
