package opendota

import (
	"cmp"
	"slices"

	"github.com/radieske/dota2-scout/pkg/contracts/events"
)

// Valores de lane da OpenDota: 1=safe, 2=mid, 3=off, 4=jungle
const (
	laneSafe   = 1
	laneMid    = 2
	laneOff    = 3
	laneJungle = 4
)

// Normalize converte a partida da OpenDota nas linhas do nosso esquema.
// IngestID e IngestedAt ficam a cargo de quem publica.
func Normalize(m *Match) events.MatchIngested {
	radiant := resolveTeam(m.RadiantTeamID, m.RadiantTeam, "Radiant")
	dire := resolveTeam(m.DireTeamID, m.DireTeam, "Dire")

	sideTeam := func(isRadiant bool) *int64 {
		t := dire
		if isRadiant {
			t = radiant
		}
		if t == nil {
			return nil
		}
		id := t.ID
		return &id
	}

	row := events.MatchRow{
		ID:            m.MatchID,
		StartDateTime: m.StartTime,
		EndDateTime:   m.StartTime + m.Duration,
		RadiantTeamID: sideTeam(true),
		DireTeamID:    sideTeam(false),
		WinningTeamID: sideTeam(m.RadiantWin),
	}
	if m.LeagueID != nil {
		row.LeagueID = *m.LeagueID
	}

	players := make([]events.PlayerRow, 0, len(m.Players))
	for i := range m.Players {
		p := m.Players[i]
		var playerID int64
		if p.AccountID != nil {
			playerID = *p.AccountID
		}
		players = append(players, events.PlayerRow{
			PlayerID:    playerID,
			MatchID:     m.MatchID,
			TeamID:      sideTeam(p.IsRadiant()),
			PlayerName:  p.Personaname,
			HeroID:      p.HeroID,
			Position:    InferPosition(i, m.Players),
			Lane:        LaneName(p.Lane, p.IsRoaming),
			Kills:       p.Kills,
			Deaths:      p.Deaths,
			Assists:     p.Assists,
			LastHits:    p.LastHits,
			Denies:      p.Denies,
			GPM:         p.GoldPerMin,
			XPM:         p.XPPerMin,
			HeroDamage:  p.HeroDamage,
			TowerDamage: p.TowerDamage,
		})
	}

	draft := make([]events.DraftRow, 0, len(m.PicksBans))
	for _, pb := range m.PicksBans {
		draft = append(draft, events.DraftRow{
			MatchID: m.MatchID,
			Order:   pb.Order,
			HeroID:  pb.HeroID,
			TeamID:  sideTeam(pb.Team == 0),
			IsPick:  pb.IsPick,
		})
	}
	slices.SortStableFunc(draft, func(a, b events.DraftRow) int { return cmp.Compare(a.Order, b.Order) })

	return events.MatchIngested{
		Source:      "opendota",
		Match:       row,
		RadiantTeam: radiant,
		DireTeam:    dire,
		Players:     players,
		Draft:       draft,
	}
}

// resolveTeam prioriza o ID direto e cai para o objeto aninhado; ID 0 é tratado como ausente
func resolveTeam(id *int64, nested *Team, fallbackName string) *events.Team {
	var teamID int64
	switch {
	case id != nil && *id != 0:
		teamID = *id
	case nested != nil && nested.TeamID != nil:
		teamID = *nested.TeamID
	}
	if teamID == 0 {
		return nil
	}

	name := fallbackName
	if nested != nil && nested.Name != "" {
		name = nested.Name
	}
	return &events.Team{ID: teamID, Name: name}
}

// LaneName traduz o código de lane da OpenDota
func LaneName(lane *int, isRoaming *bool) *string {
	var name string
	switch {
	case isRoaming != nil && *isRoaming:
		name = "ROAMING"
	case lane == nil:
		return nil
	case *lane == laneSafe:
		name = "SAFE_LANE"
	case *lane == laneMid:
		name = "MID_LANE"
	case *lane == laneOff:
		name = "OFF_LANE"
	case *lane == laneJungle:
		name = "JUNGLE"
	default:
		return nil
	}
	return &name
}

// InferPosition estima a posição (POSITION_1..5) do jogador idx a partir do lane_role
// e da prioridade de farm dentro do próprio time. Sem lane_role, devolve nil.
//
// mid -> 2, jungle -> 4; safe e off são separados entre core e suporte pelo
// ranking de farm (gpm*0.5 + last_hits*0.5): os três maiores do time são cores.
func InferPosition(idx int, all []Player) *string {
	p := all[idx]
	if p.LaneRole == nil {
		return nil
	}

	var pos string
	switch *p.LaneRole {
	case laneMid:
		pos = "POSITION_2"
	case laneJungle:
		pos = "POSITION_4"
	case laneSafe, laneOff:
		core := farmRank(idx, all) <= 2
		switch {
		case *p.LaneRole == laneSafe && core:
			pos = "POSITION_1"
		case *p.LaneRole == laneSafe:
			pos = "POSITION_5"
		case core:
			pos = "POSITION_3"
		default:
			pos = "POSITION_4"
		}
	default:
		return nil
	}
	return &pos
}

// farmRank devolve a colocação (0 = mais farm) do jogador idx entre os colegas de time
func farmRank(idx int, all []Player) int {
	radiant := all[idx].IsRadiant()

	var mates []int
	for i := range all {
		if all[i].IsRadiant() == radiant {
			mates = append(mates, i)
		}
	}

	score := func(i int) float64 {
		return float64(all[i].GoldPerMin)*0.5 + float64(all[i].LastHits)*0.5
	}
	slices.SortStableFunc(mates, func(a, b int) int { return cmp.Compare(score(b), score(a)) })

	return slices.Index(mates, idx)
}
