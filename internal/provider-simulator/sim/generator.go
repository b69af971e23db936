package sim

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/radieske/dota2-scout/internal/match-ingest/opendota"
	"github.com/radieske/dota2-scout/internal/scout/heroes"
)

// baseStart é o start_time da primeira partida de cada liga (2024-01-01 UTC)
const (
	baseStart    = 1704067200
	matchSpacing = 3 * 60 * 60
)

// draftPicks marca quais das 24 entradas do draft são picks; o resto são bans.
// Os times alternam a cada entrada, o que dá 5 picks e 7 bans para cada lado.
var draftPicks = map[int]bool{7: true, 8: true, 12: true, 13: true, 14: true, 15: true, 16: true, 17: true, 22: true, 23: true}

const draftSize = 24

type leagueState struct {
	league League
	ids    []int64
}

// Generator produz partidas no formato da OpenDota. Cada partida é derivada
// de (seed, match_id): repetir a consulta devolve sempre o mesmo JSON.
type Generator struct {
	seed uint64

	mu      sync.RWMutex
	leagues map[int64]*leagueState
	byMatch map[int64]*leagueState
}

func NewGenerator(seed uint64, leagueIDs []int64, perLeague int) *Generator {
	g := &Generator{
		seed:    seed,
		leagues: make(map[int64]*leagueState, len(leagueIDs)),
		byMatch: make(map[int64]*leagueState),
	}
	for _, id := range leagueIDs {
		g.leagues[id] = &leagueState{league: NewLeague(id)}
		for i := 0; i < perLeague; i++ {
			g.AddMatch(id)
		}
	}
	return g
}

// AddMatch cria a próxima partida da liga e devolve o ID; false se a liga não existe
func (g *Generator) AddMatch(leagueID int64) (int64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, ok := g.leagues[leagueID]
	if !ok {
		return 0, false
	}
	id := leagueID*100000 + int64(len(st.ids)) + 1
	st.ids = append(st.ids, id)
	g.byMatch[id] = st
	return id, true
}

// MatchIDs devolve uma cópia dos IDs da liga
func (g *Generator) MatchIDs(leagueID int64) ([]int64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	st, ok := g.leagues[leagueID]
	if !ok {
		return nil, false
	}
	return slices.Clone(st.ids), true
}

// Total conta as partidas geradas em todas as ligas
func (g *Generator) Total() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.byMatch)
}

func (g *Generator) Match(matchID int64) (opendota.Match, bool) {
	g.mu.RLock()
	st, ok := g.byMatch[matchID]
	g.mu.RUnlock()
	if !ok {
		return opendota.Match{}, false
	}

	seq := matchID - st.league.ID*100000 - 1
	return build(rand.New(rand.NewPCG(g.seed, uint64(matchID))), st.league, matchID, seq), true
}

func build(r *rand.Rand, l League, matchID, seq int64) opendota.Match {
	n := len(l.Teams)
	i := r.IntN(n)
	j := (i + 1 + r.IntN(n-1)) % n
	sides := [2]Team{l.Teams[i], l.Teams[j]}

	leagueID := l.ID
	m := opendota.Match{
		MatchID:       matchID,
		RadiantWin:    r.IntN(2) == 0,
		StartTime:     baseStart + seq*matchSpacing,
		Duration:      int64(1500 + r.IntN(2400)),
		LeagueID:      &leagueID,
		RadiantTeamID: ptr(sides[0].ID),
		DireTeamID:    ptr(sides[1].ID),
		RadiantTeam:   &opendota.Team{TeamID: ptr(sides[0].ID), Name: sides[0].Name},
		DireTeam:      &opendota.Team{TeamID: ptr(sides[1].ID), Name: sides[1].Name},
	}

	pool := heroes.All()
	r.Shuffle(len(pool), func(a, b int) { pool[a], pool[b] = pool[b], pool[a] })

	// lado que começa o draft
	first := r.IntN(2)
	var picks [2][]int
	for order := 0; order < draftSize; order++ {
		side := (order + first) % 2
		hero := pool[order].ID
		m.PicksBans = append(m.PicksBans, opendota.PickBan{
			IsPick: draftPicks[order],
			HeroID: hero,
			Team:   side,
			Order:  order,
		})
		if draftPicks[order] {
			picks[side] = append(picks[side], hero)
		}
	}

	for side := 0; side < 2; side++ {
		for pos := 0; pos < 5; pos++ {
			m.Players = append(m.Players, player(r, sides[side], side, pos, picks[side][pos], m.Duration))
		}
	}
	return m
}

// perfil de farm por posição: cores sempre acima dos suportes
var farm = [5]struct{ gpm, lh int }{
	{620, 300}, {560, 260}, {470, 180}, {320, 50}, {270, 30},
}

// lane_role por posição (1 safe, 2 mid, 3 off)
var laneRoles = [5]int{1, 2, 3, 3, 1}

func player(r *rand.Rand, t Team, side, pos, hero int, duration int64) opendota.Player {
	slot := pos
	if side == 1 {
		slot = 128 + pos
	}
	name := fmt.Sprintf("%s %d", t.Name, pos+1)
	minutes := int(duration / 60)
	lh := farm[pos].lh * minutes / 35

	return opendota.Player{
		AccountID:   ptr(t.Players[pos]),
		Personaname: &name,
		HeroID:      hero,
		PlayerSlot:  slot,
		Kills:       r.IntN(12),
		Deaths:      r.IntN(10),
		Assists:     r.IntN(20),
		LastHits:    lh + r.IntN(20),
		Denies:      r.IntN(15),
		GoldPerMin:  farm[pos].gpm + r.IntN(60),
		XPPerMin:    farm[pos].gpm + r.IntN(80),
		HeroDamage:  5000 + r.IntN(30000),
		TowerDamage: r.IntN(8000),
		Lane:        ptr(laneRoles[pos]),
		LaneRole:    ptr(laneRoles[pos]),
		IsRoaming:   ptr(pos == 3 && r.IntN(4) == 0),
	}
}

func ptr[T any](v T) *T { return &v }
