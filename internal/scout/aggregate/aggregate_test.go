package aggregate

import (
	"reflect"
	"testing"

	"github.com/radieske/dota2-scout/internal/scout/dto"
)

const (
	scouted  int64 = 100
	opponent int64 = 200
)

func player(playerID int64, team *int64, hero int, pos *dto.Position) dto.MatchPlayer {
	return dto.MatchPlayer{PlayerID: playerID, TeamID: team, HeroID: hero, Position: pos}
}

func ban(team *int64, hero, order int) dto.MatchDraftEntry {
	return dto.MatchDraftEntry{TeamID: team, HeroID: hero, Order: order}
}

func pick(team *int64, hero, order int) dto.MatchDraftEntry {
	return dto.MatchDraftEntry{TeamID: team, HeroID: hero, Order: order, IsPick: true}
}

func match(id int64, winner *int64, players []dto.MatchPlayer, draft []dto.MatchDraftEntry) dto.MatchAPIResponse {
	return dto.MatchAPIResponse{
		Match: dto.Match{
			ID:            id,
			LeagueID:      1,
			WinningTeamID: winner,
			RadiantTeamID: dto.Int64(scouted),
			DireTeamID:    dto.Int64(opponent),
			StartDateTime: 1_700_000_000 + id,
		},
		Players: players,
		Draft:   draft,
	}
}

// scenarioMatches monta as duas partidas do cenário de referência:
// A: 100 vence, herói 1 na posição 1, 200 bane o 7
// B: 100 perde, herói 1 na posição 1, 200 bane o 7 e 100 bane o 1
func scenarioMatches() []dto.MatchAPIResponse {
	us, them := dto.Int64(scouted), dto.Int64(opponent)
	return []dto.MatchAPIResponse{
		match(1, us,
			[]dto.MatchPlayer{player(10, us, 1, dto.Pos(dto.Position1)), player(20, them, 2, dto.Pos(dto.Position1))},
			[]dto.MatchDraftEntry{ban(them, 7, 1), pick(us, 1, 2), pick(them, 2, 3)},
		),
		match(2, them,
			[]dto.MatchPlayer{player(10, us, 1, dto.Pos(dto.Position1)), player(20, them, 3, dto.Pos(dto.Position1))},
			[]dto.MatchDraftEntry{ban(them, 7, 1), ban(us, 1, 2), pick(them, 3, 3)},
		),
	}
}

func TestScenario(t *testing.T) {
	agg := Build(scenarioMatches(), scouted)

	if got, want := agg.HeroesPlayedByPosition[dto.Position1][1], (HeroRecord{Games: 2, Wins: 1, Losses: 1}); got != want {
		t.Errorf("heroesPlayedByPosition.POSITION_1[1] = %+v, want %+v", got, want)
	}
	if got, want := agg.BansAgainst[7], (BanRecord{Count: 2, Wins: 1, Losses: 1}); got != want {
		t.Errorf("bansAgainst[7] = %+v, want %+v", got, want)
	}
	if _, ok := agg.BansAgainst[1]; ok {
		t.Errorf("bansAgainst must not count the scouted team's own ban of hero 1")
	}
	if got := agg.ContestRate[1].Breakdown.ScoutedTeamBans; got != 1 {
		t.Errorf("contestRate[1].breakdown.scoutedTeamBans = %d, want 1", got)
	}
	if got := agg.ContestRate[7].Breakdown.OpponentBans; got != 2 {
		t.Errorf("contestRate[7].breakdown.opponentBans = %d, want 2", got)
	}
	if got, want := agg.ContestRate[1], (ContestRecord{
		Count: 3, Picks: 2, Bans: 1,
		Breakdown: ContestBreakdown{ScoutedTeamPicks: 2, ScoutedTeamBans: 1},
	}); got != want {
		t.Errorf("contestRate[1] = %+v, want %+v", got, want)
	}
}

func TestEmptyInput(t *testing.T) {
	for _, in := range [][]dto.MatchAPIResponse{nil, {}} {
		agg := Build(in, scouted)

		if len(agg.HeroesPlayedByPosition) != 6 {
			t.Fatalf("expected 6 position buckets, got %d", len(agg.HeroesPlayedByPosition))
		}
		for _, p := range dto.Positions {
			bucket, ok := agg.HeroesPlayedByPosition[p]
			if !ok || bucket == nil {
				t.Errorf("bucket %s missing", p)
			}
			if len(bucket) != 0 {
				t.Errorf("bucket %s should be empty, got %v", p, bucket)
			}
		}
		if agg.BansAgainst == nil || len(agg.BansAgainst) != 0 {
			t.Errorf("bansAgainst should be an empty map, got %v", agg.BansAgainst)
		}
		if agg.ContestRate == nil || len(agg.ContestRate) != 0 {
			t.Errorf("contestRate should be an empty map, got %v", agg.ContestRate)
		}
	}
}

func TestHeroesPlayedByPosition(t *testing.T) {
	us, them := dto.Int64(scouted), dto.Int64(opponent)
	garbage := dto.Position("POSITION_9")

	tests := []struct {
		name    string
		matches []dto.MatchAPIResponse
		pos     dto.Position
		hero    int
		want    HeroRecord
	}{
		{
			name:    "null position goes to uncategorized",
			matches: []dto.MatchAPIResponse{match(1, us, []dto.MatchPlayer{player(1, us, 5, nil)}, nil)},
			pos:     dto.Uncategorized,
			hero:    5,
			want:    HeroRecord{Games: 1, Wins: 1},
		},
		{
			name:    "unknown position goes to uncategorized",
			matches: []dto.MatchAPIResponse{match(1, them, []dto.MatchPlayer{player(1, us, 5, &garbage)}, nil)},
			pos:     dto.Uncategorized,
			hero:    5,
			want:    HeroRecord{Games: 1, Losses: 1},
		},
		{
			name:    "opponent players are ignored",
			matches: []dto.MatchAPIResponse{match(1, us, []dto.MatchPlayer{player(1, them, 5, dto.Pos(dto.Position2))}, nil)},
			pos:     dto.Position2,
			hero:    5,
			want:    HeroRecord{},
		},
		{
			name:    "null team player is ignored",
			matches: []dto.MatchAPIResponse{match(1, us, []dto.MatchPlayer{player(1, nil, 5, dto.Pos(dto.Position2))}, nil)},
			pos:     dto.Position2,
			hero:    5,
			want:    HeroRecord{},
		},
		{
			name:    "unknown winner counts as loss",
			matches: []dto.MatchAPIResponse{match(1, nil, []dto.MatchPlayer{player(1, us, 5, dto.Pos(dto.Position3))}, nil)},
			pos:     dto.Position3,
			hero:    5,
			want:    HeroRecord{Games: 1, Losses: 1},
		},
		{
			name:    "match without players contributes nothing",
			matches: []dto.MatchAPIResponse{match(1, us, nil, []dto.MatchDraftEntry{ban(them, 5, 1)})},
			pos:     dto.Position1,
			hero:    5,
			want:    HeroRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HeroesPlayedByPosition(tt.matches, scouted)
			if len(got) != 6 {
				t.Fatalf("expected 6 buckets, got %d", len(got))
			}
			if got[tt.pos][tt.hero] != tt.want {
				t.Errorf("got %+v, want %+v", got[tt.pos][tt.hero], tt.want)
			}
		})
	}
}

func TestHeroesPlayedByPositionCoverage(t *testing.T) {
	matches := fuzzMatches()

	want := map[dto.Position]int{}
	for _, m := range matches {
		for _, p := range m.Players {
			if dto.IsTeam(p.TeamID, scouted) {
				want[p.Bucket()]++
			}
		}
	}

	got := HeroesPlayedByPosition(matches, scouted)
	for _, pos := range dto.Positions {
		sum := 0
		for hero, r := range got[pos] {
			sum += r.Games
			if r.Wins+r.Losses != r.Games {
				t.Errorf("%s hero %d: wins+losses=%d, games=%d", pos, hero, r.Wins+r.Losses, r.Games)
			}
		}
		if sum != want[pos] {
			t.Errorf("%s: sum of games = %d, want %d", pos, sum, want[pos])
		}
	}
}

func TestBansAgainst(t *testing.T) {
	us, them := dto.Int64(scouted), dto.Int64(opponent)

	t.Run("only own bans yields empty map", func(t *testing.T) {
		m := match(1, us, nil, []dto.MatchDraftEntry{ban(us, 1, 1), ban(us, 2, 2), ban(us, 3, 3)})
		got := BansAgainst([]dto.MatchAPIResponse{m}, scouted)
		if len(got) != 0 {
			t.Errorf("expected no bans against, got %v", got)
		}
	})

	t.Run("picks are ignored", func(t *testing.T) {
		m := match(1, us, nil, []dto.MatchDraftEntry{pick(them, 1, 1), pick(us, 2, 2)})
		if got := BansAgainst([]dto.MatchAPIResponse{m}, scouted); len(got) != 0 {
			t.Errorf("expected no bans against, got %v", got)
		}
	})

	t.Run("null team ban counts as opponent ban", func(t *testing.T) {
		m := match(1, them, nil, []dto.MatchDraftEntry{ban(nil, 9, 1)})
		got := BansAgainst([]dto.MatchAPIResponse{m}, scouted)
		if want := (BanRecord{Count: 1, Losses: 1}); got[9] != want {
			t.Errorf("got %+v, want %+v", got[9], want)
		}
	})

	t.Run("empty draft is skipped", func(t *testing.T) {
		m := match(1, us, []dto.MatchPlayer{player(1, us, 1, nil)}, nil)
		if got := BansAgainst([]dto.MatchAPIResponse{m}, scouted); len(got) != 0 {
			t.Errorf("expected empty map, got %v", got)
		}
	})

	t.Run("win loss partition", func(t *testing.T) {
		for hero, r := range BansAgainst(fuzzMatches(), scouted) {
			if r.Wins+r.Losses != r.Count {
				t.Errorf("hero %d: wins+losses=%d, count=%d", hero, r.Wins+r.Losses, r.Count)
			}
		}
	})
}

func TestContestRateIdentity(t *testing.T) {
	matches := fuzzMatches()
	got := ContestRate(matches, scouted)

	totalPicks, totalBans := 0, 0
	for _, m := range matches {
		totalPicks += len(m.Players)
		for _, d := range m.Draft {
			if !d.IsPick {
				totalBans++
			}
		}
	}

	sumPicks, sumBans := 0, 0
	for hero, r := range got {
		if r.Count != r.Picks+r.Bans {
			t.Errorf("hero %d: count=%d, picks+bans=%d", hero, r.Count, r.Picks+r.Bans)
		}
		b := r.Breakdown
		if b.ScoutedTeamPicks+b.OpponentPicks != r.Picks {
			t.Errorf("hero %d: pick breakdown %+v does not sum to %d", hero, b, r.Picks)
		}
		if b.ScoutedTeamBans+b.OpponentBans != r.Bans {
			t.Errorf("hero %d: ban breakdown %+v does not sum to %d", hero, b, r.Bans)
		}
		sumPicks += r.Picks
		sumBans += r.Bans
	}
	if sumPicks != totalPicks || sumBans != totalBans {
		t.Errorf("picks=%d bans=%d, want picks=%d bans=%d", sumPicks, sumBans, totalPicks, totalBans)
	}
}

func TestContestRateIgnoresDraftPicks(t *testing.T) {
	us := dto.Int64(scouted)
	m := match(1, us, nil, []dto.MatchDraftEntry{pick(us, 4, 1)})
	if got := ContestRate([]dto.MatchAPIResponse{m}, scouted); len(got) != 0 {
		t.Errorf("draft picks must not be counted, got %v", got)
	}
}

func TestDeterministicAndInputUntouched(t *testing.T) {
	matches := fuzzMatches()
	before := cloneMatches(matches)

	first := Build(matches, scouted)
	second := Build(matches, scouted)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("two runs over the same input differ")
	}
	if !reflect.DeepEqual(before, matches) {
		t.Errorf("input was mutated by aggregation")
	}
}

func TestPlayerLeagueHeroes(t *testing.T) {
	us, them := dto.Int64(scouted), dto.Int64(opponent)
	p := func(hero, k, d, a int) dto.MatchPlayer {
		mp := player(42, us, hero, nil)
		mp.Kills, mp.Deaths, mp.Assists = k, d, a
		return mp
	}

	matches := []dto.MatchAPIResponse{
		match(1, us, []dto.MatchPlayer{p(8, 10, 2, 5)}, nil),
		match(2, them, []dto.MatchPlayer{p(8, 3, 7, 1)}, nil),
		match(3, us, []dto.MatchPlayer{p(2, 1, 1, 1)}, nil),
		match(4, us, []dto.MatchPlayer{player(99, us, 8, nil)}, nil),
		match(5, us, []dto.MatchPlayer{p(5, 0, 0, 0)}, nil),
	}

	got := PlayerLeagueHeroes(matches, 42)
	want := []PlayerHeroStats{
		{HeroID: 8, Games: 2, Wins: 1, Losses: 1, TotalKills: 13, TotalDeaths: 9, TotalAssists: 6, LastPlayed: 1_700_000_002},
		{HeroID: 2, Games: 1, Wins: 1, TotalKills: 1, TotalDeaths: 1, TotalAssists: 1, LastPlayed: 1_700_000_003},
		{HeroID: 5, Games: 1, Wins: 1, LastPlayed: 1_700_000_005},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PlayerLeagueHeroes() =\n%+v\nwant\n%+v", got, want)
	}

	if got := PlayerLeagueHeroes(matches, 7); len(got) != 0 {
		t.Errorf("unknown player should yield no heroes, got %v", got)
	}
}

func TestPlayerLeagueHeroesNullTeamIsLoss(t *testing.T) {
	tests := []struct {
		name   string
		winner *int64
	}{
		{"null winner", nil},
		{"known winner", dto.Int64(scouted)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := match(1, tt.winner, []dto.MatchPlayer{player(42, nil, 3, nil)}, nil)
			got := PlayerLeagueHeroes([]dto.MatchAPIResponse{m}, 42)
			if len(got) != 1 || got[0].Wins != 0 || got[0].Losses != 1 {
				t.Errorf("got %+v, want one loss", got)
			}
		})
	}
}

func TestRankHeroes(t *testing.T) {
	got := RankHeroes(map[int]HeroRecord{
		3: {Games: 2},
		1: {Games: 2},
		9: {Games: 5},
	})
	ids := []int{}
	for _, r := range got {
		ids = append(ids, r.HeroID)
	}
	if want := []int{9, 1, 3}; !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestRankBansAndContest(t *testing.T) {
	agg := Build(scenarioMatches(), scouted)

	bans := RankBans(agg.BansAgainst)
	if len(bans) != 1 || bans[0].HeroID != 7 {
		t.Errorf("RankBans() = %+v", bans)
	}

	contest := RankContest(agg.ContestRate)
	if len(contest) == 0 || contest[0].HeroID != 1 || contest[0].Count != 3 {
		t.Errorf("RankContest() first = %+v, want hero 1 with count 3", contest)
	}

	byPos := RankByPosition(agg.HeroesPlayedByPosition)
	if len(byPos) != 6 || len(byPos[dto.Position1]) != 1 {
		t.Errorf("RankByPosition() = %+v", byPos)
	}
}

// fuzzMatches gera um conjunto determinístico com todos os casos de borda misturados
func fuzzMatches() []dto.MatchAPIResponse {
	us, them := dto.Int64(scouted), dto.Int64(opponent)
	teams := []*int64{us, them, nil}
	positions := []*dto.Position{
		dto.Pos(dto.Position1), dto.Pos(dto.Position2), dto.Pos(dto.Position3),
		dto.Pos(dto.Position4), dto.Pos(dto.Position5), nil,
	}
	winners := []*int64{us, them, nil}

	var out []dto.MatchAPIResponse
	for i := 0; i < 30; i++ {
		var players []dto.MatchPlayer
		if i%7 != 0 {
			for j := 0; j < 10; j++ {
				players = append(players, player(int64(j), teams[(i+j)%3], (i*3+j)%20+1, positions[(i+j)%6]))
			}
		}
		var draft []dto.MatchDraftEntry
		if i%5 != 0 {
			for j := 0; j < 14; j++ {
				e := dto.MatchDraftEntry{MatchID: int64(i), Order: j, HeroID: (i+j*2)%25 + 1, TeamID: teams[(i*j)%3], IsPick: j%3 == 0}
				draft = append(draft, e)
			}
		}
		out = append(out, match(int64(i), winners[i%3], players, draft))
	}
	return out
}

func cloneMatches(in []dto.MatchAPIResponse) []dto.MatchAPIResponse {
	out := make([]dto.MatchAPIResponse, len(in))
	for i, m := range in {
		out[i] = m
		out[i].Players = append([]dto.MatchPlayer(nil), m.Players...)
		out[i].Draft = append([]dto.MatchDraftEntry(nil), m.Draft...)
	}
	return out
}
