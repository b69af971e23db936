package repo

import (
	"testing"

	"github.com/radieske/dota2-scout/internal/scout/dto"
)

func TestAssemble(t *testing.T) {
	matches := []dto.Match{{ID: 2}, {ID: 1}, {ID: 3}}
	players := []dto.MatchPlayer{
		{MatchID: 1, PlayerID: 10},
		{MatchID: 2, PlayerID: 20},
		{MatchID: 1, PlayerID: 11},
		{MatchID: 99, PlayerID: 99}, // partida fora do conjunto
	}
	draft := []dto.MatchDraftEntry{{MatchID: 2, Order: 0}, {MatchID: 2, Order: 1}}

	got := Assemble(matches, players, draft)

	if len(got) != 3 || got[0].ID != 2 || got[1].ID != 1 || got[2].ID != 3 {
		t.Fatalf("order not preserved: %+v", got)
	}
	if len(got[1].Players) != 2 || got[1].Players[0].PlayerID != 10 || got[1].Players[1].PlayerID != 11 {
		t.Errorf("match 1 players = %+v", got[1].Players)
	}
	if len(got[0].Draft) != 2 || len(got[1].Draft) != 0 {
		t.Errorf("draft distribution wrong")
	}
	if got[2].Players == nil || got[2].Draft == nil {
		t.Error("empty slices must not be nil")
	}
}
