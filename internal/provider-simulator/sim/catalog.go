package sim

import "fmt"

// Catálogo fixo de times usados nas partidas simuladas
var teamCatalog = []string{
	"Team Spirit", "Gaimin Gladiators", "Team Liquid", "Tundra Esports",
	"BetBoom Team", "Team Falcons", "Xtreme Gaming", "Shopify Rebellion",
}

// TeamsPerLeague é quantos times do catálogo entram em cada liga
const TeamsPerLeague = 6

type Team struct {
	ID      int64
	Name    string
	Players [5]int64 // account ids, índice = posição - 1
}

type League struct {
	ID    int64
	Name  string
	Teams []Team
}

// NewLeague monta uma liga com times e jogadores derivados do ID,
// então o mesmo ID sempre gera os mesmos times.
func NewLeague(id int64) League {
	l := League{ID: id, Name: fmt.Sprintf("Simulated League %d", id)}
	for k := 0; k < TeamsPerLeague; k++ {
		name := teamCatalog[(int(id)+k)%len(teamCatalog)]
		t := Team{ID: id*1000 + int64(k) + 1, Name: name}
		for p := range t.Players {
			t.Players[p] = t.ID*10 + int64(p) + 1
		}
		l.Teams = append(l.Teams, t)
	}
	return l
}
