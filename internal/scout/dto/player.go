package dto

import "time"

// League representa uma liga profissional (tabela league)
type League struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	HasDivisions bool      `json:"has_divisions"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LeagueTeams mapeia liga -> time -> nome do time
type LeagueTeams map[int64]map[int64]string

// Player é um jogador acompanhado pelo dashboard (tabela player)
type Player struct {
	ID        int64     `json:"id"` // steam account id
	Name      string    `json:"name"`
	Rank      string    `json:"rank"`
	Role      string    `json:"role"`
	TeamID    int64     `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RolePositions traduz o papel cadastrado nas posições usadas nas consultas de pubs.
// Papéis desconhecidos não filtram posição.
func RolePositions(role string) []Position {
	switch role {
	case "Carry":
		return []Position{Position1}
	case "Mid":
		return []Position{Position2}
	case "Offlane":
		return []Position{Position3}
	case "Soft Support", "Hard Support":
		return []Position{Position4, Position5}
	}
	return nil
}

// PubStatType identifica qual visão do Stratz gerou a linha
type PubStatType string

const (
	PubStatRecent              PubStatType = "RECENT_MATCH"
	PubStatTopHeroesByPosition PubStatType = "TOP_10_HEROES_BY_POSITION"
	PubStatTopHeroesOverall    PubStatType = "TOP_10_HEROES_OVERALL"
)

// PlayerPubMatchStats é o resumo de um herói nas pubs do jogador (tabela player_pub_match_stats)
type PlayerPubMatchStats struct {
	ID                int64       `json:"id"`
	PlayerID          int64       `json:"player_id"`
	HeroID            int         `json:"hero_id"`
	Wins              int         `json:"wins"`
	Losses            int         `json:"losses"`
	Type              PubStatType `json:"type"`
	LastMatchDateTime *time.Time  `json:"last_match_date_time"`
	CreatedAt         time.Time   `json:"created_at"`
}

// PubStats agrupa as linhas por tipo, no formato consumido pelo dashboard
type PubStats struct {
	RecentMatches       []PlayerPubMatchStats `json:"recentMatches"`
	TopHeroesByPosition []PlayerPubMatchStats `json:"topHeroesByPosition"`
	TopHeroesOverall    []PlayerPubMatchStats `json:"topHeroesOverall"`
}

// GroupPubStats separa as linhas pelos três tipos, mantendo a ordem de entrada
func GroupPubStats(rows []PlayerPubMatchStats) PubStats {
	out := PubStats{
		RecentMatches:       []PlayerPubMatchStats{},
		TopHeroesByPosition: []PlayerPubMatchStats{},
		TopHeroesOverall:    []PlayerPubMatchStats{},
	}
	for _, r := range rows {
		switch r.Type {
		case PubStatRecent:
			out.RecentMatches = append(out.RecentMatches, r)
		case PubStatTopHeroesByPosition:
			out.TopHeroesByPosition = append(out.TopHeroesByPosition, r)
		case PubStatTopHeroesOverall:
			out.TopHeroesOverall = append(out.TopHeroesOverall, r)
		}
	}
	return out
}
