package events

import "time"

// Evento publicado no tópico "match_ingested" após normalizar uma partida do provedor.
// As linhas seguem o esquema das tabelas match, match_player e match_draft.
type MatchIngested struct {
	IngestID    string      `json:"ingest_id"`
	Source      string      `json:"source"` // "opendota"
	Match       MatchRow    `json:"match"`
	RadiantTeam *Team       `json:"radiant_team,omitempty"`
	DireTeam    *Team       `json:"dire_team,omitempty"`
	Players     []PlayerRow `json:"players"`
	Draft       []DraftRow  `json:"draft"`
	IngestedAt  time.Time   `json:"ingested_at"`
}

type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type MatchRow struct {
	ID            int64  `json:"id"`
	LeagueID      int64  `json:"league_id"`
	WinningTeamID *int64 `json:"winning_team_id"`
	RadiantTeamID *int64 `json:"radiant_team_id"`
	DireTeamID    *int64 `json:"dire_team_id"`
	StartDateTime int64  `json:"start_date_time"`
	EndDateTime   int64  `json:"end_date_time"`
}

type PlayerRow struct {
	PlayerID    int64   `json:"player_id"`
	MatchID     int64   `json:"match_id"`
	TeamID      *int64  `json:"team_id"`
	PlayerName  *string `json:"player_name"`
	HeroID      int     `json:"hero_id"`
	Position    *string `json:"position"`
	Lane        *string `json:"lane"`
	LaneOutcome *string `json:"lane_outcome"`
	Kills       int     `json:"kills"`
	Deaths      int     `json:"deaths"`
	Assists     int     `json:"assists"`
	LastHits    int     `json:"last_hits"`
	Denies      int     `json:"denies"`
	GPM         int     `json:"gpm"`
	XPM         int     `json:"xpm"`
	HeroDamage  int     `json:"hero_damage"`
	TowerDamage int     `json:"tower_damage"`
}

type DraftRow struct {
	MatchID int64  `json:"match_id"`
	Order   int    `json:"order"`
	HeroID  int    `json:"hero_id"`
	TeamID  *int64 `json:"team_id"`
	IsPick  bool   `json:"is_pick"`
}

// TeamIDs devolve os times conhecidos da partida (para invalidar cache)
func (e MatchIngested) TeamIDs() []int64 {
	var out []int64
	for _, id := range []*int64{e.Match.RadiantTeamID, e.Match.DireTeamID} {
		if id != nil {
			out = append(out, *id)
		}
	}
	return out
}
