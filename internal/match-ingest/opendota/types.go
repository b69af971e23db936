package opendota

// Tipos da resposta de /matches/{id} da OpenDota (apenas os campos usados)

type Team struct {
	TeamID *int64 `json:"team_id"`
	Name   string `json:"name"`
}

type PickBan struct {
	IsPick bool `json:"is_pick"`
	HeroID int  `json:"hero_id"`
	Team   int  `json:"team"` // 0 = radiant, 1 = dire
	Order  int  `json:"order"`
}

type Player struct {
	AccountID   *int64  `json:"account_id"`
	Personaname *string `json:"personaname"`
	HeroID      int     `json:"hero_id"`
	PlayerSlot  int     `json:"player_slot"` // 0-127 radiant, 128-255 dire
	Kills       int     `json:"kills"`
	Deaths      int     `json:"deaths"`
	Assists     int     `json:"assists"`
	LastHits    int     `json:"last_hits"`
	Denies      int     `json:"denies"`
	GoldPerMin  int     `json:"gold_per_min"`
	XPPerMin    int     `json:"xp_per_min"`
	HeroDamage  int     `json:"hero_damage"`
	TowerDamage int     `json:"tower_damage"`
	Lane        *int    `json:"lane"`
	LaneRole    *int    `json:"lane_role"`
	IsRoaming   *bool   `json:"is_roaming"`
}

// IsRadiant indica o lado pelo player_slot
func (p Player) IsRadiant() bool { return p.PlayerSlot < 128 }

type Match struct {
	MatchID       int64     `json:"match_id"`
	RadiantWin    bool      `json:"radiant_win"`
	StartTime     int64     `json:"start_time"`
	Duration      int64     `json:"duration"`
	LeagueID      *int64    `json:"leagueid"`
	RadiantTeamID *int64    `json:"radiant_team_id"`
	DireTeamID    *int64    `json:"dire_team_id"`
	RadiantTeam   *Team     `json:"radiant_team"`
	DireTeam      *Team     `json:"dire_team"`
	PicksBans     []PickBan `json:"picks_bans"`
	Players       []Player  `json:"players"`
}
