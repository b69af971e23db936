package dto

// Position é o papel canônico de um jogador na partida (1=carry .. 5=hard support)
type Position string

const (
	Position1     Position = "POSITION_1"
	Position2     Position = "POSITION_2"
	Position3     Position = "POSITION_3"
	Position4     Position = "POSITION_4"
	Position5     Position = "POSITION_5"
	Uncategorized Position = "UNCATEGORIZED"
)

// Positions lista os seis buckets na ordem de exibição
var Positions = []Position{Position1, Position2, Position3, Position4, Position5, Uncategorized}

// Valid indica se p é uma das cinco posições canônicas
func (p Position) Valid() bool {
	switch p {
	case Position1, Position2, Position3, Position4, Position5:
		return true
	}
	return false
}

// Match representa uma partida concluída (tabela match)
// IDs de time são nulos quando o provedor não resolveu o time
type Match struct {
	ID            int64  `json:"id"`
	LeagueID      int64  `json:"league_id"`
	WinningTeamID *int64 `json:"winning_team_id"`
	RadiantTeamID *int64 `json:"radiant_team_id"`
	DireTeamID    *int64 `json:"dire_team_id"`
	StartDateTime int64  `json:"start_date_time"` // unix (s)
	EndDateTime   int64  `json:"end_date_time"`   // unix (s)
}

// MatchPlayer é a performance de um jogador em uma partida (tabela match_player)
type MatchPlayer struct {
	PlayerID    int64     `json:"player_id"`
	MatchID     int64     `json:"match_id"`
	TeamID      *int64    `json:"team_id"`
	PlayerName  *string   `json:"player_name"`
	HeroID      int       `json:"hero_id"`
	Position    *Position `json:"position"`
	Lane        *string   `json:"lane"`
	LaneOutcome *string   `json:"lane_outcome"`
	Kills       int       `json:"kills"`
	Deaths      int       `json:"deaths"`
	Assists     int       `json:"assists"`
	LastHits    int       `json:"last_hits"`
	Denies      int       `json:"denies"`
	GPM         int       `json:"gpm"`
	XPM         int       `json:"xpm"`
	HeroDamage  int       `json:"hero_damage"`
	TowerDamage int       `json:"tower_damage"`
}

// Bucket retorna a posição do jogador, ou UNCATEGORIZED quando ausente/desconhecida
func (p MatchPlayer) Bucket() Position {
	if p.Position == nil || !p.Position.Valid() {
		return Uncategorized
	}
	return *p.Position
}

// MatchDraftEntry é um pick ou ban da fase de draft (tabela match_draft)
type MatchDraftEntry struct {
	MatchID int64  `json:"match_id"`
	Order   int    `json:"order"`
	HeroID  int    `json:"hero_id"`
	TeamID  *int64 `json:"team_id"`
	IsPick  bool   `json:"is_pick"`
}

// MatchAPIResponse junta a partida com seus jogadores e draft.
// É a unidade de entrada da agregação e não deve ser alterada durante ela.
type MatchAPIResponse struct {
	Match
	Players []MatchPlayer     `json:"players"`
	Draft   []MatchDraftEntry `json:"draft"`
}

// IsTeam compara um ID anulável com um time; nulo nunca é igual a nenhum time
func IsTeam(id *int64, teamID int64) bool {
	return id != nil && *id == teamID
}

// WonBy indica se teamID venceu a partida
func (m Match) WonBy(teamID int64) bool {
	return IsTeam(m.WinningTeamID, teamID)
}

// Int64 devolve um ponteiro para v (útil para campos anuláveis)
func Int64(v int64) *int64 { return &v }

// Pos devolve um ponteiro para p
func Pos(p Position) *Position { return &p }
