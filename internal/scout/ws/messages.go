package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
type ClientMsg struct {
	Type     string `json:"type"`     // subscribe | unsubscribe | ping
	LeagueID int64  `json:"leagueId"` // requerido em subscribe/unsubscribe
	TeamID   int64  `json:"teamId"`   // requerido em subscribe/unsubscribe
}

// MatchesUpdated avisa que há partidas novas para (liga, time); o cliente refaz o GET /v1/matches
type MatchesUpdated struct {
	Type     string `json:"type"` // sempre "matches_updated"
	LeagueID int64  `json:"leagueId"`
	TeamID   int64  `json:"teamId"`
	MatchID  int64  `json:"matchId"`
}

type errorMsg struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
