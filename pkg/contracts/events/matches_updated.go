package events

// Mensagem publicada no Redis Pub/Sub quando o processor grava uma partida.
// O scout-service repassa para os clientes WebSocket inscritos em (liga, time).
type MatchesUpdated struct {
	LeagueID int64   `json:"leagueId"`
	TeamIDs  []int64 `json:"teamIds"`
	MatchID  int64   `json:"matchId"`
}
