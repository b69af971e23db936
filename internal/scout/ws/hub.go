package ws

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/radieske/dota2-scout/pkg/contracts/events"
)

// client serializa as escritas na conexão (gorilla aceita um writer por vez)
type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub gerencia conexões WebSocket e assinaturas por (liga, time)
type Hub struct {
	upgrader websocket.Upgrader
	log      *zap.Logger
	mu       sync.RWMutex
	// "league:team" -> conjunto de clientes
	subs map[string]map[*client]struct{}
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool, log *zap.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		log:      log,
		subs:     make(map[string]map[*client]struct{}),
	}
}

func subKey(leagueID, teamID int64) string {
	return fmt.Sprintf("%d:%d", leagueID, teamID)
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket.
// Cada cliente pode assinar vários pares (liga, time).
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{id: uuid.NewString(), conn: conn}
	defer conn.Close()
	h.log.Debug("ws client connected", zap.String("client_id", c.id))

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe":
			if msg.LeagueID <= 0 || msg.TeamID <= 0 {
				_ = c.write(errorMsg{Type: "error", Error: "leagueId and teamId are required"})
				continue
			}
			h.subscribe(c, subKey(msg.LeagueID, msg.TeamID))
			_ = c.write(map[string]any{"type": "subscribed", "leagueId": msg.LeagueID, "teamId": msg.TeamID})
		case "unsubscribe":
			h.unsubscribe(c, subKey(msg.LeagueID, msg.TeamID))
		case "ping":
			_ = c.write(map[string]string{"type": "pong"})
		default:
			_ = c.write(errorMsg{Type: "error", Error: "unknown message type"})
		}
	}

	// Remove o cliente de todas as assinaturas ao desconectar
	h.mu.Lock()
	for key, set := range h.subs {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, key)
		}
	}
	h.mu.Unlock()
	h.log.Debug("ws client disconnected", zap.String("client_id", c.id))
}

func (h *Hub) subscribe(c *client, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[key]; !ok {
		h.subs[key] = make(map[*client]struct{})
	}
	h.subs[key][c] = struct{}{}
}

func (h *Hub) unsubscribe(c *client, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[key]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, key)
		}
	}
}

// Subscribers devolve quantos clientes assinam (liga, time)
func (h *Hub) Subscribers(leagueID, teamID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[subKey(leagueID, teamID)])
}

// Broadcast avisa os assinantes de cada time da partida.
// Devolve quantas mensagens foram entregues.
func (h *Hub) Broadcast(upd events.MatchesUpdated) int {
	type target struct {
		c      *client
		teamID int64
	}

	h.mu.RLock()
	var targets []target
	for _, teamID := range upd.TeamIDs {
		for c := range h.subs[subKey(upd.LeagueID, teamID)] {
			targets = append(targets, target{c: c, teamID: teamID})
		}
	}
	h.mu.RUnlock()

	sent := 0
	for _, t := range targets {
		msg := MatchesUpdated{Type: "matches_updated", LeagueID: upd.LeagueID, TeamID: t.teamID, MatchID: upd.MatchID}
		if err := t.c.write(msg); err != nil {
			h.log.Debug("ws write failed", zap.String("client_id", t.c.id), zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}
