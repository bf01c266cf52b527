package hub

import (
	"encoding/json"
	"sync"

	"sleepclash/backend/internal/logger"
)

// Event types published to clan members.
const (
	EventMemberJoined = "member_joined"
	EventMemberLeft   = "member_left"
	EventNightLogged  = "night_logged"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client is a single SSE connection of a clan member.
type Client chan []byte

// Hub fans clan events out to the connected members of each clan.
type Hub struct {
	clans map[uint]map[Client]bool
	mu    sync.RWMutex
}

// GlobalHub is the singleton instance of our Hub.
var GlobalHub = NewHub()

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clans: make(map[uint]map[Client]bool),
	}
}

// Subscribe adds a new client to a specific clan.
func (h *Hub) Subscribe(clanID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clans[clanID]; !ok {
		h.clans[clanID] = make(map[Client]bool)
	}
	h.clans[clanID][client] = true
}

// Unsubscribe removes a client from a clan and closes its channel.
func (h *Hub) Unsubscribe(clanID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clans[clanID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.clans, clanID)
			}
		}
	}
}

// Subscribers returns the number of clients connected to a clan.
func (h *Hub) Subscribers(clanID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clans[clanID])
}

// Broadcast sends an event to all clients of a clan. Slow clients miss events
// instead of blocking the caller.
func (h *Hub) Broadcast(clanID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.clans[clanID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("marshal clan event", "clan_id", clanID, "type", event.Type, "error", err)
		return
	}

	for client := range clients {
		select {
		case client <- messageBytes:
		default:
			logger.Log.Debugw("dropping clan event for slow client", "clan_id", clanID, "type", event.Type)
		}
	}
}
