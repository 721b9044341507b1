package websocket

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Hub errors.
var (
	ErrHubStopped   = errors.New("hub stopped")
	ErrNotConnected = errors.New("player not connected")
)

// MessageHandler processes messages read from a client.
type MessageHandler interface {
	HandleMessage(ctx context.Context, c *Client, msg *ClientMessage)
}

// Hub maintains the set of connected clients per game and fans envelopes out to them.
// All writes to a client's send channel happen on the Run goroutine.
type Hub struct {
	// Registered clients by game_id -> client set
	games map[string]map[*Client]bool

	// Outbound envelopes
	broadcast chan *BroadcastMessage

	register   chan *Client
	unregister chan *Client

	handler MessageHandler
	log     zerolog.Logger

	// Closed when Run returns
	done chan struct{}

	mu sync.RWMutex
}

// BroadcastMessage is one envelope addressed to a game.
// PlayerID or Client narrow the recipients; both empty means everyone in the game.
type BroadcastMessage struct {
	GameID   string
	PlayerID string
	Client   *Client
	Envelope *ServerEnvelope
}

// NewHub creates a new Hub. Call SetHandler before Run to process client messages.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		games:      make(map[string]map[*Client]bool),
		broadcast:  make(chan *BroadcastMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
		done:       make(chan struct{}),
	}
}

// SetHandler sets the handler for client messages.
func (h *Hub) SetHandler(handler MessageHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handler = handler
}

func (h *Hub) messageHandler() MessageHandler {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.handler
}

// Run is the hub's main loop. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for gameID, clients := range h.games {
				for client := range clients {
					close(client.send)
				}
				delete(h.games, gameID)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.games[client.GameID] == nil {
				h.games[client.GameID] = make(map[*Client]bool)
			}
			h.games[client.GameID][client] = true
			total := len(h.games[client.GameID])
			h.mu.Unlock()
			h.log.Debug().Str("game_id", client.GameID).Str("player_id", client.PlayerID).Int("total", total).Msg("ws client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.games[client.GameID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.games, client.GameID)
					}
				}
			}
			h.mu.Unlock()
			h.log.Debug().Str("game_id", client.GameID).Str("player_id", client.PlayerID).Msg("ws client unregistered")

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) deliver(message *BroadcastMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.games[message.GameID]
	if !ok {
		return
	}
	for client := range clients {
		if message.Client != nil && client != message.Client {
			continue
		}
		if message.PlayerID != "" && client.PlayerID != message.PlayerID {
			continue
		}
		select {
		case client.send <- message.Envelope:
		default:
			// Slow consumer: drop it, readPump's unregister becomes a no-op.
			close(client.send)
			delete(clients, client)
			h.log.Warn().Str("game_id", client.GameID).Str("player_id", client.PlayerID).Msg("ws client dropped, send buffer full")
		}
	}
	if len(clients) == 0 {
		delete(h.games, message.GameID)
	}
}

func (h *Hub) enqueue(message *BroadcastMessage) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}
	select {
	case h.broadcast <- message:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

// Broadcast sends an envelope to every client of a game.
func (h *Hub) Broadcast(gameID string, envelope *ServerEnvelope) error {
	return h.enqueue(&BroadcastMessage{GameID: gameID, Envelope: envelope})
}

// SendTo sends an envelope to the connections of one player.
func (h *Hub) SendTo(gameID, playerID string, envelope *ServerEnvelope) error {
	if !h.IsConnected(gameID, playerID) {
		return ErrNotConnected
	}
	return h.enqueue(&BroadcastMessage{GameID: gameID, PlayerID: playerID, Envelope: envelope})
}

// SendToClient sends an envelope to a single connection.
func (h *Hub) SendToClient(client *Client, envelope *ServerEnvelope) error {
	return h.enqueue(&BroadcastMessage{GameID: client.GameID, Client: client, Envelope: envelope})
}

// IsConnected reports whether the player has at least one open connection to the game.
func (h *Hub) IsConnected(gameID, playerID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.games[gameID] {
		if client.PlayerID == playerID {
			return true
		}
	}
	return false
}

// GameClientCount returns the number of clients connected to a game.
func (h *Hub) GameClientCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}
