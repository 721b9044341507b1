package websocket

import (
	"time"

	"github.com/vntrieu/werewolf/internal/games"
)

// ClientMessage is the envelope for messages from client to server.
// Types: "vote" | "check_role" | "sync_state"
type ClientMessage struct {
	Type          string `json:"type"`
	CorrelationID string `json:"correlation_id,omitempty"`
	// TargetID is the voted player (vote only).
	TargetID string `json:"target_id,omitempty"`
}

// ServerEnvelope is the envelope for messages from server to client.
type ServerEnvelope struct {
	Type          string                 `json:"type"`
	CorrelationID string                 `json:"correlation_id,omitempty"`
	Payload       map[string]interface{} `json:"payload,omitempty"`
}

// Client message types.
const (
	ClientMessageTypeVote      = "vote"
	ClientMessageTypeCheckRole = "check_role"
	ClientMessageTypeSyncState = "sync_state"
)

// Server envelope types.
const (
	ServerTypeNarration    = "narration"
	ServerTypeWhisper      = "whisper"
	ServerTypeWindowOpened = "window_opened"
	ServerTypeWindowClosed = "window_closed"
	ServerTypeState        = "state"
	ServerTypeGameEnded    = "game_ended"
	ServerTypeError        = "error"
)

// MaxClientMessageTypeLength limits the "type" field to prevent abuse.
const MaxClientMessageTypeLength = 64

// ValidClientMessageTypes are the only allowed values for ClientMessage.Type.
var ValidClientMessageTypes = map[string]bool{
	ClientMessageTypeVote:      true,
	ClientMessageTypeCheckRole: true,
	ClientMessageTypeSyncState: true,
}

func narrationEnvelope(text string, spoken bool) *ServerEnvelope {
	return &ServerEnvelope{Type: ServerTypeNarration, Payload: map[string]interface{}{"text": text, "spoken": spoken}}
}

func whisperEnvelope(text string) *ServerEnvelope {
	return &ServerEnvelope{Type: ServerTypeWhisper, Payload: map[string]interface{}{"text": text}}
}

func windowOpenedEnvelope(id string, kind games.WindowKind, expires time.Time) *ServerEnvelope {
	return &ServerEnvelope{Type: ServerTypeWindowOpened, Payload: map[string]interface{}{
		"window_id":  id,
		"kind":       string(kind),
		"expires_at": expires.UTC().Format(time.RFC3339),
	}}
}

func windowClosedEnvelope(id string, kind games.WindowKind) *ServerEnvelope {
	return &ServerEnvelope{Type: ServerTypeWindowClosed, Payload: map[string]interface{}{
		"window_id": id,
		"kind":      string(kind),
	}}
}

func stateEnvelope(state *games.State, correlationID string) *ServerEnvelope {
	return &ServerEnvelope{Type: ServerTypeState, CorrelationID: correlationID, Payload: map[string]interface{}{"state": state}}
}

func gameEndedEnvelope(result games.WinState) *ServerEnvelope {
	payload := map[string]interface{}{
		"werewolves": result.Werewolves,
		"villagers":  result.Villagers,
	}
	if result.Winner != "" {
		payload["winner"] = string(result.Winner)
	}
	return &ServerEnvelope{Type: ServerTypeGameEnded, Payload: payload}
}

func errorEnvelope(message, correlationID string) *ServerEnvelope {
	return &ServerEnvelope{Type: ServerTypeError, CorrelationID: correlationID, Payload: map[string]interface{}{"message": message}}
}
