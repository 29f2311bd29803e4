package ws

import (
	"encoding/json"

	"BERTool/internal/calc/ber"
)

// Envelope wraps all WebSocket messages with a type discriminator. ID is
// echoed back so that clients can match replies to requests.
type Envelope struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client -> Server
const (
	TypeCalculate = "calculate"
	TypePing      = "ping"
)

// Server -> Client
const (
	TypeResult = "result"
	TypeError  = "error"
	TypePong   = "pong"
)

type CalculatePayload = ber.Request

type ErrorPayload struct {
	Error   string      `json:"error"`
	Kind    string      `json:"kind,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
