// Package ws serves the live calculator: every "calculate" message is
// answered with a rating computed from its payload.
package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"BERTool/internal/apperr"
	"BERTool/internal/calc/ber"

	"github.com/gorilla/websocket"
)

const (
	maxMessageSize = 64 << 10
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
)

type Handler struct {
	engine   *ber.Calculator
	log      *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler accepts connections from any origin when allowedOrigin is "*"
// or empty, otherwise only from that exact origin.
func NewHandler(engine *ber.Calculator, log *slog.Logger, allowedOrigin string) *Handler {
	return &Handler{
		engine: engine,
		log:    log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	pings := time.NewTicker(pingPeriod)
	defer pings.Stop()

	// Replies are written from the read loop; writes from the ping goroutine
	// use WriteControl, which may run concurrently with them.
	go func() {
		for {
			select {
			case <-done:
				return
			case <-pings.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("websocket read failed", slog.String("error", err.Error()))
			}
			return
		}
		reply := h.handleMessage(msg)
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(reply); err != nil {
			h.log.Warn("websocket write failed", slog.String("error", err.Error()))
			return
		}
	}
}

func (h *Handler) handleMessage(msg []byte) Envelope {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return errorEnvelope("", apperr.Wrap(apperr.KindBadRequest, "Invalid message", err))
	}

	switch env.Type {
	case TypePing:
		return Envelope{Type: TypePong, ID: env.ID}

	case TypeCalculate:
		var p CalculatePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return errorEnvelope(env.ID, apperr.Wrap(apperr.KindBadRequest, "Invalid calculate payload", err))
		}
		b, rf := p.Resolve()
		res, err := h.engine.CalculateBER(b, rf)
		if err != nil {
			return errorEnvelope(env.ID, err)
		}
		payload, err := json.Marshal(res)
		if err != nil {
			return errorEnvelope(env.ID, err)
		}
		return Envelope{Type: TypeResult, ID: env.ID, Payload: payload}

	default:
		return errorEnvelope(env.ID, apperr.BadRequest("unknown message type "+env.Type))
	}
}

func errorEnvelope(id string, err error) Envelope {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Wrap(apperr.KindInternal, "Internal error", err)
	}
	msg := appErr.Message
	if appErr.Kind == apperr.KindBadRequest && appErr.Err != nil {
		msg += ": " + appErr.Err.Error()
	}
	payload, _ := json.Marshal(ErrorPayload{Error: msg, Kind: appErr.Kind.String(), Details: appErr.Details})
	return Envelope{Type: TypeError, ID: id, Payload: payload}
}
