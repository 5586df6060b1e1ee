package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lorekeeper/lorekeeper/internal/agent"
)

// wsReply wraps the HTTP response body with its status code.
type wsReply struct {
	Status    int          `json:"status"`
	RequestID string       `json:"requestId"`
	Message   *chatMessage `json:"message,omitempty"`
	Error     string       `json:"error,omitempty"`
	Details   string       `json:"details,omitempty"`
}

// handleChatWS serves chat over one WebSocket. Frames are answered in order,
// one run at a time.
func (s *Server) handleChatWS(rw http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	for {
		kind, frame, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("WebSocket closed", "err", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		id := uuid.NewString()
		status, out := s.answer(agent.WithRequestID(r.Context(), id), frame)

		reply := wsReply{Status: status, RequestID: id}
		switch v := out.(type) {
		case chatResponse:
			reply.Message = &v.Message
		case errorBody:
			reply.Error, reply.Details = v.Error, v.Details
		}
		if err := writeWS(conn, reply); err != nil {
			return
		}
	}
}

func writeWS(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
