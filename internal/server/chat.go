package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lorekeeper/lorekeeper/internal/agent"
	"github.com/lorekeeper/lorekeeper/internal/schema"
)

const maxBodyBytes = 1 << 20

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages json.RawMessage `json:"messages"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// badRequest is a client error carrying the message returned to the caller.
type badRequest string

func (e badRequest) Error() string { return string(e) }

const errMessagesRequired badRequest = "Messages array required"

// parseChat validates a chat body and builds the transcript the
// orchestrator will see, guidance first.
func (s *Server) parseChat(body []byte) (schema.Messages, error) {
	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return schema.Messages{}, badRequest("Invalid JSON body")
	}

	var msgs []chatMessage
	if len(req.Messages) == 0 || json.Unmarshal(req.Messages, &msgs) != nil || len(msgs) == 0 {
		return schema.Messages{}, errMessagesRequired
	}

	transcript := schema.NewMessages()
	if s.opts.Guidance != "" {
		transcript.AddSystem(s.opts.Guidance)
	}
	for _, m := range msgs {
		role := schema.Role(m.Role)
		// Tool messages only ever originate inside a run.
		if !role.Valid() || role == schema.RoleTool {
			return schema.Messages{}, badRequest(fmt.Sprintf("Invalid message role: %q", m.Role))
		}
		transcript.Add(schema.Message{Role: role, Content: m.Content})
	}
	return transcript, nil
}

// answer runs one chat request and returns the status and JSON body to send.
func (s *Server) answer(ctx context.Context, body []byte) (int, any) {
	transcript, err := s.parseChat(body)
	if err != nil {
		var br badRequest
		if errors.As(err, &br) {
			return http.StatusBadRequest, errorBody{Error: br.Error()}
		}
		return http.StatusInternalServerError, errorBody{Error: "Internal server error", Details: err.Error()}
	}

	res := s.runner.Run(ctx, transcript)
	if res.Exit == agent.ExitInfrastructure {
		details := res.Content
		if res.Err != nil {
			details = res.Err.Error()
		}
		return http.StatusInternalServerError, errorBody{Error: "Internal server error", Details: details}
	}
	return http.StatusOK, chatResponse{Message: chatMessage{Role: string(schema.RoleAssistant), Content: res.Content}}
}

func (s *Server) handleChat(rw http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	rw.Header().Set("X-Request-Id", id)

	body, err := io.ReadAll(http.MaxBytesReader(rw, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(rw, http.StatusBadRequest, errorBody{Error: "Invalid JSON body"})
		return
	}

	ctx := agent.WithRequestID(r.Context(), id)
	status, out := s.answer(ctx, body)
	if status != http.StatusOK {
		slog.Warn("Chat request failed", "request_id", id, "status", status)
	}
	writeJSON(rw, status, out)
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(v); err != nil {
		slog.Warn("Write response failed", "err", err)
	}
}
