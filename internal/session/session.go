package session

import (
	"sync"
	"time"

	"github.com/lorekeeper/lorekeeper/internal/gameupdate"
	"github.com/lorekeeper/lorekeeper/internal/schema"
)

// Session is one saved game: the player state and the conversation that
// produced it.
type Session struct {
	Key       string
	State     *gameupdate.State
	Messages  schema.Messages
	CreatedAt time.Time
	UpdatedAt time.Time

	mu sync.Mutex
}

// New returns a fresh game under key.
func New(key string) *Session {
	now := time.Now()
	return &Session{
		Key:       key,
		State:     gameupdate.NewState(),
		Messages:  schema.NewMessages(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddTurn appends one exchange. The reply is stored verbatim, update block included.
func (s *Session) AddTurn(user, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages.AddUser(user)
	s.Messages.AddAssistant(reply, nil)
	s.UpdatedAt = time.Now()
}

// History returns the last maxMessages messages, or all of them when
// maxMessages is not positive.
func (s *Session) History(maxMessages int) []schema.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.Messages.Messages
	if maxMessages > 0 && len(msgs) > maxMessages {
		msgs = msgs[len(msgs)-maxMessages:]
	}
	out := make([]schema.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Len returns the number of messages in the session.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Messages.Len()
}

// Clear starts the game over.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State = gameupdate.NewState()
	s.Messages = schema.NewMessages()
	s.UpdatedAt = time.Now()
}
