// Package session persists saved games as JSONL files.
//
// File format:
//
//	Line 1:  {"_type":"metadata","key":"…","created_at":"…","updated_at":"…","state":{…}}
//	Line 2+: one {"role":"…","content":"…","timestamp":"…"} object per message
package session

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lorekeeper/lorekeeper/internal/gameupdate"
	"github.com/lorekeeper/lorekeeper/internal/schema"
)

// Manager loads and persists sessions as JSONL files.
type Manager struct {
	dir   string
	cache sync.Map // key → *Session
}

// NewManager creates a Manager storing files under dir, creating it if necessary.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sessions dir: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the directory holding the session files.
func (m *Manager) Dir() string { return m.dir }

// GetOrCreate returns the cached session for key, loading from disk if needed,
// or a new game.
func (m *Manager) GetOrCreate(key string) (*Session, error) {
	if v, ok := m.cache.Load(key); ok {
		return v.(*Session), nil
	}

	s, err := m.load(key)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = New(key)
	}

	actual, _ := m.cache.LoadOrStore(key, s)
	return actual.(*Session), nil
}

type metadataLine struct {
	Type      string            `json:"_type"`
	Key       string            `json:"key"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
	State     *gameupdate.State `json:"state,omitempty"`
}

type wireMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Save writes the session to disk and updates the cache.
func (m *Manager) Save(s *Session) error {
	path := m.sessionPath(s.Key)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	s.mu.Lock()
	msgs := s.Messages.Clone()
	meta := metadataLine{
		Type:      "metadata",
		Key:       s.Key,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.UTC().Format(time.RFC3339),
		State:     s.State,
	}
	err := enc.Encode(meta)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	stamp := time.Now().UTC().Format(time.RFC3339)
	for _, msg := range msgs.Messages {
		if err := enc.Encode(wireMessage{Role: string(msg.Role), Content: msg.Content, Timestamp: stamp}); err != nil {
			return fmt.Errorf("encode message: %w", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write session %s: %w", path, err)
	}

	m.cache.Store(s.Key, s)
	return nil
}

// Summary describes one saved game without loading its messages.
type Summary struct {
	Key       string
	UpdatedAt string
	Path      string
}

// List returns all saved games, newest first.
func (m *Manager) List() []Summary {
	entries, _ := filepath.Glob(filepath.Join(m.dir, "*.jsonl"))
	var out []Summary

	for _, path := range entries {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 1<<20), 1<<20)
		if scanner.Scan() {
			var meta metadataLine
			if json.Unmarshal(scanner.Bytes(), &meta) == nil && meta.Type == "metadata" {
				key := meta.Key
				if key == "" {
					key = strings.TrimSuffix(filepath.Base(path), ".jsonl")
				}
				out = append(out, Summary{Key: key, UpdatedAt: meta.UpdatedAt, Path: path})
			}
		}
		f.Close()
	}

	// RFC 3339 UTC timestamps sort lexicographically.
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt > out[j].UpdatedAt })
	return out
}

func (m *Manager) sessionPath(key string) string {
	return filepath.Join(m.dir, safeFilename(strings.ReplaceAll(key, ":", "_"))+".jsonl")
}

// safeFilename replaces filesystem-unsafe characters with underscores.
func safeFilename(name string) string {
	const unsafe = `<>:"/\|?*`
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(unsafe, r) {
			b.WriteByte('_')
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// load reads a session from disk; a missing file yields (nil, nil).
func (m *Manager) load(key string) (*Session, error) {
	path := m.sessionPath(key)

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open session %s: %w", path, err)
	}
	defer f.Close()

	s := New(key)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1<<20), 1<<20) // 1 MB per line
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		if bytes.Contains(line, []byte(`"_type":"metadata"`)) {
			// Fields missing from a saved state keep their new-game values.
			meta := metadataLine{State: gameupdate.NewState()}
			if err := json.Unmarshal(line, &meta); err != nil {
				slog.Warn("Skipping malformed session metadata", "key", key, "err", err)
				continue
			}
			if t, err := time.Parse(time.RFC3339, meta.CreatedAt); err == nil {
				s.CreatedAt = t
			}
			if t, err := time.Parse(time.RFC3339, meta.UpdatedAt); err == nil {
				s.UpdatedAt = t
			}
			if meta.State != nil {
				s.State = meta.State
			}
			continue
		}

		var w wireMessage
		if err := json.Unmarshal(line, &w); err != nil {
			slog.Warn("Skipping malformed session line", "key", key, "err", err)
			continue
		}
		role := schema.Role(w.Role)
		if role != schema.RoleUser && role != schema.RoleAssistant {
			continue
		}
		s.Messages.Add(schema.Message{Role: role, Content: w.Content})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read session %s: %w", path, err)
	}
	return s, nil
}
