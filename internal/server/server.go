// Package server exposes the orchestrator over HTTP and WebSocket.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lorekeeper/lorekeeper/internal/agent"
	"github.com/lorekeeper/lorekeeper/internal/schema"
)

// Runner answers one transcript. *agent.Orchestrator satisfies it.
type Runner interface {
	Run(ctx context.Context, transcript schema.Messages) agent.Result
}

// Options configures the HTTP surface.
type Options struct {
	Host           string
	Port           int
	StaticDir      string   // served at "/" when set
	AllowedOrigins []string // "*" allows any origin
	// Guidance is prepended as a system message to every chat request; empty disables it.
	Guidance string
}

func (o Options) addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

type Server struct {
	runner   Runner
	opts     Options
	upgrader websocket.Upgrader
	srv      *http.Server
}

func New(runner Runner, opts Options) *Server {
	s := &Server{runner: runner, opts: opts}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  16 * 1024,
		WriteBufferSize: 16 * 1024,
		CheckOrigin:     func(r *http.Request) bool { return s.originAllowed(r.Header.Get("Origin")) },
	}
	s.srv = &http.Server{
		Addr:              opts.addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Addr is the listen address.
func (s *Server) Addr() string { return s.srv.Addr }

// Handler returns the routed handler with CORS and panic recovery applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/chat/ws", s.handleChatWS)
	mux.HandleFunc("GET /healthz", func(rw http.ResponseWriter, r *http.Request) {
		writeJSON(rw, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.opts.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(s.opts.StaticDir)))
	}
	return s.cors(recoverPanics(mux))
}

// ListenAndServe blocks until the server stops. A clean Shutdown returns nil.
func (s *Server) ListenAndServe() error {
	slog.Info("HTTP server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
