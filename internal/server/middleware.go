package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
)

func (s *Server) originAllowed(origin string) bool {
	if origin == "" || slices.Contains(s.opts.AllowedOrigins, "*") {
		return true
	}
	return slices.Contains(s.opts.AllowedOrigins, origin)
}

// cors answers preflight requests and stamps the allow headers.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			h := rw.Header()
			if slices.Contains(s.opts.AllowedOrigins, "*") {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Set("Access-Control-Expose-Headers", "X-Request-Id")
		}
		if r.Method == http.MethodOptions {
			rw.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(rw, r)
	})
}

// recoverPanics turns a handler panic into the generic 500 body.
func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				slog.Error("Handler panic", "path", r.URL.Path, "panic", v)
				writeJSON(rw, http.StatusInternalServerError, errorBody{
					Error:   "Internal server error",
					Details: fmt.Sprint(v),
				})
			}
		}()
		next.ServeHTTP(rw, r)
	})
}
