/*
Package handler provides the HTTP handlers and routing setup for the GlyphChat relay.

This file defines the main Router, applying logging, CORS, and per-route
rate-limiting middleware before delegating to the submission, WebSocket, and
static handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"glyphchat/internal/pkg/limiter"
	"glyphchat/internal/pkg/logx"
	"glyphchat/internal/pkg/resp"
)

const (
	// SubscribeRate and SubscribeBurst bound how fast a single IP may open
	// WebSocket subscriptions. Submission frequency is governed separately
	// by the relay's own cooldown policy.
	SubscribeRate  = 0.2
	SubscribeBurst = 5
)

// Router sets up the main chi routing table for the application.
// It configures CORS, the WebSocket upgrader's origin check, and the global
// middleware chain.
func Router(deps *AppDeps) http.Handler {
	subscribeLimiter := limiter.NewIPRateLimiter(rate.Limit(SubscribeRate), SubscribeBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "GlyphChat Relay",
		}
		resp.RespondJSON(w, r, http.StatusOK, data)
	})

	r.Post("/UserMessage", HandleUserMessage(deps))

	r.Get("/ws", HandleWebSocket(deps, wsUpgrader, subscribeLimiter))

	root := HandleRoot(deps)
	r.Get("/", root)
	r.Get("/*", root)

	return r
}
