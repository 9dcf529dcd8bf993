/*
Package handler provides the HTTP handlers and routing setup for the GlyphChat relay.

This file contains the WebSocket subscription handler: rate limiting,
connection upgrade, and starting the client pumps.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"glyphchat/internal/app/chat"
	"glyphchat/internal/pkg/errs"
	"glyphchat/internal/pkg/limiter"
	"glyphchat/internal/pkg/logx"
	"glyphchat/internal/pkg/randx"
	"glyphchat/internal/pkg/resp"
)

// HandleWebSocket creates the HandlerFunc for GET /ws subscription requests.
func HandleWebSocket(deps *AppDeps, upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		connID, err := randx.ConnID()
		if err != nil {
			logx.Error(err, "Failed to generate connection ID")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already replied with an HTTP error.
			logx.Error(err, "Failed to upgrade connection to WebSocket", "conn_id", connID)
			return
		}

		client := chat.NewClient(deps.Hub, conn, connID)

		go client.WritePump()

		deps.Hub.RegisterClient(client)

		client.ReadPump()
	}
}
