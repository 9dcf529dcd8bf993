/*
Package handler provides the HTTP handlers and routing setup for the GlyphChat relay.

This file contains the handler for POST /UserMessage, the single submission
and polling endpoint. It decodes the request body and session cookies, runs
the submission through the relay service, and writes back the updated session
plus the snapshot or command acknowledgement.
*/
package handler

import (
	"net/http"

	"glyphchat/internal/app/relay"
	"glyphchat/internal/pkg/logx"
	"glyphchat/internal/pkg/req"
	"glyphchat/internal/pkg/resp"
)

// SubmissionRequest is the POST /UserMessage body. Both fields are optional:
// an absent message makes the request a passive poll.
type SubmissionRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// HandleUserMessage creates the HandlerFunc for POST /UserMessage.
func HandleUserMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req.LimitBody(w, r)

		var body SubmissionRequest

		if req.IsJSON(r) {
			if customErr := req.BindJSON(r, &body); customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
		} else {
			if customErr := req.ParseForm(r); customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
			body.UserID = r.PostForm.Get("userId")
			body.Message = r.PostForm.Get("message")
		}

		session := readSession(r)

		// A body-supplied identity only counts when no cookie identity
		// exists yet; the cookie is authoritative afterwards.
		if session.UserID == "" {
			session.UserID = body.UserID
		}

		updated, snapshot, outcome, customErr := deps.Relay.Submit(session, body.Message)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		writeSession(w, updated)

		if outcome == relay.OutcomeCommand {
			resp.RespondEmpty(w, r)
			return
		}

		resp.RespondJSON(w, r, http.StatusOK, snapshot)
	}
}

// HandleRoot serves the static web client and logs root hits with the
// caller's identity cookie at debug level.
func HandleRoot(deps *AppDeps) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(deps.Config.StaticDir))

	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			logx.Debug("Root requested.", "user_id", readCookie(r, CookieUserID))
		}

		fileServer.ServeHTTP(w, r)
	}
}
