/*
Package handler provides the HTTP handlers and routing setup for the GlyphChat relay.

This file implements the cookie codec for the relay session. The server holds
no durable per-user record: the whole session travels in four cookies the
client returns on every request. Values are URL-encoded so glyphs survive the
cookie value grammar.
*/
package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"glyphchat/internal/app/relay"
)

const (
	// CookieUserID carries the opaque anonymous identity token.
	CookieUserID = "userId"

	// CookieSymbol carries the user's display glyph.
	CookieSymbol = "userSymbol"

	// CookieLastMessage carries the user's last accepted message text.
	CookieLastMessage = "userMessage"

	// CookieLastDate carries the last accepted timestamp, epoch milliseconds.
	CookieLastDate = "userDate"
)

// readCookie returns the decoded cookie value, or "" when absent or mangled.
func readCookie(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}

	value, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}

	return value
}

// readSession reconstructs the relay session from the request cookies.
// Anything missing or unparsable degrades to the zero value: a client that
// tampers with its own cookies only resets its own state.
func readSession(r *http.Request) relay.Session {
	session := relay.Session{
		UserID:      readCookie(r, CookieUserID),
		Symbol:      readCookie(r, CookieSymbol),
		LastMessage: readCookie(r, CookieLastMessage),
	}

	if raw := readCookie(r, CookieLastDate); raw != "" {
		if millis, err := strconv.ParseInt(raw, 10, 64); err == nil && millis > 0 {
			session.LastMessageAt = time.UnixMilli(millis)
		}
	}

	return session
}

// setCookie writes one URL-encoded session cookie.
func setCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:  name,
		Value: url.QueryEscape(value),
		Path:  "/",
	})
}

// writeSession instructs the client to round-trip the session from now on.
// Identity cookies are written whenever an identity exists; the last-message
// pair only once a message has been accepted.
func writeSession(w http.ResponseWriter, session relay.Session) {
	if session.UserID == "" {
		return
	}

	setCookie(w, CookieUserID, session.UserID)
	setCookie(w, CookieSymbol, session.Symbol)

	if !session.LastMessageAt.IsZero() {
		setCookie(w, CookieLastMessage, session.LastMessage)
		setCookie(w, CookieLastDate, strconv.FormatInt(session.LastMessageAt.UnixMilli(), 10))
	}
}
