/*
Package relay contains the core logic of the chat relay.

This file defines the Session struct, the per-user state the transport layer
serializes to and from the client on every exchange. The server keeps no
durable per-user record; whatever the client presents here is the user's
state.
*/
package relay

import "time"

// Session is the per-user state round-tripped by the client. A zero Session
// is a first contact: the identity resolver assigns a fresh identity and
// glyph.
type Session struct {
	// UserID is the opaque anonymous identity token, generated once per user.
	UserID string

	// Symbol is the user's display glyph. Empty means none assigned yet, in
	// which case the resolver derives one from the palette by join order.
	Symbol string

	// LastMessage is the most recent accepted message text, used for
	// duplicate suppression.
	LastMessage string

	// LastMessageAt is when LastMessage was accepted, used for the cooldown
	// rule. The zero value means no prior message is on record.
	LastMessageAt time.Time
}
