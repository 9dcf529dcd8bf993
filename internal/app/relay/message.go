/*
Package relay contains the core logic of the chat relay: anonymous identity
and glyph assignment, slash-command interpretation, the message submission
policy, and the bounded in-memory message log.

This file defines the Message struct, one accepted chat entry as returned to
every client in the snapshot response.
*/
package relay

// Message is one accepted chat entry. Immutable once appended; it lives in
// the in-memory log until evicted by the bounding policy.
type Message struct {
	// UserID is the opaque anonymous identity of the sender.
	UserID string `json:"userId"`

	// Message is the submitted text, verbatim.
	Message string `json:"message"`

	// Symbol is the sender's display glyph at the time of acceptance.
	Symbol string `json:"symbol"`
}
