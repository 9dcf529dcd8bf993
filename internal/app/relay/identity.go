/*
Package relay contains the core logic of the chat relay.

This file implements the identity resolver: deriving a stable anonymous
identity and a display glyph for each session, and maintaining the
process-lifetime registry of seen user identities that determines glyph
assignment by join order.
*/
package relay

import "glyphchat/internal/pkg/randx"

// Palette is the fixed ordered set of display glyphs assigned round-robin by
// first-seen order. Assignment wraps, so glyphs collide once more users have
// joined than the palette holds.
var Palette = []string{"🔴", "🟡", "🟢", "🟣", "🔵", "🟠", "🟤", "⚪️"}

// resolveIdentity fills in the session's identity fields, registering
// first-contact users in the seen-users registry. A session that already
// carries a symbol keeps it verbatim, so user-chosen overrides persist.
// Callers must hold the service mutex.
func (s *Service) resolveIdentity(session *Session) {
	if session.UserID == "" {
		session.UserID = randx.UserID()
	}

	index := s.registerUser(session.UserID)

	if session.Symbol == "" {
		session.Symbol = Palette[index%len(Palette)]
	}
}

// registerUser appends the identity to the seen-users registry if absent and
// returns its join-order index.
func (s *Service) registerUser(userID string) int {
	for i, seen := range s.users {
		if seen == userID {
			return i
		}
	}

	s.users = append(s.users, userID)
	return len(s.users) - 1
}
