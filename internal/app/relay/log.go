/*
Package relay contains the core logic of the chat relay.

This file implements the message log: a bounded, append-only, FIFO-evicting
ordered sequence of accepted messages.
*/
package relay

// MaxMessages is the number of entries the log retains. Older entries are
// permanently discarded on trim.
const MaxMessages = 8

// messageLog holds the rolling message buffer. It has no per-entry state
// beyond existence; eviction is purely positional.
type messageLog struct {
	entries []Message
}

// append adds a message to the end of the log.
func (l *messageLog) append(msg Message) {
	l.entries = append(l.entries, msg)
}

// trim retains only the MaxMessages most recent entries.
func (l *messageLog) trim() {
	if len(l.entries) > MaxMessages {
		l.entries = l.entries[len(l.entries)-MaxMessages:]
	}
}

// snapshot returns a copy of the current entries, oldest first. The copy
// never exceeds MaxMessages entries and is safe to hand to the transport
// after the service mutex is released.
func (l *messageLog) snapshot() []Message {
	out := make([]Message, len(l.entries))
	copy(out, l.entries)
	return out
}

// clear empties the log. Only the /reset command reaches this.
func (l *messageLog) clear() {
	l.entries = nil
}
