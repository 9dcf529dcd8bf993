/*
Package relay contains the core logic of the chat relay.

This file defines the Service, which owns all process-wide mutable state (the
seen-users registry and the message log) and runs one submission through
identity resolution, command interpretation, the submission policy, and the
log append with change notification.
*/
package relay

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"glyphchat/internal/pkg/errs"
	"glyphchat/internal/pkg/logx"
)

// Notifier is the fire-and-forget change notification channel to connected
// real-time subscribers. Delivery is at-most-once with no acknowledgement;
// subscribers resynchronize through their next snapshot request.
type Notifier interface {
	Broadcast()
}

// Outcome tells the transport layer what the response body should be.
type Outcome int

const (
	// OutcomeSnapshot responds with the trimmed message log.
	OutcomeSnapshot Outcome = iota

	// OutcomeCommand responds with an empty body.
	OutcomeCommand
)

// Service is the single owner of the relay's shared state. Handlers run on
// arbitrary goroutines, so one mutex guards the whole policy-and-append
// sequence of each submission.
type Service struct {
	mu       sync.Mutex
	users    []string
	log      messageLog
	notifier Notifier

	// now is the clock used by the cooldown rule.
	now func() time.Time

	logger zerolog.Logger
}

// NewService constructs a Service that reports accepted appends to the given
// notifier. A nil notifier disables change notification.
func NewService(notifier Notifier) *Service {
	serviceLogger := logx.Logger().With().Str("component", "Relay").Logger()

	return &Service{
		notifier: notifier,
		now:      time.Now,
		logger:   serviceLogger,
	}
}

// Submit processes one inbound submission. It returns the updated session,
// the snapshot to return (nil for command outcomes), the outcome kind, and a
// policy rejection if the message was refused.
//
// An empty text is a passive poll: no state changes anywhere, the caller just
// receives the current snapshot.
func (s *Service) Submit(session Session, text string) (Session, []Message, Outcome, *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if text == "" {
		s.log.trim()
		return session, s.log.snapshot(), OutcomeSnapshot, nil
	}

	s.resolveIdentity(&session)

	cmd := ParseCommand(text)
	switch cmd.Kind {
	case CommandSetSymbol:
		session.Symbol = cmd.Arg
		s.logger.Debug().
			Str("user_id", session.UserID).
			Str("symbol", session.Symbol).
			Msg("Symbol override set.")
		return session, nil, OutcomeCommand, nil

	case CommandReset:
		s.log.clear()
		s.users = nil
		s.logger.Info().
			Str("user_id", session.UserID).
			Msg("Message log and user registry reset.")
		return session, nil, OutcomeCommand, nil

	case CommandInfo:
		s.logger.Info().
			Str("user_id", session.UserID).
			Str("symbol", session.Symbol).
			Msg("/info")
		return session, nil, OutcomeCommand, nil

	case CommandUnknown:
		s.logger.Debug().
			Str("user_id", session.UserID).
			Msg("Unknown command ignored.")
		return session, nil, OutcomeCommand, nil
	}

	now := s.now()

	if customErr := checkSubmission(session, text, now); customErr != nil {
		s.logger.Warn().
			Str("user_id", session.UserID).
			Int("code", customErr.Code).
			Msg("Submission rejected by policy.")
		return session, nil, OutcomeSnapshot, customErr
	}

	session.LastMessage = text
	session.LastMessageAt = now

	s.log.append(Message{
		UserID:  session.UserID,
		Message: text,
		Symbol:  session.Symbol,
	})
	s.log.trim()

	if s.notifier != nil {
		s.notifier.Broadcast()
	}

	s.logger.Debug().
		Str("user_id", session.UserID).
		Str("symbol", session.Symbol).
		Msg("Message accepted.")

	return session, s.log.snapshot(), OutcomeSnapshot, nil
}

// Snapshot returns the current trimmed message log.
func (s *Service) Snapshot() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.trim()
	return s.log.snapshot()
}

// UserCount returns the number of distinct users seen since startup or the
// last reset.
func (s *Service) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.users)
}
