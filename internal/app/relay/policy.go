/*
Package relay contains the core logic of the chat relay.

This file implements the submission policy: the cooldown and
duplicate-suppression rules every ordinary message must pass before it is
appended to the log.
*/
package relay

import (
	"time"

	"glyphchat/internal/pkg/errs"
)

// CooldownWindow is the minimum elapsed time between two submissions from the
// same user.
const CooldownWindow = 1000 * time.Millisecond

// checkSubmission validates an ordinary message against the session's
// recorded history. Both rules apply independently: a submission past the
// cooldown window is still rejected if its text repeats the previous one.
func checkSubmission(session Session, text string, now time.Time) *errs.CustomError {
	if !session.LastMessageAt.IsZero() && now.Sub(session.LastMessageAt) < CooldownWindow {
		return errs.NewError(errs.ErrCooldownActive)
	}

	if text == session.LastMessage {
		return errs.NewError(errs.ErrDuplicateMessage, session.LastMessage, text)
	}

	return nil
}
