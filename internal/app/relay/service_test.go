package relay

import (
	"fmt"
	"testing"
	"time"

	"glyphchat/internal/pkg/errs"
)

// stubNotifier records how many change notifications the service emitted.
type stubNotifier struct {
	broadcasts int
}

func (n *stubNotifier) Broadcast() {
	n.broadcasts++
}

// newTestService returns a service with a fixed, manually advanced clock.
func newTestService(notifier Notifier) (*Service, *time.Time) {
	s := NewService(notifier)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	return s, &now
}

func submitOK(t *testing.T, s *Service, session Session, text string) (Session, []Message) {
	t.Helper()

	updated, snapshot, outcome, err := s.Submit(session, text)
	if err != nil {
		t.Fatalf("Submit(%q) rejected: %v", text, err)
	}
	if outcome != OutcomeSnapshot {
		t.Fatalf("Submit(%q) outcome = %v, want OutcomeSnapshot", text, outcome)
	}
	return updated, snapshot
}

func TestSubmitAcceptsAndAppends(t *testing.T) {
	notifier := &stubNotifier{}
	s, _ := newTestService(notifier)

	session, snapshot := submitOK(t, s, Session{}, "hello")

	if session.UserID == "" {
		t.Fatal("expected a generated user ID")
	}
	if session.Symbol != Palette[0] {
		t.Fatalf("first user symbol = %q, want %q", session.Symbol, Palette[0])
	}
	if session.LastMessage != "hello" {
		t.Fatalf("session.LastMessage = %q, want %q", session.LastMessage, "hello")
	}
	if session.LastMessageAt.IsZero() {
		t.Fatal("expected a recorded last-message timestamp")
	}

	if len(snapshot) != 1 {
		t.Fatalf("snapshot length = %d, want 1", len(snapshot))
	}
	want := Message{UserID: session.UserID, Message: "hello", Symbol: Palette[0]}
	if snapshot[0] != want {
		t.Fatalf("snapshot[0] = %+v, want %+v", snapshot[0], want)
	}

	if notifier.broadcasts != 1 {
		t.Fatalf("broadcasts = %d, want 1", notifier.broadcasts)
	}
}

func TestSubmitCooldownRejection(t *testing.T) {
	notifier := &stubNotifier{}
	s, now := newTestService(notifier)

	session, _ := submitOK(t, s, Session{}, "first")

	*now = now.Add(500 * time.Millisecond)

	_, _, _, customErr := s.Submit(session, "second")
	if customErr == nil {
		t.Fatal("expected cooldown rejection")
	}
	if customErr.Code != errs.ErrCooldownActive {
		t.Fatalf("rejection code = %d, want %d", customErr.Code, errs.ErrCooldownActive)
	}
	if customErr.Status != 403 {
		t.Fatalf("rejection status = %d, want 403", customErr.Status)
	}

	// Rejection must not mutate the log or notify subscribers.
	if got := len(s.Snapshot()); got != 1 {
		t.Fatalf("log length after rejection = %d, want 1", got)
	}
	if notifier.broadcasts != 1 {
		t.Fatalf("broadcasts after rejection = %d, want 1", notifier.broadcasts)
	}
}

func TestSubmitCooldownAppliesToSameText(t *testing.T) {
	// Identical text inside the window fails the cooldown rule first.
	s, now := newTestService(nil)

	session, _ := submitOK(t, s, Session{}, "echo")

	*now = now.Add(200 * time.Millisecond)

	_, _, _, customErr := s.Submit(session, "echo")
	if customErr == nil {
		t.Fatal("expected rejection")
	}
	if customErr.Code != errs.ErrCooldownActive {
		t.Fatalf("rejection code = %d, want %d", customErr.Code, errs.ErrCooldownActive)
	}
}

func TestSubmitDuplicateRejectionAfterCooldown(t *testing.T) {
	// Passing the cooldown does not imply acceptance: the duplicate rule
	// blocks independently.
	s, now := newTestService(nil)

	session, _ := submitOK(t, s, Session{}, "echo")

	*now = now.Add(2 * time.Second)

	_, _, _, customErr := s.Submit(session, "echo")
	if customErr == nil {
		t.Fatal("expected duplicate rejection")
	}
	if customErr.Code != errs.ErrDuplicateMessage {
		t.Fatalf("rejection code = %d, want %d", customErr.Code, errs.ErrDuplicateMessage)
	}
	if customErr.Status != 403 {
		t.Fatalf("rejection status = %d, want 403", customErr.Status)
	}
}

func TestSubmitDifferentTextAfterCooldown(t *testing.T) {
	s, now := newTestService(nil)

	session, _ := submitOK(t, s, Session{}, "first")

	*now = now.Add(1500 * time.Millisecond)

	session, snapshot := submitOK(t, s, session, "second")

	if len(snapshot) != 2 {
		t.Fatalf("snapshot length = %d, want 2", len(snapshot))
	}
	if snapshot[1].Message != "second" {
		t.Fatalf("snapshot[1].Message = %q, want %q", snapshot[1].Message, "second")
	}
	if session.LastMessage != "second" {
		t.Fatalf("session.LastMessage = %q, want %q", session.LastMessage, "second")
	}
}

func TestLogBoundedToMostRecentEight(t *testing.T) {
	s, now := newTestService(nil)

	session := Session{}
	var snapshot []Message
	for i := 0; i < 12; i++ {
		*now = now.Add(2 * time.Second)
		session, snapshot = submitOK(t, s, session, fmt.Sprintf("message %d", i))
	}

	if len(snapshot) != MaxMessages {
		t.Fatalf("snapshot length = %d, want %d", len(snapshot), MaxMessages)
	}

	// Only the most recent appends survive, in submission order.
	for i, msg := range snapshot {
		want := fmt.Sprintf("message %d", i+4)
		if msg.Message != want {
			t.Fatalf("snapshot[%d].Message = %q, want %q", i, msg.Message, want)
		}
	}
}

func TestSymbolAssignmentByJoinOrder(t *testing.T) {
	s, now := newTestService(nil)

	// Nine distinct users: the ninth wraps onto the first palette entry.
	for i := 0; i < len(Palette)+1; i++ {
		*now = now.Add(2 * time.Second)
		session, _ := submitOK(t, s, Session{}, fmt.Sprintf("hi from %d", i))

		want := Palette[i%len(Palette)]
		if session.Symbol != want {
			t.Fatalf("user %d symbol = %q, want %q", i, session.Symbol, want)
		}
	}

	if got := s.UserCount(); got != len(Palette)+1 {
		t.Fatalf("UserCount() = %d, want %d", got, len(Palette)+1)
	}
}

func TestSymbolOverridePersists(t *testing.T) {
	s, now := newTestService(nil)

	session, _ := submitOK(t, s, Session{}, "hello")

	updated, _, outcome, err := s.Submit(session, "/n Foo")
	if err != nil {
		t.Fatalf("Submit(/n Foo) rejected: %v", err)
	}
	if outcome != OutcomeCommand {
		t.Fatalf("outcome = %v, want OutcomeCommand", outcome)
	}
	if updated.Symbol != "Foo" {
		t.Fatalf("symbol after /n = %q, want %q", updated.Symbol, "Foo")
	}

	*now = now.Add(2 * time.Second)
	_, snapshot := submitOK(t, s, updated, "with new symbol")

	last := snapshot[len(snapshot)-1]
	if last.Symbol != "Foo" {
		t.Fatalf("accepted message symbol = %q, want %q", last.Symbol, "Foo")
	}
}

func TestCommandsBypassPolicy(t *testing.T) {
	// A command right after an accepted message must not trip the cooldown.
	notifier := &stubNotifier{}
	s, _ := newTestService(notifier)

	session, _ := submitOK(t, s, Session{}, "hello")

	_, snapshot, outcome, err := s.Submit(session, "/info")
	if err != nil {
		t.Fatalf("Submit(/info) rejected: %v", err)
	}
	if outcome != OutcomeCommand {
		t.Fatalf("outcome = %v, want OutcomeCommand", outcome)
	}
	if snapshot != nil {
		t.Fatalf("command snapshot = %v, want nil", snapshot)
	}
	if notifier.broadcasts != 1 {
		t.Fatalf("broadcasts = %d, want 1 (commands never broadcast)", notifier.broadcasts)
	}
}

func TestUnknownCommandIgnored(t *testing.T) {
	s, _ := newTestService(nil)

	_, _, outcome, err := s.Submit(Session{}, "/dance")
	if err != nil {
		t.Fatalf("Submit(/dance) rejected: %v", err)
	}
	if outcome != OutcomeCommand {
		t.Fatalf("outcome = %v, want OutcomeCommand", outcome)
	}
	if got := len(s.Snapshot()); got != 0 {
		t.Fatalf("log length = %d, want 0", got)
	}
}

func TestResetClearsLogAndRegistry(t *testing.T) {
	s, now := newTestService(nil)

	sessionA, _ := submitOK(t, s, Session{}, "from a")
	*now = now.Add(2 * time.Second)
	submitOK(t, s, Session{}, "from b")

	_, _, outcome, err := s.Submit(sessionA, "/reset")
	if err != nil {
		t.Fatalf("Submit(/reset) rejected: %v", err)
	}
	if outcome != OutcomeCommand {
		t.Fatalf("outcome = %v, want OutcomeCommand", outcome)
	}

	if got := len(s.Snapshot()); got != 0 {
		t.Fatalf("log length after reset = %d, want 0", got)
	}
	if got := s.UserCount(); got != 0 {
		t.Fatalf("UserCount() after reset = %d, want 0", got)
	}

	// Assignment restarts from the first palette entry.
	*now = now.Add(2 * time.Second)
	session, _ := submitOK(t, s, Session{}, "fresh start")
	if session.Symbol != Palette[0] {
		t.Fatalf("post-reset symbol = %q, want %q", session.Symbol, Palette[0])
	}
}

func TestEmptySubmissionIsPureSnapshot(t *testing.T) {
	notifier := &stubNotifier{}
	s, now := newTestService(notifier)

	session, _ := submitOK(t, s, Session{}, "hello")

	*now = now.Add(100 * time.Millisecond)

	// Inside the cooldown window and with no text: still a plain snapshot.
	polled, snapshot, outcome, err := s.Submit(session, "")
	if err != nil {
		t.Fatalf("empty Submit rejected: %v", err)
	}
	if outcome != OutcomeSnapshot {
		t.Fatalf("outcome = %v, want OutcomeSnapshot", outcome)
	}
	if polled != session {
		t.Fatalf("session mutated by empty submission: %+v != %+v", polled, session)
	}
	if len(snapshot) != 1 {
		t.Fatalf("snapshot length = %d, want 1", len(snapshot))
	}
	if notifier.broadcasts != 1 {
		t.Fatalf("broadcasts = %d, want 1 (polls never broadcast)", notifier.broadcasts)
	}

	// A brand-new caller polling must not be registered.
	before := s.UserCount()
	_, _, _, err = s.Submit(Session{}, "")
	if err != nil {
		t.Fatalf("empty Submit rejected: %v", err)
	}
	if got := s.UserCount(); got != before {
		t.Fatalf("UserCount() changed by empty submission: %d -> %d", before, got)
	}
}

func TestReusedIdentityKeepsSymbol(t *testing.T) {
	s, now := newTestService(nil)

	first, _ := submitOK(t, s, Session{}, "one")
	*now = now.Add(2 * time.Second)
	submitOK(t, s, Session{}, "someone else")

	// Same identity, no symbol cookie: join order still yields the original glyph.
	*now = now.Add(2 * time.Second)
	again, _ := submitOK(t, s, Session{UserID: first.UserID}, "back again")
	if again.Symbol != first.Symbol {
		t.Fatalf("returning user symbol = %q, want %q", again.Symbol, first.Symbol)
	}
	if got := s.UserCount(); got != 2 {
		t.Fatalf("UserCount() = %d, want 2", got)
	}
}
