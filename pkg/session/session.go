// Package session keeps the interactive state a host carries between layout
// passes: the selected element and the overlap warning the user dismissed.
//
// A session is small and short-lived. Two stores are provided:
//   - FileStore: one JSON file per session, used by the CLI so that
//     `check --dismiss` is remembered across runs
//   - CacheStore: sessions kept in any cache.Cache with a TTL, used by the
//     HTTP server (memory or Redis)
//
// # Usage
//
//	sess := session.New(session.DefaultTTL)
//	sc := scheme.Build(elems, opts, sess.View())
//	if sess.Observe(sc.Fingerprint) && sess.ShouldWarn() {
//	    // show the warning
//	}
//	sess.Dismiss()
//	store.Set(ctx, sess)
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/drivetrain/pkg/errors"
	"github.com/matzehuels/drivetrain/pkg/overlap"
	"github.com/matzehuels/drivetrain/pkg/scheme"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 24 * time.Hour

// Session is the interactive state of one diagram view.
type Session struct {
	ID string `json:"id"`
	// Selected is the focused owner id.
	Selected string `json:"selected,omitempty"`
	// Dismissed is the overlap fingerprint whose warning was dismissed.
	Dismissed string `json:"dismissed,omitempty"`
	// Last is the fingerprint of the most recent pass.
	Last      string    `json:"last,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates a session with a random id.
func New(ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// IsExpired reports whether the session outlived its TTL.
func (s *Session) IsExpired() bool { return time.Now().After(s.ExpiresAt) }

// Touch extends the expiry by ttl from now.
func (s *Session) Touch(ttl time.Duration) { s.ExpiresAt = time.Now().Add(ttl) }

// View returns the state a layout pass reads.
func (s *Session) View() scheme.ViewState {
	return scheme.ViewState{Selected: s.Selected, Dismissed: s.Dismissed}
}

func (s *Session) tracker() *overlap.Tracker {
	t := overlap.NewTracker(s.Dismissed)
	t.Observe(s.Last)
	return t
}

// Observe records the fingerprint of a new pass and reports whether it
// differs from the previous one.
func (s *Session) Observe(fp string) (changed bool) {
	t := s.tracker()
	changed = t.Observe(fp)
	s.Last = fp
	return changed
}

// ShouldWarn reports whether the last observed overlap set needs a warning.
func (s *Session) ShouldWarn() bool { return s.tracker().ShouldWarn() }

// Dismiss silences the warning for the last observed overlap set.
func (s *Session) Dismiss() {
	t := s.tracker()
	t.Dismiss()
	s.Dismissed = t.Dismissed()
}

// DismissFingerprint silences the warning for an explicit fingerprint.
func (s *Session) DismissFingerprint(fp string) error {
	if err := errors.ValidateFingerprint(fp); err != nil {
		return err
	}
	s.Dismissed = fp
	return nil
}

// Store persists sessions.
type Store interface {
	// Get returns the session, or nil if it does not exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)
	Set(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Load fetches a session and converts a miss into a SESSION_NOT_FOUND error.
func Load(ctx context.Context, st Store, id string) (*Session, error) {
	s, err := st.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}
	if s == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return s, nil
}
