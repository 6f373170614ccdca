// SPDX-License-Identifier: EPL-2.0

// Package tracker debounces recognitions: a track is confirmed only after
// two consecutive recognitions agree on it, and a confirmed track is not
// confirmed again while it keeps playing.
package tracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/ik5/audtag/recognize"
)

// Decision is the outcome of one Observe call.
type Decision int

const (
	// DecisionCandidate means the track was remembered and awaits a repeat.
	DecisionCandidate Decision = iota
	// DecisionConfirmed means the track matched the pending candidate and
	// should be announced.
	DecisionConfirmed
	// DecisionRepeat means the track is the one already confirmed.
	DecisionRepeat
)

func (d Decision) String() string {
	switch d {
	case DecisionCandidate:
		return "candidate"
	case DecisionConfirmed:
		return "confirmed"
	case DecisionRepeat:
		return "repeat"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// StateKind names the tracker's current state.
type StateKind int

const (
	StateIdle StateKind = iota
	StateCandidate
	StateConfirmed
)

func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "idle"
	case StateCandidate:
		return "candidate"
	case StateConfirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("StateKind(%d)", int(k))
	}
}

// Confirmation is the last track that was confirmed.
type Confirmation struct {
	Identity string
	Track    *recognize.Track
	At       time.Time
}

// State is a point-in-time copy of the tracker.
type State struct {
	Kind      StateKind
	Candidate string
	Confirmed *Confirmation
}

// Tracker is safe for concurrent use. Observe is expected from a single
// pipeline loop while status queries read from other goroutines.
type Tracker struct {
	mu        sync.RWMutex
	candidate string
	confirmed *Confirmation
	now       func() time.Time
}

type Option func(*Tracker)

// WithClock sets the time source used to stamp confirmations.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func New(opts ...Option) *Tracker {
	t := &Tracker{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Observe feeds one successful recognition. Failed attempts must not be
// observed; they leave the state unchanged.
func (t *Tracker) Observe(track *recognize.Track) (Decision, Confirmation) {
	id := track.Identity()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.confirmed != nil && t.confirmed.Identity == id {
		return DecisionRepeat, *t.confirmed
	}

	if t.candidate == id {
		t.confirmed = &Confirmation{Identity: id, Track: track, At: t.now()}
		t.candidate = ""
		return DecisionConfirmed, *t.confirmed
	}

	t.candidate = id
	return DecisionCandidate, Confirmation{Identity: id, Track: track}
}

func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := State{Candidate: t.candidate}
	if t.confirmed != nil {
		c := *t.confirmed
		s.Confirmed = &c
	}

	switch {
	case s.Candidate != "":
		s.Kind = StateCandidate
	case s.Confirmed != nil:
		s.Kind = StateConfirmed
	}

	return s
}

// LastConfirmed returns the most recent confirmation, if any.
func (t *Tracker) LastConfirmed() (Confirmation, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.confirmed == nil {
		return Confirmation{}, false
	}

	return *t.confirmed, true
}

// Since answers "what played last": the confirmed identity and how many
// whole seconds before now it was confirmed.
func (t *Tracker) Since(now time.Time) string {
	c, ok := t.LastConfirmed()
	if !ok {
		return "Nothing yet..."
	}

	return fmt.Sprintf("%s, %d seconds ago", c.Identity, int64(now.Sub(c.At)/time.Second))
}
