// Package display holds the presentation adapters: the stat value-transition
// state machine and terminal rendering of snapshots.
package display

import (
	"sync"
	"time"
)

const defaultTransitionDelay = 300 * time.Millisecond

// StatValue animates one displayed stat. On a new value it holds the old one
// on screen for a fixed visual delay, then swaps. The animation is cosmetic:
// when several updates land inside the transition window only the latest is
// committed, so the displayed value always converges to the latest resolved
// one.
type StatValue struct {
	mu        sync.Mutex
	delay     time.Duration
	displayed string
	pending   string
	updating  bool
	gen       uint64
}

// NewStatValue creates a stat with the given transition delay; zero or
// negative means the default 300ms.
func NewStatValue(delay time.Duration) *StatValue {
	if delay <= 0 {
		delay = defaultTransitionDelay
	}
	return &StatValue{delay: delay}
}

// Push offers a new value. Equal values are ignored; a differing one starts
// (or supersedes) a transition.
func (s *StatValue) Push(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updating {
		if v == s.pending {
			return
		}
	} else if v == s.displayed {
		return
	}

	s.pending = v
	s.updating = true
	s.gen++
	gen := s.gen

	time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// a later push superseded this transition
		if s.gen != gen {
			return
		}
		s.displayed = s.pending
		s.updating = false
	})
}

// Current returns the value to show and whether a transition is in progress.
func (s *StatValue) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayed, s.updating
}
