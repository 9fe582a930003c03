// file: services/test_helpers_test.go
package services

import (
	"sync"
	"time"

	"mergington-activities/models"
)

// manualScheduler captures scheduled callbacks so tests fire them by hand.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
}

func (s *manualScheduler) schedule(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{delay: d, f: f}
	s.pending = append(s.pending, t)
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		wasActive := !t.stopped
		t.stopped = true
		return wasActive
	}
}

// fireAll runs every timer, including stopped ones, to mimic a timer that
// already fired while being stopped.
func (s *manualScheduler) fireAll(includeStopped bool) {
	s.mu.Lock()
	timers := append([]*manualTimer(nil), s.pending...)
	s.mu.Unlock()
	for _, t := range timers {
		if t.stopped && !includeStopped {
			continue
		}
		t.f()
	}
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingPublisher) Publish(pageID string, event interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event.(Event))
}

func (r *recordingPublisher) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

func chessClub() models.Activities {
	return models.NewActivities(models.Activity{
		Name:            "Chess Club",
		Description:     "Learn strategies and compete in chess tournaments",
		Schedule:        "Mon 3pm",
		MaxParticipants: 10,
		Participants:    []string{"a@x.com"},
	})
}
