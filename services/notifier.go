// File: services/notifier.go
package services

import (
	"sync"
	"time"
)

// MessageKind styles the feedback message.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is the feedback area of a page.
type Message struct {
	Text   string      `json:"text"`
	Kind   MessageKind `json:"kind"`
	Hidden bool        `json:"hidden"`
}

// Scheduler runs f after d and returns a function that cancels it.
type Scheduler func(d time.Duration, f func()) (stop func() bool)

// AfterFunc is the production Scheduler.
func AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Notifier owns a single message slot and the one timer that hides it.
// Showing a message cancels whatever hide was pending.
type Notifier struct {
	mu         sync.Mutex
	current    Message
	delay      time.Duration
	schedule   Scheduler
	stop       func() bool
	generation uint64
	onChange   func(Message)
}

// NewNotifier creates a notifier whose messages hide after delay.
// onChange may be nil; it is called outside the lock.
func NewNotifier(delay time.Duration, schedule Scheduler, onChange func(Message)) *Notifier {
	if schedule == nil {
		schedule = AfterFunc
	}
	return &Notifier{
		current:  Message{Hidden: true},
		delay:    delay,
		schedule: schedule,
		onChange: onChange,
	}
}

// Show displays text and (re)arms the hide timer.
func (n *Notifier) Show(kind MessageKind, text string) {
	n.mu.Lock()
	if n.stop != nil {
		n.stop()
	}
	n.generation++
	gen := n.generation
	n.current = Message{Text: text, Kind: kind}
	n.stop = n.schedule(n.delay, func() { n.hide(gen) })
	msg := n.current
	n.mu.Unlock()

	n.notify(msg)
}

// Current returns the message as it should be rendered now.
func (n *Notifier) Current() Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Stop cancels a pending hide without changing the message.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stop != nil {
		n.stop()
		n.stop = nil
	}
	n.generation++
}

// hide runs from the timer; a newer Show makes gen stale.
func (n *Notifier) hide(gen uint64) {
	n.mu.Lock()
	if gen != n.generation {
		n.mu.Unlock()
		return
	}
	n.current.Hidden = true
	n.stop = nil
	msg := n.current
	n.mu.Unlock()

	n.notify(msg)
}

func (n *Notifier) notify(msg Message) {
	if n.onChange != nil {
		n.onChange(msg)
	}
}
