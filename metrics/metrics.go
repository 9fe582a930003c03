// Package metrics records frontend activity to Prometheus and, optionally, CloudWatch.
// file: metrics/metrics.go
package metrics

import "time"

// Outcome labels shared by every recorder.
const (
	OutcomeSuccess   = "success"
	OutcomeRejected  = "rejected"
	OutcomeTransport = "transport_error"
)

// Action labels for mutations.
const (
	ActionSignup = "signup"
	ActionRemove = "remove"
)

// Recorder is implemented by every metrics sink.
type Recorder interface {
	ObserveList(outcome string, elapsed time.Duration)
	CountMutation(action, outcome string)
	SetConnectedPages(count int)
}

// Nop discards everything.
type Nop struct{}

func (Nop) ObserveList(string, time.Duration) {}
func (Nop) CountMutation(string, string)      {}
func (Nop) SetConnectedPages(int)             {}

// Multi fans each call out to all recorders.
type Multi []Recorder

func (m Multi) ObserveList(outcome string, elapsed time.Duration) {
	for _, r := range m {
		r.ObserveList(outcome, elapsed)
	}
}

func (m Multi) CountMutation(action, outcome string) {
	for _, r := range m {
		r.CountMutation(action, outcome)
	}
}

func (m Multi) SetConnectedPages(count int) {
	for _, r := range m {
		r.SetConnectedPages(count)
	}
}
