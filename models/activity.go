// Package models defines data structures used across the application.
// File: models/activity.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ----------------------- activity model -----------------------

// Activity is a named event with a schedule, a capacity and a roster of
// participant emails in signup order.
type Activity struct {
	Name            string   `json:"-"` // filled from the mapping key
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// SpotsLeft is capacity minus roster size, never below zero.
func (a Activity) SpotsLeft() int {
	left := a.MaxParticipants - len(a.Participants)
	if left < 0 {
		return 0
	}
	return left
}

// ----------------------- activity set -----------------------

// Activities maps activity names to activities and remembers the order in
// which the service listed them.
type Activities struct {
	names  []string
	byName map[string]Activity
}

// NewActivities builds a set from activities in the given order. A repeated
// name replaces the earlier entry but keeps its position.
func NewActivities(list ...Activity) Activities {
	set := Activities{byName: make(map[string]Activity, len(list))}
	for _, a := range list {
		set.put(a)
	}
	return set
}

func (s *Activities) put(a Activity) {
	if s.byName == nil {
		s.byName = make(map[string]Activity)
	}
	if _, exists := s.byName[a.Name]; !exists {
		s.names = append(s.names, a.Name)
	}
	s.byName[a.Name] = a
}

// Names returns activity names in service order.
func (s Activities) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Get looks up an activity by its exact name.
func (s Activities) Get(name string) (Activity, bool) {
	a, ok := s.byName[name]
	return a, ok
}

// Len returns the number of activities.
func (s Activities) Len() int {
	return len(s.names)
}

// List returns the activities in service order.
func (s Activities) List() []Activity {
	out := make([]Activity, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.byName[name])
	}
	return out
}

// UnmarshalJSON decodes the service's name -> details object, keeping key order.
func (s *Activities) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("activities: expected JSON object, got %v", tok)
	}

	*s = Activities{byName: make(map[string]Activity)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("activities: unexpected key %v", tok)
		}
		var a Activity
		if err := dec.Decode(&a); err != nil {
			return fmt.Errorf("activities: decoding %q: %w", name, err)
		}
		a.Name = name
		s.put(a)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON writes the set back as an ordered name -> details object.
func (s Activities) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		a := s.byName[name]
		if a.Participants == nil {
			a.Participants = []string{}
		}
		val, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ---------------------- service responses ----------------------

// MessageResponse is the body of a successful mutation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of a failed request. Detail is usually a string
// but validation failures send a list, so it is kept raw.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// DetailText returns the detail when it is a non-empty string.
func (e ErrorResponse) DetailText() string {
	if len(e.Detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(e.Detail, &text); err != nil {
		return ""
	}
	return text
}
