// File: services/page.go
package services

import (
	"errors"
	"net/url"
	"sync"
	"time"

	"mergington-activities/models"
)

// Fixed page texts.
const (
	LoadFailedText     = "Failed to load activities. Please try again later."
	NoParticipantsText = "No participants yet - be the first to sign up!"
)

// Live events pushed to the browser.
const (
	EventShowMessage         = "showMessage"
	EventHideMessage         = "hideMessage"
	EventActivitiesRefreshed = "activitiesRefreshed"
)

// Publisher delivers live events to every browser tab showing a page.
type Publisher interface {
	Publish(pageID string, event interface{})
}

// Event is the payload of a live page update.
type Event struct {
	Action  string   `json:"action"`
	Message *Message `json:"message,omitempty"`
}

// ---------------------- rendering ----------------------

// ParticipantRow is one roster entry together with the activity it was
// rendered under, so its removal targets exactly that pair.
type ParticipantRow struct {
	Activity string `json:"activity"`
	Email    string `json:"email"`
}

// RemoveValue encodes the row for the delegated removal form.
func (r ParticipantRow) RemoveValue() string {
	return url.Values{"activity": {r.Activity}, "email": {r.Email}}.Encode()
}

// ParseRemoveValue reverses RemoveValue.
func ParseRemoveValue(value string) (ParticipantRow, error) {
	values, err := url.ParseQuery(value)
	if err != nil {
		return ParticipantRow{}, err
	}
	row := ParticipantRow{Activity: values.Get("activity"), Email: values.Get("email")}
	if row.Activity == "" || row.Email == "" {
		return ParticipantRow{}, errors.New("removal target needs both activity and email")
	}
	return row, nil
}

// ActivityCard is the rendered form of one activity.
type ActivityCard struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Schedule     string           `json:"schedule"`
	SpotsLeft    int              `json:"spotsLeft"`
	Participants []ParticipantRow `json:"participants"`
}

// HasParticipants decides between the roster list and the placeholder.
func (c ActivityCard) HasParticipants() bool {
	return len(c.Participants) > 0
}

// BuildCards renders activities in service order.
func BuildCards(activities models.Activities) []ActivityCard {
	cards := make([]ActivityCard, 0, activities.Len())
	for _, a := range activities.List() {
		rows := make([]ParticipantRow, 0, len(a.Participants))
		for _, email := range a.Participants {
			rows = append(rows, ParticipantRow{Activity: a.Name, Email: email})
		}
		cards = append(cards, ActivityCard{
			Name:         a.Name,
			Description:  a.Description,
			Schedule:     a.Schedule,
			SpotsLeft:    a.SpotsLeft(),
			Participants: rows,
		})
	}
	return cards
}

// ---------------------- page ----------------------

// SignupForm holds the values shown in the signup form.
type SignupForm struct {
	Activity string `json:"activity"`
	Email    string `json:"email"`
}

// PageView is an immutable snapshot used by templates and the JSON state endpoint.
type PageView struct {
	ID                 string         `json:"id"`
	Cards              []ActivityCard `json:"cards"`
	Options            []string       `json:"options"`
	Loaded             bool           `json:"loaded"`
	LoadFailed         bool           `json:"loadFailed"`
	LoadFailedText     string         `json:"-"`
	NoParticipantsText string         `json:"-"`
	Form               SignupForm     `json:"form"`
	Message            Message        `json:"message"`
}

// Page is the server-side document of one browser session.
type Page struct {
	ID string

	mu         sync.Mutex
	cards      []ActivityCard
	options    []string
	loaded     bool
	loadFailed bool
	form       SignupForm
	lastSeen   time.Time

	notifier  *Notifier
	publisher Publisher
}

// NewPage creates an empty page. publisher may be nil.
func NewPage(id string, messageTimeout time.Duration, schedule Scheduler, publisher Publisher) *Page {
	p := &Page{ID: id, publisher: publisher, lastSeen: time.Now()}
	p.notifier = NewNotifier(messageTimeout, schedule, func(msg Message) {
		action := EventShowMessage
		if msg.Hidden {
			action = EventHideMessage
		}
		p.publish(Event{Action: action, Message: &msg})
	})
	return p
}

// Notifier returns the page's feedback slot.
func (p *Page) Notifier() *Notifier {
	return p.notifier
}

// View snapshots the page.
func (p *Page) View() PageView {
	p.mu.Lock()
	defer p.mu.Unlock()

	cards := make([]ActivityCard, len(p.cards))
	copy(cards, p.cards)
	options := make([]string, len(p.options))
	copy(options, p.options)

	return PageView{
		ID:                 p.ID,
		Cards:              cards,
		Options:            options,
		Loaded:             p.loaded,
		LoadFailed:         p.loadFailed,
		LoadFailedText:     LoadFailedText,
		NoParticipantsText: NoParticipantsText,
		Form:               p.form,
		Message:            p.notifier.Current(),
	}
}

// Touch records activity for idle eviction.
func (p *Page) Touch(now time.Time) {
	p.mu.Lock()
	p.lastSeen = now
	p.mu.Unlock()
}

// LastSeen reports the last Touch.
func (p *Page) LastSeen() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}

// Close cancels the pending hide timer.
func (p *Page) Close() {
	p.notifier.Stop()
}

// replaceActivities swaps in a freshly fetched list and its select options.
func (p *Page) replaceActivities(activities models.Activities) {
	p.mu.Lock()
	p.cards = BuildCards(activities)
	p.options = activities.Names()
	p.loaded = true
	p.loadFailed = false
	p.mu.Unlock()

	p.publish(Event{Action: EventActivitiesRefreshed})
}

// showLoadFailure replaces the list with the fallback text. Options stay as they were.
func (p *Page) showLoadFailure() {
	p.mu.Lock()
	p.cards = nil
	p.loaded = true
	p.loadFailed = true
	p.mu.Unlock()
}

func (p *Page) setForm(form SignupForm) {
	p.mu.Lock()
	p.form = form
	p.mu.Unlock()
}

func (p *Page) resetForm() {
	p.setForm(SignupForm{})
}

func (p *Page) publish(event Event) {
	if p.publisher != nil {
		p.publisher.Publish(p.ID, event)
	}
}
