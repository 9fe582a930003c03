// File: services/activity_client.go
package services

import (
	"context"
	"errors"
	"time"

	"mergington-activities/logger"
	"mergington-activities/metrics"
	"mergington-activities/models"
)

// Feedback texts authored by the client rather than the service.
const (
	GenericErrorText  = "An error occurred"
	SignupFailedText  = "Failed to sign up. Please try again."
	RemovalFailedText = "Failed to remove participant. Please try again."
)

// ActivityClient fetches, renders and mutates activities on behalf of a page.
// It never retries; every failure is terminal for that action.
type ActivityClient struct {
	api     ActivityAPI
	metrics metrics.Recorder
}

// NewActivityClient wires the client to the service. recorder may be nil.
func NewActivityClient(api ActivityAPI, recorder metrics.Recorder) *ActivityClient {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &ActivityClient{api: api, metrics: recorder}
}

// ListActivities fetches the activity set and replaces the page's list and
// select options with it. On failure the page shows the fallback text, the
// error is logged and nil is returned.
func (ac *ActivityClient) ListActivities(ctx context.Context, page *Page) *models.Activities {
	start := time.Now()
	activities, err := ac.api.ListActivities(ctx)
	if err != nil {
		ac.metrics.ObserveList(outcomeOf(err), time.Since(start))
		logger.Error.Printf("[ListActivities] page=%s: error fetching activities: %v", page.ID, err)
		page.showLoadFailure()
		return nil
	}
	ac.metrics.ObserveList(metrics.OutcomeSuccess, time.Since(start))

	page.replaceActivities(activities)
	logger.Debug.Printf("[ListActivities] page=%s: rendered %d activities", page.ID, activities.Len())
	return &activities
}

// Signup adds email to the activity's roster. The returned error is for the
// caller's information only; feedback has already been shown on the page.
func (ac *ActivityClient) Signup(ctx context.Context, page *Page, activity, email string) error {
	page.setForm(SignupForm{Activity: activity, Email: email})

	message, err := ac.api.Signup(ctx, activity, email)
	return ac.finishMutation(ctx, page, metrics.ActionSignup, SignupFailedText, message, err)
}

// RemoveParticipant deletes email from the activity's roster, with the same
// feedback contract as Signup. The signup form is left alone.
func (ac *ActivityClient) RemoveParticipant(ctx context.Context, page *Page, activity, email string) error {
	message, err := ac.api.RemoveParticipant(ctx, activity, email)
	return ac.finishMutation(ctx, page, metrics.ActionRemove, RemovalFailedText, message, err)
}

func (ac *ActivityClient) finishMutation(ctx context.Context, page *Page, action, transportText, message string, err error) error {
	ac.metrics.CountMutation(action, outcomeOf(err))

	var apiErr *APIError
	switch {
	case err == nil:
		logger.Info.Printf("[%s] page=%s: %s", action, page.ID, message)
		page.Notifier().Show(MessageSuccess, message)
		if action == metrics.ActionSignup {
			page.resetForm()
		}
		ac.ListActivities(ctx, page)
		return nil

	case errors.As(err, &apiErr):
		detail := apiErr.Detail
		if detail == "" {
			detail = GenericErrorText
		}
		logger.Warn.Printf("[%s] page=%s: rejected: %v", action, page.ID, err)
		page.Notifier().Show(MessageError, detail)
		return err

	default:
		logger.Error.Printf("[%s] page=%s: error: %v", action, page.ID, err)
		page.Notifier().Show(MessageError, transportText)
		return err
	}
}

func outcomeOf(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &apiErr):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeTransport
	}
}
