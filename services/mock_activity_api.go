package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"mergington-activities/models"
)

// Ensure MockActivityAPI implements ActivityAPI
var _ ActivityAPI = (*MockActivityAPI)(nil)

// MockActivityAPI is a testify mock of the activity service.
type MockActivityAPI struct {
	mock.Mock
}

// ListActivities (Mocked)
func (m *MockActivityAPI) ListActivities(ctx context.Context) (models.Activities, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Activities), args.Error(1)
}

// Signup (Mocked)
func (m *MockActivityAPI) Signup(ctx context.Context, activity, email string) (string, error) {
	args := m.Called(ctx, activity, email)
	return args.String(0), args.Error(1)
}

// RemoveParticipant (Mocked)
func (m *MockActivityAPI) RemoveParticipant(ctx context.Context, activity, email string) (string, error) {
	args := m.Called(ctx, activity, email)
	return args.String(0), args.Error(1)
}
