// Package services holds the activity client, its page model and the
// upstream activity service client.
// File: services/activity_api.go
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"mergington-activities/models"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 1 << 20

// ActivityAPI is the contract of the external activity service.
type ActivityAPI interface {
	ListActivities(ctx context.Context) (models.Activities, error)
	Signup(ctx context.Context, activity, email string) (string, error)
	RemoveParticipant(ctx context.Context, activity, email string) (string, error)
}

// ---------------------- errors ----------------------

// TransportError means the request never completed or its body could not be parsed.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx answer carrying a structured error body.
// Detail is empty when the service gave no usable text.
type APIError struct {
	Op     string
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Detail)
}

// ---------------------- client ----------------------

// APIClient talks to the activity service over HTTP.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ ActivityAPI = (*APIClient)(nil)

// NewAPIClient creates a client for the service rooted at baseURL
// (e.g. "http://localhost:8000"). A nil httpClient gets a 10s timeout default.
func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ListActivities fetches GET /activities.
func (c *APIClient) ListActivities(ctx context.Context) (models.Activities, error) {
	const op = "list activities"

	status, body, err := c.do(ctx, http.MethodGet, "/activities", nil)
	if err != nil {
		return models.Activities{}, &TransportError{Op: op, Err: err}
	}
	if !isSuccess(status) {
		return models.Activities{}, apiError(op, status, body)
	}

	var activities models.Activities
	if err := json.Unmarshal(body, &activities); err != nil {
		return models.Activities{}, &TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return activities, nil
}

// Signup calls POST /activities/{name}/signup?email= and returns the confirmation message.
func (c *APIClient) Signup(ctx context.Context, activity, email string) (string, error) {
	return c.mutate(ctx, "sign up", http.MethodPost, activity, "signup", email)
}

// RemoveParticipant calls DELETE /activities/{name}/remove?email= and returns the confirmation message.
func (c *APIClient) RemoveParticipant(ctx context.Context, activity, email string) (string, error) {
	return c.mutate(ctx, "remove participant", http.MethodDelete, activity, "remove", email)
}

func (c *APIClient) mutate(ctx context.Context, op, method, activity, action, email string) (string, error) {
	path := "/activities/" + url.PathEscape(activity) + "/" + action
	query := url.Values{"email": {email}}

	status, body, err := c.do(ctx, method, path, query)
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}
	if !isSuccess(status) {
		return "", apiError(op, status, body)
	}

	var resp models.MessageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return resp.Message, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, query url.Values) (int, []byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// apiError decodes a failure body. An unparseable body is a transport failure.
func apiError(op string, status int, body []byte) error {
	var resp models.ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("status %d with unreadable body: %w", status, err)}
	}
	return &APIError{Op: op, Status: status, Detail: resp.DetailText()}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
