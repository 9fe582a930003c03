//go:build integration
// +build integration

// integration/page_flow_test.go
package integration

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mergington-activities/controllers"
	"mergington-activities/middleware"
	"mergington-activities/services"
	ws "mergington-activities/websocket"
)

const messageTimeout = 150 * time.Millisecond

// activityService is an in-memory stand-in for the school's activity API.
type activityService struct {
	mu         sync.Mutex
	order      []string
	activities map[string]map[string]interface{}
}

func newActivityService() *activityService {
	return &activityService{
		order: []string{"Chess Club", "Programming Class"},
		activities: map[string]map[string]interface{}{
			"Chess Club": {
				"description":      "Learn strategies and compete in chess tournaments",
				"schedule":         "Fridays, 3:30 PM - 5:00 PM",
				"max_participants": 12,
				"participants":     []string{"michael@mergington.edu", "daniel@mergington.edu"},
			},
			"Programming Class": {
				"description":      "Learn programming fundamentals and build software projects",
				"schedule":         "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
				"max_participants": 20,
				"participants":     []string{},
			},
		},
	}
}

func (s *activityService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /activities", s.list)
	mux.HandleFunc("POST /activities/{name}/signup", s.signup)
	mux.HandleFunc("DELETE /activities/{name}/remove", s.remove)
	return mux
}

func (s *activityService) list(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.WriteString("{")
	for i, name := range s.order {
		if i > 0 {
			b.WriteString(",")
		}
		key, _ := json.Marshal(name)
		value, _ := json.Marshal(s.activities[name])
		b.Write(key)
		b.WriteString(":")
		b.Write(value)
	}
	b.WriteString("}")
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, b.String())
}

func (s *activityService) signup(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, email := r.PathValue("name"), r.URL.Query().Get("email")
	activity, ok := s.activities[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Activity not found"})
		return
	}
	participants := activity["participants"].([]string)
	for _, p := range participants {
		if p == email {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Student is already signed up"})
			return
		}
	}
	activity["participants"] = append(participants, email)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Signed up " + email + " for " + name})
}

func (s *activityService) remove(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, email := r.PathValue("name"), r.URL.Query().Get("email")
	activity, ok := s.activities[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Activity not found"})
		return
	}
	participants := activity["participants"].([]string)
	for i, p := range participants {
		if p == email {
			activity["participants"] = append(participants[:i:i], participants[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Removed " + email + " from " + name})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Participant not found"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// startFrontend serves the full page stack against upstreamURL.
func startFrontend(t *testing.T, upstreamURL string) (*httptest.Server, *ws.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	_, b, _, _ := runtime.Caller(0)
	templates := filepath.Join(filepath.Dir(b), "..", "templates", "*.html")

	store, err := middleware.NewSessionStore("integration-secret", false)
	require.NoError(t, err)

	hub := ws.NewHub("", nil)
	pages := services.NewPageRegistry(func(id string) *services.Page {
		return services.NewPage(id, messageTimeout, nil, hub)
	})
	api := services.NewAPIClient(upstreamURL, &http.Client{Timeout: 2 * time.Second})
	pc := controllers.NewPageController(services.NewActivityClient(api, nil), pages, hub, "", "")

	router := gin.New()
	router.Use(sessions.Sessions(middleware.SessionName, store))
	router.LoadHTMLGlob(templates)
	group := router.Group("/", middleware.PageSession)
	{
		group.GET("/", pc.Index)
		group.POST("/signup", pc.Signup)
		group.POST("/participants/remove", pc.RemoveParticipant)
		group.GET("/page-updates", pc.PageUpdates)
	}

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, hub
}

type pageEvent struct {
	Action  string            `json:"action"`
	Message *services.Message `json:"message"`
}

func readEvent(t *testing.T, conn *websocket.Conn) pageEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev pageEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

// Given: a browser with an open page and a live update socket.
// When: it signs up, signs up again and removes the participant.
// Then: the page reflects each step and every message hides after the timeout.
func TestSignupAndRemovalFlow(t *testing.T) {
	upstream := httptest.NewServer(newActivityService().handler())
	defer upstream.Close()
	frontend, hub := startFrontend(t, upstream.URL)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	resp, err := client.Get(frontend.URL + "/")
	require.NoError(t, err)
	page := body(t, resp)
	assert.Contains(t, page, "Chess Club")
	assert.Contains(t, page, "10 spots left")

	frontendURL, _ := url.Parse(frontend.URL)
	header := http.Header{}
	for _, c := range jar.Cookies(frontendURL) {
		header.Add("Cookie", c.String())
	}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(frontend.URL, "http")+"/page-updates", header)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	// signup succeeds
	resp, err = client.PostForm(frontend.URL+"/signup", url.Values{
		"activity": {"Programming Class"},
		"email":    {"emma@mergington.edu"},
	})
	require.NoError(t, err)
	page = body(t, resp)
	assert.Contains(t, page, "Signed up emma@mergington.edu for Programming Class")
	assert.Contains(t, page, "19 spots left")

	ev := readEvent(t, conn)
	assert.Equal(t, services.EventShowMessage, ev.Action)
	require.NotNil(t, ev.Message)
	assert.Equal(t, services.MessageSuccess, ev.Message.Kind)
	assert.Equal(t, services.EventActivitiesRefreshed, readEvent(t, conn).Action)
	ev = readEvent(t, conn)
	assert.Equal(t, services.EventHideMessage, ev.Action)
	assert.True(t, ev.Message.Hidden)

	// duplicate signup is rejected and keeps the form
	resp, err = client.PostForm(frontend.URL+"/signup", url.Values{
		"activity": {"Programming Class"},
		"email":    {"emma@mergington.edu"},
	})
	require.NoError(t, err)
	page = body(t, resp)
	assert.Contains(t, page, "Student is already signed up")
	assert.Contains(t, page, `value="emma@mergington.edu"`)

	ev = readEvent(t, conn)
	assert.Equal(t, services.EventShowMessage, ev.Action)
	assert.Equal(t, services.MessageError, ev.Message.Kind)
	assert.Equal(t, services.EventHideMessage, readEvent(t, conn).Action)

	// removal through the delegated list form
	row := services.ParticipantRow{Activity: "Programming Class", Email: "emma@mergington.edu"}
	resp, err = client.PostForm(frontend.URL+"/participants/remove", url.Values{"remove": {row.RemoveValue()}})
	require.NoError(t, err)
	page = body(t, resp)
	assert.Contains(t, page, "Removed emma@mergington.edu from Programming Class")
	assert.Contains(t, page, "20 spots left")
	assert.Equal(t, services.EventShowMessage, readEvent(t, conn).Action)
	assert.Equal(t, services.EventActivitiesRefreshed, readEvent(t, conn).Action)
}

// Given: an activity service that is down.
// When: the page loads.
// Then: the fallback text is rendered instead of an error page.
func TestUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	upstreamURL := upstream.URL
	upstream.Close()

	frontend, _ := startFrontend(t, upstreamURL)

	resp, err := http.Get(frontend.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), services.LoadFailedText)
}
