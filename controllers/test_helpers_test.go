// file: controllers/test_helpers_test.go
package controllers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"mergington-activities/middleware"
	"mergington-activities/services"
	"mergington-activities/websocket"
)

// templatesGlob locates the real templates relative to this file.
func templatesGlob() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(b), "..", "templates", "*.html")
}

// setupTestRouter creates a Gin engine with session middleware, the real
// templates and a PageController backed by api.
func setupTestRouter(t *testing.T, api services.ActivityAPI) (*gin.Engine, *PageController) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	store, err := middleware.NewSessionStore("test-secret", false)
	if err != nil {
		t.Fatalf("Failed to create session store: %v", err)
	}
	router.Use(sessions.Sessions(middleware.SessionName, store))
	router.LoadHTMLGlob(templatesGlob())

	hub := websocket.NewHub("", nil)
	pages := services.NewPageRegistry(func(id string) *services.Page {
		return services.NewPage(id, time.Minute, nil, hub)
	})
	pc := NewPageController(services.NewActivityClient(api, nil), pages, hub,
		"http://localhost:8080", "ws://localhost:8080/page-updates")

	router.GET("/health", Health)
	router.GET("/qrcode", pc.GetQRCode)
	group := router.Group("/", middleware.PageSession)
	{
		group.GET("/", pc.Index)
		group.POST("/signup", pc.Signup)
		group.POST("/participants/remove", pc.RemoveParticipant)
		group.GET("/page/state", pc.State)
		group.GET("/page-updates", pc.PageUpdates)
	}
	return router, pc
}

// sessionCookie returns the session cookie set on a response, if any.
func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionName {
			return cookie
		}
	}
	return nil
}
