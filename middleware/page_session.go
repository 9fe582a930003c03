// Package middleware provides request filters for the application.
// File: middleware/page_session.go
package middleware

import (
	"crypto/sha256"
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
	"mergington-activities/logger"
)

// SessionName is the cookie that carries the page ID.
const SessionName = "activities_session"

const (
	pageIDSessionKey = "pageID"
	pageIDContextKey = "pageID"
)

// -------------- session store --------------

// NewSessionStore derives separate signing and encryption keys from secret
// and returns a cookie store using them.
func NewSessionStore(secret string, secure bool) (sessions.Store, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}

	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("activities session cookie"))
	authKey := make([]byte, 32)
	encKey := make([]byte, 32)
	if _, err := io.ReadFull(kdf, authKey); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(kdf, encKey); err != nil {
		return nil, err
	}

	store := cookie.NewStore(authKey, encKey)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// -------------- page session middleware --------------

// PageSession makes sure the session has a page ID and exposes it via PageID.
// How it works:
// - Reads "pageID" from the session.
// - If missing, generates a new one and saves the session.
// - Stores the ID on the gin context for handlers.
func PageSession(c *gin.Context) {
	session := sessions.Default(c)
	pageID, ok := session.Get(pageIDSessionKey).(string)

	if !ok || pageID == "" {
		pageID = uuid.NewString()
		session.Set(pageIDSessionKey, pageID)
		if err := session.Save(); err != nil {
			logger.Error.Printf("[PageSession] Error saving session: %v", err)
			c.String(http.StatusInternalServerError, "Error saving session")
			c.Abort()
			return
		}
		logger.Debug.Printf("[PageSession] Assigned new page %s", pageID)
	}

	c.Set(pageIDContextKey, pageID)
	c.Next()
}

// PageID returns the page ID set by PageSession, or "" outside it.
func PageID(c *gin.Context) string {
	return c.GetString(pageIDContextKey)
}
