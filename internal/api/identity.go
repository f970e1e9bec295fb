package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	userCookieName = "user_id"
	// One year; the identity is a long-lived anonymous handle, not a session
	userCookieMaxAge = 365 * 24 * 60 * 60
)

// UserIDFromCookie returns the caller's user identifier, or "" when no
// cookie is present. A missing identifier disables history persistence for
// the request; it is not an error.
func UserIDFromCookie(c *gin.Context) string {
	id, err := c.Cookie(userCookieName)
	if err != nil {
		return ""
	}
	return id
}

// EnsureUserID returns the caller's user identifier, assigning and setting a
// fresh random one on first visit.
func EnsureUserID(c *gin.Context) string {
	if id := UserIDFromCookie(c); id != "" {
		c.Set("userId", id)
		return id
	}

	id := uuid.New().String()
	c.SetCookie(userCookieName, id, userCookieMaxAge, "/", "", false, true)
	c.Set("userId", id)
	return id
}
