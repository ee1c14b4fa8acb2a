package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/session"
	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request.
// This centralizes user session handling and eliminates code duplication.
func UserContextMiddleware(c *fiber.Ctx) error {
	// Get session with error handling
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		// On error: set as anonymous user
		c.Locals("USER_CONTEXT", usercontext.UserContext{
			IsLoggedIn: false,
			IsAdmin:    false,
		})
		c.Locals(usercontext.KeyFromProtected, false)
		c.Locals(usercontext.KeyIsAdmin, false)
		return c.Next()
	}

	// Get user ID from session
	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		// Anonymous user - no session data
		c.Locals("USER_CONTEXT", usercontext.UserContext{
			IsLoggedIn: false,
			IsAdmin:    false,
		})
		c.Locals(usercontext.KeyFromProtected, false)
		c.Locals(usercontext.KeyIsAdmin, false)
		return c.Next()
	}

	// User is logged in - get additional data
	username := session.GetSessionValue(c, usercontext.KeyUsername)
	isAdmin := sess.Get(usercontext.KeyIsAdmin)

	// Set complete user context
	userCtx := usercontext.UserContext{
		UserID:     userID.(uint),
		Username:   username,
		IsLoggedIn: true,
		IsAdmin:    isAdmin != nil && isAdmin.(bool),
	}
	c.Locals("USER_CONTEXT", userCtx)

	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUsername, username)
	c.Locals(usercontext.KeyUserID, userID.(uint))

	return c.Next()
}
