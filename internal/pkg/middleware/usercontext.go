package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"

	"github.com/ManuelReschke/ReviewDesk/app/repository"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/apperror"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/session"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the user context for every request from the
// session identity. The user is reloaded each time so role changes and
// deletions take effect immediately; deleted users stay anonymous.
func UserContextMiddleware(store *fibersession.Store, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		anonymous := usercontext.UserContext{IsLoggedIn: false}

		userID := session.UserID(store, c)
		if userID == 0 {
			usercontext.Set(c, anonymous)
			return c.Next()
		}

		user, err := users.FindByID(userID)
		if err != nil {
			if !errors.Is(err, apperror.ErrNotFound) {
				log.Warnf("[UserContext] Failed to load user %d: %v", userID, err)
			}
			usercontext.Set(c, anonymous)
			return c.Next()
		}
		if !user.IsActive() {
			usercontext.Set(c, anonymous)
			return c.Next()
		}

		usercontext.Set(c, usercontext.UserContext{
			UserID:     user.ID,
			Username:   user.Username,
			Role:       user.Role,
			IsLoggedIn: true,
		})
		return c.Next()
	}
}
