package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
	domainerrors "github.com/zhravan/juztadrop-sub000/internal/domain/errors"
	"github.com/zhravan/juztadrop-sub000/internal/interfaces/http/response"
	"github.com/zhravan/juztadrop-sub000/internal/usecases"
	"github.com/zhravan/juztadrop-sub000/pkg/logger"
	"go.uber.org/zap"
)

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey = "userId"
	// UserKey is the context key for the authenticated user
	UserKey = "user"
	// ModeratorIDKey is the context key for the authenticated moderator's ID
	ModeratorIDKey = "moderatorId"
	// ModeratorKey is the context key for the authenticated moderator
	ModeratorKey = "moderator"
)

// UserSessionValidator checks user session tokens.
type UserSessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*usecases.ValidatedSession[*entities.User], error)
}

// ModeratorSessionValidator checks moderator session tokens.
type ModeratorSessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*usecases.ValidatedSession[*entities.Moderator], error)
}

// RequireUserSession rejects the request unless the session cookie holds a
// valid user session.
func RequireUserSession(v UserSessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			response.AbortWithError(c, domainerrors.Unauthorized(domainerrors.MsgAuthRequired))
			return
		}

		validated, err := v.ValidateSession(c.Request.Context(), token)
		if err != nil {
			abortSession(c, err)
			return
		}

		c.Set(UserIDKey, validated.PrincipalID)
		c.Set(UserKey, validated.Principal)
		c.Next()
	}
}

// OptionalUserSession attaches the user when a valid session is present and
// otherwise lets the request through untouched.
func OptionalUserSession(v UserSessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		validated, err := v.ValidateSession(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, domainerrors.ErrInvalidSession) {
				logger.Warn(c.Request.Context(), "optional session check failed", zap.Error(err))
			}
			c.Next()
			return
		}

		c.Set(UserIDKey, validated.PrincipalID)
		c.Set(UserKey, validated.Principal)
		c.Next()
	}
}

// RequireModeratorSession is the moderator counterpart of RequireUserSession.
// userId is set to the backing user of the moderator.
func RequireModeratorSession(v ModeratorSessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			response.AbortWithError(c, domainerrors.Unauthorized(domainerrors.MsgAuthRequired))
			return
		}

		validated, err := v.ValidateSession(c.Request.Context(), token)
		if err != nil {
			abortSession(c, err)
			return
		}

		c.Set(ModeratorIDKey, validated.PrincipalID)
		c.Set(ModeratorKey, validated.Principal)
		c.Set(UserIDKey, validated.Principal.UserID)
		c.Next()
	}
}

func abortSession(c *gin.Context, err error) {
	if errors.Is(err, domainerrors.ErrInvalidSession) {
		response.AbortWithError(c, domainerrors.Unauthorized(domainerrors.MsgInvalidSession))
		return
	}
	response.AbortWithError(c, err)
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUser gets the authenticated user from context
func GetUser(c *gin.Context) (*entities.User, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*entities.User)
	return user, ok
}

// GetModerator gets the authenticated moderator from context
func GetModerator(c *gin.Context) (*entities.Moderator, bool) {
	v, exists := c.Get(ModeratorKey)
	if !exists {
		return nil, false
	}
	moderator, ok := v.(*entities.Moderator)
	return moderator, ok
}
