package middleware

import (
	"github.com/gin-gonic/gin"
	domainerrors "github.com/zhravan/juztadrop-sub000/internal/domain/errors"
	"github.com/zhravan/juztadrop-sub000/internal/interfaces/http/response"
	"github.com/zhravan/juztadrop-sub000/pkg/crypto"
	"github.com/zhravan/juztadrop-sub000/pkg/logger"
	"go.uber.org/zap"
)

// AuthIDHeader carries the shared secret for moderator admin routes.
const AuthIDHeader = "x-auth-id"

// RequireSharedSecret compares the x-auth-id header to secret in constant
// time. An empty secret rejects every request.
func RequireSharedSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(AuthIDHeader)
		if secret == "" || provided == "" || !crypto.SecureCompare(provided, secret) {
			logger.Warn(c.Request.Context(), "shared secret rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Bool("configured", secret != ""),
			)
			response.AbortWithError(c, domainerrors.Unauthorized(domainerrors.MsgInvalidSecret))
			return
		}
		c.Next()
	}
}
