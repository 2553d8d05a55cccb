package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "github.com/zhravan/juztadrop-sub000/internal/domain/errors"
	"github.com/zhravan/juztadrop-sub000/pkg/logger"
	"go.uber.org/zap"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error maps err onto the HTTP taxonomy and writes it. Server errors are
// logged with their cause; the client only sees the generic message.
func Error(c *gin.Context, err error) {
	appErr := domainerrors.FromDomain(err)
	if appErr == nil {
		appErr = domainerrors.InternalServerError("internal server error")
	}

	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
		"error":   appErr.Message,
	})
}

// AbortWithError writes err like Error and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
