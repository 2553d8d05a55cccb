package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
	domainerrors "github.com/zhravan/juztadrop-sub000/internal/domain/errors"
	"github.com/zhravan/juztadrop-sub000/internal/interfaces/http/middleware"
	"github.com/zhravan/juztadrop-sub000/internal/interfaces/http/response"
	"github.com/zhravan/juztadrop-sub000/internal/usecases"
)

type moderatorAuthService interface {
	SendOtp(ctx context.Context, email string) error
	VerifyOtp(ctx context.Context, email, code string) (*entities.ModeratorLoginResult, error)
	Logout(ctx context.Context, token string) error
}

// ModeratorAuthHandler handles moderator login endpoints
type ModeratorAuthHandler struct {
	usecase      moderatorAuthService
	secureCookie bool
}

func NewModeratorAuthHandler(usecase *usecases.ModeratorUsecase, secureCookie bool) *ModeratorAuthHandler {
	return &ModeratorAuthHandler{usecase: usecase, secureCookie: secureCookie}
}

// POST /moderator-auth/otp/send
func (h *ModeratorAuthHandler) SendOtp(c *gin.Context) {
	email, ok := bindSendOtp(c)
	if !ok {
		return
	}
	if err := h.usecase.SendOtp(c.Request.Context(), email); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "OTP sent to your email"})
}

// POST /moderator-auth/otp/verify
func (h *ModeratorAuthHandler) VerifyOtp(c *gin.Context) {
	input, ok := bindVerifyOtp(c)
	if !ok {
		return
	}

	result, err := h.usecase.VerifyOtp(c.Request.Context(), input.Email, input.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetSessionCookie(c, result.Token, h.secureCookie)
	response.Success(c, http.StatusOK, result)
}

// POST /moderator-auth/logout
func (h *ModeratorAuthHandler) Logout(c *gin.Context) {
	if err := h.usecase.Logout(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	middleware.ClearSessionCookie(c, h.secureCookie)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GET /moderator-auth/me
func (h *ModeratorAuthHandler) Me(c *gin.Context) {
	moderator, ok := middleware.GetModerator(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized(domainerrors.MsgAuthRequired))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"moderator": moderator})
}
