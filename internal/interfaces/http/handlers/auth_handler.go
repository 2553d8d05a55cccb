package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
	domainerrors "github.com/zhravan/juztadrop-sub000/internal/domain/errors"
	"github.com/zhravan/juztadrop-sub000/internal/interfaces/http/middleware"
	"github.com/zhravan/juztadrop-sub000/internal/interfaces/http/response"
	"github.com/zhravan/juztadrop-sub000/internal/usecases"
	"github.com/zhravan/juztadrop-sub000/pkg/utils"
)

type authService interface {
	SendOtp(ctx context.Context, email string) error
	VerifyOtp(ctx context.Context, email, code string) (*entities.VerifyOtpResult, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, userID uuid.UUID) (*entities.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error)
}

// AuthHandler handles user authentication endpoints
type AuthHandler struct {
	authUsecase  authService
	secureCookie bool
}

// NewAuthHandler creates a new auth handler. secureCookie sets the Secure
// flag on the session cookie.
func NewAuthHandler(authUsecase *usecases.AuthUsecase, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authUsecase:  authUsecase,
		secureCookie: secureCookie,
	}
}

// SendOtp emails a login code
// POST /auth/otp/send
func (h *AuthHandler) SendOtp(c *gin.Context) {
	email, ok := bindSendOtp(c)
	if !ok {
		return
	}

	if err := h.authUsecase.SendOtp(c.Request.Context(), email); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "OTP sent to your email",
	})
}

// VerifyOtp redeems a login code and starts a session
// POST /auth/otp/verify
func (h *AuthHandler) VerifyOtp(c *gin.Context) {
	input, ok := bindVerifyOtp(c)
	if !ok {
		return
	}

	result, err := h.authUsecase.VerifyOtp(c.Request.Context(), input.Email, input.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetSessionCookie(c, result.Token, h.secureCookie)
	response.Success(c, http.StatusOK, result)
}

// Logout revokes the current session. It succeeds without a session.
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUsecase.Logout(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		response.Error(c, err)
		return
	}

	middleware.ClearSessionCookie(c, h.secureCookie)
	response.Success(c, http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated user
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized(domainerrors.MsgAuthRequired))
		return
	}

	user, err := h.authUsecase.Me(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// UpdateProfile edits the authenticated user's profile
// PATCH /users/me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized(domainerrors.MsgAuthRequired))
		return
	}

	var input entities.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	user, err := h.authUsecase.UpdateProfile(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// Viewer reports who is looking, if anyone. It sits behind the soft gate.
// GET /users/viewer
func (h *AuthHandler) Viewer(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.Success(c, http.StatusOK, gin.H{"authenticated": false})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"authenticated": true, "user": user})
}

func bindSendOtp(c *gin.Context) (string, bool) {
	var input entities.SendOtpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(domainerrors.MsgInvalidEmail))
		return "", false
	}
	email := utils.NormalizeEmail(input.Email)
	if !utils.LooksLikeEmail(email) {
		response.Error(c, domainerrors.BadRequest(domainerrors.MsgInvalidEmail))
		return "", false
	}
	return email, true
}

func bindVerifyOtp(c *gin.Context) (*entities.VerifyOtpInput, bool) {
	var input entities.VerifyOtpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("email and code are required"))
		return nil, false
	}
	input.Email = utils.NormalizeEmail(input.Email)
	if !utils.LooksLikeEmail(input.Email) {
		response.Error(c, domainerrors.BadRequest(domainerrors.MsgInvalidEmail))
		return nil, false
	}
	if len(input.Code) != entities.OTPCodeLength {
		response.Error(c, domainerrors.BadRequest(domainerrors.MsgInvalidCode))
		return nil, false
	}
	return &input, true
}
