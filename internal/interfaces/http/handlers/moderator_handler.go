package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
	domainerrors "github.com/zhravan/juztadrop-sub000/internal/domain/errors"
	"github.com/zhravan/juztadrop-sub000/internal/interfaces/http/middleware"
	"github.com/zhravan/juztadrop-sub000/internal/interfaces/http/response"
	"github.com/zhravan/juztadrop-sub000/internal/usecases"
	"github.com/zhravan/juztadrop-sub000/pkg/utils"
)

type moderationService interface {
	Seed(ctx context.Context, email string) (*entities.Moderator, error)
	ListUsers(ctx context.Context, search string, pagination utils.PaginationParams) ([]*entities.User, utils.PaginationMeta, error)
	BanUser(ctx context.Context, actor *entities.Moderator, userID uuid.UUID) error
	UnbanUser(ctx context.Context, actor *entities.Moderator, userID uuid.UUID) error
	DeleteUser(ctx context.Context, actor *entities.Moderator, userID uuid.UUID) error
}

// ModeratorHandler handles moderator bootstrap and user moderation endpoints
type ModeratorHandler struct {
	usecase moderationService
}

func NewModeratorHandler(usecase *usecases.ModeratorUsecase) *ModeratorHandler {
	return &ModeratorHandler{usecase: usecase}
}

// Seed creates the single bootstrap moderator
// POST /moderator/seed
func (h *ModeratorHandler) Seed(c *gin.Context) {
	var input entities.SeedModeratorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(domainerrors.MsgInvalidEmail))
		return
	}
	email := utils.NormalizeEmail(input.Email)
	if !utils.LooksLikeEmail(email) {
		response.Error(c, domainerrors.BadRequest(domainerrors.MsgInvalidEmail))
		return
	}

	moderator, err := h.usecase.Seed(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"moderator": moderator})
}

// ListUsers lists live users
// GET /moderator/users
func (h *ModeratorHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	pagination := utils.GetPaginationParams(page, limit)

	users, meta, err := h.usecase.ListUsers(c.Request.Context(), strings.TrimSpace(c.Query("search")), pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"users": users, "meta": meta})
}

// BanUser bans a user and revokes their sessions
// POST /moderator/users/:id/ban
func (h *ModeratorHandler) BanUser(c *gin.Context) {
	h.moderate(c, h.usecase.BanUser, "User banned")
}

// UnbanUser lifts a ban
// POST /moderator/users/:id/unban
func (h *ModeratorHandler) UnbanUser(c *gin.Context) {
	h.moderate(c, h.usecase.UnbanUser, "User unbanned")
}

// DeleteUser soft-deletes a user and revokes their sessions
// DELETE /moderator/users/:id
func (h *ModeratorHandler) DeleteUser(c *gin.Context) {
	h.moderate(c, h.usecase.DeleteUser, "User deleted")
}

func (h *ModeratorHandler) moderate(
	c *gin.Context,
	action func(ctx context.Context, actor *entities.Moderator, userID uuid.UUID) error,
	message string,
) {
	actor, ok := middleware.GetModerator(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized(domainerrors.MsgAuthRequired))
		return
	}

	userID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	if err := action(c.Request.Context(), actor, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": message})
}
