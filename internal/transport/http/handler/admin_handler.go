package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"projectdesk/internal/domain"
	resp "projectdesk/internal/transport/http/response"
)

// AdminHandler 管理面直接走仓储，不经过面向终端用户的 service
type AdminHandler struct {
	log   *zap.Logger
	users domain.UserRepository
}

func NewAdminHandler(log *zap.Logger, users domain.UserRepository) *AdminHandler {
	return &AdminHandler{log: log, users: users}
}

type listUsersQuery struct {
	Q          string `form:"q"`
	Offset     int    `form:"offset"`
	Limit      int    `form:"limit"`
	ActiveOnly bool   `form:"activeOnly"`
}

// ListUsers GET /admin/v1/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var q listUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		resp.Error(c, resp.CodeBadRequest, "invalid query parameters")
		return
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	users, total, err := h.users.List(c.Request.Context(), q.Q, q.Offset, q.Limit, q.ActiveOnly)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	items := make([]domain.User, 0, len(users))
	for _, u := range users {
		items = append(items, u.Sanitized())
	}
	resp.OK(c, gin.H{"items": items, "total": total, "offset": q.Offset, "limit": q.Limit})
}

// DeactivateUser POST /admin/v1/users/:id/deactivate
// 停用同时作废 refresh token，已发的 access token 自然过期
func (h *AdminHandler) DeactivateUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.users.SetActive(c.Request.Context(), id, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.Error(c, resp.CodeNotFound, "user not found")
			return
		}
		fail(c, h.log, err)
		return
	}
	if err := h.users.UpdateRefreshToken(c.Request.Context(), id, ""); err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, gin.H{"message": "user deactivated"})
}

// ActivateUser POST /admin/v1/users/:id/activate
func (h *AdminHandler) ActivateUser(c *gin.Context) {
	if err := h.users.SetActive(c.Request.Context(), c.Param("id"), true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.Error(c, resp.CodeNotFound, "user not found")
			return
		}
		fail(c, h.log, err)
		return
	}
	resp.OK(c, gin.H{"message": "user activated"})
}
