/*
 * @author: sun977
 * @date: 2026.03.19
 * @description: 注销接口处理器
 * @func:
 * 1.注销接口(令牌入黑名单)
 * 2.修改密码接口
 */
package auth

import (
	"net/http"

	"chainmaster/internal/model"
	"chainmaster/internal/pkg/auth"
	"chainmaster/internal/pkg/utils"
	authService "chainmaster/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// LogoutHandler 注销接口处理器
type LogoutHandler struct {
	sessionService *authService.SessionService
	userService    *authService.UserService
}

// NewLogoutHandler 创建注销处理器实例
func NewLogoutHandler(sessionService *authService.SessionService, userService *authService.UserService) *LogoutHandler {
	return &LogoutHandler{
		sessionService: sessionService,
		userService:    userService,
	}
}

// Logout 用户注销接口
// POST /api/v1/auth/logout
func (h *LogoutHandler) Logout(c *gin.Context) {
	token := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
	if token == "" {
		c.JSON(http.StatusUnauthorized, model.APIResponse{
			Code:    http.StatusUnauthorized,
			Status:  "error",
			Message: "Missing access token",
		})
		return
	}

	if err := h.sessionService.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusUnauthorized, model.APIResponse{
			Code:    http.StatusUnauthorized,
			Status:  "error",
			Message: "Logout failed",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Logout successful",
	})
}

// ChangePassword 修改密码接口
// POST /api/v1/auth/password
func (h *LogoutHandler) ChangePassword(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, model.APIResponse{
			Code:    http.StatusUnauthorized,
			Status:  "error",
			Message: "Unauthorized",
		})
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "error",
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "error",
			Message: "Failed to change password",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Password changed successfully",
	})
}
