/*
 * @author: sun977
 * @date: 2026.03.19
 * @description: 登录接口处理器
 * @func:
 * 1.登录接口(签发访问令牌)
 */
package auth

import (
	"net/http"
	"strings"

	"chainmaster/internal/model"
	"chainmaster/internal/pkg/utils"
	authService "chainmaster/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// LoginHandler 登录接口处理器
type LoginHandler struct {
	sessionService *authService.SessionService
}

// NewLoginHandler 创建登录处理器实例
func NewLoginHandler(sessionService *authService.SessionService) *LoginHandler {
	return &LoginHandler{
		sessionService: sessionService,
	}
}

// Login 用户登录接口
// POST /api/v1/auth/login
func (h *LoginHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "error",
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	if err := validateLoginRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:    http.StatusBadRequest,
			Status:  "error",
			Message: "Validation failed",
			Errors:  []model.ValidationError{*err},
		})
		return
	}

	resp, err := h.sessionService.Login(c.Request.Context(), &req, utils.GetClientIP(c))
	if err != nil {
		status := loginErrorStatusCode(err)
		c.JSON(status, model.APIResponse{
			Code:    status,
			Status:  "error",
			Message: "Login failed",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: "Login successful",
		Data:    resp,
	})
}

// validateLoginRequest 验证登录请求参数
func validateLoginRequest(req *model.LoginRequest) *model.ValidationError {
	if req.Username == "" {
		return &model.ValidationError{Field: "username", Message: "username cannot be empty"}
	}
	if req.Password == "" {
		return &model.ValidationError{Field: "password", Message: "password cannot be empty"}
	}
	if len(req.Password) < 6 {
		return &model.ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	return nil
}

// loginErrorStatusCode 根据错误类型获取HTTP状态码
func loginErrorStatusCode(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "invalid username or password"):
		return http.StatusUnauthorized
	case strings.Contains(msg, "disabled"):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
