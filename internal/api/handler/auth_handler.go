package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/service"
	"toolbox-track/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 员工登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, 11001, "租户、邮箱或密码错误")
		case errors.Is(err, service.ErrAccountDisabled):
			response.Forbidden(c, 11002, "账号已停用")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// RefreshToken 刷新 Token 对
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefresh):
			response.Unauthorized(c, 11003, "refresh token 无效")
		case errors.Is(err, service.ErrAccountDisabled):
			response.Forbidden(c, 11002, "账号已停用")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Logout 登出（当前 Token 拉黑）
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Me 当前登录员工信息
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.authSvc.Me(c.Request.Context(), tenantID, employeeID)
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			response.NotFound(c, 12001, "员工不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ChangePassword 修改密码
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), tenantID, employeeID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordMismatch):
			response.BadRequest(c, 11004, "原密码错误")
		case errors.Is(err, service.ErrEmployeeNotFound):
			response.NotFound(c, 12001, "员工不存在")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}
