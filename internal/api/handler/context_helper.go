package handler

import (
	"github.com/gin-gonic/gin"

	"toolbox-track/pkg/jwt"
	"toolbox-track/pkg/response"
)

// MustGetEmployeeID 从 Gin 上下文中安全提取 employee_id。
// 如果 JWT 中间件未正确注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetEmployeeID(c *gin.Context) (string, bool) {
	return mustGetString(c, "employee_id")
}

// MustGetTenantID 从 Gin 上下文中安全提取 tenant_id。
// 租户边界只信任 Token，绝不读取请求体中的租户参数。
func MustGetTenantID(c *gin.Context) (string, bool) {
	return mustGetString(c, "tenant_id")
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, "role")
}

// MustGetClaims 提取完整 JWT 声明（登出拉黑需要 jti 与过期时刻）。
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}
