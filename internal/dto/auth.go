package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求（租户 slug + 邮箱）
type LoginRequest struct {
	TenantSlug string `json:"tenant_slug" binding:"required,min=1,max=100"`
	Email      string `json:"email"       binding:"required,email"`
	Password   string `json:"password"    binding:"required,min=6,max=100"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshRequest 刷新 Token 请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=100"`
}
