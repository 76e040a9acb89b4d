package dto

// ── 查找值模块 DTO ──

// CreateLookupValueRequest 创建租户自有查找值请求
type CreateLookupValueRequest struct {
	Code      string `json:"code"       binding:"required,min=1,max=50"`
	Name      string `json:"name"       binding:"required,min=1,max=200"`
	SortOrder int    `json:"sort_order" binding:"omitempty,min=0"`
}

// ToggleLookupValueRequest 启用/停用全局查找值请求（仅影响当前租户）
type ToggleLookupValueRequest struct {
	IsEnabled bool `json:"is_enabled"`
}

// ── 响应 ──

// LookupValueResponse 生效查找值响应
type LookupValueResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
	IsGlobal  bool   `json:"is_global"`
}

// LookupCategoryResponse 查找类别响应
type LookupCategoryResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
