package dto

// ── 租户配置模块 DTO ──

// PutSettingRequest 写入租户配置请求（后写覆盖）
type PutSettingRequest struct {
	Value string `json:"value" binding:"required,max=10000"`
}

// SettingResponse 租户配置响应
type SettingResponse struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updated_at"`
}
