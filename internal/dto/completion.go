package dto

// ── 完成登记模块 DTO ──

// CompleteInstanceRequest 登记完成请求
// signature_data 为上游采集的签名证据（不透明字符串，通常是 base64 图像）
// completed_at 缺省时取服务器当前时间
type CompleteInstanceRequest struct {
	SignedByName  string `json:"signed_by_name" binding:"required,max=200"`
	SignatureData string `json:"signature_data" binding:"required"`
	CompletedAt   string `json:"completed_at"   binding:"omitempty"` // RFC 3339
}

// ── 响应 ──

// CompletionResponse 完成记录响应
type CompletionResponse struct {
	ID           string `json:"id"`
	InstanceID   string `json:"instance_id"`
	SignedByName string `json:"signed_by_name"`
	CompletedAt  string `json:"completed_at"`
	Late         bool   `json:"late"` // completed_at 晚于实例 due_at
}

// CompleteResultResponse 登记完成结果：已关闭实例 + 继任实例（once 无继任）
type CompleteResultResponse struct {
	Completed    InstanceResponse  `json:"completed"`
	NextInstance *InstanceResponse `json:"next_instance,omitempty"`
}
