package model

import "time"

// CompletionRecord 完成记录表 — 对应 completion_records
// 审计证据：签名与签署人快照，创建后不可变；每实例至多一条（数据库唯一约束）
type CompletionRecord struct {
	CompletionID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"completion_id"`
	InstanceID    string    `gorm:"type:uuid;not null;uniqueIndex"                 json:"instance_id"`
	TenantID      string    `gorm:"type:uuid;not null;index"                       json:"tenant_id"`
	SignedByName  string    `gorm:"type:varchar(200);not null"                     json:"signed_by_name"`
	SignatureData string    `gorm:"type:text;not null"                             json:"signature_data"`
	CompletedAt   time.Time `gorm:"not null"                                       json:"completed_at"`
	RecordedBy    string    `gorm:"type:uuid;not null"                             json:"recorded_by"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (CompletionRecord) TableName() string { return "completion_records" }
