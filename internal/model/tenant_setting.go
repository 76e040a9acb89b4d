package model

import "time"

// TenantSetting 租户配置表 — 对应 tenant_settings（键值对，后写覆盖）
type TenantSetting struct {
	TenantID  string    `gorm:"type:uuid;primaryKey"               json:"tenant_id"`
	Key       string    `gorm:"type:varchar(100);primaryKey"       json:"key"`
	Value     string    `gorm:"type:text;not null"                 json:"value"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// TableName 指定表名
func (TenantSetting) TableName() string { return "tenant_settings" }
