package model

// Tenant 租户表 — 对应 tenants
// 除全局查找值外，所有业务数据都以 tenant_id 为边界隔离
type Tenant struct {
	TenantID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"tenant_id"`
	Name     string `gorm:"type:varchar(200);not null"                     json:"name"`
	Slug     string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"slug"`
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Tenant) TableName() string { return "tenants" }
