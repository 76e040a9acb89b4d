package model

import "time"

// LookupCategory 查找类别表 — 对应 lookup_categories（岗位、部门等）
type LookupCategory struct {
	CategoryID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"category_id"`
	Code       string    `gorm:"type:varchar(50);not null;uniqueIndex"          json:"code"`
	Name       string    `gorm:"type:varchar(200);not null"                     json:"name"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (LookupCategory) TableName() string { return "lookup_categories" }

// LookupValue 查找值表 — 对应 lookup_values
// tenant_id 为 NULL 时是全局值，否则是租户自有值
type LookupValue struct {
	ValueID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"value_id"`
	CategoryID string  `gorm:"type:uuid;not null;index"                       json:"category_id"`
	TenantID   *string `gorm:"type:uuid;index"                                json:"tenant_id,omitempty"`
	Code       string  `gorm:"type:varchar(50);not null"                      json:"code"`
	Name       string  `gorm:"type:varchar(200);not null"                     json:"name"`
	SortOrder  int     `gorm:"not null;default:0"                             json:"sort_order"`
	IsActive   bool    `gorm:"not null;default:true"                          json:"is_active"`
	IsGlobal   bool    `gorm:"not null;default:false"                         json:"is_global"`
	BaseModel
}

// TableName 指定表名
func (LookupValue) TableName() string { return "lookup_values" }

// TenantLookupOverride 租户对全局查找值的遮蔽行 — 对应 tenant_lookup_overrides
// is_enabled=false 表示该租户选择停用这个全局值；对其他租户无影响
type TenantLookupOverride struct {
	OverrideID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"override_id"`
	TenantID      string    `gorm:"type:uuid;not null;index"                       json:"tenant_id"`
	LookupValueID string    `gorm:"type:uuid;not null"                             json:"lookup_value_id"`
	IsEnabled     bool      `gorm:"not null;default:true"                          json:"is_enabled"`
	UpdatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
	UpdatedBy     *string   `gorm:"type:uuid"                                      json:"updated_by,omitempty"`
}

// TableName 指定表名
func (TenantLookupOverride) TableName() string { return "tenant_lookup_overrides" }
