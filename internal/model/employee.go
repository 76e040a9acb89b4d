package model

// Employee 员工表 — 对应 employees
type Employee struct {
	EmployeeID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	TenantID     string `gorm:"type:uuid;not null;index"                       json:"tenant_id"`
	Name         string `gorm:"type:varchar(200);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'member'"     json:"role"` // admin | member
	JobTitle     string `gorm:"type:varchar(100)"                              json:"job_title,omitempty"`
	Department   string `gorm:"type:varchar(100)"                              json:"department,omitempty"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Tenant *Tenant `gorm:"foreignKey:TenantID;references:TenantID" json:"tenant,omitempty"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }
