package model

import "time"

// SupervisorAssignment 监督关系表 — 对应 supervisor_assignments
// 多对多有向边：supervisor 监督 operator；活跃配对唯一，禁止自我监督
// 解除监督只做软停用，保留审计轨迹
type SupervisorAssignment struct {
	SupervisorAssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"supervisor_assignment_id"`
	TenantID               string    `gorm:"type:uuid;not null;index"                       json:"tenant_id"`
	SupervisorEmployeeID   string    `gorm:"type:uuid;not null;index"                       json:"supervisor_employee_id"`
	OperatorEmployeeID     string    `gorm:"type:uuid;not null;index"                       json:"operator_employee_id"`
	AssignedAt             time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"assigned_at"`
	AssignedBy             string    `gorm:"type:uuid;not null"                             json:"assigned_by"`
	Active                 bool      `gorm:"not null;default:true"                          json:"active"`

	// 关联
	Supervisor *Employee `gorm:"foreignKey:SupervisorEmployeeID;references:EmployeeID" json:"supervisor,omitempty"`
	Operator   *Employee `gorm:"foreignKey:OperatorEmployeeID;references:EmployeeID"   json:"operator,omitempty"`
}

// TableName 指定表名
func (SupervisorAssignment) TableName() string { return "supervisor_assignments" }
