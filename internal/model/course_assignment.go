package model

import "time"

// 培训频率取值（封闭集合，变更频率需停用旧分配并新建）
const (
	FrequencyOnce     = "once"
	FrequencyWeekly   = "weekly"
	FrequencyMonthly  = "monthly"
	FrequencyAnnually = "annually"
)

// ValidFrequency 校验频率取值是否合法
func ValidFrequency(f string) bool {
	switch f {
	case FrequencyOnce, FrequencyWeekly, FrequencyMonthly, FrequencyAnnually:
		return true
	}
	return false
}

// CourseAssignment 课程分配表 — 对应 course_assignments
// 员工按指定频率参加某课程培训的长期要求；创建后除 active 外不可变
type CourseAssignment struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	TenantID     string    `gorm:"type:uuid;not null;index"                       json:"tenant_id"`
	CourseID     string    `gorm:"type:uuid;not null"                             json:"course_id"`
	EmployeeID   string    `gorm:"type:uuid;not null"                             json:"employee_id"`
	Frequency    string    `gorm:"type:varchar(10);not null"                      json:"frequency"` // once | weekly | monthly | annually
	AssignedAt   time.Time `gorm:"not null"                                       json:"assigned_at"`
	AssignedBy   string    `gorm:"type:uuid;not null"                             json:"assigned_by"`
	Active       bool      `gorm:"not null;default:true"                          json:"active"`
	VersionedModel

	// 关联
	Course   *Course   `gorm:"foreignKey:CourseID;references:CourseID"       json:"course,omitempty"`
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID"   json:"employee,omitempty"`
}

// TableName 指定表名
func (CourseAssignment) TableName() string { return "course_assignments" }
