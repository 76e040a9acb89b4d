package model

import "time"

// 实例状态机：pending → completed/overdue，overdue → completed，
// pending/overdue → cancelled（仅随分配停用）；completed 与 cancelled 为终态
const (
	InstancePending   = "pending"
	InstanceCompleted = "completed"
	InstanceOverdue   = "overdue"
	InstanceCancelled = "cancelled"
)

// OpenInstanceStatuses 开放状态集合（每个活跃分配同一时刻至多一个开放实例）
var OpenInstanceStatuses = []string{InstancePending, InstanceOverdue}

// ScheduledTalkInstance 计划培训实例表 — 对应 scheduled_talk_instances
// 分配的一个周期，有独立到期时间与结局；仅由排期生成器创建、完成跟踪器流转
type ScheduledTalkInstance struct {
	InstanceID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"instance_id"`
	AssignmentID string    `gorm:"type:uuid;not null;index"                       json:"assignment_id"`
	TenantID     string    `gorm:"type:uuid;not null;index"                       json:"tenant_id"`
	DueAt        time.Time `gorm:"not null"                                       json:"due_at"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Assignment *CourseAssignment `gorm:"foreignKey:AssignmentID;references:AssignmentID" json:"assignment,omitempty"`
	Completion *CompletionRecord `gorm:"foreignKey:InstanceID;references:InstanceID"     json:"completion,omitempty"`
}

// TableName 指定表名
func (ScheduledTalkInstance) TableName() string { return "scheduled_talk_instances" }

// IsOpen 实例是否处于开放状态（待完成或已逾期）
func (i *ScheduledTalkInstance) IsOpen() bool {
	return i.Status == InstancePending || i.Status == InstanceOverdue
}

// IsClosed 实例是否已进入终态
func (i *ScheduledTalkInstance) IsClosed() bool {
	return i.Status == InstanceCompleted || i.Status == InstanceCancelled
}
