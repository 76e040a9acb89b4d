package dto

// ── 课程分配模块 DTO ──

// CreateAssignmentRequest 创建课程分配请求
// 频率为分配生命周期内的固定属性；调整频率应停用旧分配后新建
type CreateAssignmentRequest struct {
	CourseID   string `json:"course_id"   binding:"required,uuid"`
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Frequency  string `json:"frequency"   binding:"required,oneof=once weekly monthly annually"`
}

// AssignmentListRequest 分配列表查询参数
type AssignmentListRequest struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	CourseID   string `form:"course_id"   binding:"omitempty,uuid"`
	ActiveOnly bool   `form:"active_only"`
	PaginationRequest
}

// ── 响应 ──

// AssignmentResponse 课程分配响应
type AssignmentResponse struct {
	ID           string            `json:"id"`
	Course       *CourseBrief      `json:"course,omitempty"`
	Employee     *EmployeeBrief    `json:"employee,omitempty"`
	Frequency    string            `json:"frequency"`
	AssignedAt   string            `json:"assigned_at"`
	AssignedBy   string            `json:"assigned_by"`
	Active       bool              `json:"active"`
	OpenInstance *InstanceResponse `json:"open_instance,omitempty"`
}

// InstanceResponse 计划培训实例响应
type InstanceResponse struct {
	ID           string              `json:"id"`
	AssignmentID string              `json:"assignment_id"`
	DueAt        string              `json:"due_at"`
	Status       string              `json:"status"`
	CreatedAt    string              `json:"created_at"`
	Completion   *CompletionResponse `json:"completion,omitempty"`
}

// SweepResponse 逾期扫描结果
type SweepResponse struct {
	MarkedOverdue int64  `json:"marked_overdue"`
	SweptAt       string `json:"swept_at"`
}
