package dto

// ── 监督关系模块 DTO ──

// AssignSupervisorRequest 建立监督关系请求
type AssignSupervisorRequest struct {
	SupervisorEmployeeID string `json:"supervisor_employee_id" binding:"required,uuid"`
	OperatorEmployeeID   string `json:"operator_employee_id"   binding:"required,uuid"`
}

// SupervisorListRequest 监督关系列表查询参数（二选一过滤）
type SupervisorListRequest struct {
	SupervisorID string `form:"supervisor_id" binding:"omitempty,uuid"`
	OperatorID   string `form:"operator_id"   binding:"omitempty,uuid"`
}

// ── 响应 ──

// SupervisorAssignmentResponse 监督关系响应
type SupervisorAssignmentResponse struct {
	ID         string         `json:"id"`
	Supervisor *EmployeeBrief `json:"supervisor,omitempty"`
	Operator   *EmployeeBrief `json:"operator,omitempty"`
	AssignedAt string         `json:"assigned_at"`
	AssignedBy string         `json:"assigned_by"`
	Active     bool           `json:"active"`
}
