package dto

// ── 合规报表模块 DTO ──

// ReportFilterRequest 报表通用过滤参数
// supervisor_id 将范围限定为该监督者的团队；department 基于生效查找值过滤
type ReportFilterRequest struct {
	CourseID     string `form:"course_id"     binding:"omitempty,uuid"`
	Department   string `form:"department"`
	SupervisorID string `form:"supervisor_id" binding:"omitempty,uuid"`
	AsOf         string `form:"as_of"         binding:"omitempty"` // RFC 3339，缺省为当前时间
}

// CompletionsReportRequest 完成记录报表查询参数
type CompletionsReportRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to"   binding:"required"`
	ReportFilterRequest
}

// ── 响应 ──

// ComplianceReportResponse 合规率报表
type ComplianceReportResponse struct {
	AsOf             string  `json:"as_of"`
	TotalAssignments int     `json:"total_assignments"`
	Compliant        int     `json:"compliant"`
	NonCompliant     int     `json:"non_compliant"`
	ComplianceRate   float64 `json:"compliance_rate"` // 0.0 - 1.0
}

// OverdueEntryResponse 逾期条目
type OverdueEntryResponse struct {
	InstanceID  string         `json:"instance_id"`
	Employee    *EmployeeBrief `json:"employee,omitempty"`
	Course      *CourseBrief   `json:"course,omitempty"`
	DueAt       string         `json:"due_at"`
	DaysOverdue int            `json:"days_overdue"`
}

// CompletionEntryResponse 完成记录条目
type CompletionEntryResponse struct {
	InstanceID   string         `json:"instance_id"`
	Employee     *EmployeeBrief `json:"employee,omitempty"`
	Course       *CourseBrief   `json:"course,omitempty"`
	SignedByName string         `json:"signed_by_name"`
	DueAt        string         `json:"due_at"`
	CompletedAt  string         `json:"completed_at"`
	Late         bool           `json:"late"`
}

// 技能矩阵单元格状态
// not_assigned 与 overdue 严格区分：没有培训要求不等于不合规
const (
	CellNotAssigned = "not_assigned"
	CellPending     = "pending"
	CellCompleted   = "completed"
	CellOverdue     = "overdue"
)

// SkillsMatrixCell 技能矩阵单元格
type SkillsMatrixCell struct {
	EmployeeID  string `json:"employee_id"`
	CourseID    string `json:"course_id"`
	Status      string `json:"status"` // not_assigned | pending | completed | overdue
	DueAt       string `json:"due_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// SkillsMatrixResponse 技能矩阵：员工 × 课程网格
type SkillsMatrixResponse struct {
	Employees []EmployeeBrief    `json:"employees"`
	Courses   []CourseBrief      `json:"courses"`
	Cells     []SkillsMatrixCell `json:"cells"`
}
