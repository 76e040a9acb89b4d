package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/model"
	"toolbox-track/internal/repository"
)

var (
	ErrInvalidReportTime  = errors.New("报表时间参数格式无效")
	ErrInvalidReportRange = errors.New("报表时间范围无效")
)

// ReportService 合规聚合
// 合规率按时间分类（due_at 与 as_of 比较），不依赖扫描是否已跑：
// 扫描滞后时 pending 但已过期的实例同样计为不合规
type ReportService interface {
	Compliance(ctx context.Context, tenantID string, req *dto.ReportFilterRequest) (*dto.ComplianceReportResponse, error)
	Overdue(ctx context.Context, tenantID string, req *dto.ReportFilterRequest) ([]dto.OverdueEntryResponse, error)
	Completions(ctx context.Context, tenantID string, req *dto.CompletionsReportRequest) ([]dto.CompletionEntryResponse, error)
	SkillsMatrix(ctx context.Context, tenantID string, req *dto.ReportFilterRequest) (*dto.SkillsMatrixResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建合规报表服务
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

// assignmentScope 报表范围过滤：课程、部门、监督者团队
type assignmentScope struct {
	courseID   string
	department string
	operators  map[string]bool // nil 表示不按监督者过滤
}

func (sc *assignmentScope) includes(a *model.CourseAssignment) bool {
	if sc.courseID != "" && a.CourseID != sc.courseID {
		return false
	}
	if sc.department != "" && (a.Employee == nil || a.Employee.Department != sc.department) {
		return false
	}
	if sc.operators != nil && !sc.operators[a.EmployeeID] {
		return false
	}
	return true
}

func (s *reportService) resolveScope(ctx context.Context, tenantID string, req *dto.ReportFilterRequest) (*assignmentScope, error) {
	scope := &assignmentScope{
		courseID:   req.CourseID,
		department: req.Department,
	}
	if req.SupervisorID != "" {
		pairs, err := s.repo.Supervisor.ListBySupervisor(ctx, tenantID, req.SupervisorID)
		if err != nil {
			s.logger.Error("解析监督者团队失败", zap.Error(err))
			return nil, err
		}
		scope.operators = make(map[string]bool, len(pairs))
		for _, p := range pairs {
			scope.operators[p.OperatorEmployeeID] = true
		}
	}
	return scope, nil
}

func parseAsOf(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, ErrInvalidReportTime
	}
	return t.UTC(), nil
}

// compliantAt 分配在 asOf 时刻是否合规：最近实例已完成（once 的终身满足
// 与周期课的刚完成窗口），或仍开放但未到期
func compliantAt(latest *model.ScheduledTalkInstance, asOf time.Time) bool {
	if latest == nil {
		return false
	}
	switch latest.Status {
	case model.InstanceCompleted:
		return true
	case model.InstancePending, model.InstanceOverdue:
		return latest.DueAt.After(asOf)
	}
	return false
}

func (s *reportService) Compliance(ctx context.Context, tenantID string, req *dto.ReportFilterRequest) (*dto.ComplianceReportResponse, error) {
	asOf, err := parseAsOf(req.AsOf)
	if err != nil {
		return nil, err
	}
	scope, err := s.resolveScope(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.Assignment.ListActive(ctx, tenantID)
	if err != nil {
		s.logger.Error("查询活跃分配失败", zap.Error(err))
		return nil, err
	}
	latest, err := s.latestByAssignment(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	report := &dto.ComplianceReportResponse{AsOf: formatTime(asOf)}
	for i := range assignments {
		a := &assignments[i]
		if !scope.includes(a) {
			continue
		}
		report.TotalAssignments++
		if compliantAt(latest[a.AssignmentID], asOf) {
			report.Compliant++
		} else {
			report.NonCompliant++
		}
	}
	if report.TotalAssignments > 0 {
		report.ComplianceRate = float64(report.Compliant) / float64(report.TotalAssignments)
	}
	return report, nil
}

func (s *reportService) latestByAssignment(ctx context.Context, tenantID string) (map[string]*model.ScheduledTalkInstance, error) {
	instances, err := s.repo.Instance.ListLatestByAssignment(ctx, tenantID)
	if err != nil {
		s.logger.Error("查询最近实例失败", zap.Error(err))
		return nil, err
	}
	latest := make(map[string]*model.ScheduledTalkInstance, len(instances))
	for i := range instances {
		latest[instances[i].AssignmentID] = &instances[i]
	}
	return latest, nil
}

func (s *reportService) Overdue(ctx context.Context, tenantID string, req *dto.ReportFilterRequest) ([]dto.OverdueEntryResponse, error) {
	asOf, err := parseAsOf(req.AsOf)
	if err != nil {
		return nil, err
	}
	scope, err := s.resolveScope(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}

	instances, err := s.repo.Instance.ListByStatus(ctx, tenantID, model.InstanceOverdue)
	if err != nil {
		s.logger.Error("查询逾期实例失败", zap.Error(err))
		return nil, err
	}

	entries := make([]dto.OverdueEntryResponse, 0, len(instances))
	for i := range instances {
		inst := &instances[i]
		if inst.Assignment == nil || !scope.includes(inst.Assignment) {
			continue
		}
		days := int(asOf.Sub(inst.DueAt).Hours() / 24)
		if days < 0 {
			days = 0
		}
		entries = append(entries, dto.OverdueEntryResponse{
			InstanceID:  inst.InstanceID,
			Employee:    toEmployeeBrief(inst.Assignment.Employee),
			Course:      toCourseBrief(inst.Assignment.Course),
			DueAt:       formatTime(inst.DueAt),
			DaysOverdue: days,
		})
	}
	return entries, nil
}

func (s *reportService) Completions(ctx context.Context, tenantID string, req *dto.CompletionsReportRequest) ([]dto.CompletionEntryResponse, error) {
	from, err := time.Parse(time.RFC3339, req.From)
	if err != nil {
		return nil, ErrInvalidReportTime
	}
	to, err := time.Parse(time.RFC3339, req.To)
	if err != nil {
		return nil, ErrInvalidReportTime
	}
	if to.Before(from) {
		return nil, ErrInvalidReportRange
	}
	scope, err := s.resolveScope(ctx, tenantID, &req.ReportFilterRequest)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.Completion.ListByRange(ctx, tenantID, from.UTC(), to.UTC())
	if err != nil {
		s.logger.Error("查询完成记录失败", zap.Error(err))
		return nil, err
	}

	entries := make([]dto.CompletionEntryResponse, 0, len(records))
	for _, record := range records {
		inst, err := s.repo.Instance.GetByID(ctx, tenantID, record.InstanceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			s.logger.Error("查询完成记录所属实例失败", zap.Error(err))
			return nil, err
		}
		if inst.Assignment == nil || !scope.includes(inst.Assignment) {
			continue
		}
		entries = append(entries, dto.CompletionEntryResponse{
			InstanceID:   record.InstanceID,
			Employee:     toEmployeeBrief(inst.Assignment.Employee),
			Course:       toCourseBrief(inst.Assignment.Course),
			SignedByName: record.SignedByName,
			DueAt:        formatTime(inst.DueAt),
			CompletedAt:  formatTime(record.CompletedAt),
			Late:         record.CompletedAt.After(inst.DueAt),
		})
	}
	return entries, nil
}

func (s *reportService) SkillsMatrix(ctx context.Context, tenantID string, req *dto.ReportFilterRequest) (*dto.SkillsMatrixResponse, error) {
	scope, err := s.resolveScope(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}

	employees, err := s.repo.Employee.ListActive(ctx, tenantID)
	if err != nil {
		s.logger.Error("查询活跃员工失败", zap.Error(err))
		return nil, err
	}
	courses, err := s.repo.Course.List(ctx, tenantID, false)
	if err != nil {
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}
	assignments, err := s.repo.Assignment.ListActive(ctx, tenantID)
	if err != nil {
		s.logger.Error("查询活跃分配失败", zap.Error(err))
		return nil, err
	}
	latest, err := s.latestByAssignment(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	// 行/列按过滤范围收缩；单元格只看活跃分配
	rows := make([]dto.EmployeeBrief, 0, len(employees))
	for i := range employees {
		e := &employees[i]
		if req.Department != "" && e.Department != req.Department {
			continue
		}
		if scope.operators != nil && !scope.operators[e.EmployeeID] {
			continue
		}
		rows = append(rows, *toEmployeeBrief(e))
	}
	cols := make([]dto.CourseBrief, 0, len(courses))
	for i := range courses {
		if req.CourseID != "" && courses[i].CourseID != req.CourseID {
			continue
		}
		cols = append(cols, *toCourseBrief(&courses[i]))
	}

	// 同一员工同课程存在多个活跃分配时取最近分配的那个
	byPair := make(map[[2]string]*model.CourseAssignment, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		key := [2]string{a.EmployeeID, a.CourseID}
		if cur, ok := byPair[key]; !ok || a.AssignedAt.After(cur.AssignedAt) {
			byPair[key] = a
		}
	}

	cells := make([]dto.SkillsMatrixCell, 0, len(rows)*len(cols))
	for _, emp := range rows {
		for _, course := range cols {
			cell := dto.SkillsMatrixCell{
				EmployeeID: emp.ID,
				CourseID:   course.ID,
				Status:     dto.CellNotAssigned,
			}
			if a, ok := byPair[[2]string{emp.ID, course.ID}]; ok {
				cell = matrixCell(emp.ID, course.ID, latest[a.AssignmentID])
			}
			cells = append(cells, cell)
		}
	}

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].EmployeeID != cells[j].EmployeeID {
			return cells[i].EmployeeID < cells[j].EmployeeID
		}
		return cells[i].CourseID < cells[j].CourseID
	})
	return &dto.SkillsMatrixResponse{
		Employees: rows,
		Courses:   cols,
		Cells:     cells,
	}, nil
}

// matrixCell 由最近实例推导单元格状态
// 没有培训要求（not_assigned）与逾期严格区分
func matrixCell(employeeID, courseID string, latest *model.ScheduledTalkInstance) dto.SkillsMatrixCell {
	cell := dto.SkillsMatrixCell{
		EmployeeID: employeeID,
		CourseID:   courseID,
		Status:     dto.CellPending,
	}
	if latest == nil {
		cell.Status = dto.CellNotAssigned
		return cell
	}
	switch latest.Status {
	case model.InstanceCompleted:
		cell.Status = dto.CellCompleted
		if latest.Completion != nil {
			cell.CompletedAt = formatTime(latest.Completion.CompletedAt)
		}
	case model.InstanceOverdue:
		cell.Status = dto.CellOverdue
		cell.DueAt = formatTime(latest.DueAt)
	case model.InstancePending:
		cell.DueAt = formatTime(latest.DueAt)
	}
	return cell
}
