package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/model"
	"toolbox-track/internal/repository"
)

// ExportService 报表导出：技能矩阵 xlsx、开放实例 ICS 日历订阅
type ExportService interface {
	// SkillsMatrixXLSX 技能矩阵导出为 Excel，返回文件内容与文件名
	SkillsMatrixXLSX(ctx context.Context, tenantID string, req *dto.ReportFilterRequest) ([]byte, string, error)
	// UpcomingICS 开放实例（pending/overdue）导出为 iCalendar 订阅
	// employeeID 为空时导出全租户（管理员视角），否则仅该员工自己的排期
	UpcomingICS(ctx context.Context, tenantID, employeeID string) (string, string, error)
}

type exportService struct {
	report ReportService
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建导出服务
func NewExportService(report ReportService, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{report: report, repo: repo, logger: logger}
}

// 矩阵单元格展示文案
var cellLabels = map[string]string{
	dto.CellNotAssigned: "—",
	dto.CellPending:     "待完成",
	dto.CellCompleted:   "已完成",
	dto.CellOverdue:     "已逾期",
}

func (s *exportService) SkillsMatrixXLSX(ctx context.Context, tenantID string, req *dto.ReportFilterRequest) ([]byte, string, error) {
	matrix, err := s.report.SkillsMatrix(ctx, tenantID, req)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "技能矩阵"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	// 表头：A1 空，B1 起为课程标题
	for col, course := range matrix.Courses {
		cell, err := excelize.CoordinatesToCellName(col+2, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, course.Title); err != nil {
			return nil, "", err
		}
	}

	// 单元格按 (employee, course) 行列对齐（SkillsMatrix 已排序，这里直接索引）
	cellByPair := make(map[[2]string]dto.SkillsMatrixCell, len(matrix.Cells))
	for _, c := range matrix.Cells {
		cellByPair[[2]string{c.EmployeeID, c.CourseID}] = c
	}

	for row, emp := range matrix.Employees {
		nameCell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, nameCell, emp.Name); err != nil {
			return nil, "", err
		}
		for col, course := range matrix.Courses {
			cellName, err := excelize.CoordinatesToCellName(col+2, row+2)
			if err != nil {
				return nil, "", err
			}
			label := cellLabels[dto.CellNotAssigned]
			if c, ok := cellByPair[[2]string{emp.ID, course.ID}]; ok {
				label = cellLabels[c.Status]
				if c.Status == dto.CellOverdue && c.DueAt != "" {
					label = fmt.Sprintf("%s (%s)", label, c.DueAt[:10])
				}
			}
			if err := f.SetCellValue(sheet, cellName, label); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成技能矩阵 Excel 失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("skills-matrix-%s.xlsx", time.Now().UTC().Format("20060102"))
	return buf.Bytes(), filename, nil
}

func (s *exportService) UpcomingICS(ctx context.Context, tenantID, employeeID string) (string, string, error) {
	pending, err := s.repo.Instance.ListByStatus(ctx, tenantID, model.InstancePending)
	if err != nil {
		s.logger.Error("查询待完成实例失败", zap.Error(err))
		return "", "", err
	}
	overdue, err := s.repo.Instance.ListByStatus(ctx, tenantID, model.InstanceOverdue)
	if err != nil {
		s.logger.Error("查询逾期实例失败", zap.Error(err))
		return "", "", err
	}
	instances := append(pending, overdue...)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//toolbox-track//training//CN")
	cal.SetName("安全培训排期")

	for i := range instances {
		inst := &instances[i]
		a := inst.Assignment
		if a == nil {
			continue
		}
		if employeeID != "" && a.EmployeeID != employeeID {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("%s@toolbox-track", inst.InstanceID))
		event.SetDtStampTime(time.Now().UTC())
		event.SetAllDayStartAt(inst.DueAt.UTC())
		event.SetAllDayEndAt(inst.DueAt.UTC().AddDate(0, 0, 1))

		title := "安全培训"
		if a.Course != nil {
			title = a.Course.Title
		}
		if inst.Status == model.InstanceOverdue {
			title = "[逾期] " + title
		}
		event.SetSummary(title)
		if a.Employee != nil {
			event.SetDescription(fmt.Sprintf("受训人: %s", a.Employee.Name))
		}
	}

	return cal.Serialize(), "upcoming-talks.ics", nil
}
