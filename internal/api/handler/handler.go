package handler

import "toolbox-track/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Employee   *EmployeeHandler
	Course     *CourseHandler
	Assignment *AssignmentHandler
	Instance   *InstanceHandler
	Supervisor *SupervisorHandler
	Lookup     *LookupHandler
	Report     *ReportHandler
	Export     *ExportHandler
	Setting    *SettingHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Employee:   NewEmployeeHandler(svc.Employee),
		Course:     NewCourseHandler(svc.Course),
		Assignment: NewAssignmentHandler(svc.Assignment),
		Instance:   NewInstanceHandler(svc.Completion),
		Supervisor: NewSupervisorHandler(svc.Supervisor),
		Lookup:     NewLookupHandler(svc.Lookup),
		Report:     NewReportHandler(svc.Report, svc.Assignment),
		Export:     NewExportHandler(svc.Export),
		Setting:    NewSettingHandler(svc.Setting),
	}
}
