package service

import (
	"go.uber.org/zap"

	"toolbox-track/config"
	"toolbox-track/internal/repository"
	"toolbox-track/pkg/jwt"
	"toolbox-track/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Employee   EmployeeService
	Course     CourseService
	Assignment AssignmentService
	Completion CompletionService
	Supervisor SupervisorService
	Lookup     LookupService
	Report     ReportService
	Export     ExportService
	Setting    SettingService
}

// NewService 创建 Service 聚合（rdb 可为 nil，Redis 相关能力降级）
func NewService(repo *repository.Repository, jwtManager *jwt.Manager, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Service {
	report := NewReportService(repo, logger)
	return &Service{
		Auth:       NewAuthService(repo, jwtManager, rdb, cfg.Auth.AccessTokenTTL, logger),
		Employee:   NewEmployeeService(repo, logger),
		Course:     NewCourseService(repo, logger),
		Assignment: NewAssignmentService(repo, logger),
		Completion: NewCompletionService(repo, logger),
		Supervisor: NewSupervisorService(repo, logger),
		Lookup:     NewLookupService(repo, logger),
		Report:     report,
		Export:     NewExportService(report, repo, logger),
		Setting:    NewSettingService(repo, logger),
	}
}
