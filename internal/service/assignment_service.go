package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/model"
	"toolbox-track/internal/repository"
	pkgerrors "toolbox-track/pkg/errors"
)

var (
	ErrAssignmentNotFound = errors.New("课程分配不存在")
	ErrCourseNotFound     = errors.New("课程不存在")
	ErrCourseInactive     = errors.New("课程已停用")
	ErrEmployeeNotFound   = errors.New("员工不存在")
	ErrEmployeeInactive   = errors.New("员工已停用")
)

// AssignmentService 课程分配 + 排期生成
// 创建分配与首个 pending 实例在同一事务内完成；
// 每个活跃分配任一时刻至多一个开放实例，数据库部分唯一索引兜底
type AssignmentService interface {
	Create(ctx context.Context, tenantID, actorID string, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error)
	GetByID(ctx context.Context, tenantID, assignmentID string) (*dto.AssignmentResponse, error)
	List(ctx context.Context, tenantID string, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error)
	ListInstances(ctx context.Context, tenantID, assignmentID string) ([]dto.InstanceResponse, error)
	// Deactivate 停用分配并取消其开放实例；重复调用无副作用
	Deactivate(ctx context.Context, tenantID, actorID, assignmentID string) error
	// SweepOverdue 将租户内所有已过期的 pending 实例置为 overdue（幂等）
	SweepOverdue(ctx context.Context, tenantID string, now time.Time) (*dto.SweepResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建课程分配服务
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

// nextInstanceAfter 排期生成：实例关闭后的继任实例
// 到期锚定在被关闭实例的 DueAt 上（而非完成时刻），晚完成不会推迟后续节奏；
// once 频率无继任，返回 nil
func nextInstanceAfter(assignment *model.CourseAssignment, closed *model.ScheduledTalkInstance) *model.ScheduledTalkInstance {
	nextDue, ok := NextDue(assignment.Frequency, closed.DueAt)
	if !ok {
		return nil
	}
	return &model.ScheduledTalkInstance{
		AssignmentID: assignment.AssignmentID,
		TenantID:     assignment.TenantID,
		DueAt:        nextDue,
		Status:       model.InstancePending,
	}
}

func (s *assignmentService) Create(ctx context.Context, tenantID, actorID string, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	if !model.ValidFrequency(req.Frequency) {
		return nil, fmt.Errorf("无效的培训频率: %s", req.Frequency)
	}

	course, err := s.repo.Course.GetByID(ctx, tenantID, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}
	if !course.IsActive {
		return nil, ErrCourseInactive
	}

	employee, err := s.repo.Employee.GetByID(ctx, tenantID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}
	if !employee.IsActive {
		return nil, ErrEmployeeInactive
	}

	now := time.Now().UTC()
	assignment := &model.CourseAssignment{
		TenantID:   tenantID,
		CourseID:   req.CourseID,
		EmployeeID: req.EmployeeID,
		Frequency:  req.Frequency,
		AssignedAt: now,
		AssignedBy: actorID,
		Active:     true,
	}
	instance := &model.ScheduledTalkInstance{
		TenantID: tenantID,
		DueAt:    initialDueAt(req.Frequency, now),
		Status:   model.InstancePending,
	}

	// 分配与首个实例同事务落库：不存在有分配却没有排期的窗口
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Assignment.Create(ctx, assignment); err != nil {
			return err
		}
		instance.AssignmentID = assignment.AssignmentID
		return tx.Instance.Create(ctx, instance)
	})
	if err != nil {
		s.logger.Error("创建课程分配失败", zap.Error(err),
			zap.String("course_id", req.CourseID),
			zap.String("employee_id", req.EmployeeID))
		return nil, err
	}

	s.logger.Info("课程分配已创建",
		zap.String("assignment_id", assignment.AssignmentID),
		zap.String("frequency", assignment.Frequency),
		zap.String("due_at", formatTime(instance.DueAt)))

	assignment.Course = course
	assignment.Employee = employee
	return toAssignmentResponse(assignment, instance), nil
}

// initialDueAt 首个实例的到期时刻
// once 无周期可推，按一周宽限；宽限期过后实例同样会被逾期扫描
// 标为 overdue，完成后不再产生继任。其余频率按自身周期。
func initialDueAt(frequency string, assignedAt time.Time) time.Time {
	if next, ok := NextDue(frequency, assignedAt); ok {
		return next
	}
	return assignedAt.AddDate(0, 0, 7)
}

func (s *assignmentService) GetByID(ctx context.Context, tenantID, assignmentID string) (*dto.AssignmentResponse, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, tenantID, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询课程分配失败", zap.Error(err))
		return nil, err
	}

	open, err := s.repo.Instance.GetOpenByAssignment(ctx, assignmentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询开放实例失败", zap.Error(err))
		return nil, err
	}
	return toAssignmentResponse(assignment, open), nil
}

func (s *assignmentService) List(ctx context.Context, tenantID string, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error) {
	filter := repository.AssignmentFilter{
		EmployeeID: req.EmployeeID,
		CourseID:   req.CourseID,
		ActiveOnly: req.ActiveOnly,
	}
	assignments, total, err := s.repo.Assignment.List(ctx, tenantID, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询课程分配列表失败", zap.Error(err))
		return nil, 0, err
	}

	responses := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		responses = append(responses, *toAssignmentResponse(&assignments[i], nil))
	}
	return responses, total, nil
}

func (s *assignmentService) ListInstances(ctx context.Context, tenantID, assignmentID string) ([]dto.InstanceResponse, error) {
	if _, err := s.repo.Assignment.GetByID(ctx, tenantID, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	instances, err := s.repo.Instance.ListByAssignment(ctx, tenantID, assignmentID)
	if err != nil {
		s.logger.Error("查询实例历史失败", zap.Error(err))
		return nil, err
	}

	responses := make([]dto.InstanceResponse, 0, len(instances))
	for i := range instances {
		responses = append(responses, *toInstanceResponse(&instances[i]))
	}
	return responses, nil
}

func (s *assignmentService) Deactivate(ctx context.Context, tenantID, actorID, assignmentID string) error {
	assignment, err := s.repo.Assignment.GetByID(ctx, tenantID, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		s.logger.Error("查询课程分配失败", zap.Error(err))
		return err
	}
	if !assignment.Active {
		return nil // 已停用，幂等返回
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		assignment.Active = false
		assignment.UpdatedBy = &actorID
		if err := tx.Assignment.Update(ctx, assignment); err != nil {
			return err
		}

		open, err := tx.Instance.GetOpenByAssignment(ctx, assignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // 开放实例已被并发关闭，无需取消
			}
			return err
		}
		_, err = tx.Instance.CompareAndSetStatus(ctx, open.InstanceID, model.OpenInstanceStatuses, model.InstanceCancelled)
		return err
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return err
		}
		s.logger.Error("停用课程分配失败", zap.Error(err),
			zap.String("assignment_id", assignmentID))
		return err
	}

	s.logger.Info("课程分配已停用",
		zap.String("assignment_id", assignmentID),
		zap.String("actor_id", actorID))
	return nil
}

func (s *assignmentService) SweepOverdue(ctx context.Context, tenantID string, now time.Time) (*dto.SweepResponse, error) {
	marked, err := s.repo.Instance.MarkOverdue(ctx, tenantID, now)
	if err != nil {
		s.logger.Error("逾期扫描失败", zap.Error(err), zap.String("tenant_id", tenantID))
		return nil, err
	}

	if marked > 0 {
		s.logger.Info("逾期扫描完成",
			zap.String("tenant_id", tenantID),
			zap.Int64("marked_overdue", marked))
	}
	return &dto.SweepResponse{
		MarkedOverdue: marked,
		SweptAt:       formatTime(now),
	}, nil
}
