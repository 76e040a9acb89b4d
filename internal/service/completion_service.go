package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/model"
	"toolbox-track/internal/repository"
)

var (
	ErrInstanceNotFound      = errors.New("培训实例不存在")
	ErrInstanceAlreadyClosed = errors.New("培训实例已关闭")
	ErrInvalidCompletedAt    = errors.New("完成时间格式无效")
	ErrCompletionNotAllowed  = errors.New("无权登记该实例的完成")
)

// CompletionService 完成跟踪
// 登记 = 同一事务内：写入不可变完成记录 + 实例原子流转为 completed +
// 创建继任实例；与逾期扫描并发时登记获胜（overdue 同样允许流转为 completed）
type CompletionService interface {
	Complete(ctx context.Context, tenantID, actorID, instanceID string, req *dto.CompleteInstanceRequest) (*dto.CompleteResultResponse, error)
	GetInstance(ctx context.Context, tenantID, instanceID string) (*dto.InstanceResponse, error)
}

type completionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCompletionService 创建完成跟踪服务
func NewCompletionService(repo *repository.Repository, logger *zap.Logger) CompletionService {
	return &completionService{repo: repo, logger: logger}
}

func (s *completionService) Complete(ctx context.Context, tenantID, actorID, instanceID string, req *dto.CompleteInstanceRequest) (*dto.CompleteResultResponse, error) {
	instance, err := s.repo.Instance.GetByID(ctx, tenantID, instanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstanceNotFound
		}
		s.logger.Error("查询培训实例失败", zap.Error(err))
		return nil, err
	}
	if instance.IsClosed() {
		return nil, ErrInstanceAlreadyClosed
	}

	assignment := instance.Assignment
	if assignment == nil {
		assignment, err = s.repo.Assignment.GetByID(ctx, tenantID, instance.AssignmentID)
		if err != nil {
			s.logger.Error("查询所属分配失败", zap.Error(err))
			return nil, err
		}
	}

	if err := s.authorize(ctx, tenantID, actorID, assignment.EmployeeID); err != nil {
		return nil, err
	}

	completedAt := time.Now().UTC()
	if req.CompletedAt != "" {
		completedAt, err = time.Parse(time.RFC3339, req.CompletedAt)
		if err != nil {
			return nil, ErrInvalidCompletedAt
		}
		completedAt = completedAt.UTC()
	}

	record := &model.CompletionRecord{
		InstanceID:    instanceID,
		TenantID:      tenantID,
		SignedByName:  req.SignedByName,
		SignatureData: req.SignatureData,
		CompletedAt:   completedAt,
		RecordedBy:    actorID,
	}
	successor := nextInstanceAfter(assignment, instance)

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 先 CAS：并发的第二次登记或已取消的实例在这里失败，
		// 并发的逾期扫描不受影响（overdue → completed 仍然允许）
		swapped, err := tx.Instance.CompareAndSetStatus(ctx, instanceID, model.OpenInstanceStatuses, model.InstanceCompleted)
		if err != nil {
			return err
		}
		if !swapped {
			return ErrInstanceAlreadyClosed
		}
		if err := tx.Completion.Create(ctx, record); err != nil {
			return err
		}
		if successor != nil {
			return tx.Instance.Create(ctx, successor)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInstanceAlreadyClosed) {
			return nil, err
		}
		s.logger.Error("登记完成失败", zap.Error(err),
			zap.String("instance_id", instanceID))
		return nil, err
	}

	s.logger.Info("培训完成已登记",
		zap.String("instance_id", instanceID),
		zap.String("recorded_by", actorID),
		zap.Bool("late", completedAt.After(instance.DueAt)))

	instance.Status = model.InstanceCompleted
	instance.Completion = record
	return &dto.CompleteResultResponse{
		Completed:    *toInstanceResponse(instance),
		NextInstance: toInstanceResponse(successor),
	}, nil
}

// authorize 仅分配对象本人或其活跃监督者可以登记完成
// 查不到与无权限统一返回 ErrCompletionNotAllowed，不泄露存在性
func (s *completionService) authorize(ctx context.Context, tenantID, actorID, assigneeID string) error {
	if actorID == assigneeID {
		return nil
	}
	ok, err := s.repo.Supervisor.ExistsActivePair(ctx, tenantID, actorID, assigneeID)
	if err != nil {
		s.logger.Error("监督关系检查失败", zap.Error(err))
		return err
	}
	if !ok {
		return ErrCompletionNotAllowed
	}
	return nil
}

func (s *completionService) GetInstance(ctx context.Context, tenantID, instanceID string) (*dto.InstanceResponse, error) {
	instance, err := s.repo.Instance.GetByID(ctx, tenantID, instanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstanceNotFound
		}
		s.logger.Error("查询培训实例失败", zap.Error(err))
		return nil, err
	}
	return toInstanceResponse(instance), nil
}
