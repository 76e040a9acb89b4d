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
	ErrSelfSupervision       = errors.New("不能监督自己")
	ErrSupervisionExists     = errors.New("该监督关系已存在")
	ErrSupervisionNotFound   = errors.New("监督关系不存在")
	ErrSupervisionFilterMiss = errors.New("必须指定 supervisor_id 或 operator_id")
)

// SupervisorService 监督关系注册表
// 有向多对多：supervisor 监督 operator；活跃配对唯一，自我监督被拒绝；
// 解除只做软停用，历史记录保留
type SupervisorService interface {
	Assign(ctx context.Context, tenantID, actorID string, req *dto.AssignSupervisorRequest) (*dto.SupervisorAssignmentResponse, error)
	// Unassign 停用监督关系；对已停用的记录幂等
	Unassign(ctx context.Context, tenantID, supervisorAssignmentID string) error
	// IsSupervisorOf 活跃监督配对检查（完成登记授权用）
	IsSupervisorOf(ctx context.Context, tenantID, supervisorID, operatorID string) (bool, error)
	List(ctx context.Context, tenantID string, req *dto.SupervisorListRequest) ([]dto.SupervisorAssignmentResponse, error)
}

type supervisorService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSupervisorService 创建监督关系服务
func NewSupervisorService(repo *repository.Repository, logger *zap.Logger) SupervisorService {
	return &supervisorService{repo: repo, logger: logger}
}

func (s *supervisorService) Assign(ctx context.Context, tenantID, actorID string, req *dto.AssignSupervisorRequest) (*dto.SupervisorAssignmentResponse, error) {
	if req.SupervisorEmployeeID == req.OperatorEmployeeID {
		return nil, ErrSelfSupervision
	}

	supervisor, err := s.repo.Employee.GetByID(ctx, tenantID, req.SupervisorEmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询监督者失败", zap.Error(err))
		return nil, err
	}
	operator, err := s.repo.Employee.GetByID(ctx, tenantID, req.OperatorEmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询被监督者失败", zap.Error(err))
		return nil, err
	}

	exists, err := s.repo.Supervisor.ExistsActivePair(ctx, tenantID, req.SupervisorEmployeeID, req.OperatorEmployeeID)
	if err != nil {
		s.logger.Error("监督关系查重失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrSupervisionExists
	}

	assignment := &model.SupervisorAssignment{
		TenantID:             tenantID,
		SupervisorEmployeeID: req.SupervisorEmployeeID,
		OperatorEmployeeID:   req.OperatorEmployeeID,
		AssignedAt:           time.Now().UTC(),
		AssignedBy:           actorID,
		Active:               true,
	}
	if err := s.repo.Supervisor.Create(ctx, assignment); err != nil {
		s.logger.Error("创建监督关系失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("监督关系已建立",
		zap.String("supervisor_id", req.SupervisorEmployeeID),
		zap.String("operator_id", req.OperatorEmployeeID))

	assignment.Supervisor = supervisor
	assignment.Operator = operator
	return toSupervisorResponse(assignment), nil
}

func (s *supervisorService) Unassign(ctx context.Context, tenantID, supervisorAssignmentID string) error {
	if _, err := s.repo.Supervisor.GetByID(ctx, tenantID, supervisorAssignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSupervisionNotFound
		}
		s.logger.Error("查询监督关系失败", zap.Error(err))
		return err
	}

	changed, err := s.repo.Supervisor.Deactivate(ctx, tenantID, supervisorAssignmentID)
	if err != nil {
		s.logger.Error("停用监督关系失败", zap.Error(err))
		return err
	}
	if changed {
		s.logger.Info("监督关系已解除",
			zap.String("supervisor_assignment_id", supervisorAssignmentID))
	}
	return nil
}

func (s *supervisorService) IsSupervisorOf(ctx context.Context, tenantID, supervisorID, operatorID string) (bool, error) {
	return s.repo.Supervisor.ExistsActivePair(ctx, tenantID, supervisorID, operatorID)
}

func (s *supervisorService) List(ctx context.Context, tenantID string, req *dto.SupervisorListRequest) ([]dto.SupervisorAssignmentResponse, error) {
	var (
		assignments []model.SupervisorAssignment
		err         error
	)
	switch {
	case req.SupervisorID != "":
		assignments, err = s.repo.Supervisor.ListBySupervisor(ctx, tenantID, req.SupervisorID)
	case req.OperatorID != "":
		assignments, err = s.repo.Supervisor.ListByOperator(ctx, tenantID, req.OperatorID)
	default:
		return nil, ErrSupervisionFilterMiss
	}
	if err != nil {
		s.logger.Error("查询监督关系列表失败", zap.Error(err))
		return nil, err
	}

	responses := make([]dto.SupervisorAssignmentResponse, 0, len(assignments))
	for i := range assignments {
		responses = append(responses, *toSupervisorResponse(&assignments[i]))
	}
	return responses, nil
}
