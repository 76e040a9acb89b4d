package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/repository"
)

// EmployeeService 员工查询（本模块只读，账号开通走租户开通流程）
type EmployeeService interface {
	GetByID(ctx context.Context, tenantID, employeeID string) (*dto.EmployeeResponse, error)
	List(ctx context.Context, tenantID string, req *dto.PaginationRequest) ([]dto.EmployeeResponse, int64, error)
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService 创建员工服务
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger}
}

func (s *employeeService) GetByID(ctx context.Context, tenantID, employeeID string) (*dto.EmployeeResponse, error) {
	employee, err := s.repo.Employee.GetByID(ctx, tenantID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}
	resp := toEmployeeResponse(employee)
	return &resp, nil
}

func (s *employeeService) List(ctx context.Context, tenantID string, req *dto.PaginationRequest) ([]dto.EmployeeResponse, int64, error) {
	employees, total, err := s.repo.Employee.List(ctx, tenantID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, 0, err
	}

	responses := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		responses = append(responses, toEmployeeResponse(&employees[i]))
	}
	return responses, total, nil
}
