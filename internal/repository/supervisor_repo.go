package repository

import (
	"context"

	"gorm.io/gorm"

	"toolbox-track/internal/model"
)

// SupervisorRepository 监督关系数据访问接口
type SupervisorRepository interface {
	Create(ctx context.Context, assignment *model.SupervisorAssignment) error
	GetByID(ctx context.Context, tenantID, id string) (*model.SupervisorAssignment, error)
	// ExistsActivePair 活跃配对是否存在（O(1) 授权检查）
	ExistsActivePair(ctx context.Context, tenantID, supervisorID, operatorID string) (bool, error)
	// Deactivate 软停用；对已停用或不存在的记录无副作用，返回是否有变更
	Deactivate(ctx context.Context, tenantID, id string) (bool, error)
	ListBySupervisor(ctx context.Context, tenantID, supervisorID string) ([]model.SupervisorAssignment, error)
	ListByOperator(ctx context.Context, tenantID, operatorID string) ([]model.SupervisorAssignment, error)
}

type supervisorRepo struct {
	db *gorm.DB
}

func NewSupervisorRepo(db *gorm.DB) SupervisorRepository {
	return &supervisorRepo{db: db}
}

func (r *supervisorRepo) Create(ctx context.Context, assignment *model.SupervisorAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *supervisorRepo) GetByID(ctx context.Context, tenantID, id string) (*model.SupervisorAssignment, error) {
	var assignment model.SupervisorAssignment
	err := r.db.WithContext(ctx).
		Preload("Supervisor").
		Preload("Operator").
		Where("tenant_id = ? AND supervisor_assignment_id = ?", tenantID, id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *supervisorRepo) ExistsActivePair(ctx context.Context, tenantID, supervisorID, operatorID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SupervisorAssignment{}).
		Where("tenant_id = ? AND supervisor_employee_id = ? AND operator_employee_id = ? AND active",
			tenantID, supervisorID, operatorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *supervisorRepo) Deactivate(ctx context.Context, tenantID, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.SupervisorAssignment{}).
		Where("tenant_id = ? AND supervisor_assignment_id = ? AND active", tenantID, id).
		Update("active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *supervisorRepo) ListBySupervisor(ctx context.Context, tenantID, supervisorID string) ([]model.SupervisorAssignment, error) {
	var assignments []model.SupervisorAssignment
	err := r.db.WithContext(ctx).
		Preload("Supervisor").
		Preload("Operator").
		Where("tenant_id = ? AND supervisor_employee_id = ? AND active", tenantID, supervisorID).
		Order("assigned_at ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *supervisorRepo) ListByOperator(ctx context.Context, tenantID, operatorID string) ([]model.SupervisorAssignment, error) {
	var assignments []model.SupervisorAssignment
	err := r.db.WithContext(ctx).
		Preload("Supervisor").
		Preload("Operator").
		Where("tenant_id = ? AND operator_employee_id = ? AND active", tenantID, operatorID).
		Order("assigned_at ASC").
		Find(&assignments).Error
	return assignments, err
}
