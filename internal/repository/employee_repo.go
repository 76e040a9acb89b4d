package repository

import (
	"context"

	"gorm.io/gorm"

	"toolbox-track/internal/model"
	pkgerrors "toolbox-track/pkg/errors"
)

// EmployeeRepository 员工数据访问接口
// 所有查询以 tenantID 为边界，杜绝跨租户读取
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, tenantID, id string) (*model.Employee, error)
	GetByEmail(ctx context.Context, tenantID, email string) (*model.Employee, error)
	List(ctx context.Context, tenantID string, offset, limit int) ([]model.Employee, int64, error)
	ListActive(ctx context.Context, tenantID string) ([]model.Employee, error)
	Update(ctx context.Context, employee *model.Employee) error
}

type employeeRepo struct {
	db *gorm.DB
}

func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepo) GetByID(ctx context.Context, tenantID, id string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND employee_id = ?", tenantID, id).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) GetByEmail(ctx context.Context, tenantID, email string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND email = ?", tenantID, email).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) List(ctx context.Context, tenantID string, offset, limit int) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	base := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("tenant_id = ?", tenantID)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&employees).Error
	return employees, total, err
}

func (r *employeeRepo) ListActive(ctx context.Context, tenantID string) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active", tenantID).
		Order("name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) Update(ctx context.Context, employee *model.Employee) error {
	oldVersion := employee.Version
	result := r.db.WithContext(ctx).
		Model(employee).
		Where("employee_id = ? AND version = ?", employee.EmployeeID, oldVersion).
		Updates(map[string]interface{}{
			"name":          employee.Name,
			"email":         employee.Email,
			"password_hash": employee.PasswordHash,
			"role":          employee.Role,
			"job_title":     employee.JobTitle,
			"department":    employee.Department,
			"is_active":     employee.IsActive,
			"updated_by":    employee.UpdatedBy,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	employee.Version = oldVersion + 1
	return nil
}
