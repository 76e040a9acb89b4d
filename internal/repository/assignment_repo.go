package repository

import (
	"context"

	"gorm.io/gorm"

	"toolbox-track/internal/model"
	pkgerrors "toolbox-track/pkg/errors"
)

// AssignmentFilter 分配列表过滤条件
type AssignmentFilter struct {
	EmployeeID string
	CourseID   string
	ActiveOnly bool
}

// AssignmentRepository 课程分配数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.CourseAssignment) error
	GetByID(ctx context.Context, tenantID, id string) (*model.CourseAssignment, error)
	List(ctx context.Context, tenantID string, filter AssignmentFilter, offset, limit int) ([]model.CourseAssignment, int64, error)
	ListActive(ctx context.Context, tenantID string) ([]model.CourseAssignment, error)
	Update(ctx context.Context, assignment *model.CourseAssignment) error
}

type assignmentRepo struct {
	db *gorm.DB
}

func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.CourseAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, tenantID, id string) (*model.CourseAssignment, error) {
	var assignment model.CourseAssignment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Employee").
		Where("tenant_id = ? AND assignment_id = ?", tenantID, id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) List(ctx context.Context, tenantID string, filter AssignmentFilter, offset, limit int) ([]model.CourseAssignment, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&model.CourseAssignment{}).
		Where("tenant_id = ?", tenantID)

	if filter.EmployeeID != "" {
		base = base.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.CourseID != "" {
		base = base.Where("course_id = ?", filter.CourseID)
	}
	if filter.ActiveOnly {
		base = base.Where("active")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var assignments []model.CourseAssignment
	err := base.
		Preload("Course").
		Preload("Employee").
		Order("assigned_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&assignments).Error
	return assignments, total, err
}

func (r *assignmentRepo) ListActive(ctx context.Context, tenantID string) ([]model.CourseAssignment, error) {
	var assignments []model.CourseAssignment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Employee").
		Where("tenant_id = ? AND active", tenantID).
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) Update(ctx context.Context, assignment *model.CourseAssignment) error {
	oldVersion := assignment.Version
	result := r.db.WithContext(ctx).
		Model(assignment).
		Where("assignment_id = ? AND version = ?", assignment.AssignmentID, oldVersion).
		Updates(map[string]interface{}{
			"active":     assignment.Active,
			"updated_by": assignment.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	assignment.Version = oldVersion + 1
	return nil
}
