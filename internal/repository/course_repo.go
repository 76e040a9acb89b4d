package repository

import (
	"context"

	"gorm.io/gorm"

	"toolbox-track/internal/model"
	pkgerrors "toolbox-track/pkg/errors"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, tenantID, id string) (*model.Course, error)
	List(ctx context.Context, tenantID string, includeInactive bool) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
}

type courseRepo struct {
	db *gorm.DB
}

func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, tenantID, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND course_id = ?", tenantID, id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, tenantID string, includeInactive bool) ([]model.Course, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if !includeInactive {
		q = q.Where("is_active")
	}

	var courses []model.Course
	err := q.Order("title ASC").Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	oldVersion := course.Version
	result := r.db.WithContext(ctx).
		Model(course).
		Where("course_id = ? AND version = ?", course.CourseID, oldVersion).
		Updates(map[string]interface{}{
			"title":       course.Title,
			"description": course.Description,
			"is_active":   course.IsActive,
			"updated_by":  course.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	course.Version = oldVersion + 1
	return nil
}
