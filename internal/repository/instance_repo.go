package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"toolbox-track/internal/model"
)

// InstanceRepository 计划培训实例数据访问接口
// 状态流转全部走 CompareAndSetStatus / 集合式 UPDATE，
// 并发的完成登记与逾期扫描之间只有一方能使实例离开开放状态
type InstanceRepository interface {
	Create(ctx context.Context, instance *model.ScheduledTalkInstance) error
	GetByID(ctx context.Context, tenantID, id string) (*model.ScheduledTalkInstance, error)
	GetOpenByAssignment(ctx context.Context, assignmentID string) (*model.ScheduledTalkInstance, error)
	ListByAssignment(ctx context.Context, tenantID, assignmentID string) ([]model.ScheduledTalkInstance, error)
	ListByStatus(ctx context.Context, tenantID, status string) ([]model.ScheduledTalkInstance, error)
	// ListLatestByAssignment 返回租户内每个分配最近创建的实例（技能矩阵用）
	ListLatestByAssignment(ctx context.Context, tenantID string) ([]model.ScheduledTalkInstance, error)
	// CompareAndSetStatus 原子状态流转：仅当当前状态属于 from 时置为 to
	CompareAndSetStatus(ctx context.Context, instanceID string, from []string, to string) (bool, error)
	// MarkOverdue 将租户内所有到期未完成的 pending 实例置为 overdue，返回流转数量
	MarkOverdue(ctx context.Context, tenantID string, now time.Time) (int64, error)
}

type instanceRepo struct {
	db *gorm.DB
}

func NewInstanceRepo(db *gorm.DB) InstanceRepository {
	return &instanceRepo{db: db}
}

func (r *instanceRepo) Create(ctx context.Context, instance *model.ScheduledTalkInstance) error {
	return r.db.WithContext(ctx).Create(instance).Error
}

func (r *instanceRepo) GetByID(ctx context.Context, tenantID, id string) (*model.ScheduledTalkInstance, error) {
	var instance model.ScheduledTalkInstance
	err := r.db.WithContext(ctx).
		Preload("Assignment").
		Preload("Assignment.Course").
		Preload("Assignment.Employee").
		Preload("Completion").
		Where("tenant_id = ? AND instance_id = ?", tenantID, id).
		First(&instance).Error
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *instanceRepo) GetOpenByAssignment(ctx context.Context, assignmentID string) (*model.ScheduledTalkInstance, error) {
	var instance model.ScheduledTalkInstance
	err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND status IN ?", assignmentID, model.OpenInstanceStatuses).
		First(&instance).Error
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *instanceRepo) ListByAssignment(ctx context.Context, tenantID, assignmentID string) ([]model.ScheduledTalkInstance, error) {
	var instances []model.ScheduledTalkInstance
	err := r.db.WithContext(ctx).
		Preload("Completion").
		Where("tenant_id = ? AND assignment_id = ?", tenantID, assignmentID).
		Order("due_at ASC").
		Find(&instances).Error
	return instances, err
}

func (r *instanceRepo) ListByStatus(ctx context.Context, tenantID, status string) ([]model.ScheduledTalkInstance, error) {
	var instances []model.ScheduledTalkInstance
	err := r.db.WithContext(ctx).
		Preload("Assignment").
		Preload("Assignment.Course").
		Preload("Assignment.Employee").
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Order("due_at ASC").
		Find(&instances).Error
	return instances, err
}

func (r *instanceRepo) ListLatestByAssignment(ctx context.Context, tenantID string) ([]model.ScheduledTalkInstance, error) {
	// Raw+Scan 不触发 Preload：DISTINCT ON 子查询只取每分配最新实例的 id，
	// 外层走常规 Find 让 Completion 正常预加载
	latest := r.db.
		Table("scheduled_talk_instances").
		Select("DISTINCT ON (assignment_id) instance_id").
		Where("tenant_id = ?", tenantID).
		Order("assignment_id, created_at DESC")

	var instances []model.ScheduledTalkInstance
	err := r.db.WithContext(ctx).
		Preload("Completion").
		Where("instance_id IN (?)", latest).
		Find(&instances).Error
	return instances, err
}

func (r *instanceRepo) CompareAndSetStatus(ctx context.Context, instanceID string, from []string, to string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.ScheduledTalkInstance{}).
		Where("instance_id = ? AND status IN ?", instanceID, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *instanceRepo) MarkOverdue(ctx context.Context, tenantID string, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.ScheduledTalkInstance{}).
		Where("tenant_id = ? AND status = ? AND due_at < ?", tenantID, model.InstancePending, now).
		Update("status", model.InstanceOverdue)
	return result.RowsAffected, result.Error
}
