package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"toolbox-track/internal/model"
)

// CompletionRepository 完成记录数据访问接口
// 记录创建后不可变（审计证据），故无 Update/Delete
type CompletionRepository interface {
	Create(ctx context.Context, record *model.CompletionRecord) error
	GetByInstance(ctx context.Context, tenantID, instanceID string) (*model.CompletionRecord, error)
	ListByRange(ctx context.Context, tenantID string, from, to time.Time) ([]model.CompletionRecord, error)
}

type completionRepo struct {
	db *gorm.DB
}

func NewCompletionRepo(db *gorm.DB) CompletionRepository {
	return &completionRepo{db: db}
}

func (r *completionRepo) Create(ctx context.Context, record *model.CompletionRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *completionRepo) GetByInstance(ctx context.Context, tenantID, instanceID string) (*model.CompletionRecord, error) {
	var record model.CompletionRecord
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND instance_id = ?", tenantID, instanceID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *completionRepo) ListByRange(ctx context.Context, tenantID string, from, to time.Time) ([]model.CompletionRecord, error) {
	var records []model.CompletionRecord
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND completed_at >= ? AND completed_at <= ?", tenantID, from, to).
		Order("completed_at DESC").
		Find(&records).Error
	return records, err
}
