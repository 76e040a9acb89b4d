package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"toolbox-track/internal/model"
)

// SettingRepository 租户配置数据访问接口（键值对，后写覆盖）
type SettingRepository interface {
	Get(ctx context.Context, tenantID, key string) (*model.TenantSetting, error)
	Upsert(ctx context.Context, setting *model.TenantSetting) error
	ListByTenant(ctx context.Context, tenantID string) ([]model.TenantSetting, error)
}

type settingRepo struct {
	db *gorm.DB
}

func NewSettingRepo(db *gorm.DB) SettingRepository {
	return &settingRepo{db: db}
}

func (r *settingRepo) Get(ctx context.Context, tenantID, key string) (*model.TenantSetting, error) {
	var setting model.TenantSetting
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND key = ?", tenantID, key).
		First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepo) Upsert(ctx context.Context, setting *model.TenantSetting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at", "updated_by"}),
		}).
		Create(setting).Error
}

func (r *settingRepo) ListByTenant(ctx context.Context, tenantID string) ([]model.TenantSetting, error) {
	var settings []model.TenantSetting
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("key ASC").
		Find(&settings).Error
	return settings, err
}
