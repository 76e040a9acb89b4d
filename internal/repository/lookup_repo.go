package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"toolbox-track/internal/model"
)

// LookupRepository 查找值数据访问接口
// 全局值（tenant_id IS NULL）与租户自有值分开查询，合并逻辑在 Service 层
type LookupRepository interface {
	ListCategories(ctx context.Context) ([]model.LookupCategory, error)
	GetCategoryByCode(ctx context.Context, code string) (*model.LookupCategory, error)
	ListGlobalValues(ctx context.Context, categoryID string) ([]model.LookupValue, error)
	ListTenantValues(ctx context.Context, categoryID, tenantID string) ([]model.LookupValue, error)
	CreateValue(ctx context.Context, value *model.LookupValue) error
	GetValueByID(ctx context.Context, id string) (*model.LookupValue, error)
	ListOverrides(ctx context.Context, tenantID string) ([]model.TenantLookupOverride, error)
	// UpsertOverride 写入或更新遮蔽行（(tenant_id, lookup_value_id) 唯一）
	UpsertOverride(ctx context.Context, override *model.TenantLookupOverride) error
}

type lookupRepo struct {
	db *gorm.DB
}

func NewLookupRepo(db *gorm.DB) LookupRepository {
	return &lookupRepo{db: db}
}

func (r *lookupRepo) ListCategories(ctx context.Context) ([]model.LookupCategory, error) {
	var categories []model.LookupCategory
	err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&categories).Error
	return categories, err
}

func (r *lookupRepo) GetCategoryByCode(ctx context.Context, code string) (*model.LookupCategory, error) {
	var category model.LookupCategory
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *lookupRepo) ListGlobalValues(ctx context.Context, categoryID string) ([]model.LookupValue, error) {
	var values []model.LookupValue
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND tenant_id IS NULL AND is_global", categoryID).
		Find(&values).Error
	return values, err
}

func (r *lookupRepo) ListTenantValues(ctx context.Context, categoryID, tenantID string) ([]model.LookupValue, error) {
	var values []model.LookupValue
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND tenant_id = ?", categoryID, tenantID).
		Find(&values).Error
	return values, err
}

func (r *lookupRepo) CreateValue(ctx context.Context, value *model.LookupValue) error {
	return r.db.WithContext(ctx).Create(value).Error
}

func (r *lookupRepo) GetValueByID(ctx context.Context, id string) (*model.LookupValue, error) {
	var value model.LookupValue
	err := r.db.WithContext(ctx).
		Where("value_id = ?", id).
		First(&value).Error
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *lookupRepo) ListOverrides(ctx context.Context, tenantID string) ([]model.TenantLookupOverride, error) {
	var overrides []model.TenantLookupOverride
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Find(&overrides).Error
	return overrides, err
}

func (r *lookupRepo) UpsertOverride(ctx context.Context, override *model.TenantLookupOverride) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "lookup_value_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_enabled", "updated_at", "updated_by"}),
		}).
		Create(override).Error
}
