package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/model"
	"toolbox-track/internal/repository"
)

var (
	ErrLookupCategoryNotFound = errors.New("查找类别不存在")
	ErrLookupValueNotFound    = errors.New("查找值不存在")
	ErrLookupCodeExists       = errors.New("该编码在当前租户已生效")
)

// LookupService 查找值与租户遮蔽
// 生效集合 = 活跃全局值（剔除租户停用的） + 租户自有活跃值；
// 遮蔽行只影响所属租户，编码唯一性以租户生效集合为边界
type LookupService interface {
	ListCategories(ctx context.Context) ([]dto.LookupCategoryResponse, error)
	// EffectiveValues 按类别解析租户生效查找值（sort_order、code 排序）
	EffectiveValues(ctx context.Context, tenantID, categoryCode string) ([]dto.LookupValueResponse, error)
	// CreateTenantValue 创建租户自有值；编码与生效集合冲突时拒绝
	CreateTenantValue(ctx context.Context, tenantID, actorID, categoryCode string, req *dto.CreateLookupValueRequest) (*dto.LookupValueResponse, error)
	// ToggleGlobalValue 为当前租户启停一个全局值（写入/更新遮蔽行）
	ToggleGlobalValue(ctx context.Context, tenantID, actorID, valueID string, isEnabled bool) error
}

type lookupService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLookupService 创建查找值服务
func NewLookupService(repo *repository.Repository, logger *zap.Logger) LookupService {
	return &lookupService{repo: repo, logger: logger}
}

func (s *lookupService) ListCategories(ctx context.Context) ([]dto.LookupCategoryResponse, error) {
	categories, err := s.repo.Lookup.ListCategories(ctx)
	if err != nil {
		s.logger.Error("查询查找类别失败", zap.Error(err))
		return nil, err
	}

	responses := make([]dto.LookupCategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, dto.LookupCategoryResponse{
			ID:   c.CategoryID,
			Code: c.Code,
			Name: c.Name,
		})
	}
	return responses, nil
}

// effectiveModels 生效集合的内部解析（Service 内跨模块复用：报表的部门过滤也走这里）
func (s *lookupService) effectiveModels(ctx context.Context, tenantID, categoryCode string) ([]model.LookupValue, error) {
	category, err := s.repo.Lookup.GetCategoryByCode(ctx, categoryCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLookupCategoryNotFound
		}
		return nil, err
	}

	globals, err := s.repo.Lookup.ListGlobalValues(ctx, category.CategoryID)
	if err != nil {
		return nil, err
	}
	tenantValues, err := s.repo.Lookup.ListTenantValues(ctx, category.CategoryID, tenantID)
	if err != nil {
		return nil, err
	}
	overrides, err := s.repo.Lookup.ListOverrides(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	disabled := make(map[string]bool, len(overrides))
	for _, o := range overrides {
		if !o.IsEnabled {
			disabled[o.LookupValueID] = true
		}
	}

	effective := make([]model.LookupValue, 0, len(globals)+len(tenantValues))
	for _, v := range globals {
		if v.IsActive && !disabled[v.ValueID] {
			effective = append(effective, v)
		}
	}
	for _, v := range tenantValues {
		if v.IsActive {
			effective = append(effective, v)
		}
	}

	sort.Slice(effective, func(i, j int) bool {
		if effective[i].SortOrder != effective[j].SortOrder {
			return effective[i].SortOrder < effective[j].SortOrder
		}
		return effective[i].Code < effective[j].Code
	})
	return effective, nil
}

func (s *lookupService) EffectiveValues(ctx context.Context, tenantID, categoryCode string) ([]dto.LookupValueResponse, error) {
	values, err := s.effectiveModels(ctx, tenantID, categoryCode)
	if err != nil {
		if !errors.Is(err, ErrLookupCategoryNotFound) {
			s.logger.Error("解析生效查找值失败", zap.Error(err),
				zap.String("category", categoryCode))
		}
		return nil, err
	}

	responses := make([]dto.LookupValueResponse, 0, len(values))
	for _, v := range values {
		responses = append(responses, dto.LookupValueResponse{
			ID:        v.ValueID,
			Code:      v.Code,
			Name:      v.Name,
			SortOrder: v.SortOrder,
			IsGlobal:  v.IsGlobal,
		})
	}
	return responses, nil
}

func (s *lookupService) CreateTenantValue(ctx context.Context, tenantID, actorID, categoryCode string, req *dto.CreateLookupValueRequest) (*dto.LookupValueResponse, error) {
	category, err := s.repo.Lookup.GetCategoryByCode(ctx, categoryCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLookupCategoryNotFound
		}
		s.logger.Error("查询查找类别失败", zap.Error(err))
		return nil, err
	}

	// 编码冲突以生效集合为准：与被本租户停用的全局值同码是允许的
	effective, err := s.effectiveModels(ctx, tenantID, categoryCode)
	if err != nil {
		return nil, err
	}
	for _, v := range effective {
		if v.Code == req.Code {
			return nil, ErrLookupCodeExists
		}
	}

	value := &model.LookupValue{
		CategoryID: category.CategoryID,
		TenantID:   &tenantID,
		Code:       req.Code,
		Name:       req.Name,
		SortOrder:  req.SortOrder,
		IsActive:   true,
		IsGlobal:   false,
	}
	value.CreatedBy = &actorID
	value.UpdatedBy = &actorID
	if err := s.repo.Lookup.CreateValue(ctx, value); err != nil {
		// 并发创建同码值时生效集合扫描可能双双通过，唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrLookupCodeExists
		}
		s.logger.Error("创建租户查找值失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("租户查找值已创建",
		zap.String("tenant_id", tenantID),
		zap.String("category", categoryCode),
		zap.String("code", req.Code))

	return &dto.LookupValueResponse{
		ID:        value.ValueID,
		Code:      value.Code,
		Name:      value.Name,
		SortOrder: value.SortOrder,
		IsGlobal:  false,
	}, nil
}

func (s *lookupService) ToggleGlobalValue(ctx context.Context, tenantID, actorID, valueID string, isEnabled bool) error {
	value, err := s.repo.Lookup.GetValueByID(ctx, valueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLookupValueNotFound
		}
		s.logger.Error("查询查找值失败", zap.Error(err))
		return err
	}
	// 只有全局值能被遮蔽；租户自有值直接属于租户，不走遮蔽机制
	if !value.IsGlobal {
		return ErrLookupValueNotFound
	}

	override := &model.TenantLookupOverride{
		TenantID:      tenantID,
		LookupValueID: valueID,
		IsEnabled:     isEnabled,
		UpdatedBy:     &actorID,
	}
	if err := s.repo.Lookup.UpsertOverride(ctx, override); err != nil {
		s.logger.Error("写入查找值遮蔽失败", zap.Error(err))
		return err
	}

	s.logger.Info("全局查找值遮蔽已更新",
		zap.String("tenant_id", tenantID),
		zap.String("value_id", valueID),
		zap.Bool("is_enabled", isEnabled))
	return nil
}
