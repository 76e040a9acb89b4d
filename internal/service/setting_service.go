package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/model"
	"toolbox-track/internal/repository"
)

var ErrSettingNotFound = errors.New("配置项不存在")

// SettingService 租户配置（键值对，后写覆盖，无版本协商）
type SettingService interface {
	Get(ctx context.Context, tenantID, key string) (*dto.SettingResponse, error)
	Put(ctx context.Context, tenantID, actorID, key string, req *dto.PutSettingRequest) (*dto.SettingResponse, error)
	List(ctx context.Context, tenantID string) ([]dto.SettingResponse, error)
}

type settingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSettingService 创建租户配置服务
func NewSettingService(repo *repository.Repository, logger *zap.Logger) SettingService {
	return &settingService{repo: repo, logger: logger}
}

func (s *settingService) Get(ctx context.Context, tenantID, key string) (*dto.SettingResponse, error) {
	setting, err := s.repo.Setting.Get(ctx, tenantID, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		s.logger.Error("查询租户配置失败", zap.Error(err))
		return nil, err
	}
	return toSettingResponse(setting), nil
}

func (s *settingService) Put(ctx context.Context, tenantID, actorID, key string, req *dto.PutSettingRequest) (*dto.SettingResponse, error) {
	setting := &model.TenantSetting{
		TenantID:  tenantID,
		Key:       key,
		Value:     req.Value,
		UpdatedAt: time.Now().UTC(),
		UpdatedBy: &actorID,
	}
	if err := s.repo.Setting.Upsert(ctx, setting); err != nil {
		s.logger.Error("写入租户配置失败", zap.Error(err), zap.String("key", key))
		return nil, err
	}
	return toSettingResponse(setting), nil
}

func (s *settingService) List(ctx context.Context, tenantID string) ([]dto.SettingResponse, error) {
	settings, err := s.repo.Setting.ListByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("查询租户配置列表失败", zap.Error(err))
		return nil, err
	}

	responses := make([]dto.SettingResponse, 0, len(settings))
	for i := range settings {
		responses = append(responses, *toSettingResponse(&settings[i]))
	}
	return responses, nil
}

func toSettingResponse(s *model.TenantSetting) *dto.SettingResponse {
	return &dto.SettingResponse{
		Key:       s.Key,
		Value:     s.Value,
		UpdatedAt: formatTime(s.UpdatedAt),
	}
}
