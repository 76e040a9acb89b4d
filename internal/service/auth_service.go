package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/repository"
	"toolbox-track/pkg/jwt"
	"toolbox-track/pkg/redis"
)

var (
	ErrInvalidCredentials = errors.New("租户、邮箱或密码错误")
	ErrAccountDisabled    = errors.New("账号已停用")
	ErrInvalidRefresh     = errors.New("refresh token 无效")
	ErrPasswordMismatch   = errors.New("原密码错误")
)

// AuthService 认证服务
// 登录入口为 租户 slug + 邮箱 + 密码；TenantID 烧入 Token，
// 后续所有请求的租户边界只取自 Token
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Refresh 刷新 Token 对并轮换：旧 refresh token 立即拉黑
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout 将当前 access token 拉黑至其自然过期
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, tenantID, employeeID string) (*dto.EmployeeResponse, error)
	ChangePassword(ctx context.Context, tenantID, employeeID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	repo       *repository.Repository
	jwtManager *jwt.Manager
	rdb        *redis.Client // 可为 nil（Redis 降级运行）
	accessTTL  time.Duration
	logger     *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(repo *repository.Repository, jwtManager *jwt.Manager, rdb *redis.Client, accessTTL time.Duration, logger *zap.Logger) AuthService {
	return &authService{
		repo:       repo,
		jwtManager: jwtManager,
		rdb:        rdb,
		accessTTL:  accessTTL,
		logger:     logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 租户/邮箱/密码任一错误都返回同一错误，不暴露账号存在性
	tenant, err := s.repo.Tenant.GetBySlug(ctx, req.TenantSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询租户失败", zap.Error(err))
		return nil, err
	}
	if !tenant.IsActive {
		return nil, ErrAccountDisabled
	}

	employee, err := s.repo.Employee.GetByEmail(ctx, tenant.TenantID, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}
	if !employee.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("登录密码校验失败",
			zap.String("tenant_slug", req.TenantSlug),
			zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(employee.EmployeeID, tenant.TenantID, employee.Role, req.RememberMe)
	if err != nil {
		s.logger.Error("签发 Token 失败", zap.Error(err))
		return nil, err
	}
	tokens.Employee = toEmployeeResponse(employee)

	s.logger.Info("登录成功",
		zap.String("employee_id", employee.EmployeeID),
		zap.String("tenant_id", tenant.TenantID))
	return tokens, nil
}

func (s *authService) issueTokens(employeeID, tenantID, role string, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(employeeID, tenantID, role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(employeeID, tenantID, role, rememberMe)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.accessTTL.Seconds()),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtManager.ParseToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidRefresh
	}
	if s.rdb != nil {
		blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("黑名单检查失败，降级放行", zap.Error(err))
		} else if blacklisted {
			return nil, ErrInvalidRefresh
		}
	}

	employee, err := s.repo.Employee.GetByID(ctx, claims.TenantID, claims.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}
	if !employee.IsActive {
		return nil, ErrAccountDisabled
	}

	// 轮换：旧 refresh token 立即失效
	if s.rdb != nil && claims.ExpiresAt != nil {
		if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
			if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
				s.logger.Warn("旧 refresh token 拉黑失败", zap.Error(err))
			}
		}
	}

	tokens, err := s.issueTokens(employee.EmployeeID, claims.TenantID, employee.Role, claims.RememberMe)
	if err != nil {
		s.logger.Error("签发 Token 失败", zap.Error(err))
		return nil, err
	}
	tokens.Employee = toEmployeeResponse(employee)
	return tokens, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.rdb == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("登出拉黑 token 失败", zap.Error(err))
		return err
	}
	s.logger.Info("登出成功", zap.String("employee_id", claims.EmployeeID))
	return nil
}

func (s *authService) Me(ctx context.Context, tenantID, employeeID string) (*dto.EmployeeResponse, error) {
	employee, err := s.repo.Employee.GetByID(ctx, tenantID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}
	resp := toEmployeeResponse(employee)
	return &resp, nil
}

func (s *authService) ChangePassword(ctx context.Context, tenantID, employeeID string, req *dto.ChangePasswordRequest) error {
	employee, err := s.repo.Employee.GetByID(ctx, tenantID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("生成密码哈希失败", zap.Error(err))
		return err
	}
	employee.PasswordHash = string(hash)
	employee.UpdatedBy = &employeeID
	if err := s.repo.Employee.Update(ctx, employee); err != nil {
		s.logger.Error("更新密码失败", zap.Error(err))
		return err
	}

	s.logger.Info("密码已修改", zap.String("employee_id", employeeID))
	return nil
}
