package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/model"
	"toolbox-track/internal/repository"
)

// CourseService 课程管理（创建/列表/详情/归档）
type CourseService interface {
	Create(ctx context.Context, tenantID, actorID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, tenantID, courseID string) (*dto.CourseResponse, error)
	List(ctx context.Context, tenantID string, includeInactive bool) ([]dto.CourseResponse, error)
	Update(ctx context.Context, tenantID, actorID, courseID string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建课程服务
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

func (s *courseService) Create(ctx context.Context, tenantID, actorID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course := &model.Course{
		TenantID:    tenantID,
		Title:       req.Title,
		Description: req.Description,
		IsActive:    true,
	}
	course.CreatedBy = &actorID
	course.UpdatedBy = &actorID
	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("课程已创建",
		zap.String("course_id", course.CourseID),
		zap.String("title", course.Title))
	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *courseService) GetByID(ctx context.Context, tenantID, courseID string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, tenantID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}
	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *courseService) List(ctx context.Context, tenantID string, includeInactive bool) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx, tenantID, includeInactive)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, err
	}

	responses := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		responses = append(responses, toCourseResponse(&courses[i]))
	}
	return responses, nil
}

func (s *courseService) Update(ctx context.Context, tenantID, actorID, courseID string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, tenantID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}
	course.UpdatedBy = &actorID

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.Error(err))
		return nil, err
	}

	resp := toCourseResponse(course)
	return &resp, nil
}
