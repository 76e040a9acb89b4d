package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/service"
	"toolbox-track/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// Create 创建课程
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	actorID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.courseSvc.Create(c.Request.Context(), tenantID, actorID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// List 课程列表
// GET /api/v1/courses?include_inactive=
func (h *CourseHandler) List(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	includeInactive := c.Query("include_inactive") == "true"
	result, err := h.courseSvc.List(c.Request.Context(), tenantID, includeInactive)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Get 课程详情
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.courseSvc.GetByID(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 13001, "课程不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Update 更新课程（含归档 is_active=false）
// PUT /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	actorID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.courseSvc.Update(c.Request.Context(), tenantID, actorID, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 13001, "课程不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
