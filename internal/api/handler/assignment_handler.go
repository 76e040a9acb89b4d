package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/service"
	"toolbox-track/pkg/response"
)

// AssignmentHandler 课程分配模块 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// Create 创建课程分配（同时生成首个排期实例）
// POST /api/v1/assignments
func (h *AssignmentHandler) Create(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	actorID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.assignmentSvc.Create(c.Request.Context(), tenantID, actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFound(c, 13001, "课程不存在")
		case errors.Is(err, service.ErrCourseInactive):
			response.Conflict(c, 13002, "课程已停用")
		case errors.Is(err, service.ErrEmployeeNotFound):
			response.NotFound(c, 12001, "员工不存在")
		case errors.Is(err, service.ErrEmployeeInactive):
			response.Conflict(c, 12002, "员工已停用")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// List 分配列表（支持按员工/课程/活跃状态过滤）
// GET /api/v1/assignments
func (h *AssignmentHandler) List(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.AssignmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.assignmentSvc.List(c.Request.Context(), tenantID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 分配详情（含当前开放实例）
// GET /api/v1/assignments/:id
func (h *AssignmentHandler) Get(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.assignmentSvc.GetByID(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			response.NotFound(c, 14001, "课程分配不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Deactivate 停用分配（软删除，取消开放实例；幂等）
// DELETE /api/v1/assignments/:id
func (h *AssignmentHandler) Deactivate(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	actorID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	err := h.assignmentSvc.Deactivate(c.Request.Context(), tenantID, actorID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			response.NotFound(c, 14001, "课程分配不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// ListInstances 分配的实例历史
// GET /api/v1/assignments/:id/instances
func (h *AssignmentHandler) ListInstances(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.assignmentSvc.ListInstances(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			response.NotFound(c, 14001, "课程分配不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
