package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/service"
	"toolbox-track/pkg/response"
)

// SupervisorHandler 监督关系模块 HTTP 处理器
type SupervisorHandler struct {
	supervisorSvc service.SupervisorService
}

// NewSupervisorHandler 创建 SupervisorHandler
func NewSupervisorHandler(supervisorSvc service.SupervisorService) *SupervisorHandler {
	return &SupervisorHandler{supervisorSvc: supervisorSvc}
}

// Assign 建立监督关系
// POST /api/v1/supervisors
func (h *SupervisorHandler) Assign(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	actorID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.AssignSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.supervisorSvc.Assign(c.Request.Context(), tenantID, actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfSupervision):
			response.BadRequest(c, 16001, "不能监督自己")
		case errors.Is(err, service.ErrSupervisionExists):
			response.Conflict(c, 16002, "该监督关系已存在")
		case errors.Is(err, service.ErrEmployeeNotFound):
			response.NotFound(c, 12001, "员工不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// Unassign 解除监督关系（软停用；幂等）
// DELETE /api/v1/supervisors/:id
func (h *SupervisorHandler) Unassign(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.supervisorSvc.Unassign(c.Request.Context(), tenantID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrSupervisionNotFound) {
			response.NotFound(c, 16003, "监督关系不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// List 监督关系列表（按监督者或被监督者过滤）
// GET /api/v1/supervisors?supervisor_id=|operator_id=
func (h *SupervisorHandler) List(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.SupervisorListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.supervisorSvc.List(c.Request.Context(), tenantID, &req)
	if err != nil {
		if errors.Is(err, service.ErrSupervisionFilterMiss) {
			response.BadRequest(c, 16004, "必须指定 supervisor_id 或 operator_id")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
