package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/service"
	"toolbox-track/pkg/response"
)

// InstanceHandler 培训实例模块 HTTP 处理器（查询 + 完成登记）
type InstanceHandler struct {
	completionSvc service.CompletionService
}

// NewInstanceHandler 创建 InstanceHandler
func NewInstanceHandler(completionSvc service.CompletionService) *InstanceHandler {
	return &InstanceHandler{completionSvc: completionSvc}
}

// Get 实例详情（含完成记录）
// GET /api/v1/instances/:id
func (h *InstanceHandler) Get(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.completionSvc.GetInstance(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrInstanceNotFound) {
			response.NotFound(c, 15001, "培训实例不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Complete 登记完成（返回已关闭实例与继任实例）
// POST /api/v1/instances/:id/complete
func (h *InstanceHandler) Complete(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	actorID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.CompleteInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.completionSvc.Complete(c.Request.Context(), tenantID, actorID, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInstanceNotFound):
			response.NotFound(c, 15001, "培训实例不存在")
		case errors.Is(err, service.ErrInstanceAlreadyClosed):
			response.Conflict(c, 15002, "培训实例已关闭")
		case errors.Is(err, service.ErrInvalidCompletedAt):
			response.BadRequest(c, 15003, "完成时间格式无效")
		case errors.Is(err, service.ErrCompletionNotAllowed):
			// 非本人且非监督者：统一文案，不区分"实例归谁"
			response.Error(c, http.StatusForbidden, 15004, "无权登记该实例的完成")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}
