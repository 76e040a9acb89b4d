package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/service"
	"toolbox-track/pkg/response"
)

// LookupHandler 查找值模块 HTTP 处理器
type LookupHandler struct {
	lookupSvc service.LookupService
}

// NewLookupHandler 创建 LookupHandler
func NewLookupHandler(lookupSvc service.LookupService) *LookupHandler {
	return &LookupHandler{lookupSvc: lookupSvc}
}

// ListCategories 查找类别列表
// GET /api/v1/lookups
func (h *LookupHandler) ListCategories(c *gin.Context) {
	result, err := h.lookupSvc.ListCategories(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// EffectiveValues 当前租户生效的查找值
// GET /api/v1/lookups/:category/values
func (h *LookupHandler) EffectiveValues(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.lookupSvc.EffectiveValues(c.Request.Context(), tenantID, c.Param("category"))
	if err != nil {
		if errors.Is(err, service.ErrLookupCategoryNotFound) {
			response.NotFound(c, 17001, "查找类别不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// CreateValue 创建租户自有查找值
// POST /api/v1/lookups/:category/values
func (h *LookupHandler) CreateValue(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	actorID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.CreateLookupValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.lookupSvc.CreateTenantValue(c.Request.Context(), tenantID, actorID, c.Param("category"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLookupCategoryNotFound):
			response.NotFound(c, 17001, "查找类别不存在")
		case errors.Is(err, service.ErrLookupCodeExists):
			response.Conflict(c, 17002, "该编码在当前租户已生效")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// ToggleValue 为当前租户启停全局查找值
// PUT /api/v1/lookups/values/:id/toggle
func (h *LookupHandler) ToggleValue(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	actorID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.ToggleLookupValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	err := h.lookupSvc.ToggleGlobalValue(c.Request.Context(), tenantID, actorID, c.Param("id"), req.IsEnabled)
	if err != nil {
		if errors.Is(err, service.ErrLookupValueNotFound) {
			response.NotFound(c, 17003, "查找值不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
