package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/service"
	"toolbox-track/pkg/response"
)

// SettingHandler 租户配置模块 HTTP 处理器
type SettingHandler struct {
	settingSvc service.SettingService
}

// NewSettingHandler 创建 SettingHandler
func NewSettingHandler(settingSvc service.SettingService) *SettingHandler {
	return &SettingHandler{settingSvc: settingSvc}
}

// List 当前租户全部配置
// GET /api/v1/settings
func (h *SettingHandler) List(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.settingSvc.List(c.Request.Context(), tenantID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Get 读取配置项
// GET /api/v1/settings/:key
func (h *SettingHandler) Get(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.settingSvc.Get(c.Request.Context(), tenantID, c.Param("key"))
	if err != nil {
		if errors.Is(err, service.ErrSettingNotFound) {
			response.NotFound(c, 19001, "配置项不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Put 写入配置项（后写覆盖）
// PUT /api/v1/settings/:key
func (h *SettingHandler) Put(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	actorID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.PutSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.settingSvc.Put(c.Request.Context(), tenantID, actorID, c.Param("key"), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
