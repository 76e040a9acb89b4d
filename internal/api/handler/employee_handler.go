package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/service"
	"toolbox-track/pkg/response"
)

// EmployeeHandler 员工模块 HTTP 处理器（只读）
type EmployeeHandler struct {
	employeeSvc service.EmployeeService
}

// NewEmployeeHandler 创建 EmployeeHandler
func NewEmployeeHandler(employeeSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc}
}

// List 员工列表
// GET /api/v1/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.employeeSvc.List(c.Request.Context(), tenantID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 员工详情
// GET /api/v1/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.employeeSvc.GetByID(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			response.NotFound(c, 12001, "员工不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
