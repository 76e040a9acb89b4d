package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/service"
	"toolbox-track/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// SkillsMatrixXLSX 技能矩阵 Excel 导出
// GET /api/v1/exports/skills-matrix.xlsx
func (h *ExportHandler) SkillsMatrixXLSX(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.ReportFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	data, filename, err := h.exportSvc.SkillsMatrixXLSX(c.Request.Context(), tenantID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// UpcomingICS 开放实例日历订阅
// GET /api/v1/exports/upcoming.ics
// 管理员导出全租户；普通员工只看到自己的排期
func (h *ExportHandler) UpcomingICS(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	scopeEmployee := employeeID
	if role == "admin" {
		scopeEmployee = ""
	}

	serialized, filename, err := h.exportSvc.UpcomingICS(c.Request.Context(), tenantID, scopeEmployee)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(serialized))
}
