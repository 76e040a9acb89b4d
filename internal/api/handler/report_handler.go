package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/service"
	"toolbox-track/pkg/response"
)

// ReportHandler 合规报表模块 HTTP 处理器（含逾期扫描触发入口）
type ReportHandler struct {
	reportSvc     service.ReportService
	assignmentSvc service.AssignmentService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService, assignmentSvc service.AssignmentService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, assignmentSvc: assignmentSvc}
}

func bindReportFilter(c *gin.Context) (*dto.ReportFilterRequest, bool) {
	var req dto.ReportFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return nil, false
	}
	return &req, true
}

func writeReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidReportTime):
		response.BadRequest(c, 18001, "报表时间参数格式无效")
	case errors.Is(err, service.ErrInvalidReportRange):
		response.BadRequest(c, 18002, "报表时间范围无效")
	default:
		response.InternalError(c)
	}
}

// Compliance 合规率报表
// GET /api/v1/reports/compliance
func (h *ReportHandler) Compliance(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	req, ok := bindReportFilter(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.Compliance(c.Request.Context(), tenantID, req)
	if err != nil {
		writeReportError(c, err)
		return
	}
	response.OK(c, result)
}

// Overdue 逾期报表
// GET /api/v1/reports/overdue
func (h *ReportHandler) Overdue(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	req, ok := bindReportFilter(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.Overdue(c.Request.Context(), tenantID, req)
	if err != nil {
		writeReportError(c, err)
		return
	}
	response.OK(c, result)
}

// Completions 完成记录报表（时间窗口必填）
// GET /api/v1/reports/completions
func (h *ReportHandler) Completions(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.CompletionsReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.reportSvc.Completions(c.Request.Context(), tenantID, &req)
	if err != nil {
		writeReportError(c, err)
		return
	}
	response.OK(c, result)
}

// SkillsMatrix 技能矩阵
// GET /api/v1/reports/skills-matrix
func (h *ReportHandler) SkillsMatrix(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	req, ok := bindReportFilter(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.SkillsMatrix(c.Request.Context(), tenantID, req)
	if err != nil {
		writeReportError(c, err)
		return
	}
	response.OK(c, result)
}

// Sweep 逾期扫描（外部调度器触发；幂等）
// POST /api/v1/compliance/sweep
func (h *ReportHandler) Sweep(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.assignmentSvc.SweepOverdue(c.Request.Context(), tenantID, time.Now().UTC())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
