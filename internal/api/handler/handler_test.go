package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/service"
	"toolbox-track/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock CompletionService ──

type mockCompletionService struct {
	completeResult *dto.CompleteResultResponse
	completeErr    error
	getResult      *dto.InstanceResponse
	getErr         error
}

func (m *mockCompletionService) Complete(_ context.Context, _, _, _ string, _ *dto.CompleteInstanceRequest) (*dto.CompleteResultResponse, error) {
	return m.completeResult, m.completeErr
}
func (m *mockCompletionService) GetInstance(_ context.Context, _, _ string) (*dto.InstanceResponse, error) {
	return m.getResult, m.getErr
}

// ── Mock ReportService ──

type mockReportService struct {
	complianceResult  *dto.ComplianceReportResponse
	complianceErr     error
	overdueResult     []dto.OverdueEntryResponse
	overdueErr        error
	completionsResult []dto.CompletionEntryResponse
	completionsErr    error
	matrixResult      *dto.SkillsMatrixResponse
	matrixErr         error
}

func (m *mockReportService) Compliance(_ context.Context, _ string, _ *dto.ReportFilterRequest) (*dto.ComplianceReportResponse, error) {
	return m.complianceResult, m.complianceErr
}
func (m *mockReportService) Overdue(_ context.Context, _ string, _ *dto.ReportFilterRequest) ([]dto.OverdueEntryResponse, error) {
	return m.overdueResult, m.overdueErr
}
func (m *mockReportService) Completions(_ context.Context, _ string, _ *dto.CompletionsReportRequest) ([]dto.CompletionEntryResponse, error) {
	return m.completionsResult, m.completionsErr
}
func (m *mockReportService) SkillsMatrix(_ context.Context, _ string, _ *dto.ReportFilterRequest) (*dto.SkillsMatrixResponse, error) {
	return m.matrixResult, m.matrixErr
}

// ── Mock AssignmentService ──

type mockAssignmentService struct {
	sweepResult *dto.SweepResponse
	sweepErr    error
}

func (m *mockAssignmentService) Create(_ context.Context, _, _ string, _ *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	return nil, nil
}
func (m *mockAssignmentService) GetByID(_ context.Context, _, _ string) (*dto.AssignmentResponse, error) {
	return nil, nil
}
func (m *mockAssignmentService) List(_ context.Context, _ string, _ *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error) {
	return nil, 0, nil
}
func (m *mockAssignmentService) ListInstances(_ context.Context, _, _ string) ([]dto.InstanceResponse, error) {
	return nil, nil
}
func (m *mockAssignmentService) Deactivate(_ context.Context, _, _, _ string) error {
	return nil
}
func (m *mockAssignmentService) SweepOverdue(_ context.Context, _ string, _ time.Time) (*dto.SweepResponse, error) {
	return m.sweepResult, m.sweepErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func setAuth(c *gin.Context) {
	c.Set("employee_id", "test-employee-id")
	c.Set("tenant_id", "test-tenant-id")
	c.Set("role", "admin")
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func completeBody() io.Reader {
	return jsonBody(dto.CompleteInstanceRequest{
		SignedByName:  "张三",
		SignatureData: "data:image/png;base64,iVBORw0KGgo=",
	})
}

// ═══════════════════════════════════════════════════════════
// InstanceHandler Tests
// ═══════════════════════════════════════════════════════════

func TestInstanceHandler_Complete_Success(t *testing.T) {
	mock := &mockCompletionService{
		completeResult: &dto.CompleteResultResponse{
			Completed: dto.InstanceResponse{
				ID:     "inst-1",
				Status: "completed",
			},
			NextInstance: &dto.InstanceResponse{
				ID:     "inst-2",
				Status: "pending",
				DueAt:  "2024-01-15T00:00:00Z",
			},
		},
	}
	h := NewInstanceHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/instances/inst-1/complete", completeBody())
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/instances/:id/complete", func(c *gin.Context) {
		setAuth(c)
		h.Complete(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestInstanceHandler_Complete_BadJSON(t *testing.T) {
	mock := &mockCompletionService{}
	h := NewInstanceHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/instances/inst-1/complete", bytes.NewReader([]byte("bad")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/instances/:id/complete", func(c *gin.Context) {
		setAuth(c)
		h.Complete(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestInstanceHandler_Complete_MissingSignature(t *testing.T) {
	mock := &mockCompletionService{}
	h := NewInstanceHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/instances/inst-1/complete", jsonBody(dto.CompleteInstanceRequest{
		SignedByName: "张三", // 缺 signature_data
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/instances/:id/complete", func(c *gin.Context) {
		setAuth(c)
		h.Complete(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10001 {
		t.Errorf("expected code 10001, got %d", resp.Code)
	}
}

func TestInstanceHandler_Complete_Unauthenticated(t *testing.T) {
	mock := &mockCompletionService{}
	h := NewInstanceHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/instances/inst-1/complete", completeBody())
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/instances/:id/complete", h.Complete) // 未注入认证上下文
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10002 {
		t.Errorf("expected code 10002, got %d", resp.Code)
	}
}

func TestInstanceHandler_Complete_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrInstanceNotFound, 404, 15001},
		{"AlreadyClosed", service.ErrInstanceAlreadyClosed, 409, 15002},
		{"InvalidCompletedAt", service.ErrInvalidCompletedAt, 400, 15003},
		{"NotAllowed", service.ErrCompletionNotAllowed, 403, 15004},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCompletionService{completeErr: tt.err}
			h := NewInstanceHandler(mock)

			w := setupRecorder()
			req := httptest.NewRequest("POST", "/instances/inst-1/complete", completeBody())
			req.Header.Set("Content-Type", "application/json")

			r := gin.New()
			r.POST("/instances/:id/complete", func(c *gin.Context) {
				setAuth(c)
				h.Complete(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// 授权失败文案统一，不得泄露实例归属信息
func TestInstanceHandler_Complete_UniformForbiddenMessage(t *testing.T) {
	mock := &mockCompletionService{completeErr: service.ErrCompletionNotAllowed}
	h := NewInstanceHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/instances/inst-1/complete", completeBody())
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/instances/:id/complete", func(c *gin.Context) {
		setAuth(c)
		h.Complete(c)
	})
	r.ServeHTTP(w, req)

	resp := parseResponse(w)
	if resp.Message != "无权登记该实例的完成" {
		t.Errorf("unexpected forbidden message: %s", resp.Message)
	}
}

func TestInstanceHandler_Get_Success(t *testing.T) {
	mock := &mockCompletionService{
		getResult: &dto.InstanceResponse{
			ID:     "inst-1",
			Status: "pending",
			DueAt:  "2024-01-08T00:00:00Z",
		},
	}
	h := NewInstanceHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/instances/inst-1", nil)

	r := gin.New()
	r.GET("/instances/:id", func(c *gin.Context) {
		setAuth(c)
		h.Get(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestInstanceHandler_Get_NotFound(t *testing.T) {
	mock := &mockCompletionService{getErr: service.ErrInstanceNotFound}
	h := NewInstanceHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/instances/unknown", nil)

	r := gin.New()
	r.GET("/instances/:id", func(c *gin.Context) {
		setAuth(c)
		h.Get(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15001 {
		t.Errorf("expected code 15001, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ReportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReportHandler_Compliance_Success(t *testing.T) {
	mock := &mockReportService{
		complianceResult: &dto.ComplianceReportResponse{
			AsOf:             "2024-01-16T00:00:00Z",
			TotalAssignments: 2,
			Compliant:        1,
			NonCompliant:     1,
			ComplianceRate:   0.5,
		},
	}
	h := NewReportHandler(mock, &mockAssignmentService{})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/reports/compliance?as_of=2024-01-16T00:00:00Z", nil)

	r := gin.New()
	r.GET("/reports/compliance", func(c *gin.Context) {
		setAuth(c)
		h.Compliance(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestReportHandler_Compliance_InvalidAsOf(t *testing.T) {
	mock := &mockReportService{complianceErr: service.ErrInvalidReportTime}
	h := NewReportHandler(mock, &mockAssignmentService{})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/reports/compliance?as_of=not-a-time", nil)

	r := gin.New()
	r.GET("/reports/compliance", func(c *gin.Context) {
		setAuth(c)
		h.Compliance(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 18001 {
		t.Errorf("expected code 18001, got %d", resp.Code)
	}
}

func TestReportHandler_Completions_MissingWindow(t *testing.T) {
	mock := &mockReportService{}
	h := NewReportHandler(mock, &mockAssignmentService{})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/reports/completions", nil) // 缺 from/to

	r := gin.New()
	r.GET("/reports/completions", func(c *gin.Context) {
		setAuth(c)
		h.Completions(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10001 {
		t.Errorf("expected code 10001, got %d", resp.Code)
	}
}

func TestReportHandler_Completions_InvalidRange(t *testing.T) {
	mock := &mockReportService{completionsErr: service.ErrInvalidReportRange}
	h := NewReportHandler(mock, &mockAssignmentService{})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/reports/completions?from=2024-02-01T00:00:00Z&to=2024-01-01T00:00:00Z", nil)

	r := gin.New()
	r.GET("/reports/completions", func(c *gin.Context) {
		setAuth(c)
		h.Completions(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 18002 {
		t.Errorf("expected code 18002, got %d", resp.Code)
	}
}

func TestReportHandler_SkillsMatrix_Success(t *testing.T) {
	mock := &mockReportService{
		matrixResult: &dto.SkillsMatrixResponse{
			Employees: []dto.EmployeeBrief{{ID: "emp-1", Name: "张三"}},
			Courses:   []dto.CourseBrief{{ID: "course-1", Title: "高空作业安全"}},
			Cells: []dto.SkillsMatrixCell{{
				EmployeeID: "emp-1",
				CourseID:   "course-1",
				Status:     dto.CellCompleted,
			}},
		},
	}
	h := NewReportHandler(mock, &mockAssignmentService{})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/reports/skills-matrix", nil)

	r := gin.New()
	r.GET("/reports/skills-matrix", func(c *gin.Context) {
		setAuth(c)
		h.SkillsMatrix(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestReportHandler_Sweep_Success(t *testing.T) {
	mock := &mockAssignmentService{
		sweepResult: &dto.SweepResponse{
			MarkedOverdue: 3,
			SweptAt:       "2024-01-16T00:00:00Z",
		},
	}
	h := NewReportHandler(&mockReportService{}, mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/compliance/sweep", nil)

	r := gin.New()
	r.POST("/compliance/sweep", func(c *gin.Context) {
		setAuth(c)
		h.Sweep(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestReportHandler_Sweep_InternalError(t *testing.T) {
	mock := &mockAssignmentService{sweepErr: errors.New("db down")}
	h := NewReportHandler(&mockReportService{}, mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/compliance/sweep", nil)

	r := gin.New()
	r.POST("/compliance/sweep", func(c *gin.Context) {
		setAuth(c)
		h.Sweep(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 50000 {
		t.Errorf("expected code 50000, got %d", resp.Code)
	}
}
