package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Title       string `json:"title"       binding:"required,min=1,max=300"`
	Description string `json:"description" binding:"omitempty,max=5000"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Title       *string `json:"title"       binding:"omitempty,min=1,max=300"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	IsActive    *bool   `json:"is_active"`
}

// ── 响应 ──

// CourseResponse 课程响应
type CourseResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
