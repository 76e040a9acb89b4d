package model

// Course 课程表 — 对应 courses（一次 toolbox talk 的培训主题）
type Course struct {
	CourseID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	TenantID    string `gorm:"type:uuid;not null;index"                       json:"tenant_id"`
	Title       string `gorm:"type:varchar(300);not null"                     json:"title"`
	Description string `gorm:"type:text"                                      json:"description,omitempty"`
	IsActive    bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }
