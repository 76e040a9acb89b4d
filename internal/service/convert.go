package service

import (
	"time"

	"toolbox-track/internal/dto"
	"toolbox-track/internal/model"
)

// timeLayout 对外输出统一使用 UTC RFC 3339
const timeLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func toEmployeeResponse(e *model.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:         e.EmployeeID,
		Name:       e.Name,
		Email:      e.Email,
		Role:       e.Role,
		JobTitle:   e.JobTitle,
		Department: e.Department,
		IsActive:   e.IsActive,
	}
}

func toEmployeeBrief(e *model.Employee) *dto.EmployeeBrief {
	if e == nil {
		return nil
	}
	return &dto.EmployeeBrief{ID: e.EmployeeID, Name: e.Name}
}

func toCourseBrief(c *model.Course) *dto.CourseBrief {
	if c == nil {
		return nil
	}
	return &dto.CourseBrief{ID: c.CourseID, Title: c.Title}
}

func toCourseResponse(c *model.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:          c.CourseID,
		Title:       c.Title,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   formatTime(c.CreatedAt),
		UpdatedAt:   formatTime(c.UpdatedAt),
	}
}

func toCompletionResponse(r *model.CompletionRecord, dueAt time.Time) *dto.CompletionResponse {
	if r == nil {
		return nil
	}
	return &dto.CompletionResponse{
		ID:           r.CompletionID,
		InstanceID:   r.InstanceID,
		SignedByName: r.SignedByName,
		CompletedAt:  formatTime(r.CompletedAt),
		Late:         r.CompletedAt.After(dueAt),
	}
}

func toInstanceResponse(i *model.ScheduledTalkInstance) *dto.InstanceResponse {
	if i == nil {
		return nil
	}
	return &dto.InstanceResponse{
		ID:           i.InstanceID,
		AssignmentID: i.AssignmentID,
		DueAt:        formatTime(i.DueAt),
		Status:       i.Status,
		CreatedAt:    formatTime(i.CreatedAt),
		Completion:   toCompletionResponse(i.Completion, i.DueAt),
	}
}

func toAssignmentResponse(a *model.CourseAssignment, open *model.ScheduledTalkInstance) *dto.AssignmentResponse {
	return &dto.AssignmentResponse{
		ID:           a.AssignmentID,
		Course:       toCourseBrief(a.Course),
		Employee:     toEmployeeBrief(a.Employee),
		Frequency:    a.Frequency,
		AssignedAt:   formatTime(a.AssignedAt),
		AssignedBy:   a.AssignedBy,
		Active:       a.Active,
		OpenInstance: toInstanceResponse(open),
	}
}

func toSupervisorResponse(s *model.SupervisorAssignment) *dto.SupervisorAssignmentResponse {
	return &dto.SupervisorAssignmentResponse{
		ID:         s.SupervisorAssignmentID,
		Supervisor: toEmployeeBrief(s.Supervisor),
		Operator:   toEmployeeBrief(s.Operator),
		AssignedAt: formatTime(s.AssignedAt),
		AssignedBy: s.AssignedBy,
		Active:     s.Active,
	}
}
