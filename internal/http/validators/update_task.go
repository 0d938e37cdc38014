package validators

import (
	"fmt"
	"strings"

	dto "taskmind.com/taskmind/internal/data_models"
	"taskmind.com/taskmind/internal/services"
	"taskmind.com/taskmind/pkg/constants"
	"taskmind.com/taskmind/pkg/exceptions"
)

// ValidateUpdateTaskRequest converts a partial update. Fields absent from
// the body stay nil in the patch.
func ValidateUpdateTaskRequest(r *dto.UpdateTaskRequest) (services.TaskPatch, error) {
	var patch services.TaskPatch

	if r.Title != nil {
		if strings.TrimSpace(*r.Title) == "" {
			return patch, exceptions.Validation("title is required", map[string]string{"title": "must not be empty"})
		}
		patch.Title = r.Title
	}
	patch.Description = r.Description

	if r.DueDate != nil {
		due, err := ParseDate("dueDate", *r.DueDate)
		if err != nil {
			return patch, err
		}
		patch.DueDate = &due
	}
	if r.Priority != nil {
		p := constants.TaskPriority(*r.Priority)
		if !p.Valid() {
			return patch, exceptions.ErrInvalidPriority
		}
		patch.Priority = &p
	}
	if r.Status != nil {
		s, err := ParseStatus(*r.Status)
		if err != nil {
			return patch, err
		}
		patch.Status = &s
	}
	if r.AssignedTo != nil {
		assignee := strings.TrimSpace(*r.AssignedTo)
		patch.AssignedTo = &assignee
	}
	if r.Attachments != nil {
		attachments, err := ValidateAttachments(*r.Attachments)
		if err != nil {
			return patch, err
		}
		patch.Attachments = &attachments
	}
	if r.TodoChecklist != nil {
		checklist, err := ValidateChecklist(*r.TodoChecklist)
		if err != nil {
			return patch, err
		}
		patch.TodoChecklist = &checklist
	}
	// Out-of-range progress is clamped by the task, not rejected.
	patch.Progress = r.Progress
	return patch, nil
}

func indexed(field string, i int, sub string) string {
	return fmt.Sprintf("%s[%d].%s", field, i, sub)
}
