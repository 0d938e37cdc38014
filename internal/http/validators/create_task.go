package validators

import (
	"strings"
	"time"

	dto "taskmind.com/taskmind/internal/data_models"
	"taskmind.com/taskmind/internal/services"
	"taskmind.com/taskmind/pkg/constants"
	"taskmind.com/taskmind/pkg/exceptions"
	model "taskmind.com/taskmind/pkg/models"
)

const dateOnlyLayout = "2006-01-02"

// ParseDate accepts RFC 3339 timestamps and bare dates, which are taken as
// midnight UTC.
func ParseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return t, nil
	}
	return time.Time{}, exceptions.Validation("invalid date", map[string]string{field: "expected YYYY-MM-DD or RFC 3339"})
}

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) (services.CreateTaskInput, error) {
	fields := map[string]string{}
	if strings.TrimSpace(r.Title) == "" {
		fields["title"] = "required"
	}
	if strings.TrimSpace(r.DueDate) == "" {
		fields["dueDate"] = "required"
	}
	if len(fields) > 0 {
		return services.CreateTaskInput{}, exceptions.Validation("title and due date are required", fields)
	}

	due, err := ParseDate("dueDate", r.DueDate)
	if err != nil {
		return services.CreateTaskInput{}, err
	}
	priority, err := ParsePriority(r.Priority)
	if err != nil {
		return services.CreateTaskInput{}, err
	}
	attachments, err := ValidateAttachments(r.Attachments)
	if err != nil {
		return services.CreateTaskInput{}, err
	}
	checklist, err := ValidateChecklist(r.TodoChecklist)
	if err != nil {
		return services.CreateTaskInput{}, err
	}

	return services.CreateTaskInput{
		Title:         r.Title,
		Description:   r.Description,
		DueDate:       due,
		Priority:      priority,
		AssignedTo:    strings.TrimSpace(r.AssignedTo),
		Attachments:   attachments,
		TodoChecklist: checklist,
	}, nil
}

// ParsePriority maps an empty value to the default priority.
func ParsePriority(raw string) (constants.TaskPriority, error) {
	if raw == "" {
		return constants.PriorityMedium, nil
	}
	p := constants.TaskPriority(raw)
	if !p.Valid() {
		return "", exceptions.ErrInvalidPriority
	}
	return p, nil
}

func ParseStatus(raw string) (constants.TaskStatus, error) {
	s := constants.TaskStatus(raw)
	if !s.Valid() {
		return "", exceptions.ErrInvalidStatus
	}
	return s, nil
}

func ValidateAttachments(in []dto.AttachmentRequest) ([]model.Attachment, error) {
	out := make([]model.Attachment, 0, len(in))
	for i, a := range in {
		if strings.TrimSpace(a.URL) == "" {
			return nil, exceptions.Validation("attachment url is required",
				map[string]string{indexed("attachments", i, "url"): "required"})
		}
		att := model.Attachment{Filename: strings.TrimSpace(a.Filename), URL: strings.TrimSpace(a.URL)}
		if a.UploadedAt != "" {
			at, err := ParseDate(indexed("attachments", i, "uploadedAt"), a.UploadedAt)
			if err != nil {
				return nil, err
			}
			att.UploadedAt = at
		}
		out = append(out, att)
	}
	return out, nil
}

func ValidateChecklist(in []dto.ChecklistItemRequest) ([]model.ChecklistItem, error) {
	out := make([]model.ChecklistItem, 0, len(in))
	for i, item := range in {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			return nil, exceptions.Validation("checklist item text is required",
				map[string]string{indexed("todochecklists", i, "text"): "required"})
		}
		completed := false
		if item.Completed != nil {
			completed = *item.Completed
		}
		out = append(out, model.ChecklistItem{Text: text, Completed: completed})
	}
	return out, nil
}

func ValidateUpdateStatusRequest(r *dto.UpdateStatusRequest) (constants.TaskStatus, error) {
	return ParseStatus(r.Status)
}

func ValidateUpdateChecklistRequest(r *dto.UpdateChecklistRequest) ([]model.ChecklistItem, error) {
	if r.TodoChecklist == nil {
		return nil, exceptions.Validation("todochecklists is required",
			map[string]string{"todochecklists": "required"})
	}
	return ValidateChecklist(*r.TodoChecklist)
}
