package dto

import model "taskmind.com/taskmind/pkg/models"

type AttachmentRequest struct {
	Filename   string `json:"filename"`
	URL        string `json:"url"`
	UploadedAt string `json:"uploadedAt"`
}

type ChecklistItemRequest struct {
	Text      string `json:"text"`
	Completed *bool  `json:"completed"`
}

type CreateTaskRequest struct {
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	DueDate       string                 `json:"dueDate"`
	Priority      string                 `json:"priority"`
	AssignedTo    string                 `json:"assignedTo"`
	Attachments   []AttachmentRequest    `json:"attachments"`
	TodoChecklist []ChecklistItemRequest `json:"todochecklists"`
}

// UpdateTaskRequest uses pointers so absent fields are left untouched.
type UpdateTaskRequest struct {
	Title         *string                 `json:"title"`
	Description   *string                 `json:"description"`
	DueDate       *string                 `json:"dueDate"`
	Priority      *string                 `json:"priority"`
	Status        *string                 `json:"status"`
	AssignedTo    *string                 `json:"assignedTo"`
	Attachments   *[]AttachmentRequest    `json:"attachments"`
	TodoChecklist *[]ChecklistItemRequest `json:"todochecklists"`
	Progress      *int                    `json:"progress"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateChecklistRequest replaces the whole checklist. A nil TodoChecklist
// means the key was absent; an empty array clears the list.
type UpdateChecklistRequest struct {
	TodoChecklist *[]ChecklistItemRequest `json:"todochecklists"`
}

// TaskView is a task with its assignee and creator resolved. Either summary
// is nil when the reference is empty or no longer resolves.
type TaskView struct {
	model.Task
	AssignedUser *UserSummary `json:"assignedUser"`
	Creator      *UserSummary `json:"creator"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
