package model

import (
	"math"
	"time"

	"taskmind.com/taskmind/pkg/constants"
)

type ChecklistItem struct {
	Text      string `json:"text" bson:"text"`
	Completed bool   `json:"completed" bson:"completed"`
}

type Attachment struct {
	Filename   string    `json:"filename" bson:"filename"`
	URL        string    `json:"url" bson:"url"`
	UploadedAt time.Time `json:"uploadedAt" bson:"uploaded_at"`
}

type Task struct {
	ID            string                 `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	Title         string                 `gorm:"not null" json:"title" bson:"title"`
	Description   string                 `json:"description" bson:"description"`
	DueDate       time.Time              `gorm:"not null;index" json:"dueDate" bson:"due_date"`
	Priority      constants.TaskPriority `gorm:"type:varchar(10);not null;default:'Medium'" json:"priority" bson:"priority"`
	Status        constants.TaskStatus   `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status" bson:"status"`
	AssignedTo    *string                `gorm:"size:36;index" json:"assignedTo" bson:"assigned_to"`
	CreatedBy     string                 `gorm:"size:36;not null" json:"createdBy" bson:"created_by"`
	Attachments   []Attachment           `gorm:"serializer:json" json:"attachments" bson:"attachments"`
	TodoChecklist []ChecklistItem        `gorm:"serializer:json" json:"todochecklists" bson:"todo_checklist"`
	Progress      int                    `gorm:"not null;default:0" json:"progress" bson:"progress"`
	Version       uint                   `gorm:"not null;default:1" json:"version" bson:"version"`
	CreatedAt     time.Time              `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time              `json:"updatedAt" bson:"updated_at"`
}

// IsAssignedTo reports whether userID is the task's assignee.
func (t *Task) IsAssignedTo(userID string) bool {
	return t.AssignedTo != nil && userID != "" && *t.AssignedTo == userID
}

// IsOverdue is strict: a task due exactly at now is not overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status != constants.StatusCompleted && t.DueDate.Before(now)
}

// SetChecklist replaces the checklist and keeps Progress derived from it.
func (t *Task) SetChecklist(items []ChecklistItem) {
	t.TodoChecklist = items
	if len(items) > 0 {
		t.Progress = ChecklistProgress(items)
	}
}

// SetProgress applies a manual progress value. It is ignored while the
// checklist is non-empty since progress is then derived.
func (t *Task) SetProgress(progress int) {
	if len(t.TodoChecklist) > 0 {
		t.Progress = ChecklistProgress(t.TodoChecklist)
		return
	}
	t.Progress = ClampProgress(progress)
}

func ChecklistProgress(items []ChecklistItem) int {
	if len(items) == 0 {
		return 0
	}
	completed := 0
	for _, item := range items {
		if item.Completed {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(items))))
}

func ClampProgress(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
