package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	dto "taskmind.com/taskmind/internal/data_models"
	"taskmind.com/taskmind/internal/policy"
	repository "taskmind.com/taskmind/internal/repositories"
	"taskmind.com/taskmind/pkg/constants"
	"taskmind.com/taskmind/pkg/exceptions"
	model "taskmind.com/taskmind/pkg/models"
)

type CreateTaskInput struct {
	Title         string
	Description   string
	DueDate       time.Time
	Priority      constants.TaskPriority
	AssignedTo    string
	Attachments   []model.Attachment
	TodoChecklist []model.ChecklistItem
}

// TaskPatch carries the fields of a partial update. A nil field is left
// unchanged; an AssignedTo pointing at "" unassigns the task.
type TaskPatch struct {
	Title         *string
	Description   *string
	DueDate       *time.Time
	Priority      *constants.TaskPriority
	Status        *constants.TaskStatus
	AssignedTo    *string
	Attachments   *[]model.Attachment
	TodoChecklist *[]model.ChecklistItem
	Progress      *int
}

func (p TaskPatch) fields() policy.TaskPatchFields {
	return policy.TaskPatchFields{
		Title:         p.Title != nil,
		Description:   p.Description != nil,
		DueDate:       p.DueDate != nil,
		Priority:      p.Priority != nil,
		Status:        p.Status != nil,
		AssignedTo:    p.AssignedTo != nil,
		Attachments:   p.Attachments != nil,
		TodoChecklist: p.TodoChecklist != nil,
		Progress:      p.Progress != nil,
	}
}

type TaskService struct {
	tasks  TaskStore
	users  UserStore
	logger *slog.Logger
	now    func() time.Time
}

func NewTaskService(tasks TaskStore, users UserStore, logger *slog.Logger) *TaskService {
	return &TaskService{
		tasks:  tasks,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, caller *policy.Caller, in CreateTaskInput) (*model.Task, error) {
	if err := policy.Authorize(caller, policy.CreateTask, nil); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, exceptions.Validation("title is required", map[string]string{"title": "required"})
	}
	if in.DueDate.IsZero() {
		return nil, exceptions.Validation("due date is required", map[string]string{"dueDate": "required"})
	}

	priority := in.Priority
	if priority == "" {
		priority = constants.PriorityMedium
	}
	if !priority.Valid() {
		return nil, exceptions.ErrInvalidPriority
	}

	if err := validateChecklist(in.TodoChecklist); err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:       title,
		Description: in.Description,
		DueDate:     in.DueDate.UTC(),
		Priority:    priority,
		Status:      constants.StatusPending,
		CreatedBy:   caller.ID,
		Attachments: s.stampAttachments(in.Attachments),
	}
	if in.AssignedTo != "" {
		if err := s.ensureAssignee(ctx, in.AssignedTo); err != nil {
			return nil, err
		}
		assignee := in.AssignedTo
		task.AssignedTo = &assignee
	}
	task.SetChecklist(nonNilChecklist(in.TodoChecklist))

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info("task created", "task_id", task.ID, "created_by", caller.ID)
	return task, nil
}

// GetTask looks the task up before checking access, so a missing id is
// reported as not found to every caller.
func (s *TaskService) GetTask(ctx context.Context, caller *policy.Caller, id string) (*dto.TaskView, error) {
	if err := policy.RequireCaller(caller); err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(caller, policy.GetTask, policy.TaskResource{Task: task}); err != nil {
		return nil, err
	}
	return s.view(ctx, task)
}

// ListTasks returns every task for an admin and only the caller's tasks
// otherwise, newest first.
func (s *TaskService) ListTasks(ctx context.Context, caller *policy.Caller, status constants.TaskStatus) ([]dto.TaskView, error) {
	if err := policy.Authorize(caller, policy.ListTasks, nil); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, exceptions.ErrInvalidStatus
	}

	tasks, err := s.tasks.List(ctx, repository.TaskFilter{
		AssignedTo: policy.TaskScope(caller),
		Status:     status,
		Order:      repository.NewestFirst,
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return populateTasks(ctx, s.users, tasks)
}

func (s *TaskService) UpdateTask(ctx context.Context, caller *policy.Caller, id string, patch TaskPatch) (*dto.TaskView, error) {
	if err := policy.RequireCaller(caller); err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeTaskPatch(caller, task, patch.fields()); err != nil {
		return nil, err
	}

	if err := s.applyPatch(ctx, task, patch); err != nil {
		return nil, err
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, passThrough("update task", err)
	}

	s.logger.Info("task updated", "task_id", task.ID, "updated_by", caller.ID, "version", task.Version)
	return s.view(ctx, task)
}

func (s *TaskService) applyPatch(ctx context.Context, task *model.Task, patch TaskPatch) error {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return exceptions.Validation("title is required", map[string]string{"title": "required"})
		}
		task.Title = title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.DueDate != nil {
		if patch.DueDate.IsZero() {
			return exceptions.Validation("due date is required", map[string]string{"dueDate": "required"})
		}
		task.DueDate = patch.DueDate.UTC()
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return exceptions.ErrInvalidPriority
		}
		task.Priority = *patch.Priority
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return exceptions.ErrInvalidStatus
		}
		task.Status = *patch.Status
	}
	if patch.AssignedTo != nil {
		if *patch.AssignedTo == "" {
			task.AssignedTo = nil
		} else {
			if err := s.ensureAssignee(ctx, *patch.AssignedTo); err != nil {
				return err
			}
			assignee := *patch.AssignedTo
			task.AssignedTo = &assignee
		}
	}
	if patch.Attachments != nil {
		task.Attachments = s.stampAttachments(*patch.Attachments)
	}
	if patch.TodoChecklist != nil {
		if err := validateChecklist(*patch.TodoChecklist); err != nil {
			return err
		}
		task.SetChecklist(nonNilChecklist(*patch.TodoChecklist))
	}
	if patch.Progress != nil {
		task.SetProgress(*patch.Progress)
	} else if patch.TodoChecklist != nil && len(task.TodoChecklist) == 0 {
		task.Progress = 0
	}
	return nil
}

func (s *TaskService) UpdateTaskStatus(ctx context.Context, caller *policy.Caller, id string, status constants.TaskStatus) (*dto.TaskView, error) {
	if err := policy.RequireCaller(caller); err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(caller, policy.UpdateTaskStatus, policy.TaskResource{Task: task}); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, exceptions.ErrInvalidStatus
	}

	task.Status = status
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, passThrough("update task status", err)
	}

	s.logger.Info("task status changed", "task_id", task.ID, "status", status, "updated_by", caller.ID)
	return s.view(ctx, task)
}

// UpdateTaskChecklist replaces the checklist wholesale and recomputes progress.
func (s *TaskService) UpdateTaskChecklist(ctx context.Context, caller *policy.Caller, id string, items []model.ChecklistItem) (*dto.TaskView, error) {
	if err := policy.RequireCaller(caller); err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(caller, policy.UpdateTaskChecklist, policy.TaskResource{Task: task}); err != nil {
		return nil, err
	}
	if err := validateChecklist(items); err != nil {
		return nil, err
	}

	task.SetChecklist(nonNilChecklist(items))
	if len(items) == 0 {
		task.Progress = 0
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, passThrough("update task checklist", err)
	}

	s.logger.Info("task checklist replaced", "task_id", task.ID, "items", len(items), "progress", task.Progress)
	return s.view(ctx, task)
}

// DeleteTask checks access before touching the store.
func (s *TaskService) DeleteTask(ctx context.Context, caller *policy.Caller, id string) error {
	if err := policy.Authorize(caller, policy.DeleteTask, nil); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return passThrough("delete task", err)
	}

	s.logger.Info("task deleted", "task_id", id, "deleted_by", caller.ID)
	return nil
}

func (s *TaskService) ensureAssignee(ctx context.Context, userID string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, exceptions.ErrUserNotFound) {
			return exceptions.Validation("assigned user does not exist", map[string]string{"assignedTo": "unknown user"})
		}
		return fmt.Errorf("resolve assignee: %w", err)
	}
	return nil
}

func (s *TaskService) stampAttachments(in []model.Attachment) []model.Attachment {
	out := make([]model.Attachment, 0, len(in))
	now := s.now().UTC()
	for _, a := range in {
		if a.UploadedAt.IsZero() {
			a.UploadedAt = now
		}
		out = append(out, a)
	}
	return out
}

func (s *TaskService) view(ctx context.Context, task *model.Task) (*dto.TaskView, error) {
	views, err := populateTasks(ctx, s.users, []model.Task{*task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// passThrough keeps domain exceptions intact and wraps everything else.
func passThrough(op string, err error) error {
	var appErr *exceptions.Exception
	if errors.As(err, &appErr) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func validateChecklist(items []model.ChecklistItem) error {
	for i, item := range items {
		if strings.TrimSpace(item.Text) == "" {
			return exceptions.Validation("checklist item text is required",
				map[string]string{fmt.Sprintf("todochecklists[%d].text", i): "required"})
		}
	}
	return nil
}

func nonNilChecklist(items []model.ChecklistItem) []model.ChecklistItem {
	if items == nil {
		return []model.ChecklistItem{}
	}
	return items
}

// populateTasks resolves assignee and creator summaries with one user lookup.
func populateTasks(ctx context.Context, users UserStore, tasks []model.Task) ([]dto.TaskView, error) {
	byID, err := resolveUsers(ctx, users, tasks)
	if err != nil {
		return nil, err
	}

	views := make([]dto.TaskView, 0, len(tasks))
	for _, task := range tasks {
		view := dto.TaskView{Task: task}
		if task.AssignedTo != nil {
			view.AssignedUser = summary(byID, *task.AssignedTo)
		}
		view.Creator = summary(byID, task.CreatedBy)
		views = append(views, view)
	}
	return views, nil
}

func resolveUsers(ctx context.Context, users UserStore, tasks []model.Task) (map[string]model.User, error) {
	seen := map[string]struct{}{}
	var ids []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, task := range tasks {
		if task.AssignedTo != nil {
			add(*task.AssignedTo)
		}
		add(task.CreatedBy)
	}

	found, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve task users: %w", err)
	}
	byID := make(map[string]model.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	return byID, nil
}

func summary(byID map[string]model.User, id string) *dto.UserSummary {
	u, ok := byID[id]
	if !ok {
		return nil
	}
	return &dto.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
