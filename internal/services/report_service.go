package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"taskmind.com/taskmind/internal/policy"
	"taskmind.com/taskmind/internal/reports"
	repository "taskmind.com/taskmind/internal/repositories"
	model "taskmind.com/taskmind/pkg/models"
)

const (
	TasksReportFilename = "tasks_report.xlsx"
	UsersReportFilename = "users_tasks_report.xlsx"

	reportDateLayout = "2006-01-02"
)

var taskReportColumns = []reports.Column{
	{Header: "Title", Key: "title", Width: 30},
	{Header: "Description", Key: "description", Width: 40},
	{Header: "Due Date", Key: "dueDate", Width: 20},
	{Header: "Priority", Key: "priority", Width: 10},
	{Header: "Status", Key: "status", Width: 15},
	{Header: "Assigned To", Key: "assignedTo", Width: 25},
	{Header: "Created By", Key: "createdBy", Width: 25},
}

var userReportColumns = []reports.Column{
	{Header: "User Name", Key: "userName", Width: 25},
	{Header: "User Email", Key: "userEmail", Width: 30},
	{Header: "Role", Key: "role", Width: 10},
	{Header: "Task Title", Key: "taskTitle", Width: 30},
	{Header: "Task Status", Key: "taskStatus", Width: 15},
	{Header: "Task Due Date", Key: "taskDueDate", Width: 20},
}

type ReportService struct {
	tasks    TaskStore
	users    UserStore
	renderer SheetRenderer
	logger   *slog.Logger
}

func NewReportService(tasks TaskStore, users UserStore, renderer SheetRenderer, logger *slog.Logger) *ReportService {
	return &ReportService{tasks: tasks, users: users, renderer: renderer, logger: logger}
}

func (s *ReportService) ExportTasks(ctx context.Context, caller *policy.Caller) ([]byte, error) {
	if err := policy.Authorize(caller, policy.ExportReports, nil); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.List(ctx, repository.TaskFilter{Order: repository.OldestFirst})
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	byID, err := resolveUsers(ctx, s.users, tasks)
	if err != nil {
		return nil, err
	}

	rows := make([]reports.Row, 0, len(tasks))
	for _, task := range tasks {
		assignee := ""
		if task.AssignedTo != nil {
			assignee = userLabel(byID, *task.AssignedTo)
		}
		rows = append(rows, reports.Row{
			"title":       task.Title,
			"description": task.Description,
			"dueDate":     reportDate(task.DueDate),
			"priority":    string(task.Priority),
			"status":      string(task.Status),
			"assignedTo":  assignee,
			"createdBy":   userLabel(byID, task.CreatedBy),
		})
	}

	return s.render("Tasks", taskReportColumns, rows, caller)
}

// ExportUsers writes one row per (user, task) pair. A user without tasks
// still gets a row with the task columns left empty.
func (s *ReportService) ExportUsers(ctx context.Context, caller *policy.Caller) ([]byte, error) {
	if err := policy.Authorize(caller, policy.ExportReports, nil); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	tasks, err := s.tasks.List(ctx, repository.TaskFilter{Order: repository.OldestFirst})
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	byAssignee := map[string][]model.Task{}
	for _, task := range tasks {
		if task.AssignedTo != nil {
			byAssignee[*task.AssignedTo] = append(byAssignee[*task.AssignedTo], task)
		}
	}

	var rows []reports.Row
	for _, u := range users {
		base := reports.Row{
			"userName":  u.Name,
			"userEmail": u.Email,
			"role":      string(u.Role),
		}
		assigned := byAssignee[u.ID]
		if len(assigned) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, task := range assigned {
			row := reports.Row{
				"taskTitle":   task.Title,
				"taskStatus":  string(task.Status),
				"taskDueDate": reportDate(task.DueDate),
			}
			for k, v := range base {
				row[k] = v
			}
			rows = append(rows, row)
		}
	}

	return s.render("User Tasks", userReportColumns, rows, caller)
}

func (s *ReportService) render(name string, columns []reports.Column, rows []reports.Row, caller *policy.Caller) ([]byte, error) {
	data, err := s.renderer.Render(reports.Sheet{Name: name, Columns: columns, Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("render %s report: %w", name, err)
	}
	s.logger.Info("report exported", "sheet", name, "rows", len(rows), "exported_by", caller.ID)
	return data, nil
}

func userLabel(byID map[string]model.User, id string) string {
	u, ok := byID[id]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s (%s)", u.Name, u.Email)
}

func reportDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(reportDateLayout)
}
