// Package policy decides who may read, write or delete tasks and users.
//
// Decisions are pure: they look only at the caller and the target resource
// and never touch the store.
package policy

import (
	"taskmind.com/taskmind/pkg/constants"
	"taskmind.com/taskmind/pkg/exceptions"
	model "taskmind.com/taskmind/pkg/models"
)

// Caller is the authenticated identity behind a request.
type Caller struct {
	ID   string
	Role constants.Role
}

func (c *Caller) IsAdmin() bool {
	if c == nil {
		return false
	}
	switch c.Role {
	case constants.RoleAdmin:
		return true
	case constants.RoleUser:
		return false
	default:
		return false
	}
}

func (c *Caller) authenticated() bool {
	return c != nil && c.ID != "" && c.Role.Valid()
}

type Action int

const (
	CreateTask Action = iota
	DeleteTask
	ListAllTasks
	ListTasks
	GetTask
	UpdateTask
	UpdateTaskStatus
	UpdateTaskChecklist
	ListUsers
	GetUser
	UpdateUser
	DeleteUser
	ExportReports
	GlobalDashboard
	UserDashboard
)

var actionNames = map[Action]string{
	CreateTask:          "createTask",
	DeleteTask:          "deleteTask",
	ListAllTasks:        "listAllTasks",
	ListTasks:           "listTasks",
	GetTask:             "getTask",
	UpdateTask:          "updateTask",
	UpdateTaskStatus:    "updateTaskStatus",
	UpdateTaskChecklist: "updateTaskChecklist",
	ListUsers:           "listUsers",
	GetUser:             "getUser",
	UpdateUser:          "updateUser",
	DeleteUser:          "deleteUser",
	ExportReports:       "exportReports",
	GlobalDashboard:     "globalDashboard",
	UserDashboard:       "userDashboard",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Resource is the target of an authorization decision. Actions that do not
// act on a single record take a nil Resource.
type Resource interface {
	isResource()
}

type TaskResource struct {
	Task *model.Task
}

type UserResource struct {
	UserID string
}

func (TaskResource) isResource() {}
func (UserResource) isResource() {}

// Authorize returns nil to allow, exceptions.ErrUnauthenticated when the
// caller is missing or invalid, and exceptions.ErrForbidden otherwise.
func Authorize(caller *Caller, action Action, res Resource) error {
	if !caller.authenticated() {
		return exceptions.ErrUnauthenticated
	}

	switch action {
	case CreateTask, DeleteTask, ListAllTasks, ListUsers, DeleteUser, ExportReports, GlobalDashboard:
		return requireAdmin(caller)

	case GetTask, UpdateTask, UpdateTaskStatus, UpdateTaskChecklist:
		if caller.IsAdmin() {
			return nil
		}
		tr, ok := res.(TaskResource)
		if !ok || tr.Task == nil {
			return exceptions.ErrForbidden
		}
		if tr.Task.IsAssignedTo(caller.ID) {
			return nil
		}
		return exceptions.ErrForbidden

	case GetUser, UpdateUser:
		if caller.IsAdmin() {
			return nil
		}
		ur, ok := res.(UserResource)
		if ok && ur.UserID == caller.ID {
			return nil
		}
		return exceptions.ErrForbidden

	case ListTasks, UserDashboard:
		return nil

	default:
		return exceptions.ErrForbidden
	}
}

// RequireCaller rejects a missing or invalid caller without looking at
// any resource.
func RequireCaller(caller *Caller) error {
	if !caller.authenticated() {
		return exceptions.ErrUnauthenticated
	}
	return nil
}

func requireAdmin(caller *Caller) error {
	if caller.IsAdmin() {
		return nil
	}
	return exceptions.ErrForbidden
}

// TaskScope returns the assignee every task query must be filtered by.
// An empty string means no filter (admin).
func TaskScope(caller *Caller) string {
	if caller.IsAdmin() {
		return ""
	}
	return caller.ID
}

// TaskPatchFields names the fields present in an update.
type TaskPatchFields struct {
	Title         bool
	Description   bool
	DueDate       bool
	Priority      bool
	Status        bool
	AssignedTo    bool
	Attachments   bool
	TodoChecklist bool
	Progress      bool
}

func (f TaskPatchFields) onlyAssigneeFields() bool {
	return !f.Title && !f.Description && !f.DueDate && !f.Priority &&
		!f.AssignedTo && !f.Attachments && !f.Progress
}

// AuthorizeTaskPatch applies UpdateTask and then restricts a non-admin
// assignee to status and checklist changes.
func AuthorizeTaskPatch(caller *Caller, task *model.Task, fields TaskPatchFields) error {
	if err := Authorize(caller, UpdateTask, TaskResource{Task: task}); err != nil {
		return err
	}
	if caller.IsAdmin() || fields.onlyAssigneeFields() {
		return nil
	}
	return exceptions.ErrAssigneeFieldForbidden
}
