package services

import (
	"context"
	"io"
	"time"

	"taskmind.com/taskmind/internal/reports"
	repository "taskmind.com/taskmind/internal/repositories"
	model "taskmind.com/taskmind/pkg/models"
)

// TaskStore is satisfied by both the gorm and the MongoDB task repositories.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id string) (*model.Task, error)
	List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id string) error
	UnassignAll(ctx context.Context, userID string) (int64, error)
	StatusCountsByAssignee(ctx context.Context) ([]repository.AssigneeStatusCount, error)
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
	Parse(token string) (string, error)
}

type ImageStore interface {
	SaveImage(originalName string, r io.Reader) (string, error)
}

type SheetRenderer interface {
	Render(sheet reports.Sheet) ([]byte, error)
}

var (
	_ TaskStore = (*repository.TaskRepository)(nil)
	_ TaskStore = (*repository.MongoTaskRepository)(nil)
	_ UserStore = (*repository.UserRepository)(nil)
	_ UserStore = (*repository.MongoUserRepository)(nil)
)
