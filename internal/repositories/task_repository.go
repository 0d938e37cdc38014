package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskmind.com/taskmind/pkg/constants"
	"taskmind.com/taskmind/pkg/exceptions"
	model "taskmind.com/taskmind/pkg/models"
)

type TaskOrder int

const (
	NewestFirst TaskOrder = iota
	// OldestFirst is insertion order.
	OldestFirst
)

type TaskFilter struct {
	AssignedTo string
	Status     constants.TaskStatus
	Order      TaskOrder
}

type AssigneeStatusCount struct {
	AssignedTo string
	Status     constants.TaskStatus
	Count      int64
}

// newID returns a UUIDv7, whose string form sorts in creation order.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	now := time.Now().UTC()
	if task.ID == "" {
		task.ID = newID()
	}
	task.Version = 1
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, exceptions.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task %s: %w", id, err)
	}
	return &task, nil
}

func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Model(&model.Task{})
	if filter.AssignedTo != "" {
		query = query.Where("assigned_to = ?", filter.AssignedTo)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.Order == OldestFirst {
		query = query.Order("created_at asc").Order("id asc")
	} else {
		query = query.Order("created_at desc").Order("id desc")
	}

	tasks := []model.Task{}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Update writes every column of task if its version still matches the
// stored one, then bumps the version.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	current := task.Version
	task.Version = current + 1
	task.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).Model(task).
		Where("version = ?", current).
		Select("*").
		Omit("id", "created_at").
		Updates(task)

	if res.Error != nil {
		task.Version = current
		return fmt.Errorf("update task %s: %w", task.ID, res.Error)
	}

	if res.RowsAffected == 0 {
		task.Version = current
		return exceptions.ErrOptimisticLock
	}

	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete task %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return exceptions.ErrTaskNotFound
	}
	return nil
}

// UnassignAll clears assigned_to on every task assigned to userID.
func (r *TaskRepository) UnassignAll(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("assigned_to = ?", userID).
		Updates(map[string]interface{}{
			"assigned_to": nil,
			"updated_at":  time.Now().UTC(),
			"version":     gorm.Expr("version + 1"),
		})

	if res.Error != nil {
		return 0, fmt.Errorf("unassign tasks of %s: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *TaskRepository) StatusCountsByAssignee(ctx context.Context) ([]AssigneeStatusCount, error) {
	var rows []AssigneeStatusCount
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("assigned_to, status, count(*) as count").
		Where("assigned_to IS NOT NULL").
		Group("assigned_to, status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count tasks by assignee: %w", err)
	}
	return rows, nil
}
