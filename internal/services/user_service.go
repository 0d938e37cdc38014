package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	dto "taskmind.com/taskmind/internal/data_models"
	"taskmind.com/taskmind/internal/policy"
	"taskmind.com/taskmind/pkg/constants"
	"taskmind.com/taskmind/pkg/exceptions"
)

// UserPatch updates profile fields. Role is never part of it.
type UserPatch struct {
	Name            *string
	Email           *string
	ProfileImageURL *string
}

type UserService struct {
	users  UserStore
	tasks  TaskStore
	logger *slog.Logger
}

func NewUserService(users UserStore, tasks TaskStore, logger *slog.Logger) *UserService {
	return &UserService{users: users, tasks: tasks, logger: logger}
}

// ListUsersWithTaskCounts joins every user with per-status counts of the
// tasks assigned to them from a single grouped query.
func (s *UserService) ListUsersWithTaskCounts(ctx context.Context, caller *policy.Caller) ([]dto.UserWithTaskCounts, error) {
	if err := policy.Authorize(caller, policy.ListUsers, nil); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	counts, err := s.tasks.StatusCountsByAssignee(ctx)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	type tally struct{ pending, inProgress, completed int64 }
	byUser := map[string]*tally{}
	for _, c := range counts {
		t, ok := byUser[c.AssignedTo]
		if !ok {
			t = &tally{}
			byUser[c.AssignedTo] = t
		}
		switch c.Status {
		case constants.StatusPending:
			t.pending += c.Count
		case constants.StatusInProgress:
			t.inProgress += c.Count
		case constants.StatusCompleted:
			t.completed += c.Count
		}
	}

	out := make([]dto.UserWithTaskCounts, 0, len(users))
	for i := range users {
		row := dto.UserWithTaskCounts{UserProfile: dto.NewUserProfile(&users[i])}
		if t, ok := byUser[users[i].ID]; ok {
			row.PendingTasks = t.pending
			row.InProgressTasks = t.inProgress
			row.CompletedTasks = t.completed
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *UserService) GetUser(ctx context.Context, caller *policy.Caller, id string) (*dto.UserProfile, error) {
	if err := policy.RequireCaller(caller); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(caller, policy.GetUser, policy.UserResource{UserID: user.ID}); err != nil {
		return nil, err
	}

	profile := dto.NewUserProfile(user)
	return &profile, nil
}

func (s *UserService) UpdateUser(ctx context.Context, caller *policy.Caller, id string, patch UserPatch) (*dto.UserProfile, error) {
	if err := policy.RequireCaller(caller); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(caller, policy.UpdateUser, policy.UserResource{UserID: user.ID}); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, exceptions.Validation("name is required", map[string]string{"name": "required"})
		}
		user.Name = name
	}
	if patch.Email != nil {
		email, err := NormalizeEmail(*patch.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if patch.ProfileImageURL != nil {
		user.ProfileImageURL = strings.TrimSpace(*patch.ProfileImageURL)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, passThrough("update user", err)
	}

	s.logger.Info("user updated", "user_id", user.ID, "updated_by", caller.ID)
	profile := dto.NewUserProfile(user)
	return &profile, nil
}

// DeleteUser unassigns the user's tasks and then removes the user. The two
// writes are not atomic; repeating the call after a partial failure is safe.
func (s *UserService) DeleteUser(ctx context.Context, caller *policy.Caller, id string) error {
	if err := policy.Authorize(caller, policy.DeleteUser, nil); err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}

	unassigned, err := s.tasks.UnassignAll(ctx, id)
	if err != nil {
		return fmt.Errorf("unassign tasks: %w", err)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return passThrough("delete user", err)
	}

	s.logger.Info("user deleted", "user_id", id, "deleted_by", caller.ID, "unassigned_tasks", unassigned)
	return nil
}
