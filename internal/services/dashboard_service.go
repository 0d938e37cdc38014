package services

import (
	"context"
	"fmt"
	"time"

	"taskmind.com/taskmind/internal/dashboard"
	"taskmind.com/taskmind/internal/policy"
	repository "taskmind.com/taskmind/internal/repositories"
)

type DashboardService struct {
	tasks TaskStore
	now   func() time.Time
}

func NewDashboardService(tasks TaskStore) *DashboardService {
	return &DashboardService{tasks: tasks, now: time.Now}
}

func (s *DashboardService) GlobalDashboard(ctx context.Context, caller *policy.Caller) (*dashboard.Dashboard, error) {
	if err := policy.Authorize(caller, policy.GlobalDashboard, nil); err != nil {
		return nil, err
	}
	return s.compute(ctx, "")
}

// UserDashboard is always scoped to the caller, admins included.
func (s *DashboardService) UserDashboard(ctx context.Context, caller *policy.Caller) (*dashboard.Dashboard, error) {
	if err := policy.Authorize(caller, policy.UserDashboard, nil); err != nil {
		return nil, err
	}
	return s.compute(ctx, caller.ID)
}

func (s *DashboardService) compute(ctx context.Context, assignee string) (*dashboard.Dashboard, error) {
	tasks, err := s.tasks.List(ctx, repository.TaskFilter{
		AssignedTo: assignee,
		Order:      repository.OldestFirst,
	})
	if err != nil {
		return nil, fmt.Errorf("load dashboard tasks: %w", err)
	}

	d := dashboard.Compute(tasks, s.now())
	return &d, nil
}
