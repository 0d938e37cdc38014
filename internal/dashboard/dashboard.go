// Package dashboard computes task statistics for the admin and user
// dashboards.
package dashboard

import (
	"sort"
	"time"

	"taskmind.com/taskmind/pkg/constants"
	model "taskmind.com/taskmind/pkg/models"
)

const RecentLimit = 10

type Statistic struct {
	TotalTasks      int `json:"totalTasks"`
	PendingTasks    int `json:"pendingTasks"`
	InProgressTasks int `json:"inProgressTasks"`
	CompletedTasks  int `json:"completedTasks"`
}

// Charts holds the free-form distributions. Unlike Statistic, the maps only
// carry keys that occur in the data.
type Charts struct {
	OverdueTasks       int                            `json:"overdueTasks"`
	TaskDistribution   map[constants.TaskStatus]int   `json:"taskDistribution"`
	TaskPriorityLevels map[constants.TaskPriority]int `json:"taskPriorityLevels"`
}

type Dashboard struct {
	Statistic   Statistic    `json:"statistic"`
	Charts      Charts       `json:"charts"`
	RecentTasks []model.Task `json:"recenttasks"`
}

// Compute derives a dashboard from tasks, which must be in insertion order.
// Tasks created at the same instant keep that order in RecentTasks.
func Compute(tasks []model.Task, now time.Time) Dashboard {
	d := Dashboard{
		Charts: Charts{
			TaskDistribution:   map[constants.TaskStatus]int{},
			TaskPriorityLevels: map[constants.TaskPriority]int{},
		},
	}

	for i := range tasks {
		t := &tasks[i]
		d.Statistic.TotalTasks++

		switch t.Status {
		case constants.StatusPending:
			d.Statistic.PendingTasks++
		case constants.StatusInProgress:
			d.Statistic.InProgressTasks++
		case constants.StatusCompleted:
			d.Statistic.CompletedTasks++
		}

		d.Charts.TaskDistribution[t.Status]++
		d.Charts.TaskPriorityLevels[t.Priority]++

		if t.IsOverdue(now) {
			d.Charts.OverdueTasks++
		}
	}

	d.RecentTasks = recent(tasks, RecentLimit)
	return d
}

func recent(tasks []model.Task, limit int) []model.Task {
	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
