// Package stats derives dashboard statistics from an explicit snapshot of
// projects, tasks and users. Every function here is pure: nothing is fetched,
// nothing is cached, nothing is mutated. Callers load a snapshot once and
// recompute after every successful mutation.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/flowboard/backend/internal/models"
)

// Two-stage recent-activity selection: the newest few tasks of each project
// are collected first, then re-ranked globally. A project with many very
// recent tasks is therefore capped at recentPerProject entries even when a
// pure global ranking would include more of them; this balanced sampling is
// deliberate.
const (
	recentPerProject = 3
	recentGlobal     = 8
)

// Snapshot is a point-in-time view of the data the derivations run over.
type Snapshot struct {
	Projects []models.Project
	Tasks    []models.Task
	Users    []models.User
	Now      time.Time
}

// ProjectAggregate holds per-project task totals.
type ProjectAggregate struct {
	ProjectID   uint   `json:"project_id"`
	ProjectName string `json:"project_name"`
	Total       int    `json:"total_tasks"`
	Completed   int    `json:"completed_tasks"`
	Overdue     int    `json:"overdue_tasks"`
	Progress    int    `json:"progress"`
}

// UserAggregate holds the same totals scoped to one assignee.
type UserAggregate struct {
	UserID    uint   `json:"user_id"`
	Name      string `json:"name"`
	Total     int    `json:"total_tasks"`
	Completed int    `json:"completed_tasks"`
	Overdue   int    `json:"overdue_tasks"`
	Progress  int    `json:"progress"`
}

// Overview holds the workspace-wide headline numbers.
type Overview struct {
	TotalProjects  int `json:"total_projects"`
	ActiveProjects int `json:"active_projects"`
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	OverdueTasks   int `json:"overdue_tasks"`
	TeamMembers    int `json:"team_members"`
	CompletionRate int `json:"completion_rate"`
}

// ActivityItem is one entry of the recent-activity feed.
type ActivityItem struct {
	Task        models.Task  `json:"task"`
	ProjectName string       `json:"project_name"`
	Assignee    *models.User `json:"assignee,omitempty"`
}

// Distribution is the three-bucket completion split: done, in-progress,
// overdue.
type Distribution [3]int

func isCompleted(t *models.Task) bool {
	return t.Status == models.ColumnKeyDone
}

// isOverdue reports whether a task is past due and not done. A completed
// task is never overdue, whatever its due date.
func isOverdue(t *models.Task, now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !isCompleted(t)
}

// progress is the rounded completion percentage; 0 for an empty task set.
func progress(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

func tally(tasks []models.Task, now time.Time) (total, completed, overdue int) {
	for i := range tasks {
		total++
		if isCompleted(&tasks[i]) {
			completed++
		}
		if isOverdue(&tasks[i], now) {
			overdue++
		}
	}
	return total, completed, overdue
}

// ProjectAggregates computes one aggregate per project, in snapshot order.
func ProjectAggregates(s Snapshot) []ProjectAggregate {
	byProject := make(map[uint][]models.Task)
	for _, t := range s.Tasks {
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
	}

	aggs := make([]ProjectAggregate, 0, len(s.Projects))
	for _, p := range s.Projects {
		total, completed, overdue := tally(byProject[p.ID], s.Now)
		aggs = append(aggs, ProjectAggregate{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			Total:       total,
			Completed:   completed,
			Overdue:     overdue,
			Progress:    progress(completed, total),
		})
	}
	return aggs
}

// UserAggregates computes one aggregate per user over the tasks assigned to
// them, in snapshot order.
func UserAggregates(s Snapshot) []UserAggregate {
	byAssignee := make(map[uint][]models.Task)
	for _, t := range s.Tasks {
		if t.AssigneeID != nil {
			byAssignee[*t.AssigneeID] = append(byAssignee[*t.AssigneeID], t)
		}
	}

	aggs := make([]UserAggregate, 0, len(s.Users))
	for _, u := range s.Users {
		total, completed, overdue := tally(byAssignee[u.ID], s.Now)
		aggs = append(aggs, UserAggregate{
			UserID:    u.ID,
			Name:      u.Name,
			Total:     total,
			Completed: completed,
			Overdue:   overdue,
			Progress:  progress(completed, total),
		})
	}
	return aggs
}

// RankByProgress returns the aggregates sorted by progress descending. The
// sort is stable: projects with equal progress keep their snapshot order.
func RankByProgress(aggs []ProjectAggregate) []ProjectAggregate {
	ranked := append([]ProjectAggregate(nil), aggs...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Progress > ranked[j].Progress
	})
	return ranked
}

// RecentActivity builds the activity feed: each project contributes its
// recentPerProject newest tasks, then the combined list is re-sorted by
// creation time descending and truncated to recentGlobal entries.
func RecentActivity(s Snapshot) []ActivityItem {
	byProject := make(map[uint][]models.Task)
	for _, t := range s.Tasks {
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
	}
	usersByID := make(map[uint]models.User, len(s.Users))
	for _, u := range s.Users {
		usersByID[u.ID] = u
	}

	var feed []ActivityItem
	for _, p := range s.Projects {
		tasks := append([]models.Task(nil), byProject[p.ID]...)
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
		if len(tasks) > recentPerProject {
			tasks = tasks[:recentPerProject]
		}
		for _, t := range tasks {
			item := ActivityItem{Task: t, ProjectName: p.Name}
			if t.AssigneeID != nil {
				if u, ok := usersByID[*t.AssigneeID]; ok {
					item.Assignee = &u
				}
			}
			feed = append(feed, item)
		}
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Task.CreatedAt.After(feed[j].Task.CreatedAt)
	})
	if len(feed) > recentGlobal {
		feed = feed[:recentGlobal]
	}
	return feed
}

// TaskDistribution splits the totals into the chart's three buckets.
func TaskDistribution(total, completed, overdue int) Distribution {
	return Distribution{completed, total - completed - overdue, overdue}
}

// BarSeries returns the project names and progress values of a ranked list,
// aligned index by index for the progress bar chart.
func BarSeries(ranked []ProjectAggregate) (labels []string, values []int) {
	labels = make([]string, len(ranked))
	values = make([]int, len(ranked))
	for i, agg := range ranked {
		labels[i] = agg.ProjectName
		values[i] = agg.Progress
	}
	return labels, values
}

// ComputeOverview tallies the workspace-wide headline numbers.
func ComputeOverview(s Snapshot) Overview {
	total, completed, overdue := tally(s.Tasks, s.Now)
	active := 0
	for _, p := range s.Projects {
		if p.Status == models.ProjectStatusActive {
			active++
		}
	}
	return Overview{
		TotalProjects:  len(s.Projects),
		ActiveProjects: active,
		TotalTasks:     total,
		CompletedTasks: completed,
		OverdueTasks:   overdue,
		TeamMembers:    len(s.Users),
		CompletionRate: progress(completed, total),
	}
}
