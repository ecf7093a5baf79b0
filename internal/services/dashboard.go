package services

import (
	"context"
	"time"

	"github.com/flowboard/backend/internal/repository"
	"github.com/flowboard/backend/internal/stats"
	"golang.org/x/sync/errgroup"
)

// DashboardService assembles a snapshot from the repositories and hands it
// to the stats derivations. Nothing is cached between calls; every read
// recomputes from live repository state.
type DashboardService struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	users    repository.UserRepository
}

func NewDashboardService(projects repository.ProjectRepository, tasks repository.TaskRepository, users repository.UserRepository) *DashboardService {
	return &DashboardService{projects: projects, tasks: tasks, users: users}
}

// ChartData carries the chart-ready series.
type ChartData struct {
	Distribution stats.Distribution `json:"distribution"` // done, in-progress, overdue
	BarLabels    []string           `json:"bar_labels"`
	BarValues    []int              `json:"bar_values"`
}

type DashboardResponse struct {
	Overview       stats.Overview          `json:"overview"`
	ProjectStats   []stats.ProjectAggregate `json:"project_stats"`
	TeamStats      []stats.UserAggregate    `json:"team_stats"`
	RecentActivity []stats.ActivityItem     `json:"recent_activity"`
	Charts         ChartData                `json:"charts"`
}

// rankedLimit caps the bar chart at the top projects by progress.
const rankedLimit = 5

// Snapshot loads projects, tasks and users concurrently into a stats
// snapshot. Any single failure fails the whole load.
func (s *DashboardService) Snapshot(ctx context.Context) (stats.Snapshot, error) {
	snap := stats.Snapshot{Now: time.Now()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Projects, err = s.projects.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Tasks, err = s.tasks.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Users, err = s.users.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return stats.Snapshot{}, err
	}
	return snap, nil
}

// GetStats computes the full dashboard from a fresh snapshot.
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardResponse, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return BuildDashboard(snap), nil
}

// BuildDashboard derives the dashboard from a snapshot. Pure; split out so
// it can be tested without repositories.
func BuildDashboard(snap stats.Snapshot) *DashboardResponse {
	overview := stats.ComputeOverview(snap)
	aggs := stats.ProjectAggregates(snap)
	ranked := stats.RankByProgress(aggs)
	if len(ranked) > rankedLimit {
		ranked = ranked[:rankedLimit]
	}
	labels, values := stats.BarSeries(ranked)

	return &DashboardResponse{
		Overview:       overview,
		ProjectStats:   ranked,
		TeamStats:      stats.UserAggregates(snap),
		RecentActivity: stats.RecentActivity(snap),
		Charts: ChartData{
			Distribution: stats.TaskDistribution(overview.TotalTasks, overview.CompletedTasks, overview.OverdueTasks),
			BarLabels:    labels,
			BarValues:    values,
		},
	}
}
