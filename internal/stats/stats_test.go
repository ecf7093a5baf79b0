package stats

import (
	"testing"
	"time"

	"github.com/flowboard/backend/internal/models"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func task(id, projectID uint, status string, due *time.Time) models.Task {
	return models.Task{ID: id, ProjectID: projectID, Status: status, DueDate: due}
}

// Three tasks: one done, one open, one past due. The canonical mixed board.
func mixedSnapshot() Snapshot {
	past := now.Add(-24 * time.Hour)
	return Snapshot{
		Projects: []models.Project{{ID: 1, Name: "Alpha", Status: models.ProjectStatusActive}},
		Tasks: []models.Task{
			task(1, 1, models.ColumnKeyDone, nil),
			task(2, 1, models.ColumnKeyInProgress, nil),
			task(3, 1, models.ColumnKeyTodo, &past),
		},
		Now: now,
	}
}

func TestProjectAggregates_MixedBoard(t *testing.T) {
	aggs := ProjectAggregates(mixedSnapshot())
	if len(aggs) != 1 {
		t.Fatalf("expected 1 aggregate, got %d", len(aggs))
	}
	a := aggs[0]
	if a.Total != 3 {
		t.Errorf("Total = %d, expected 3", a.Total)
	}
	if a.Completed != 1 {
		t.Errorf("Completed = %d, expected 1", a.Completed)
	}
	if a.Overdue != 1 {
		t.Errorf("Overdue = %d, expected 1", a.Overdue)
	}
	if a.Progress != 33 {
		t.Errorf("Progress = %d, expected 33", a.Progress)
	}
}

func TestTaskDistribution_MixedBoard(t *testing.T) {
	s := mixedSnapshot()
	total, completed, overdue := tally(s.Tasks, s.Now)
	d := TaskDistribution(total, completed, overdue)
	if d != (Distribution{1, 1, 1}) {
		t.Errorf("Distribution = %v, expected [1 1 1]", d)
	}
}

func TestTaskDistribution_SumsToTotal(t *testing.T) {
	cases := []struct {
		name                      string
		total, completed, overdue int
	}{
		{"empty", 0, 0, 0},
		{"all done", 5, 5, 0},
		{"all overdue", 4, 0, 4},
		{"mixed", 10, 3, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := TaskDistribution(tc.total, tc.completed, tc.overdue)
			if d[0]+d[1]+d[2] != tc.total {
				t.Errorf("buckets %v do not sum to total %d", d, tc.total)
			}
		})
	}
}

func TestProgress_Rounding(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{0, 10, 0},
		{10, 10, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13}, // 12.5 rounds up
	}
	for _, tc := range cases {
		if got := progress(tc.completed, tc.total); got != tc.want {
			t.Errorf("progress(%d, %d) = %d, expected %d", tc.completed, tc.total, got, tc.want)
		}
	}
}

func TestProgress_BoundsAndMonotonicity(t *testing.T) {
	const total = 17
	prev := -1
	for completed := 0; completed <= total; completed++ {
		p := progress(completed, total)
		if p < 0 || p > 100 {
			t.Fatalf("progress(%d, %d) = %d, out of [0, 100]", completed, total, p)
		}
		if p < prev {
			t.Fatalf("progress decreased from %d to %d at completed=%d", prev, p, completed)
		}
		prev = p
	}
	if progress(total, total) != 100 {
		t.Errorf("full completion should be 100")
	}
}

func TestIsOverdue_CompletedNeverOverdue(t *testing.T) {
	past := now.Add(-48 * time.Hour)
	done := task(1, 1, models.ColumnKeyDone, &past)
	if isOverdue(&done, now) {
		t.Error("a completed task must not count as overdue")
	}
	open := task(2, 1, models.ColumnKeyTodo, &past)
	if !isOverdue(&open, now) {
		t.Error("an open past-due task must count as overdue")
	}
}

func TestIsOverdue_NoDueDate(t *testing.T) {
	open := task(1, 1, models.ColumnKeyTodo, nil)
	if isOverdue(&open, now) {
		t.Error("a task without a due date is never overdue")
	}
}

func TestIsOverdue_FutureDueDate(t *testing.T) {
	future := now.Add(24 * time.Hour)
	open := task(1, 1, models.ColumnKeyTodo, &future)
	if isOverdue(&open, now) {
		t.Error("a task due in the future is not overdue")
	}
}

func TestRankByProgress_StableForTies(t *testing.T) {
	aggs := []ProjectAggregate{
		{ProjectID: 1, ProjectName: "A", Progress: 50},
		{ProjectID: 2, ProjectName: "B", Progress: 80},
		{ProjectID: 3, ProjectName: "C", Progress: 50},
		{ProjectID: 4, ProjectName: "D", Progress: 80},
	}
	ranked := RankByProgress(aggs)

	wantOrder := []uint{2, 4, 1, 3}
	for i, want := range wantOrder {
		if ranked[i].ProjectID != want {
			t.Errorf("ranked[%d].ProjectID = %d, expected %d", i, ranked[i].ProjectID, want)
		}
	}
	// Input is untouched.
	if aggs[0].ProjectID != 1 {
		t.Error("RankByProgress must not mutate its input")
	}
}

func TestRecentActivity_CapsPerProject(t *testing.T) {
	// Project 1 has five tasks newer than everything in project 2, but only
	// its three newest may enter the feed.
	var tasks []models.Task
	for i := 0; i < 5; i++ {
		tasks = append(tasks, models.Task{
			ID:        uint(i + 1),
			ProjectID: 1,
			Status:    models.ColumnKeyTodo,
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}
	for i := 0; i < 3; i++ {
		tasks = append(tasks, models.Task{
			ID:        uint(i + 10),
			ProjectID: 2,
			Status:    models.ColumnKeyTodo,
			CreatedAt: now.Add(-time.Duration(i+60) * time.Minute),
		})
	}
	s := Snapshot{
		Projects: []models.Project{{ID: 1, Name: "Busy"}, {ID: 2, Name: "Quiet"}},
		Tasks:    tasks,
		Now:      now,
	}

	feed := RecentActivity(s)
	fromBusy := 0
	for _, item := range feed {
		if item.Task.ProjectID == 1 {
			fromBusy++
		}
	}
	if fromBusy != 3 {
		t.Errorf("project 1 contributed %d items, expected cap of 3", fromBusy)
	}
	if len(feed) != 6 {
		t.Errorf("feed length = %d, expected 6", len(feed))
	}
}

func TestRecentActivity_GlobalLimitAndOrder(t *testing.T) {
	var tasks []models.Task
	var projects []models.Project
	for p := uint(1); p <= 4; p++ {
		projects = append(projects, models.Project{ID: p, Name: "P"})
		for i := 0; i < 3; i++ {
			tasks = append(tasks, models.Task{
				ID:        p*100 + uint(i),
				ProjectID: p,
				CreatedAt: now.Add(-time.Duration(int(p)*10+i) * time.Minute),
			})
		}
	}
	feed := RecentActivity(Snapshot{Projects: projects, Tasks: tasks, Now: now})

	if len(feed) != 8 {
		t.Fatalf("feed length = %d, expected 8", len(feed))
	}
	for i := 1; i < len(feed); i++ {
		if feed[i].Task.CreatedAt.After(feed[i-1].Task.CreatedAt) {
			t.Errorf("feed not in descending creation order at index %d", i)
		}
	}
}

func TestRecentActivity_ResolvesAssignees(t *testing.T) {
	s := Snapshot{
		Projects: []models.Project{{ID: 1, Name: "Alpha"}},
		Tasks: []models.Task{
			{ID: 1, ProjectID: 1, AssigneeID: ptr(uint(7)), CreatedAt: now},
			{ID: 2, ProjectID: 1, CreatedAt: now.Add(-time.Minute)},
		},
		Users: []models.User{{ID: 7, Name: "Dana"}},
		Now:   now,
	}
	feed := RecentActivity(s)
	if len(feed) != 2 {
		t.Fatalf("feed length = %d, expected 2", len(feed))
	}
	if feed[0].Assignee == nil || feed[0].Assignee.Name != "Dana" {
		t.Errorf("assignee not resolved: %+v", feed[0].Assignee)
	}
	if feed[1].Assignee != nil {
		t.Error("unassigned task should have nil assignee")
	}
	if feed[0].ProjectName != "Alpha" {
		t.Errorf("ProjectName = %q, expected Alpha", feed[0].ProjectName)
	}
}

func TestUserAggregates(t *testing.T) {
	past := now.Add(-time.Hour)
	s := Snapshot{
		Users: []models.User{{ID: 1, Name: "Dana"}, {ID: 2, Name: "Lee"}},
		Tasks: []models.Task{
			{ID: 1, AssigneeID: ptr(uint(1)), Status: models.ColumnKeyDone},
			{ID: 2, AssigneeID: ptr(uint(1)), Status: models.ColumnKeyTodo, DueDate: &past},
			{ID: 3, Status: models.ColumnKeyTodo}, // unassigned
		},
		Now: now,
	}
	aggs := UserAggregates(s)
	if len(aggs) != 2 {
		t.Fatalf("expected 2 aggregates, got %d", len(aggs))
	}
	if aggs[0].Total != 2 || aggs[0].Completed != 1 || aggs[0].Overdue != 1 || aggs[0].Progress != 50 {
		t.Errorf("Dana aggregate = %+v", aggs[0])
	}
	if aggs[1].Total != 0 || aggs[1].Progress != 0 {
		t.Errorf("Lee should have an empty aggregate, got %+v", aggs[1])
	}
}

func TestBarSeries_AlignedWithRanking(t *testing.T) {
	ranked := []ProjectAggregate{
		{ProjectName: "B", Progress: 80},
		{ProjectName: "A", Progress: 50},
	}
	labels, values := BarSeries(ranked)
	if len(labels) != 2 || len(values) != 2 {
		t.Fatalf("series lengths = %d, %d", len(labels), len(values))
	}
	if labels[0] != "B" || values[0] != 80 || labels[1] != "A" || values[1] != 50 {
		t.Errorf("series misaligned: %v %v", labels, values)
	}
}

func TestComputeOverview(t *testing.T) {
	past := now.Add(-time.Hour)
	s := Snapshot{
		Projects: []models.Project{
			{ID: 1, Status: models.ProjectStatusActive},
			{ID: 2, Status: models.ProjectStatusArchived},
		},
		Tasks: []models.Task{
			{ID: 1, Status: models.ColumnKeyDone},
			{ID: 2, Status: models.ColumnKeyTodo, DueDate: &past},
			{ID: 3, Status: models.ColumnKeyInProgress},
			{ID: 4, Status: models.ColumnKeyDone},
		},
		Users: []models.User{{ID: 1}, {ID: 2}, {ID: 3}},
		Now:   now,
	}
	o := ComputeOverview(s)
	if o.TotalProjects != 2 || o.ActiveProjects != 1 {
		t.Errorf("project counts = %d/%d", o.TotalProjects, o.ActiveProjects)
	}
	if o.TotalTasks != 4 || o.CompletedTasks != 2 || o.OverdueTasks != 1 {
		t.Errorf("task counts = %d/%d/%d", o.TotalTasks, o.CompletedTasks, o.OverdueTasks)
	}
	if o.TeamMembers != 3 {
		t.Errorf("TeamMembers = %d, expected 3", o.TeamMembers)
	}
	if o.CompletionRate != 50 {
		t.Errorf("CompletionRate = %d, expected 50", o.CompletionRate)
	}
}

func TestProjectAggregates_SnapshotOrderPreserved(t *testing.T) {
	s := Snapshot{
		Projects: []models.Project{{ID: 3, Name: "C"}, {ID: 1, Name: "A"}, {ID: 2, Name: "B"}},
		Now:      now,
	}
	aggs := ProjectAggregates(s)
	if aggs[0].ProjectID != 3 || aggs[1].ProjectID != 1 || aggs[2].ProjectID != 2 {
		t.Errorf("aggregates not in snapshot order: %+v", aggs)
	}
}
