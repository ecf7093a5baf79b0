// Package board holds the in-memory state of one project board: its ordered
// columns, the per-column task buckets, and the project's visible users.
// It is the only writer of task state; every mutation is applied
// optimistically against the local buckets, confirmed by the repository, and
// rolled back if the repository rejects it. A Board instance is exclusively
// owned by one project view and must not be shared across projects.
package board

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/flowboard/backend/internal/models"
	"github.com/flowboard/backend/internal/repository"
	"golang.org/x/sync/errgroup"
)

// ErrValidation is returned when a caller-supplied field violates a
// structural invariant, e.g. a status that matches no column of the board.
var ErrValidation = errors.New("validation failed")

// ErrNotLoaded is returned when a mutation is attempted before Load.
var ErrNotLoaded = errors.New("board not loaded")

// Board aggregates one project's columns, tasks and users.
type Board struct {
	projectID uint

	tasks   repository.TaskRepository
	columns repository.ColumnRepository
	users   repository.UserRepository

	mu      sync.Mutex
	cols    []models.Column
	buckets map[string][]models.Task
	members []models.User
	loaded  bool

	taskLocks sync.Map // taskID -> *sync.Mutex, serializes writes per task
}

// View is a display-ready snapshot of the board.
type View struct {
	Columns []models.Column          `json:"columns"`
	Buckets map[string][]models.Task `json:"buckets"`
	Users   []models.User            `json:"users"`
}

func New(projectID uint, tasks repository.TaskRepository, columns repository.ColumnRepository, users repository.UserRepository) *Board {
	return &Board{
		projectID: projectID,
		tasks:     tasks,
		columns:   columns,
		users:     users,
		buckets:   make(map[string][]models.Task),
	}
}

func (b *Board) ProjectID() uint {
	return b.projectID
}

// Load fetches columns, tasks and users concurrently and rebuilds the
// buckets. The three loads have no ordering dependency; if any one fails the
// whole load fails and the previous state is kept. A board with zero columns
// is a valid empty board, not an error.
func (b *Board) Load(ctx context.Context) error {
	var (
		cols    []models.Column
		tasks   []models.Task
		members []models.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cols, err = b.columns.ListByProject(gctx, b.projectID)
		if err != nil {
			return fmt.Errorf("load columns: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tasks, err = b.tasks.ListByProject(gctx, b.projectID)
		if err != nil {
			return fmt.Errorf("load tasks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		members, err = b.users.List(gctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	sort.SliceStable(cols, func(i, j int) bool { return cols[i].Position < cols[j].Position })

	b.mu.Lock()
	defer b.mu.Unlock()
	b.cols = cols
	b.members = members
	b.buckets = partition(tasks)
	b.loaded = true
	return nil
}

// partition groups tasks by status, preserving input order within each
// bucket. Every task lands in exactly one bucket keyed by its status, so the
// union of all buckets is always the full task set.
func partition(tasks []models.Task) map[string][]models.Task {
	buckets := make(map[string][]models.Task)
	for _, t := range tasks {
		buckets[t.Status] = append(buckets[t.Status], t)
	}
	return buckets
}

// View returns a copy of the current board state.
func (b *Board) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	v := View{
		Columns: append([]models.Column(nil), b.cols...),
		Buckets: make(map[string][]models.Task, len(b.buckets)),
		Users:   append([]models.User(nil), b.members...),
	}
	for key, bucket := range b.buckets {
		v.Buckets[key] = append([]models.Task(nil), bucket...)
	}
	return v
}

// Columns returns the board's columns in position order.
func (b *Board) Columns() []models.Column {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Column(nil), b.cols...)
}

// Tasks returns the bucket for the given column key in stable order.
func (b *Board) Tasks(columnKey string) []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Task(nil), b.buckets[columnKey]...)
}

// Users returns the users visible on this board.
func (b *Board) Users() []models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.User(nil), b.members...)
}

// TaskCount returns the total number of tasks across all buckets.
func (b *Board) TaskCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, bucket := range b.buckets {
		n += len(bucket)
	}
	return n
}

// AllTasks returns every task on the board, bucket by bucket in column
// order, with stray buckets (statuses matching no column) appended last.
func (b *Board) AllTasks() []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []models.Task
	seen := make(map[string]bool, len(b.cols))
	for _, col := range b.cols {
		out = append(out, b.buckets[col.Key]...)
		seen[col.Key] = true
	}
	var strays []string
	for key := range b.buckets {
		if !seen[key] {
			strays = append(strays, key)
		}
	}
	sort.Strings(strays)
	for _, key := range strays {
		out = append(out, b.buckets[key]...)
	}
	return out
}

func (b *Board) hasColumn(key string) bool {
	for _, col := range b.cols {
		if col.Key == key {
			return true
		}
	}
	return false
}

// find locates a task in the buckets. Caller must hold b.mu.
func (b *Board) find(taskID uint) (status string, index int, ok bool) {
	for key, bucket := range b.buckets {
		for i, t := range bucket {
			if t.ID == taskID {
				return key, i, true
			}
		}
	}
	return "", 0, false
}

// lockTask serializes writes for one task so an earlier in-flight
// confirmation cannot clobber a later optimistic state.
func (b *Board) lockTask(taskID uint) func() {
	v, _ := b.taskLocks.LoadOrStore(taskID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
