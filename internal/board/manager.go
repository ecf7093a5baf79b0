package board

import (
	"context"
	"sync"

	"github.com/flowboard/backend/internal/repository"
)

// Manager hands out one Board instance per project. Boards are not shared
// across projects; each holds its own bucket state.
type Manager struct {
	tasks   repository.TaskRepository
	columns repository.ColumnRepository
	users   repository.UserRepository

	mu     sync.Mutex
	boards map[uint]*Board
}

func NewManager(tasks repository.TaskRepository, columns repository.ColumnRepository, users repository.UserRepository) *Manager {
	return &Manager{
		tasks:   tasks,
		columns: columns,
		users:   users,
		boards:  make(map[uint]*Board),
	}
}

// Board returns the board for a project, loading it on first use.
func (m *Manager) Board(ctx context.Context, projectID uint) (*Board, error) {
	m.mu.Lock()
	b, ok := m.boards[projectID]
	if !ok {
		b = New(projectID, m.tasks, m.columns, m.users)
		m.boards[projectID] = b
	}
	m.mu.Unlock()

	if !ok {
		if err := b.Load(ctx); err != nil {
			m.mu.Lock()
			delete(m.boards, projectID)
			m.mu.Unlock()
			return nil, err
		}
	}
	return b, nil
}

// Refresh reloads a project's board from the repositories.
func (m *Manager) Refresh(ctx context.Context, projectID uint) (*Board, error) {
	b, err := m.Board(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := b.Load(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Invalidate drops a project's cached board, e.g. after the project or its
// columns are deleted.
func (m *Manager) Invalidate(projectID uint) {
	m.mu.Lock()
	delete(m.boards, projectID)
	m.mu.Unlock()
}
