package board

import (
	"context"
	"fmt"

	"github.com/flowboard/backend/internal/models"
	"github.com/flowboard/backend/internal/repository"
)

// bucketSnapshot captures copies of the buckets a mutation is about to touch
// so a failed write can be undone exactly. A nil entry records that the
// bucket did not exist before the mutation.
type bucketSnapshot map[string][]models.Task

// snapshotBuckets copies the named buckets. Caller must hold b.mu.
func (b *Board) snapshotBuckets(keys ...string) bucketSnapshot {
	snap := make(bucketSnapshot, len(keys))
	for _, k := range keys {
		if _, ok := snap[k]; ok {
			continue
		}
		snap[k] = append([]models.Task(nil), b.buckets[k]...)
	}
	return snap
}

// restoreBuckets puts the captured buckets back. Caller must hold b.mu.
func (b *Board) restoreBuckets(snap bucketSnapshot) {
	for k, v := range snap {
		if v == nil {
			delete(b.buckets, k)
			continue
		}
		b.buckets[k] = v
	}
}

// reconcile replaces the optimistic copy of a task in the expected bucket
// with the repository's authoritative record. If the repository normalized
// the status to something else, the task is re-bucketed accordingly.
// Caller must hold b.mu.
func (b *Board) reconcile(expectedBucket string, authoritative models.Task) {
	bucket := b.buckets[expectedBucket]
	for i, t := range bucket {
		if t.ID != authoritative.ID {
			continue
		}
		if authoritative.Status == expectedBucket {
			bucket[i] = authoritative
			return
		}
		b.buckets[expectedBucket] = append(append([]models.Task(nil), bucket[:i]...), bucket[i+1:]...)
		b.buckets[authoritative.Status] = append(b.buckets[authoritative.Status], authoritative)
		return
	}
	b.buckets[authoritative.Status] = append(b.buckets[authoritative.Status], authoritative)
}

// MoveTask transitions a task to the target column. The transition graph is
// unrestricted: any column to any other column. Dropping a task on its own
// column is an idempotent no-op that issues no repository write. The move is
// applied to the buckets before the repository confirms it; on failure the
// pre-move placement is restored exactly before the error is returned.
func (b *Board) MoveTask(ctx context.Context, taskID uint, targetColumn string) (*models.Task, error) {
	unlock := b.lockTask(taskID)
	defer unlock()

	b.mu.Lock()
	if !b.loaded {
		b.mu.Unlock()
		return nil, ErrNotLoaded
	}
	from, idx, ok := b.find(taskID)
	if !ok {
		b.mu.Unlock()
		return nil, fmt.Errorf("move task %d: %w", taskID, repository.ErrNotFound)
	}
	task := b.buckets[from][idx]
	if from == targetColumn {
		b.mu.Unlock()
		t := task
		return &t, nil
	}
	if !b.hasColumn(targetColumn) {
		b.mu.Unlock()
		return nil, fmt.Errorf("move task %d: column %q not on board: %w", taskID, targetColumn, ErrValidation)
	}

	snap := b.snapshotBuckets(from, targetColumn)
	old := b.buckets[from]
	b.buckets[from] = append(append([]models.Task(nil), old[:idx]...), old[idx+1:]...)
	moved := task
	moved.Status = targetColumn
	b.buckets[targetColumn] = append(b.buckets[targetColumn], moved)
	b.mu.Unlock()

	status := targetColumn
	updated, err := b.tasks.Update(ctx, taskID, repository.TaskPatch{Status: &status})

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.restoreBuckets(snap)
		return nil, fmt.Errorf("move task %d: %w", taskID, err)
	}
	b.reconcile(targetColumn, *updated)
	t := *updated
	return &t, nil
}

// CreateTask adds a task to the board. Status defaults to the first column
// when unset and must reference a column of this board. The task is visible
// in its bucket before the repository confirms the create; on failure the
// optimistic entry is removed.
func (b *Board) CreateTask(ctx context.Context, t models.Task) (*models.Task, error) {
	b.mu.Lock()
	if !b.loaded {
		b.mu.Unlock()
		return nil, ErrNotLoaded
	}
	if t.ProjectID == 0 {
		t.ProjectID = b.projectID
	}
	if t.ProjectID != b.projectID {
		b.mu.Unlock()
		return nil, fmt.Errorf("create task: project %d does not match board: %w", t.ProjectID, ErrValidation)
	}
	if t.Status == "" {
		if len(b.cols) == 0 {
			b.mu.Unlock()
			return nil, fmt.Errorf("create task: board has no columns: %w", ErrValidation)
		}
		t.Status = b.cols[0].Key
	}
	if !b.hasColumn(t.Status) {
		b.mu.Unlock()
		return nil, fmt.Errorf("create task: column %q not on board: %w", t.Status, ErrValidation)
	}

	key := t.Status
	snap := b.snapshotBuckets(key)
	b.buckets[key] = append(b.buckets[key], t)
	b.mu.Unlock()

	created, err := b.tasks.Create(ctx, &t)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.restoreBuckets(snap)
		return nil, fmt.Errorf("create task: %w", err)
	}
	// The optimistic entry carries no id yet; swap in the repository copy.
	bucket := b.buckets[key]
	for i := len(bucket) - 1; i >= 0; i-- {
		if bucket[i].ID == 0 {
			if created.Status == key {
				bucket[i] = *created
			} else {
				b.buckets[key] = append(append([]models.Task(nil), bucket[:i]...), bucket[i+1:]...)
				b.buckets[created.Status] = append(b.buckets[created.Status], *created)
			}
			c := *created
			return &c, nil
		}
	}
	b.buckets[created.Status] = append(b.buckets[created.Status], *created)
	c := *created
	return &c, nil
}

// UpdateTask edits a task's mutable fields. A status change through this
// path follows the same optimistic re-bucketing and rollback discipline as
// MoveTask.
func (b *Board) UpdateTask(ctx context.Context, taskID uint, patch repository.TaskPatch) (*models.Task, error) {
	unlock := b.lockTask(taskID)
	defer unlock()

	b.mu.Lock()
	if !b.loaded {
		b.mu.Unlock()
		return nil, ErrNotLoaded
	}
	from, idx, ok := b.find(taskID)
	if !ok {
		b.mu.Unlock()
		return nil, fmt.Errorf("update task %d: %w", taskID, repository.ErrNotFound)
	}
	if patch.Status != nil && !b.hasColumn(*patch.Status) {
		b.mu.Unlock()
		return nil, fmt.Errorf("update task %d: column %q not on board: %w", taskID, *patch.Status, ErrValidation)
	}

	optimistic := b.buckets[from][idx]
	patch.Apply(&optimistic)
	to := optimistic.Status

	snap := b.snapshotBuckets(from, to)
	if to == from {
		b.buckets[from][idx] = optimistic
	} else {
		old := b.buckets[from]
		b.buckets[from] = append(append([]models.Task(nil), old[:idx]...), old[idx+1:]...)
		b.buckets[to] = append(b.buckets[to], optimistic)
	}
	b.mu.Unlock()

	updated, err := b.tasks.Update(ctx, taskID, patch)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.restoreBuckets(snap)
		return nil, fmt.Errorf("update task %d: %w", taskID, err)
	}
	b.reconcile(to, *updated)
	t := *updated
	return &t, nil
}

// DeleteTask removes a task from its bucket immediately; if the repository
// rejects the delete, the task is restored at its previous position.
func (b *Board) DeleteTask(ctx context.Context, taskID uint) error {
	unlock := b.lockTask(taskID)
	defer unlock()

	b.mu.Lock()
	if !b.loaded {
		b.mu.Unlock()
		return ErrNotLoaded
	}
	from, idx, ok := b.find(taskID)
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("delete task %d: %w", taskID, repository.ErrNotFound)
	}

	snap := b.snapshotBuckets(from)
	old := b.buckets[from]
	b.buckets[from] = append(append([]models.Task(nil), old[:idx]...), old[idx+1:]...)
	b.mu.Unlock()

	err := b.tasks.Delete(ctx, taskID)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.restoreBuckets(snap)
		return fmt.Errorf("delete task %d: %w", taskID, err)
	}
	b.taskLocks.Delete(taskID)
	return nil
}
