package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/flowboard/backend/internal/config"
	"github.com/flowboard/backend/pkg/logger"
	"github.com/hibiken/asynq"
)

const (
	TaskTypeNotify = "notification:derive"
)

// Event kinds that feed notification derivation
const (
	EventTaskAssigned  = "task_assigned"
	EventTaskMoved     = "task_moved"
	EventTaskCompleted = "task_completed"
	EventTaskOverdue   = "task_overdue"
)

// TaskEvent describes a board mutation from which notifications are derived.
type TaskEvent struct {
	Kind         string     `json:"kind"`
	TaskID       uint       `json:"task_id"`
	ProjectID    uint       `json:"project_id"`
	ProjectName  string     `json:"project_name"`
	TaskTitle    string     `json:"task_title"`
	Priority     string     `json:"priority"`
	AssigneeID   *uint      `json:"assignee_id,omitempty"`
	AssigneeName string     `json:"assignee_name,omitempty"`
	FromColumn   string     `json:"from_column,omitempty"`
	ToColumn     string     `json:"to_column,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
}

// EventQueue defines the interface for notification event processing
type EventQueue interface {
	// Enqueue adds an event to the queue
	Enqueue(event *TaskEvent) error
	// IsAsync returns true if the queue processes events asynchronously
	IsAsync() bool
	// Close gracefully shuts down the queue
	Close() error
}

var (
	globalEventQueue EventQueue
	eventQueueOnce   sync.Once
)

// InitEventQueue initializes the global event queue based on config
func InitEventQueue(cfg *config.Config) EventQueue {
	eventQueueOnce.Do(func() {
		if cfg.Redis.Enabled {
			queue, err := NewAsyncQueue(&cfg.Redis)
			if err != nil {
				logger.Infof("[EventQueue] Redis unavailable, falling back to sync mode: %v", err)
				globalEventQueue = NewSyncQueue()
			} else {
				logger.Infof("[EventQueue] Async queue initialized with Redis at %s", cfg.Redis.Addr)
				globalEventQueue = queue
			}
		} else {
			logger.Infof("[EventQueue] Sync queue initialized (Redis disabled)")
			globalEventQueue = NewSyncQueue()
		}
	})
	return globalEventQueue
}

// GetEventQueue returns the global event queue instance
func GetEventQueue() EventQueue {
	return globalEventQueue
}

// AsyncQueue implements EventQueue using asynq (Redis-based)
type AsyncQueue struct {
	client *asynq.Client
}

// NewAsyncQueue creates a new Redis-based async queue
func NewAsyncQueue(cfg *config.RedisConfig) (*AsyncQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)

	// Verify the connection before committing to async mode
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()

	_, err := inspector.Queues()
	if err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncQueue{client: client}, nil
}

// Enqueue adds a task event to the async queue
func (q *AsyncQueue) Enqueue(event *TaskEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	t := asynq.NewTask(TaskTypeNotify, payload)
	info, err := q.client.Enqueue(t,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return err
	}

	logger.Infof("[AsyncQueue] Event enqueued: id=%s, queue=%s", info.ID, info.Queue)
	return nil
}

func (q *AsyncQueue) IsAsync() bool {
	return true
}

func (q *AsyncQueue) Close() error {
	return q.client.Close()
}

// SyncQueue implements EventQueue with in-process handling (no Redis)
type SyncQueue struct {
	processor func(context.Context, *TaskEvent) error
}

func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

// SetProcessor sets the function that handles events in sync mode
func (q *SyncQueue) SetProcessor(processor func(context.Context, *TaskEvent) error) {
	q.processor = processor
}

// Enqueue hands the event to the processor in a new goroutine so the
// originating request is not blocked.
func (q *SyncQueue) Enqueue(event *TaskEvent) error {
	if q.processor == nil {
		logger.Infof("[SyncQueue] Warning: no processor set, event will be dropped")
		return nil
	}

	go func() {
		ctx := context.Background()
		if err := q.processor(ctx, event); err != nil {
			logger.Infof("[SyncQueue] Event processing failed: %v", err)
		}
	}()

	return nil
}

func (q *SyncQueue) IsAsync() bool {
	return false
}

func (q *SyncQueue) Close() error {
	return nil
}
