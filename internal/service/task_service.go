package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"task-tracker-api/internal/models"
	"task-tracker-api/internal/repository"
)

// TaskStore is the persistence contract the task service depends on.
type TaskStore interface {
	Save(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id uint64) (*models.Task, error)
	FindAll(ctx context.Context) ([]models.Task, error)
	FindByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error)
	FindByPriority(ctx context.Context, priority models.TaskPriority) ([]models.Task, error)
	FindDueBefore(ctx context.Context, day models.Date) ([]models.Task, error)
	SearchByTitle(ctx context.Context, fragment string) ([]models.Task, error)
	DeleteByID(ctx context.Context, id uint64) error
}

// EventPublisher receives task lifecycle events. Delivery is best-effort.
type EventPublisher interface {
	Publish(event models.TaskEvent)
}

// TaskService owns every task state transition. It is the only writer of
// task records. Concurrent updates of one task are last-write-wins.
type TaskService struct {
	store  TaskStore
	events EventPublisher
	now    func() time.Time
}

// NewTaskService creates a TaskService. events may be nil.
func NewTaskService(store TaskStore, events EventPublisher) *TaskService {
	return &TaskService{
		store:  store,
		events: events,
		now:    time.Now,
	}
}

// WithClock replaces the time source, mainly for tests.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// Create stores a new task, defaulting status to TODO and priority to MEDIUM.
// The due date is expected to be validated by the caller.
func (s *TaskService) Create(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	task := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      models.StatusTodo,
		Priority:    models.PriorityMedium,
		DueDate:     in.DueDate,
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}

	if err := s.store.Save(ctx, task); err != nil {
		return nil, err
	}

	s.publish(models.EventTaskCreated, task)
	return task, nil
}

// Get returns the task with the given id.
func (s *TaskService) Get(ctx context.Context, id uint64) (*models.Task, error) {
	task, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err, id)
	}
	return task, nil
}

// List returns every task in store order.
func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	return s.store.FindAll(ctx)
}

// ListByStatus returns the tasks whose status matches token, ignoring case.
func (s *TaskService) ListByStatus(ctx context.Context, token string) ([]models.Task, error) {
	status, err := models.ParseTaskStatus(token)
	if err != nil {
		return nil, err
	}
	return s.store.FindByStatus(ctx, status)
}

// ListByPriority returns the tasks whose priority matches token, ignoring case.
func (s *TaskService) ListByPriority(ctx context.Context, token string) ([]models.Task, error) {
	priority, err := models.ParseTaskPriority(token)
	if err != nil {
		return nil, err
	}
	return s.store.FindByPriority(ctx, priority)
}

// ListOverdue returns unfinished tasks whose due date has passed.
func (s *TaskService) ListOverdue(ctx context.Context) ([]models.Task, error) {
	return s.store.FindDueBefore(ctx, models.NewDate(s.now()))
}

// Search returns tasks whose title contains fragment, ignoring case.
func (s *TaskService) Search(ctx context.Context, fragment string) ([]models.Task, error) {
	if fragment == "" {
		return s.store.FindAll(ctx)
	}
	return s.store.SearchByTitle(ctx, fragment)
}

// Update replaces title, description, status, priority and due date with the
// values in `in`. Omitted description or due date are cleared, not kept.
// CompletedAt is left untouched, even when the new status is COMPLETED.
// An unknown id is reported before incomplete input.
func (s *TaskService) Update(ctx context.Context, id uint64, in models.TaskInput) (*models.Task, error) {
	task, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err, id)
	}

	if in.Status == nil || in.Priority == nil {
		return nil, ErrIncompleteInput
	}

	task.Title = in.Title
	task.Description = in.Description
	task.Status = *in.Status
	task.Priority = *in.Priority
	task.DueDate = in.DueDate

	if err := s.store.Save(ctx, task); err != nil {
		return nil, err
	}

	s.publish(models.EventTaskUpdated, task)
	return task, nil
}

// Complete marks the task COMPLETED and stamps CompletedAt with the current
// time, whatever its previous status.
func (s *TaskService) Complete(ctx context.Context, id uint64) (*models.Task, error) {
	task, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err, id)
	}

	completedAt := s.now()
	task.Status = models.StatusCompleted
	task.CompletedAt = &completedAt

	if err := s.store.Save(ctx, task); err != nil {
		return nil, err
	}

	s.publish(models.EventTaskCompleted, task)
	return task, nil
}

// Delete permanently removes the task.
func (s *TaskService) Delete(ctx context.Context, id uint64) error {
	task, err := s.store.FindByID(ctx, id)
	if err != nil {
		return translateStoreErr(err, id)
	}

	if err := s.store.DeleteByID(ctx, id); err != nil {
		return translateStoreErr(err, id)
	}

	s.publish(models.EventTaskDeleted, task)
	return nil
}

func (s *TaskService) publish(kind models.TaskEventType, task *models.Task) {
	if s.events == nil {
		return
	}
	s.events.Publish(models.TaskEvent{
		Type:    kind,
		TaskID:  task.ID,
		Status:  task.Status,
		Version: 1,
	})
}

func translateStoreErr(err error, id uint64) error {
	if errors.Is(err, repository.ErrTaskNotFound) {
		return fmt.Errorf("%w: id %d", ErrTaskNotFound, id)
	}
	log.Printf("[task] store failure for id %d: %v", id, err)
	return err
}
