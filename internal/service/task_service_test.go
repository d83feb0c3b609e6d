package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"task-tracker-api/internal/models"
	"task-tracker-api/internal/repository"
	"task-tracker-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.TaskEvent
}

func (p *recordingPublisher) Publish(event models.TaskEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []models.TaskEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.TaskEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func newTaskService(t *testing.T) (*TaskService, *recordingPublisher) {
	t.Helper()
	events := &recordingPublisher{}
	repo := repository.NewTaskRepository(testutil.NewInMemoryDB(t))
	return NewTaskService(repo, events), events
}

func ptr[T any](v T) *T { return &v }

func TestCreate_DefaultsStatusAndPriority(t *testing.T) {
	svc, _ := newTaskService(t)

	task, err := svc.Create(context.Background(), models.TaskInput{Title: "Write docs"})
	require.NoError(t, err)
	require.Equal(t, uint64(1), task.ID)
	require.Equal(t, models.StatusTodo, task.Status)
	require.Equal(t, models.PriorityMedium, task.Priority)
	require.False(t, task.CreatedAt.IsZero())
	require.Nil(t, task.CompletedAt)
}

func TestCreate_KeepsSuppliedValues(t *testing.T) {
	svc, _ := newTaskService(t)
	due := models.NewDate(time.Now().AddDate(0, 0, 2))

	task, err := svc.Create(context.Background(), models.TaskInput{
		Title:       "Ship it",
		Description: ptr("release v1"),
		Status:      ptr(models.StatusInProgress),
		Priority:    ptr(models.PriorityUrgent),
		DueDate:     &due,
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusInProgress, task.Status)
	require.Equal(t, models.PriorityUrgent, task.Priority)
	require.Equal(t, "release v1", *task.Description)
	require.Equal(t, due.String(), task.DueDate.String())
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newTaskService(t)

	_, err := svc.Get(context.Background(), 99)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestUpdate_FullReplace(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()
	due := models.NewDate(time.Now().AddDate(0, 0, 5))

	created, err := svc.Create(ctx, models.TaskInput{
		Title:       "Old title",
		Description: ptr("to be cleared"),
		DueDate:     &due,
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, models.TaskInput{
		Title:    "New title",
		Status:   ptr(models.StatusReview),
		Priority: ptr(models.PriorityLow),
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "New title", got.Title)
	require.Nil(t, got.Description)
	require.Nil(t, got.DueDate)
	require.Equal(t, models.StatusReview, got.Status)
	require.Equal(t, models.PriorityLow, got.Priority)
}

func TestUpdate_ToCompletedDoesNotSetCompletedAt(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.TaskInput{Title: "t"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, models.TaskInput{
		Title:    "t",
		Status:   ptr(models.StatusCompleted),
		Priority: ptr(models.PriorityMedium),
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, updated.Status)
	require.Nil(t, updated.CompletedAt)
}

func TestUpdate_Errors(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, 7, models.TaskInput{
		Title:    "x",
		Status:   ptr(models.StatusTodo),
		Priority: ptr(models.PriorityLow),
	})
	require.ErrorIs(t, err, ErrTaskNotFound)

	// Unknown id wins over missing status.
	_, err = svc.Update(ctx, 7, models.TaskInput{Title: "x", Priority: ptr(models.PriorityLow)})
	require.ErrorIs(t, err, ErrTaskNotFound)

	created, err := svc.Create(ctx, models.TaskInput{Title: "x"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, models.TaskInput{Title: "x", Priority: ptr(models.PriorityLow)})
	require.ErrorIs(t, err, ErrIncompleteInput)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusTodo, got.Status)
}

func TestComplete(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.TaskInput{Title: "t", Status: ptr(models.StatusReview)})
	require.NoError(t, err)

	before := time.Now()
	done, err := svc.Complete(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	require.False(t, done.CompletedAt.Before(before))

	again, err := svc.Complete(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, again.Status)
	require.False(t, again.CompletedAt.Before(*done.CompletedAt))

	_, err = svc.Complete(ctx, 404)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestComplete_FixedClock(t *testing.T) {
	svc, _ := newTaskService(t)
	fixed := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixed })

	created, err := svc.Create(context.Background(), models.TaskInput{Title: "t"})
	require.NoError(t, err)

	done, err := svc.Complete(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, fixed.Equal(*done.CompletedAt))
}

func TestDelete(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.TaskInput{Title: "t"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
	require.ErrorIs(t, svc.Delete(ctx, created.ID), ErrTaskNotFound)
}

func TestListByStatus_CaseInsensitive(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.TaskInput{Title: "a"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.TaskInput{Title: "b", Status: ptr(models.StatusInProgress)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.TaskInput{Title: "c"})
	require.NoError(t, err)

	lower, err := svc.ListByStatus(ctx, "todo")
	require.NoError(t, err)
	upper, err := svc.ListByStatus(ctx, "TODO")
	require.NoError(t, err)
	require.Len(t, lower, 2)
	require.Equal(t, upper, lower)

	_, err = svc.ListByStatus(ctx, "bogus")
	require.ErrorIs(t, err, ErrInvalidEnumValue)

	var enumErr *models.InvalidEnumError
	require.ErrorAs(t, err, &enumErr)
	require.Equal(t, "status", enumErr.Domain)
}

func TestListByPriority(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.TaskInput{Title: "a", Priority: ptr(models.PriorityHigh)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.TaskInput{Title: "b"})
	require.NoError(t, err)

	high, err := svc.ListByPriority(ctx, "High")
	require.NoError(t, err)
	require.Len(t, high, 1)
	require.Equal(t, "a", high[0].Title)

	_, err = svc.ListByPriority(ctx, "critical")
	require.ErrorIs(t, err, ErrInvalidEnumValue)
}

func TestList(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, empty)

	for _, title := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, models.TaskInput{Title: title})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []string{"a", "b", "c"}, []string{all[0].Title, all[1].Title, all[2].Title})
}

func TestListOverdue(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	today := time.Date(2030, 6, 10, 9, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return today })

	past := models.NewDate(today.AddDate(0, 0, -1))
	future := models.NewDate(today.AddDate(0, 0, 1))

	late, err := svc.Create(ctx, models.TaskInput{Title: "late", DueDate: &past})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.TaskInput{Title: "upcoming", DueDate: &future})
	require.NoError(t, err)
	finished, err := svc.Create(ctx, models.TaskInput{Title: "finished", DueDate: &past})
	require.NoError(t, err)
	_, err = svc.Complete(ctx, finished.ID)
	require.NoError(t, err)

	overdue, err := svc.ListOverdue(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, late.ID, overdue[0].ID)
}

func TestSearch(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.TaskInput{Title: "Write Docs"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.TaskInput{Title: "Fix bug"})
	require.NoError(t, err)

	found, err := svc.Search(ctx, "docs")
	require.NoError(t, err)
	require.Len(t, found, 1)

	all, err := svc.Search(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestLifecycle_PublishesEvents(t *testing.T) {
	svc, events := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, models.TaskInput{Title: "t"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, task.ID, models.TaskInput{Title: "u", Status: ptr(models.StatusTodo), Priority: ptr(models.PriorityLow)})
	require.NoError(t, err)
	_, err = svc.Complete(ctx, task.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, task.ID))

	_, err = svc.Get(ctx, task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)

	require.Equal(t, []models.TaskEventType{
		models.EventTaskCreated,
		models.EventTaskUpdated,
		models.EventTaskCompleted,
		models.EventTaskDeleted,
	}, events.types())
}

func TestNilPublisher(t *testing.T) {
	svc := NewTaskService(repository.NewTaskRepository(testutil.NewInMemoryDB(t)), nil)

	_, err := svc.Create(context.Background(), models.TaskInput{Title: "quiet"})
	require.NoError(t, err)
}

func TestSeedSampleTasks(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	n, err := svc.SeedSampleTasks(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	n, err = svc.SeedSampleTasks(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	urgent, err := svc.ListByPriority(ctx, "urgent")
	require.NoError(t, err)
	require.Len(t, urgent, 1)
	require.Equal(t, "Implement User Authentication", urgent[0].Title)
}
