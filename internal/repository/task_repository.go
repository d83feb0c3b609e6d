package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"task-tracker-api/internal/models"

	"gorm.io/gorm"
)

// ErrTaskNotFound is returned when no task has the requested id.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository persists tasks using GORM.
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Save inserts the task when it has no id yet, otherwise overwrites every column.
func (r *TaskRepository) Save(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its id.
func (r *TaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// FindAll retrieves every task ordered by id.
func (r *TaskRepository) FindAll(ctx context.Context) ([]models.Task, error) {
	return r.find(r.db.WithContext(ctx))
}

// FindByStatus retrieves the tasks with exactly the given status.
func (r *TaskRepository) FindByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	return r.find(r.db.WithContext(ctx).Where("status = ?", status))
}

// FindByPriority retrieves the tasks with exactly the given priority.
func (r *TaskRepository) FindByPriority(ctx context.Context, priority models.TaskPriority) ([]models.Task, error) {
	return r.find(r.db.WithContext(ctx).Where("priority = ?", priority))
}

// FindDueBefore retrieves unfinished tasks whose due date is earlier than day.
func (r *TaskRepository) FindDueBefore(ctx context.Context, day models.Date) ([]models.Task, error) {
	q := r.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date < ?", day).
		Where("status <> ?", models.StatusCompleted)
	return r.find(q)
}

// SearchByTitle retrieves tasks whose title contains fragment, ignoring case.
func (r *TaskRepository) SearchByTitle(ctx context.Context, fragment string) ([]models.Task, error) {
	pattern := "%" + escapeLike(strings.ToLower(fragment)) + "%"
	return r.find(r.db.WithContext(ctx).Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern))
}

// DeleteByID permanently removes a task.
func (r *TaskRepository) DeleteByID(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) find(q *gorm.DB) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := q.Order("id asc").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
