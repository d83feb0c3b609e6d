package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TaskStatus represents the status of a task
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusReview     TaskStatus = "REVIEW"
	StatusCompleted  TaskStatus = "COMPLETED"
)

// TaskStatuses lists the status domain in declaration order.
var TaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusReview, StatusCompleted}

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// TaskPriorities lists the priority domain in declaration order.
var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// ErrInvalidEnumValue is matched by every InvalidEnumError.
var ErrInvalidEnumValue = errors.New("invalid enum value")

// InvalidEnumError reports a token that does not name a member of Domain.
type InvalidEnumError struct {
	Value  string
	Domain string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("invalid %s value %q", e.Domain, e.Value)
}

func (e *InvalidEnumError) Is(target error) bool {
	return target == ErrInvalidEnumValue
}

// ParseTaskStatus matches s against the status domain ignoring case.
func ParseTaskStatus(s string) (TaskStatus, error) {
	candidate := TaskStatus(strings.ToUpper(s))
	for _, st := range TaskStatuses {
		if st == candidate {
			return st, nil
		}
	}
	return "", &InvalidEnumError{Value: s, Domain: "status"}
}

// ParseTaskPriority matches s against the priority domain ignoring case.
func ParseTaskPriority(s string) (TaskPriority, error) {
	candidate := TaskPriority(strings.ToUpper(s))
	for _, p := range TaskPriorities {
		if p == candidate {
			return p, nil
		}
	}
	return "", &InvalidEnumError{Value: s, Domain: "priority"}
}

// Task represents a task in the system
type Task struct {
	ID          uint64       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string       `json:"title" gorm:"size:255;not null"`
	Description *string      `json:"description" gorm:"size:1000"`
	Status      TaskStatus   `json:"status" gorm:"size:20;not null;index"`
	Priority    TaskPriority `json:"priority" gorm:"size:20;not null;index"`
	DueDate     *Date        `json:"dueDate" gorm:"column:due_date"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	CompletedAt *time.Time   `json:"completedAt" gorm:"column:completed_at"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// TaskInput carries the client-editable fields of a task. Nil pointers mean
// the field was omitted.
type TaskInput struct {
	Title       string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     *Date
}
