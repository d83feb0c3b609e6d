package models

// TaskEventType names a task lifecycle change.
type TaskEventType string

const (
	EventTaskCreated   TaskEventType = "task_created"
	EventTaskUpdated   TaskEventType = "task_updated"
	EventTaskCompleted TaskEventType = "task_completed"
	EventTaskDeleted   TaskEventType = "task_deleted"
)

// TaskEvent is pushed to realtime subscribers after a lifecycle operation.
type TaskEvent struct {
	Type    TaskEventType `json:"type"`
	TaskID  uint64        `json:"taskId"`
	Status  TaskStatus    `json:"status,omitempty"`
	Version int           `json:"version"`
}
