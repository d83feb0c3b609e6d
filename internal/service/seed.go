package service

import (
	"context"
	"log"

	"task-tracker-api/internal/models"
)

type sampleTask struct {
	title       string
	description string
	status      models.TaskStatus
	priority    models.TaskPriority
	dueInDays   int
}

var sampleTasks = []sampleTask{
	{"Complete Project Documentation", "Write comprehensive documentation for the backend API", models.StatusTodo, models.PriorityHigh, 7},
	{"Implement User Authentication", "Add JWT-based authentication to the application", models.StatusInProgress, models.PriorityUrgent, 3},
	{"Write Unit Tests", "Create comprehensive unit tests for all services", models.StatusTodo, models.PriorityMedium, 14},
	{"Code Review", "Review pull requests and provide feedback", models.StatusReview, models.PriorityLow, 1},
}

// SeedSampleTasks creates a few demo tasks when the store is empty and
// returns how many were created.
func (s *TaskService) SeedSampleTasks(ctx context.Context) (int, error) {
	existing, err := s.store.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	log.Println("Initializing sample data...")
	today := s.now()
	for _, st := range sampleTasks {
		description := st.description
		status := st.status
		priority := st.priority
		due := models.NewDate(today.AddDate(0, 0, st.dueInDays))

		if _, err := s.Create(ctx, models.TaskInput{
			Title:       st.title,
			Description: &description,
			Status:      &status,
			Priority:    &priority,
			DueDate:     &due,
		}); err != nil {
			return 0, err
		}
	}
	log.Printf("Sample data initialized: %d tasks", len(sampleTasks))
	return len(sampleTasks), nil
}
