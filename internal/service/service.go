// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// Commands never import a backend SDK directly.
type Service interface {
	// Tasks returns open tasks matching the query, in API order.
	Tasks(ctx context.Context, q TaskQuery) ([]Task, error)

	// Task returns a single task by ID.
	Task(ctx context.Context, id string) (Task, error)

	// Projects returns all projects in API order.
	Projects(ctx context.Context) ([]Project, error)

	// Sections returns all sections in API order.
	Sections(ctx context.Context) ([]Section, error)

	// Labels returns all labels in API order.
	Labels(ctx context.Context) ([]Label, error)

	// CreateTask creates a new task and returns it.
	CreateTask(ctx context.Context, t NewTask) (Task, error)

	// CloseTask completes a task. Recurring tasks move to their next date.
	CloseTask(ctx context.Context, id string) error

	// AppLinks returns the deep link templates of the backend.
	AppLinks() AppLinks
}
