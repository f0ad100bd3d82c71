// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strconv"
	"sync"

	"craftdoist/internal/service"
)

// TodoistLinks are the app links the fake reports.
var TodoistLinks = service.AppLinks{
	Task:    "todoist://task?id=%s",
	Project: "todoist://project?id=%s",
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu       sync.RWMutex
	tasks    []service.Task
	projects []service.Project
	sections []service.Section
	labels   []service.Label
	nextID   int

	// Queries records every Tasks call.
	Queries []service.TaskQuery

	// Calls counts backend calls by method name.
	Calls map[string]int

	// Error injection for testing
	TasksErr      error
	TaskErr       error
	ProjectsErr   error
	SectionsErr   error
	LabelsErr     error
	CreateTaskErr error
	CloseTaskErr  error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID: 1000,
		Calls:  make(map[string]int),
	}
}

// AddProject adds a project.
func (f *FakeService) AddProject(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects = append(f.projects, service.Project{
		ID:   id,
		Name: name,
		URL:  "https://todoist.com/showProject?id=" + id,
	})
}

// AddSection adds a section to a project.
func (f *FakeService) AddSection(id, projectID, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sections = append(f.sections, service.Section{ID: id, Name: name, ProjectID: projectID})
}

// AddLabel adds a label.
func (f *FakeService) AddLabel(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.labels = append(f.labels, service.Label{ID: id, Name: name})
}

// AddTask adds a task. An empty URL is filled in.
func (f *FakeService) AddTask(t service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.URL == "" {
		t.URL = "https://todoist.com/showTask?id=" + t.ID
	}
	f.tasks = append(f.tasks, t)
}

// Tasks implements service.Service.
// Filters other than service.TodayFilter are ignored; TodayFilter keeps tasks
// with a due date.
func (f *FakeService) Tasks(ctx context.Context, q service.TaskQuery) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["Tasks"]++
	f.Queries = append(f.Queries, q)
	if f.TasksErr != nil {
		return nil, f.TasksErr
	}

	var out []service.Task
	for _, t := range f.tasks {
		if t.Completed {
			continue
		}
		if q.ProjectID != "" && t.ProjectID != q.ProjectID {
			continue
		}
		if q.Filter == service.TodayFilter && t.Due == nil {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Task implements service.Service.
func (f *FakeService) Task(ctx context.Context, id string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["Task"]++
	if f.TaskErr != nil {
		return service.Task{}, f.TaskErr
	}
	for _, t := range f.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return service.Task{}, service.ErrNotFound
}

// Projects implements service.Service.
func (f *FakeService) Projects(ctx context.Context) ([]service.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["Projects"]++
	if f.ProjectsErr != nil {
		return nil, f.ProjectsErr
	}
	return append([]service.Project(nil), f.projects...), nil
}

// Sections implements service.Service.
func (f *FakeService) Sections(ctx context.Context) ([]service.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["Sections"]++
	if f.SectionsErr != nil {
		return nil, f.SectionsErr
	}
	return append([]service.Section(nil), f.sections...), nil
}

// Labels implements service.Service.
func (f *FakeService) Labels(ctx context.Context) ([]service.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["Labels"]++
	if f.LabelsErr != nil {
		return nil, f.LabelsErr
	}
	return append([]service.Label(nil), f.labels...), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, nt service.NewTask) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["CreateTask"]++
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}

	f.nextID++
	id := strconv.Itoa(f.nextID)
	t := service.Task{
		ID:          id,
		Content:     nt.Content,
		Description: nt.Description,
		ProjectID:   nt.ProjectID,
		Priority:    1,
		URL:         "https://todoist.com/showTask?id=" + id,
	}
	if nt.DueDate != "" {
		t.Due = &service.Due{Date: nt.DueDate}
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// CloseTask implements service.Service.
// Recurring tasks stay open, like the real service moving them forward.
func (f *FakeService) CloseTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["CloseTask"]++
	if f.CloseTaskErr != nil {
		return f.CloseTaskErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			if t.Due == nil || !t.Due.Recurring {
				f.tasks[i].Completed = true
			}
			return nil
		}
	}
	return service.ErrNotFound
}

// AppLinks implements service.Service.
func (f *FakeService) AppLinks() service.AppLinks {
	return TodoistLinks
}

// CallCount returns how often method was called.
func (f *FakeService) CallCount(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.Calls[method]
}
