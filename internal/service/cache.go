package service

import (
	"context"
	"strings"
	"sync"
)

// Cache memoizes read calls of a Service by query key for the lifetime of a
// session. Task mutations invalidate cached task queries.
type Cache struct {
	svc Service

	mu       sync.Mutex
	tasks    map[string][]Task
	projects []Project
	sections []Section
	labels   []Label
	fetched  map[string]bool
}

// NewCache wraps svc.
func NewCache(svc Service) *Cache {
	return &Cache{
		svc:     svc,
		tasks:   make(map[string][]Task),
		fetched: make(map[string]bool),
	}
}

// Tasks implements Service.
func (c *Cache) Tasks(ctx context.Context, q TaskQuery) ([]Task, error) {
	key := q.Key()
	c.mu.Lock()
	if c.fetched[key] {
		tasks := c.tasks[key]
		c.mu.Unlock()
		return cloneTasks(tasks), nil
	}
	c.mu.Unlock()

	tasks, err := c.svc.Tasks(ctx, q)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.tasks[key] = tasks
	c.fetched[key] = true
	c.mu.Unlock()
	return cloneTasks(tasks), nil
}

// Task implements Service. Single task lookups are never cached since they
// are used to check completion state.
func (c *Cache) Task(ctx context.Context, id string) (Task, error) {
	return c.svc.Task(ctx, id)
}

// Projects implements Service.
func (c *Cache) Projects(ctx context.Context) ([]Project, error) {
	return fetchOnce(c, ctx, "projects", &c.projects, c.svc.Projects)
}

// Sections implements Service.
func (c *Cache) Sections(ctx context.Context) ([]Section, error) {
	return fetchOnce(c, ctx, "sections", &c.sections, c.svc.Sections)
}

// Labels implements Service.
func (c *Cache) Labels(ctx context.Context) ([]Label, error) {
	return fetchOnce(c, ctx, "labels", &c.labels, c.svc.Labels)
}

// CreateTask implements Service.
func (c *Cache) CreateTask(ctx context.Context, t NewTask) (Task, error) {
	task, err := c.svc.CreateTask(ctx, t)
	if err == nil {
		c.invalidateTasks()
	}
	return task, err
}

// CloseTask implements Service.
func (c *Cache) CloseTask(ctx context.Context, id string) error {
	err := c.svc.CloseTask(ctx, id)
	if err == nil {
		c.invalidateTasks()
	}
	return err
}

// AppLinks implements Service.
func (c *Cache) AppLinks() AppLinks {
	return c.svc.AppLinks()
}

func (c *Cache) invalidateTasks() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.fetched {
		if strings.HasPrefix(key, "tasks|") {
			delete(c.fetched, key)
			delete(c.tasks, key)
		}
	}
}

func fetchOnce[T any](c *Cache, ctx context.Context, key string, dst *[]T, fetch func(context.Context) ([]T, error)) ([]T, error) {
	c.mu.Lock()
	if c.fetched[key] {
		out := append([]T(nil), (*dst)...)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	*dst = items
	c.fetched[key] = true
	c.mu.Unlock()
	return append([]T(nil), items...), nil
}

func cloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	return append([]Task(nil), tasks...)
}
