// Package service defines the backend-agnostic interface for task operations.
package service

// Task represents a single task item.
type Task struct {
	ID          string
	Content     string
	Description string
	ProjectID   string
	SectionID   string // "" or "0" when the task has no section
	ParentID    string // "" for root tasks
	Order       int
	Priority    int // 1 (normal) to 4 (urgent), 0 when unknown
	Due         *Due
	LabelIDs    []string
	URL         string
	Completed   bool
}

// HasSection reports whether the task belongs to a section.
func (t Task) HasSection() bool {
	return t.SectionID != "" && t.SectionID != "0"
}

// Due is the due date of a task.
type Due struct {
	Date      string // YYYY-MM-DD
	Datetime  string // RFC 3339, empty when no time of day is set
	Recurring bool
	String    string // human readable, e.g. "every day"
}

// Project represents a project (or task list).
type Project struct {
	ID   string
	Name string
	URL  string
}

// Section represents a section inside a project.
type Section struct {
	ID        string
	Name      string
	ProjectID string
}

// Label represents a task label.
type Label struct {
	ID   string
	Name string
}

// AppLinks holds printf templates (one %s for the ID) for companion app deep
// links. Empty templates mean the backend has no app links.
type AppLinks struct {
	Task    string
	Project string
}

// TaskQuery selects the tasks to fetch. The zero value fetches all open tasks.
type TaskQuery struct {
	Filter    string
	ProjectID string
}

// Key returns a stable cache key for the query.
func (q TaskQuery) Key() string {
	return "tasks|" + q.ProjectID + "|" + q.Filter
}

// TodayFilter selects tasks due today or overdue.
const TodayFilter = "today | overdue"

// NewTask holds the fields for creating a task.
type NewTask struct {
	Content     string
	Description string
	ProjectID   string
	DueDate     string // YYYY-MM-DD
}
