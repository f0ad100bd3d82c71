package nest

import (
	"fmt"
	"sort"

	"craftdoist/internal/service"
)

// SortKey orders sibling tasks.
type SortKey int

const (
	// ByOrder sorts by the service order, ascending.
	ByOrder SortKey = iota
	// ByPriority sorts by priority, most urgent first.
	ByPriority
	// ByContent sorts by content, ascending.
	ByContent
)

// ParseSortKey parses "order", "priority" or "content".
func ParseSortKey(s string) (SortKey, error) {
	switch s {
	case "", "order":
		return ByOrder, nil
	case "priority":
		return ByPriority, nil
	case "content":
		return ByContent, nil
	}
	return 0, fmt.Errorf("unknown sort key: %s", s)
}

func (k SortKey) String() string {
	switch k {
	case ByPriority:
		return "priority"
	case ByContent:
		return "content"
	default:
		return "order"
	}
}

func (k SortKey) less(a, b service.Task) bool {
	switch k {
	case ByPriority:
		return a.Priority > b.Priority
	case ByContent:
		return a.Content < b.Content
	default:
		return a.Order < b.Order
	}
}

// Sort stably sorts tasks in place. Ties keep their input order.
func Sort(tasks []service.Task, key SortKey) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return key.less(tasks[i], tasks[j])
	})
}

// SortForest stably sorts every sibling list of the forest in place.
func SortForest(forest []*Node, key SortKey) {
	sort.SliceStable(forest, func(i, j int) bool {
		return key.less(forest[i].Task, forest[j].Task)
	})
	for _, n := range forest {
		SortForest(n.Children, key)
	}
}
