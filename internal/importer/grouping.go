// Package importer turns fetched tasks into a grouped block sequence and runs
// import passes against a session.
package importer

import "fmt"

// Grouping selects which headers wrap the imported tasks.
type Grouping int

const (
	ProjectAndSection Grouping = iota
	ProjectOnly
	SectionOnly
	None
)

// ParseGrouping parses "projectAndSection", "projectOnly", "sectionOnly" or
// "none".
func ParseGrouping(s string) (Grouping, error) {
	switch s {
	case "", "projectAndSection":
		return ProjectAndSection, nil
	case "projectOnly":
		return ProjectOnly, nil
	case "sectionOnly":
		return SectionOnly, nil
	case "none":
		return None, nil
	}
	return 0, fmt.Errorf("unknown grouping: %s", s)
}

func (g Grouping) String() string {
	switch g {
	case ProjectOnly:
		return "projectOnly"
	case SectionOnly:
		return "sectionOnly"
	case None:
		return "none"
	default:
		return "projectAndSection"
	}
}

func (g Grouping) projectHeaders() bool {
	return g == ProjectAndSection || g == ProjectOnly
}

func (g Grouping) sectionHeaders() bool {
	return g == ProjectAndSection || g == SectionOnly
}

// sectionTaskIndent is the indentation of root tasks inside a section.
func (g Grouping) sectionTaskIndent() int {
	switch g {
	case ProjectAndSection:
		return 2
	case ProjectOnly, SectionOnly:
		return 1
	default:
		return 0
	}
}
