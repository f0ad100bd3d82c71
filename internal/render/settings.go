// Package render turns tasks, projects and sections into styled runs and
// markdown lines.
package render

import "fmt"

// LinkSet selects which deep links are appended to tasks and projects.
type LinkSet struct {
	Mobile bool // companion app scheme link
	Web    bool // browser link
}

// ParseLinks parses link names ("mobile", "web").
func ParseLinks(names []string) (LinkSet, error) {
	var s LinkSet
	for _, n := range names {
		switch n {
		case "mobile":
			s.Mobile = true
		case "web":
			s.Web = true
		default:
			return LinkSet{}, fmt.Errorf("unknown link type: %s", n)
		}
	}
	return s, nil
}

// MetadataSet selects which task metadata is rendered after the content.
type MetadataSet struct {
	DueDates    bool
	Priorities  bool
	Labels      bool
	Description bool
}

// ParseMetadata parses metadata names ("dueDates", "priorities", "labels",
// "description").
func ParseMetadata(names []string) (MetadataSet, error) {
	var s MetadataSet
	for _, n := range names {
		switch n {
		case "dueDates":
			s.DueDates = true
		case "priorities":
			s.Priorities = true
		case "labels":
			s.Labels = true
		case "description":
			s.Description = true
		default:
			return MetadataSet{}, fmt.Errorf("unknown metadata type: %s", n)
		}
	}
	return s, nil
}

// AllMetadata enables every metadata kind.
var AllMetadata = MetadataSet{DueDates: true, Priorities: true, Labels: true, Description: true}
