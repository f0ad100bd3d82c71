package commands

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"craftdoist/internal/service"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

var (
	taskIDPattern   = regexp.MustCompile(`^[0-9A-Za-z_-]+$`)
	taskLinkPattern = regexp.MustCompile(`(?:todoist://task\?id=|showTask\?id=|/task/)([0-9A-Za-z_-]+)`)
)

// ParseTaskRef parses a task reference from args.
//
// Accepted forms:
//  1. A bare task ID (e.g. 2995104339)
//  2. A deep link or web link copied from an imported line, e.g.
//     todoist://task?id=2995104339 or https://todoist.com/showTask?id=2995104339
//  3. A markdown link wrapping either of the above
func ParseTaskRef(args []string) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", ErrTaskRefRequired
	}
	if len(args) > 1 {
		return "", fmt.Errorf("unexpected argument: %s", args[1])
	}

	ref := strings.TrimSpace(args[0])
	if taskIDPattern.MatchString(ref) {
		return ref, nil
	}
	if m := taskLinkPattern.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("invalid task reference: %s", ref)
}

// ResolveProject finds a project by ID, or by name (case-insensitive,
// trimmed).
func ResolveProject(ctx context.Context, svc service.Service, ref string) (service.Project, error) {
	ref = strings.TrimSpace(ref)
	refLower := strings.ToLower(ref)

	projects, err := svc.Projects(ctx)
	if err != nil {
		return service.Project{}, err
	}

	var matches []service.Project
	for _, p := range projects {
		if p.ID == ref {
			return p, nil
		}
		if strings.ToLower(strings.TrimSpace(p.Name)) == refLower {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return service.Project{}, &refError{msg: "project not found: " + ref}
	case 1:
		return matches[0], nil
	default:
		return service.Project{}, &refError{msg: "ambiguous project name: " + ref}
	}
}

// refError is a user error resolving a reference.
type refError struct{ msg string }

func (e *refError) Error() string { return e.msg }
