package importer

import (
	"fmt"
	"io"
	"regexp"
)

var taskLink = regexp.MustCompile(`(?:todoist://task\?id=|showTask\?id=)([0-9A-Za-z_-]+)`)

// ExistingTaskIDs returns the IDs of tasks linked from an existing document,
// in order of first appearance.
func ExistingTaskIDs(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	seen := make(map[string]bool)
	var ids []string
	for _, m := range taskLink.FindAllSubmatch(data, -1) {
		id := string(m[1])
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
