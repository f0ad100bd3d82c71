// Package nest rebuilds the task hierarchy from flat task lists and groups it
// by project and section.
package nest

import "craftdoist/internal/service"

// Node is a task with its subtasks.
type Node struct {
	Task     service.Task
	Children []*Node
}

// Walk calls fn for n and every descendant, depth first, with the depth
// relative to n.
func (n *Node) Walk(fn func(n *Node, depth int)) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(n, 0)
}

// Build turns a flat task list into a forest. Every task appears exactly
// once. A task becomes a root when it has no parent ID, when its parent is
// not in tasks, or when its parent chain loops back to it. Children keep the
// relative order they have in tasks.
func Build(tasks []service.Task) []*Node {
	nodes := make([]*Node, len(tasks))
	index := make(map[string]int, len(tasks))
	for i, t := range tasks {
		nodes[i] = &Node{Task: t}
		if _, dup := index[t.ID]; !dup {
			index[t.ID] = i
		}
	}

	parentOf := func(i int) (int, bool) {
		pid := tasks[i].ParentID
		if pid == "" {
			return 0, false
		}
		p, ok := index[pid]
		return p, ok
	}

	// onLoop reports whether following parents from i leads back to i.
	onLoop := func(i int) bool {
		seen := map[int]bool{i: true}
		cur := i
		for {
			p, ok := parentOf(cur)
			if !ok {
				return false
			}
			if p == i {
				return true
			}
			if seen[p] {
				// loop further up that does not contain i
				return false
			}
			seen[p] = true
			cur = p
		}
	}

	var roots []*Node
	for i := range tasks {
		p, ok := parentOf(i)
		if !ok || onLoop(i) {
			roots = append(roots, nodes[i])
			continue
		}
		nodes[p].Children = append(nodes[p].Children, nodes[i])
	}
	return roots
}

// Count returns the number of nodes in the forest.
func Count(forest []*Node) int {
	n := 0
	for _, root := range forest {
		root.Walk(func(*Node, int) { n++ })
	}
	return n
}
