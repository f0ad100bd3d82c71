package nest

import "craftdoist/internal/service"

// SectionNest is a section with its root tasks.
type SectionNest struct {
	Section service.Section
	Tasks   []*Node
}

// ProjectNest is a project with its sections and its sectionless root tasks.
type ProjectNest struct {
	Project  service.Project
	Sections []SectionNest
	Tasks    []*Node
}

// GroupSections splits root tasks into section nests and sectionless tasks.
// Sections appear once, in order of first reference. Roots whose section
// is not in sections are kept with the sectionless tasks and also returned
// as unresolved.
func GroupSections(roots []*Node, sections []service.Section) (nests []SectionNest, sectionless, unresolved []*Node) {
	byID := make(map[string]service.Section, len(sections))
	for _, s := range sections {
		byID[s.ID] = s
	}
	pos := make(map[string]int)

	for _, n := range roots {
		if !n.Task.HasSection() {
			sectionless = append(sectionless, n)
			continue
		}
		sid := n.Task.SectionID
		if i, ok := pos[sid]; ok {
			nests[i].Tasks = append(nests[i].Tasks, n)
			continue
		}
		s, ok := byID[sid]
		if !ok {
			sectionless = append(sectionless, n)
			unresolved = append(unresolved, n)
			continue
		}
		pos[sid] = len(nests)
		nests = append(nests, SectionNest{Section: s, Tasks: []*Node{n}})
	}
	return nests, sectionless, unresolved
}

// GroupProjects assigns section nests (by the section's project) and
// sectionless tasks (by the task's project) to projects, in project order.
// Every project is returned, even without content. Roots that belong to no
// listed project are returned as dropped.
func GroupProjects(projects []service.Project, nests []SectionNest, sectionless []*Node) (out []ProjectNest, dropped []*Node) {
	known := make(map[string]bool, len(projects))
	for _, p := range projects {
		known[p.ID] = true
	}

	for _, p := range projects {
		pn := ProjectNest{Project: p}
		for _, sn := range nests {
			if sn.Section.ProjectID == p.ID {
				pn.Sections = append(pn.Sections, sn)
			}
		}
		for _, n := range sectionless {
			if n.Task.ProjectID == p.ID {
				pn.Tasks = append(pn.Tasks, n)
			}
		}
		out = append(out, pn)
	}

	for _, sn := range nests {
		if !known[sn.Section.ProjectID] {
			dropped = append(dropped, sn.Tasks...)
		}
	}
	for _, n := range sectionless {
		if !known[n.Task.ProjectID] {
			dropped = append(dropped, n)
		}
	}
	return out, dropped
}
