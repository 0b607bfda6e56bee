package formats

import (
	"fmt"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how different a bone name may be and still be
// offered as a "did you mean" hint.
const maxSuggestDistance = 3

// resolveParents turns parent names into indices and rejects duplicate
// names, unknown parents and cycles.
func (m *Model) resolveParents(path string) error {
	index := make(map[string]int, len(m.Bones))
	for i := range m.Bones {
		name := m.Bones[i].Name
		if prev, ok := index[name]; ok {
			return invalid(fmt.Sprintf("%s.bones[%d].name", path, i), ErrDuplicateBone,
				"%q already defined by bones[%d]", name, prev)
		}
		index[name] = i
	}

	for i := range m.Bones {
		b := &m.Bones[i]
		if b.Parent == "" {
			b.ParentIndex = NoParent
			continue
		}
		p, ok := index[b.Parent]
		if !ok {
			msg := fmt.Sprintf("%q", b.Parent)
			if s := m.suggestBone(b.Parent); s != "" {
				msg += fmt.Sprintf(" (did you mean %q?)", s)
			}
			return invalid(fmt.Sprintf("%s.bones[%d].parent", path, i), ErrUnknownParent, "%s", msg)
		}
		b.ParentIndex = p
	}

	// Walk each chain; a chain longer than the bone count must revisit a bone.
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]uint8, len(m.Bones))
	for i := range m.Bones {
		if state[i] == done {
			continue
		}
		var chain []int
		j := i
		for j != NoParent && state[j] == unvisited {
			state[j] = visiting
			chain = append(chain, j)
			j = m.Bones[j].ParentIndex
		}
		if j != NoParent && state[j] == visiting {
			return invalid(fmt.Sprintf("%s.bones[%d].parent", path, j), ErrParentCycle,
				"%q is its own ancestor", m.Bones[j].Name)
		}
		for _, k := range chain {
			state[k] = done
		}
	}
	return nil
}

// suggestBone returns the closest existing bone name to name, or "".
func (m *Model) suggestBone(name string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for i := range m.Bones {
		d := levenshtein.ComputeDistance(name, m.Bones[i].Name)
		if d < bestDist {
			best, bestDist = m.Bones[i].Name, d
		}
	}
	return best
}
