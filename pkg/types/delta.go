package types

// StatusDelta is the working-tree change set reported by version control
// after copier ran. Paths are relative to the repository root.
//
// The lists are expected to be disjoint; in particular a deleted path never
// shows up in any other list.
type StatusDelta struct {
	Modified   []string
	NotAdded   []string
	Conflicted []string
	Deleted    []string
}

// IsModified reports whether path is in the modified list.
func (s StatusDelta) IsModified(path string) bool {
	return contains(s.Modified, path)
}

// IsConflicted reports whether path is in the conflicted list.
func (s StatusDelta) IsConflicted(path string) bool {
	return contains(s.Conflicted, path)
}

func contains(list []string, path string) bool {
	for _, p := range list {
		if p == path {
			return true
		}
	}
	return false
}
