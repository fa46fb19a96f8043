package model

import "strings"

// resolvePath resolves a dotted path from the root to a system. The lookup
// table built during subsystem enhancement makes resolution O(1) in the
// path length; a nil table falls back to walking the child lists.
// Returns nil when any segment fails to resolve.
func resolvePath(root *System, path string, lookup map[string]*System) *System {
	if path == "" {
		return nil
	}
	if lookup != nil {
		return lookup[path]
	}

	cur := root
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			return nil
		}
		var next *System
		for _, child := range cur.Systems {
			if child.ID == segment {
				next = child
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// Resolve finds the system at the given dotted path, or nil.
func (s *System) Resolve(path string) *System {
	return resolvePath(s.Root(), path, nil)
}
