package model

import (
	"sort"

	"github.com/dataflows/flowgrid/pkg/spec"
)

// enhanceFlows normalises step keyframes, resolves step endpoints, and
// discovers the link sequence connecting each step's endpoints.
func enhanceFlows(root *System, defs []*spec.Flow, lookup map[string]*System) {
	root.Flows = make([]*Flow, 0, len(defs))
	for i, def := range defs {
		if def == nil {
			continue
		}
		f := &Flow{Index: i}
		var stepDefs []*spec.Step
		for _, stepDef := range def.Steps {
			if stepDef == nil {
				continue
			}
			step := &FlowStep{
				Keyframe:   stepDef.Keyframe,
				From:       stepDef.From,
				To:         stepDef.To,
				SystemFrom: resolvePath(root, stepDef.From, lookup),
				SystemTo:   resolvePath(root, stepDef.To, lookup),
			}
			f.Steps = append(f.Steps, step)
			stepDefs = append(stepDefs, stepDef)
		}
		normalizeKeyframes(f)
		for i, step := range f.Steps {
			if explicit := explicitLinks(root.Links, stepDefs[i].Links); explicit != nil {
				step.Links = explicit
				continue
			}
			if step.SystemFrom != nil && step.SystemTo != nil {
				step.Links = linkPath(root.Links, step.From, step.To)
			}
		}
		root.Flows = append(root.Flows, f)
	}
}

// normalizeKeyframes rewrites each step's keyframe to its rank in the
// sorted set of distinct keyframes, producing a dense 0..k range.
func normalizeKeyframes(f *Flow) {
	distinct := make(map[int]struct{}, len(f.Steps))
	for _, step := range f.Steps {
		distinct[step.Keyframe] = struct{}{}
	}

	sorted := make([]int, 0, len(distinct))
	for k := range distinct {
		sorted = append(sorted, k)
	}
	sort.Ints(sorted)

	rank := make(map[int]int, len(sorted))
	for i, k := range sorted {
		rank[k] = i
	}
	for _, step := range f.Steps {
		step.Keyframe = rank[step.Keyframe]
	}
}

// explicitLinks resolves an author-pinned list of link indices. Out-of-range
// indices are dropped. Returns nil when no list was given.
func explicitLinks(links []*Link, indices []int) []*Link {
	if len(indices) == 0 {
		return nil
	}
	out := make([]*Link, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(links) {
			out = append(out, links[idx])
		}
	}
	return out
}

// linkPath finds the sequence of links connecting two endpoint paths by
// breadth-first search over the flat link list, treated as an undirected
// graph keyed on the raw endpoint strings. Returns nil when the endpoints
// are disconnected.
func linkPath(links []*Link, from, to string) []*Link {
	if from == to {
		return nil
	}

	type edge struct {
		other string
		link  *Link
	}
	adjacency := make(map[string][]edge)
	for _, l := range links {
		adjacency[l.A] = append(adjacency[l.A], edge{other: l.B, link: l})
		adjacency[l.B] = append(adjacency[l.B], edge{other: l.A, link: l})
	}

	// BFS with parent breadcrumbs for path reconstruction.
	parent := map[string]string{from: from}
	via := map[string]*Link{}
	queue := []string{from}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if node == to {
			break
		}
		for _, e := range adjacency[node] {
			if _, seen := parent[e.other]; seen {
				continue
			}
			parent[e.other] = node
			via[e.other] = e.link
			queue = append(queue, e.other)
		}
	}

	if _, reached := parent[to]; !reached {
		return nil
	}

	var rev []*Link
	for node := to; node != from; node = parent[node] {
		rev = append(rev, via[node])
	}
	path := make([]*Link, len(rev))
	for i, l := range rev {
		path[len(rev)-1-i] = l
	}
	return path
}
