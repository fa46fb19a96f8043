package model

import (
	"github.com/dataflows/flowgrid/pkg/spec"
)

// defaultPositionGap is the horizontal gap applied when defaulting the
// position of a subsystem the author left unplaced.
const defaultPositionGap = 10

// Load hydrates a raw specification into the runtime tree and validates it.
// The returned tree is always usable; the error list holds every semantic
// problem found (unresolvable endpoints, duplicates, self-references).
//
// Hydration runs four ordered passes:
//
//  1. Subsystem enhancement: indices, parent back-references, canonical ids.
//  2. Link enhancement: endpoint resolution and global link indices.
//  3. Flow enhancement: keyframe normalisation, endpoint resolution, and
//     link-path discovery between step endpoints.
//  4. Default positioning for subsystems without declared coordinates.
func Load(doc *spec.Spec) (*System, []ValidationError) {
	root := &System{
		Title:       doc.Title,
		HideSystems: doc.HideSystems,
	}
	root.Systems = buildSystems(doc.Systems)

	lookup := enhanceSubsystems(root)
	enhanceLinks(root, doc.Links, lookup)
	enhanceFlows(root, doc.Flows, lookup)
	defaultPositions(root)

	return root, validate(root)
}

// LoadYAML parses a YAML/JSON document, checks it against the structural
// schema, and hydrates it. A non-nil error signals a structural failure;
// semantic problems are returned in the validation error list instead.
func LoadYAML(data []byte) (*System, []ValidationError, error) {
	doc, err := spec.Parse(data)
	if err != nil {
		return nil, nil, err
	}
	root, verrs := Load(doc)
	return root, verrs, nil
}

// buildSystems converts raw system definitions into runtime nodes.
func buildSystems(defs []*spec.System) []*System {
	out := make([]*System, 0, len(defs))
	for _, def := range defs {
		if def == nil {
			continue
		}
		s := &System{
			ID:          def.ID,
			Title:       def.Title,
			HideSystems: def.HideSystems,
		}
		if def.Position != nil {
			s.Position = Position{X: def.Position.X, Y: def.Position.Y}
			s.HasPosition = true
		}
		s.Systems = buildSystems(def.Systems)
		out = append(out, s)
	}
	return out
}

// enhanceSubsystems assigns index, parent, and canonical id depth-first,
// and builds the canonical-id lookup table used for O(1) path resolution.
func enhanceSubsystems(root *System) map[string]*System {
	lookup := make(map[string]*System)

	var walk func(parent *System)
	walk = func(parent *System) {
		for i, child := range parent.Systems {
			child.Index = i
			child.Parent = parent
			child.CanonicalID = joinCanonical(parent.CanonicalID, child.ID)
			lookup[child.CanonicalID] = child
			walk(child)
		}
	}
	walk(root)
	return lookup
}

// joinCanonical dot-joins path components, filtering empty ones (the root
// contributes no component).
func joinCanonical(parent, id string) string {
	if parent == "" {
		return id
	}
	if id == "" {
		return parent
	}
	return parent + "." + id
}

// enhanceLinks resolves both endpoints of every link and assigns global
// indices. Unresolvable endpoints stay nil; the validator reports them.
func enhanceLinks(root *System, defs []*spec.Link, lookup map[string]*System) {
	root.Links = make([]*Link, 0, len(defs))
	for i, def := range defs {
		if def == nil {
			continue
		}
		l := &Link{
			Index:   i,
			A:       def.A,
			B:       def.B,
			SystemA: resolvePath(root, def.A, lookup),
			SystemB: resolvePath(root, def.B, lookup),
		}
		root.Links = append(root.Links, l)
	}
}

// defaultPositions assigns (farRight+10, 0) to every subsystem without a
// declared position, where farRight tracks the maximum x among siblings
// processed so far at that level. Recurses into children.
func defaultPositions(s *System) {
	farRight := 0
	for _, child := range s.Systems {
		if !child.HasPosition {
			child.Position = Position{X: farRight + defaultPositionGap, Y: 0}
		}
		if child.Position.X > farRight {
			farRight = child.Position.X
		}
		defaultPositions(child)
	}
}
