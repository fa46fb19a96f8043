// Package spec defines the raw specification document for a distributed
// architecture diagram and its parsing/validation front door.
//
// A specification is a tree of named systems plus a flat list of links
// between dotted paths and a list of animated flows. The package only deals
// with the document as written by the author; hydration into the runtime
// graph lives in pkg/model.
//
// Two validation layers apply to an incoming document:
//
//  1. Structural: the document must match the embedded JSON schema
//     (dataflows.io/system.json). Structural failures abort parsing.
//  2. Semantic: link endpoints must resolve to leaves, links must not
//     reference themselves or repeat. Flow step endpoints are not checked.
//     Semantic checks run after hydration and never abort - see pkg/model.
package spec

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the specification version this engine understands.
const CurrentVersion = "1.0.0"

// Spec is the top-level specification document.
type Spec struct {
	SpecificationVersion string     `yaml:"specificationVersion" json:"specificationVersion"`
	Title                string     `yaml:"title" json:"title"`
	HideSystems          bool       `yaml:"hideSystems,omitempty" json:"hideSystems,omitempty"`
	Systems              []*System  `yaml:"systems,omitempty" json:"systems,omitempty"`
	Links                []*Link    `yaml:"links,omitempty" json:"links,omitempty"`
	Flows                []*Flow    `yaml:"flows,omitempty" json:"flows,omitempty"`
}

// System describes one box in the diagram. Systems nest arbitrarily; the
// id must be unique among siblings and match [a-zA-Z0-9_-]+.
type System struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title,omitempty" json:"title,omitempty"`
	Position    *Position `yaml:"position,omitempty" json:"position,omitempty"`
	HideSystems bool      `yaml:"hideSystems,omitempty" json:"hideSystems,omitempty"`
	Systems     []*System `yaml:"systems,omitempty" json:"systems,omitempty"`
}

// Position is an integer world coordinate relative to the parent system.
type Position struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Link connects two systems, each named by a dotted path from the root
// (e.g. "gateway.auth.tokens").
type Link struct {
	A string `yaml:"a" json:"a"`
	B string `yaml:"b" json:"b"`
}

// Flow is an ordered animation over links.
type Flow struct {
	Steps []*Step `yaml:"steps" json:"steps"`
}

// Step is one stage of a flow. Keyframes are author-assigned integers and
// are normalised to a dense 0..k range during hydration. Links optionally
// pins the traversed links by document index; when absent, the link
// sequence between From and To is discovered automatically.
type Step struct {
	Keyframe int    `yaml:"keyframe" json:"keyframe"`
	From     string `yaml:"from" json:"from"`
	To       string `yaml:"to" json:"to"`
	Links    []int  `yaml:"links,omitempty" json:"links,omitempty"`
}

// Parse decodes a YAML (or JSON - YAML is a superset) document into a Spec
// after checking it against the embedded schema. Structural violations are
// returned as an error; the returned Spec is nil in that case.
func Parse(data []byte) (*Spec, error) {
	if err := ValidateStructure(data); err != nil {
		return nil, err
	}
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode spec: %w", err)
	}
	return &s, nil
}
