// Package player provides read-only playback of flow animations over a
// computed layout.
//
// A Player walks a flow's normalised keyframes and reports which steps,
// links and grid cells are active at the current frame. It never mutates
// the simulator: the grid and routes are consumed as published.
package player

import (
	"github.com/dataflows/flowgrid/pkg/errors"
	"github.com/dataflows/flowgrid/pkg/grid"
	"github.com/dataflows/flowgrid/pkg/model"
	"github.com/dataflows/flowgrid/pkg/sim"
)

// Player steps one flow through its keyframes.
type Player struct {
	flow     *model.Flow
	sim      *sim.Simulator
	keyframe int
	maxFrame int
}

// New creates a player for the given flow over a computed simulator.
// Returns an error when the flow index is out of range for the tree.
func New(root *model.System, s *sim.Simulator, flowIndex int) (*Player, error) {
	if flowIndex < 0 || flowIndex >= len(root.Flows) {
		return nil, errors.New(errors.ErrCodeInvalidFlow, "flow %d does not exist (have %d)", flowIndex, len(root.Flows))
	}
	flow := root.Flows[flowIndex]

	maxFrame := 0
	for _, step := range flow.Steps {
		if step.Keyframe > maxFrame {
			maxFrame = step.Keyframe
		}
	}
	return &Player{flow: flow, sim: s, maxFrame: maxFrame}, nil
}

// Keyframe returns the current frame, in the dense 0..MaxKeyframe range.
func (p *Player) Keyframe() int { return p.keyframe }

// MaxKeyframe returns the highest normalised keyframe of the flow.
func (p *Player) MaxKeyframe() int { return p.maxFrame }

// Advance moves to the next keyframe, wrapping back to zero after the
// last frame.
func (p *Player) Advance() {
	p.keyframe++
	if p.keyframe > p.maxFrame {
		p.keyframe = 0
	}
}

// Seek jumps to the given keyframe, clamping into the valid range.
func (p *Player) Seek(keyframe int) {
	switch {
	case keyframe < 0:
		p.keyframe = 0
	case keyframe > p.maxFrame:
		p.keyframe = p.maxFrame
	default:
		p.keyframe = keyframe
	}
}

// ActiveSteps returns the flow steps scheduled on the current keyframe.
func (p *Player) ActiveSteps() []*model.FlowStep {
	var out []*model.FlowStep
	for _, step := range p.flow.Steps {
		if step.Keyframe == p.keyframe {
			out = append(out, step)
		}
	}
	return out
}

// ActiveLinks returns the links traversed by the current keyframe's steps,
// in step order.
func (p *Player) ActiveLinks() []*model.Link {
	var out []*model.Link
	for _, step := range p.ActiveSteps() {
		out = append(out, step.Links...)
	}
	return out
}

// ActiveCells returns the grid cells lit by the current keyframe: the
// concatenated routes of every active link, oriented in travel direction.
// Links without a computed route contribute nothing.
func (p *Player) ActiveCells() []grid.Point {
	var out []grid.Point
	for _, step := range p.ActiveSteps() {
		out = append(out, p.stepCells(step)...)
	}
	return out
}

// stepCells walks a step's link chain and concatenates the per-link
// routes, orienting each leg away from the previous hop.
func (p *Player) stepCells(step *model.FlowStep) []grid.Point {
	if step.SystemFrom == nil || step.SystemTo == nil {
		return nil
	}
	cur := step.SystemFrom.CanonicalID
	var out []grid.Point
	for _, l := range step.Links {
		if !l.Resolved() {
			return out
		}
		next := l.SystemB.CanonicalID
		if next == cur {
			next = l.SystemA.CanonicalID
		}
		out = append(out, p.sim.Route(cur, next)...)
		cur = next
	}
	return out
}
