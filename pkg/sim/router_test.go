package sim

import (
	"testing"

	"github.com/dataflows/flowgrid/pkg/grid"
	"github.com/dataflows/flowgrid/pkg/model"
	"github.com/dataflows/flowgrid/pkg/spec"
)

// tunnelSpec places a white-box container c squarely between a and b so
// that, without port blocking, the cheapest a-b route would be a straight
// tunnel through c's left and right ports. The container's child sits off
// the tunnel row so the interior itself is walkable.
func tunnelSpec(extraLinks ...*spec.Link) *spec.Spec {
	links := []*spec.Link{{A: "a", B: "b"}}
	links = append(links, extraLinks...)
	return &spec.Spec{
		Title: "t",
		Systems: []*spec.System{
			{ID: "a", Position: &spec.Position{X: 0, Y: 0}},
			{ID: "c", Position: &spec.Position{X: 10, Y: 0}, Systems: []*spec.System{
				{ID: "kid", Position: &spec.Position{X: 8, Y: 2}},
			}},
			{ID: "b", Position: &spec.Position{X: 30, Y: 0}},
		},
		Links: links,
	}
}

// forbiddenCells returns the grid cells a foreign route must never enter:
// the system's ports and its box interior.
func forbiddenCells(s *Simulator, st *systemState) map[grid.Point]bool {
	cells := make(map[grid.Point]bool)
	for _, p := range st.ports {
		cells[s.toGrid(p)] = true
	}
	for dx := 0; dx < st.size.Width; dx++ {
		for dy := 0; dy < st.size.Height; dy++ {
			cells[s.toGrid(model.Position{X: st.worldPos.X + dx, Y: st.worldPos.Y + dy})] = true
		}
	}
	return cells
}

func TestRouter_ForeignPortsAvoided(t *testing.T) {
	s := computed(t, tunnelSpec())

	route := s.Route("a", "b")
	if route == nil {
		t.Fatal("no route between a and b")
	}

	c := s.states["c"]
	forbidden := forbiddenCells(s, c)
	for _, cell := range route {
		if forbidden[cell] {
			t.Fatalf("route cell %v tunnels through unrelated system c", cell)
		}
	}

	// The detour around c costs turns; the straight tunnel would have none.
	if countTurns(route) == 0 {
		t.Error("route is a straight line, which is only possible through c")
	}
}

func TestRouter_BlockedWeightsRestored(t *testing.T) {
	s := computed(t, tunnelSpec())

	// c's ports were forced to Infinity while the a-b link routed; after
	// routing they must be back at the walkable port weight.
	for _, p := range s.states["c"].ports {
		gp := s.toGrid(p)
		if w := s.search.Weight(gp); w != 1 {
			t.Errorf("c port %v weight = %v after routing, want 1 (restored)", gp, w)
		}
	}
}

func TestRouter_ForeignPortsUsableByLaterLinks(t *testing.T) {
	// A second link into c's subtree routes after a-b. Its path may use
	// c's ports (c is an ancestor of the endpoint), which only works if
	// the earlier blocking was undone.
	s := computed(t, tunnelSpec(&spec.Link{A: "c.kid", B: "b"}))

	if s.Route("c.kid", "b") == nil {
		t.Fatal("no route between c.kid and b after earlier foreign blocking")
	}

	// The a-b route must still avoid c even with the extra link present.
	route := s.Route("a", "b")
	if route == nil {
		t.Fatal("no route between a and b")
	}
	forbidden := forbiddenCells(s, s.states["c"])
	for _, cell := range route {
		if forbidden[cell] {
			t.Fatalf("route cell %v tunnels through unrelated system c", cell)
		}
	}
}
