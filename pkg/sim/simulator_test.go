package sim

import (
	"testing"

	"github.com/dataflows/flowgrid/pkg/errors"
	"github.com/dataflows/flowgrid/pkg/grid"
	"github.com/dataflows/flowgrid/pkg/model"
	"github.com/dataflows/flowgrid/pkg/spec"
)

func loadSpec(t *testing.T, doc *spec.Spec) *model.System {
	t.Helper()
	root, verrs := model.Load(doc)
	if len(verrs) != 0 {
		t.Fatalf("unexpected validation errors: %v", verrs)
	}
	return root
}

func computed(t *testing.T, doc *spec.Spec) *Simulator {
	t.Helper()
	s := New(loadSpec(t, doc))
	if err := s.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return s
}

func twoSiblings() *spec.Spec {
	return &spec.Spec{
		Title: "t",
		Systems: []*spec.System{
			{ID: "foo"},
			{ID: "bar"},
		},
		Links: []*spec.Link{{A: "foo", B: "bar"}},
	}
}

func TestBoxSize(t *testing.T) {
	tests := []struct {
		linkCount int
		want      model.Size
	}{
		{0, model.Size{Width: 3, Height: 3}},
		{4, model.Size{Width: 3, Height: 3}},
		{5, model.Size{Width: 4, Height: 3}},
		{6, model.Size{Width: 3, Height: 3}},
	}
	for _, tt := range tests {
		if got := boxSize(tt.linkCount); got != tt.want {
			t.Errorf("boxSize(%d) = %v, want %v", tt.linkCount, got, tt.want)
		}
	}
}

func TestBoxPorts(t *testing.T) {
	pos := model.Position{X: 1, Y: 1}

	t.Run("FourOrFewerLinks", func(t *testing.T) {
		ports := boxPorts(pos, model.Size{Width: 3, Height: 3}, 2)
		want := []model.Position{
			{X: 2, Y: 0}, // top
			{X: 4, Y: 2}, // right
			{X: 2, Y: 4}, // bottom
			{X: 0, Y: 2}, // left
		}
		if len(ports) != len(want) {
			t.Fatalf("got %d ports, want %d", len(ports), len(want))
		}
		for i := range want {
			if ports[i] != want[i] {
				t.Errorf("ports[%d] = %v, want %v", i, ports[i], want[i])
			}
		}
	})

	t.Run("FiveLinks", func(t *testing.T) {
		size := boxSize(5)
		if size != (model.Size{Width: 4, Height: 3}) {
			t.Fatalf("size = %v, want (4,3)", size)
		}
		ports := boxPorts(pos, size, 5)
		// Left/right mid-edge plus top/bottom pairs on odd columns 1 and 3.
		want := []model.Position{
			{X: 0, Y: 2}, // left
			{X: 5, Y: 2}, // right
			{X: 2, Y: 0}, // top, column 1
			{X: 2, Y: 4}, // bottom, column 1
			{X: 4, Y: 0}, // top, column 3
			{X: 4, Y: 4}, // bottom, column 3
		}
		if len(ports) != len(want) {
			t.Fatalf("got %d ports %v, want %d", len(ports), ports, len(want))
		}
		horizontalEdge := 0
		for i := range want {
			if ports[i] != want[i] {
				t.Errorf("ports[%d] = %v, want %v", i, ports[i], want[i])
			}
			if ports[i].Y == 0 || ports[i].Y == 4 {
				horizontalEdge++
			}
		}
		if horizontalEdge != 4 {
			t.Errorf("horizontal-edge ports = %d, want 4", horizontalEdge)
		}
	})
}

func TestCompute_GridNonNegative(t *testing.T) {
	s := computed(t, twoSiblings())
	b := s.Boundaries()
	if b.Width <= 0 || b.Height <= 0 {
		t.Fatalf("grid dims = %dx%d", b.Width, b.Height)
	}
	if b.MinX+b.TranslateX != 0 || b.MinY+b.TranslateY != 0 {
		t.Errorf("translation does not map origin: %+v", b)
	}
	if got := len(s.Layout()); got != b.Width {
		t.Errorf("layout width = %d, want %d", got, b.Width)
	}
}

func TestCompute_MarginRing(t *testing.T) {
	s := computed(t, twoSiblings())
	foo := s.root.Resolve("foo")

	count := 0
	for _, col := range s.Layout() {
		for _, stack := range col {
			for _, obj := range stack {
				if obj.Type == TypeSystemMargin && obj.System == foo {
					count++
				}
			}
		}
	}
	// 2(w+h+2) for a 3x3 box.
	if count != 16 {
		t.Errorf("margin cells = %d, want 16", count)
	}
}

func TestCompute_StraightRoute(t *testing.T) {
	s := computed(t, twoSiblings())

	route := s.Route("foo", "bar")
	if route == nil {
		t.Fatal("no route between foo and bar")
	}
	manhattan := abs(route[0].X-route[len(route)-1].X) + abs(route[0].Y-route[len(route)-1].Y)
	if len(route) != manhattan+1 {
		t.Errorf("route length = %d, want Manhattan+1 = %d", len(route), manhattan+1)
	}
	if turns := countTurns(route); turns > 1 {
		t.Errorf("turns = %d, want <= 1", turns)
	}

	// Route symmetry.
	rev := s.Route("bar", "foo")
	if len(rev) != len(route) {
		t.Fatalf("reverse route length = %d, want %d", len(rev), len(route))
	}
	for i := range route {
		if rev[len(rev)-1-i] != route[i] {
			t.Fatalf("reverse route is not the reversed forward route")
		}
	}

	// Every routed cell carries a link tile on top.
	for _, p := range route {
		top, ok := Stack(s.cells[p.X][p.Y]).Top()
		if !ok || top.Type != TypeLink {
			t.Errorf("cell %v top = %v, want link tile", p, top.Type)
		}
	}
}

func TestCompute_BlackboxFlags(t *testing.T) {
	s := computed(t, &spec.Spec{
		Title: "t",
		Systems: []*spec.System{
			{ID: "leaf"},
			{ID: "parent", Systems: []*spec.System{{ID: "kid"}}},
			{ID: "opaque", HideSystems: true, Systems: []*spec.System{{ID: "hiddenkid"}}},
		},
	})

	if !s.states["leaf"].blackbox {
		t.Error("leaf should be a black-box")
	}
	if s.states["parent"].blackbox {
		t.Error("container with visible children should be a white-box")
	}
	if !s.states["opaque"].blackbox {
		t.Error("hideSystems container should be a black-box")
	}
	if !s.states["opaque.hiddenkid"].suppressed {
		t.Error("descendant of hideSystems container should be suppressed")
	}

	// Suppressed systems leave no objects on the grid.
	hidden := s.root.Resolve("opaque.hiddenkid")
	for _, col := range s.Layout() {
		for _, stack := range col {
			for _, obj := range stack {
				if obj.System == hidden {
					t.Fatal("suppressed system was painted")
				}
			}
		}
	}
}

func TestCompute_WhiteboxEnclosesChildren(t *testing.T) {
	s := computed(t, &spec.Spec{
		Title: "t",
		Systems: []*spec.System{
			{ID: "parent", Systems: []*spec.System{{ID: "a"}, {ID: "b"}}},
		},
	})

	p := s.states["parent"]
	for _, id := range []string{"parent.a", "parent.b"} {
		c := s.states[id]
		if c.worldPos.X < p.worldPos.X || c.worldPos.Y < p.worldPos.Y {
			t.Errorf("%s at %v escapes parent at %v", id, c.worldPos, p.worldPos)
		}
		if c.worldPos.X+c.size.Width > p.worldPos.X+p.size.Width ||
			c.worldPos.Y+c.size.Height > p.worldPos.Y+p.size.Height {
			t.Errorf("%s extends past parent box", id)
		}
	}

	// White-box interiors stay walkable where no child overlaps.
	if s.states["parent"].blackbox {
		t.Error("parent should be a white-box")
	}
}

func TestCompute_TitleTiles(t *testing.T) {
	s := computed(t, &spec.Spec{
		Title: "t",
		Systems: []*spec.System{
			{ID: "svc", Title: "billing", Systems: []*spec.System{{ID: "db"}}},
		},
	})

	var glyphs []string
	for _, col := range s.Layout() {
		for _, stack := range col {
			for _, obj := range stack {
				if obj.Type == TypeSystemTitle {
					glyphs = append(glyphs, obj.Text)
				}
			}
		}
	}
	// "billing" in 2-char slices.
	joined := ""
	for _, g := range glyphs {
		joined += g
	}
	if joined != "billing" {
		t.Errorf("title glyphs join to %q, want %q", joined, "billing")
	}
	for _, g := range glyphs {
		if len(g) > TitleCharsPerSquare {
			t.Errorf("glyph %q exceeds %d chars", g, TitleCharsPerSquare)
		}
	}
}

func TestCompute_TooLarge(t *testing.T) {
	doc := &spec.Spec{
		Title: "t",
		Systems: []*spec.System{
			{ID: "a", Position: &spec.Position{X: 0, Y: 0}},
			{ID: "b", Position: &spec.Position{X: 200, Y: 0}},
		},
	}
	s := New(loadSpec(t, doc))
	err := s.Compute()
	if err == nil {
		t.Fatal("expected size error")
	}
	if !errors.Is(err, errors.ErrCodeSpecTooLarge) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeSpecTooLarge)
	}
}

func TestCompute_Empty(t *testing.T) {
	s := computed(t, &spec.Spec{Title: "empty"})
	if got := s.Layout(); got != nil {
		t.Errorf("layout = %v, want nil for empty spec", got)
	}
}

func TestCompute_SyncBack(t *testing.T) {
	s := computed(t, twoSiblings())
	foo := s.root.Resolve("foo")
	if foo.Size != (model.Size{Width: 3, Height: 3}) {
		t.Errorf("synced size = %v, want (3,3)", foo.Size)
	}
	if len(foo.Ports) != 4 {
		t.Errorf("synced ports = %d, want 4", len(foo.Ports))
	}
	if foo.AbsPosition == (model.Position{}) {
		t.Error("absolute position was not synced")
	}
}

func TestObjectQueries(t *testing.T) {
	s := computed(t, twoSiblings())
	foo := s.root.Resolve("foo")
	st := s.states["foo"]

	if got := s.SubsystemAt(st.worldPos.X, st.worldPos.Y); got != foo {
		t.Errorf("SubsystemAt box origin = %v, want foo", got)
	}
	if stack := s.ObjectsAt(st.worldPos.X, st.worldPos.Y); len(stack) == 0 {
		t.Error("ObjectsAt box origin returned empty stack")
	}

	route := s.Route("foo", "bar")
	if route == nil {
		t.Fatal("no route")
	}
	mid := route[len(route)/2]
	b := s.Boundaries()
	if got := s.LinkAt(mid.X-b.TranslateX, mid.Y-b.TranslateY); got == nil || got.Index != 0 {
		t.Errorf("LinkAt mid-route = %v, want link 0", got)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func countTurns(path []grid.Point) int {
	turns := 0
	for i := 1; i < len(path)-1; i++ {
		prev, cur, next := path[i-1], path[i], path[i+1]
		if !(prev.Y == cur.Y && cur.Y == next.Y) && !(prev.X == cur.X && cur.X == next.X) {
			turns++
		}
	}
	return turns
}
