package cli

import (
	"strings"
	"testing"

	"github.com/dataflows/flowgrid/pkg/model"
	"github.com/dataflows/flowgrid/pkg/sim"
	"github.com/dataflows/flowgrid/pkg/spec"
)

func TestPad(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"", 2, "  "},
		{"a", 2, "a "},
		{"ab", 2, "ab"},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := pad(tt.in, tt.width); got != tt.want {
			t.Errorf("pad(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestRenderGrid(t *testing.T) {
	root, verrs := model.Load(&spec.Spec{
		Title:   "t",
		Systems: []*spec.System{{ID: "a"}, {ID: "b"}},
		Links:   []*spec.Link{{A: "a", B: "b"}},
	})
	if len(verrs) != 0 {
		t.Fatalf("validation errors: %v", verrs)
	}
	s := sim.New(root)
	if err := s.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}

	out := renderGrid(s, nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != s.Boundaries().Height {
		t.Errorf("rendered %d lines, want %d", len(lines), s.Boundaries().Height)
	}
	if !strings.Contains(out, "█") {
		t.Error("black-box tiles missing from output")
	}
	if !strings.Contains(out, "─") {
		t.Error("link tiles missing from output")
	}
}

func TestRenderGrid_Empty(t *testing.T) {
	root, _ := model.Load(&spec.Spec{Title: "t"})
	s := sim.New(root)
	if err := s.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if out := renderGrid(s, nil); out == "" {
		t.Error("empty diagram should still produce a placeholder")
	}
}
