package spec

import (
	"strings"
	"testing"

	"github.com/dataflows/flowgrid/pkg/errors"
)

const validDoc = `
specificationVersion: "1.0.0"
title: Payment platform
systems:
  - id: gateway
    title: "API\nGateway"
    position: { x: 0, y: 0 }
    systems:
      - id: auth
  - id: ledger
    hideSystems: true
links:
  - a: gateway.auth
    b: ledger
flows:
  - steps:
      - keyframe: 0
        from: gateway.auth
        to: ledger
`

func TestParse_Valid(t *testing.T) {
	s, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Title != "Payment platform" {
		t.Errorf("Title = %q", s.Title)
	}
	if len(s.Systems) != 2 || len(s.Links) != 1 || len(s.Flows) != 1 {
		t.Errorf("systems=%d links=%d flows=%d, want 2/1/1", len(s.Systems), len(s.Links), len(s.Flows))
	}
	gw := s.Systems[0]
	if gw.Position == nil || gw.Position.X != 0 {
		t.Errorf("gateway position = %v", gw.Position)
	}
	if !strings.Contains(gw.Title, "\n") {
		t.Error("multi-line title lost")
	}
	if !s.Systems[1].HideSystems {
		t.Error("hideSystems flag lost")
	}
}

func TestParse_JSONInput(t *testing.T) {
	doc := `{"specificationVersion": "1.0.0", "title": "x", "systems": [{"id": "a"}]}`
	s, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse JSON: %v", err)
	}
	if s.Systems[0].ID != "a" {
		t.Errorf("id = %q, want a", s.Systems[0].ID)
	}
}

func TestValidateStructure_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"MissingTitle", `{"specificationVersion": "1.0.0"}`},
		{"BadIDPattern", `{"specificationVersion": "1.0.0", "title": "x", "systems": [{"id": "a b"}]}`},
		{"UnknownKey", `{"specificationVersion": "1.0.0", "title": "x", "color": "red"}`},
		{"LinkWithoutB", `{"specificationVersion": "1.0.0", "title": "x", "links": [{"a": "p"}]}`},
		{"StepWithoutKeyframe", `{"specificationVersion": "1.0.0", "title": "x", "flows": [{"steps": [{"from": "a", "to": "b"}]}]}`},
		{"PositionNotInteger", `{"specificationVersion": "1.0.0", "title": "x", "systems": [{"id": "a", "position": {"x": 1.5, "y": 0}}]}`},
		{"Empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStructure([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected structural error")
			}
		})
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("title: [unclosed"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFormat)
	}
}
