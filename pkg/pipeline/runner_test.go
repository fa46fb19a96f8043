package pipeline

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataflows/flowgrid/pkg/cache"
	"github.com/dataflows/flowgrid/pkg/sim"
)

var sampleSpec = []byte(`
specificationVersion: "1.0.0"
title: Shop
systems:
  - id: web
  - id: api
  - id: db
links:
  - a: web
    b: api
  - a: api
    b: db
`)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	result, err := r.Execute(context.Background(), sampleSpec, Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Stats.SystemCount)
	assert.Equal(t, 2, result.Stats.LinkCount)
	assert.Empty(t, result.Errors)
	assert.False(t, result.CacheInfo.LayoutHit)
	assert.Greater(t, result.Layout.Boundaries.Width, 0)
	assert.NotEmpty(t, result.Layout.Routes["web"]["api"])
}

func TestExecute_StructuralFailure(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	_, err := r.Execute(context.Background(), []byte(`{"title": 42}`), Options{})
	require.Error(t, err)
}

func TestExecute_SemanticErrorsDoNotAbort(t *testing.T) {
	doc := []byte(`
specificationVersion: "1.0.0"
title: Broken
systems:
  - id: a
links:
  - a: a
    b: ghost
`)
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	result, err := r.Execute(context.Background(), doc, Options{})
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "missing", result.Errors[0].Message)
	assert.Equal(t, "/links/0/b", result.Errors[0].Path)
}

func TestExecute_LayoutCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(c, nil, quietLogger())
	defer r.Close()

	ctx := context.Background()
	first, err := r.Execute(ctx, sampleSpec, Options{})
	require.NoError(t, err)
	assert.False(t, first.CacheInfo.LayoutHit)

	second, err := r.Execute(ctx, sampleSpec, Options{})
	require.NoError(t, err)
	assert.True(t, second.CacheInfo.LayoutHit)
	assert.Equal(t, first.Layout.Boundaries, second.Layout.Boundaries)

	// Refresh bypasses the cache.
	third, err := r.Execute(ctx, sampleSpec, Options{Refresh: true})
	require.NoError(t, err)
	assert.False(t, third.CacheInfo.LayoutHit)
}

func TestExecute_Deterministic(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	ctx := context.Background()
	a, err := r.Execute(ctx, sampleSpec, Options{})
	require.NoError(t, err)
	b, err := r.Execute(ctx, sampleSpec, Options{})
	require.NoError(t, err)

	aJSON, err := sim.MarshalLayout(a.Layout)
	require.NoError(t, err)
	bJSON, err := sim.MarshalLayout(b.Layout)
	require.NoError(t, err)
	assert.Equal(t, aJSON, bJSON, "same input must produce byte-identical layouts")
}

func TestOptions_Defaults(t *testing.T) {
	var o Options
	require.NoError(t, o.ValidateAndSetDefaults())
	assert.Equal(t, 1.0, o.TurnPenalty)
	assert.Equal(t, 1.0, o.HeuristicWeight)
	assert.NotNil(t, o.Logger)
}
