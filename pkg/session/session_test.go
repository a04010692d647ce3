package session

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/codexray/pkg/errors"
	"github.com/matzehuels/codexray/pkg/pipeline"
	"github.com/matzehuels/codexray/pkg/project"
	"github.com/matzehuels/codexray/pkg/render/treemap/layout"
	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
	"github.com/matzehuels/codexray/pkg/stats"
	"github.com/matzehuels/codexray/pkg/tree"
)

func files() []tree.FileEntry {
	return []tree.FileEntry{
		{Name: "main.go", Dir: "cmd", Stats: []stats.Record{{Name: "Go", Code: 120, Files: 1}}},
		{Name: "util.go", Dir: "internal/util", Stats: []stats.Record{{Name: "Go", Code: 300, Files: 1}}},
		{Name: "config.yaml", Dir: "deploy", Stats: []stats.Record{{Name: "YAML", Code: 80, Files: 1}}},
	}
}

func newSession(t *testing.T) *Session {
	t.Helper()
	opts := pipeline.DefaultOptions()
	opts.Width, opts.Height = 640, 360
	opts.Formats = []string{pipeline.FormatSVG}
	sess, err := New(opts, time.Hour)
	require.NoError(t, err)
	return sess
}

func TestNew(t *testing.T) {
	sess := newSession(t)
	_, err := uuid.Parse(sess.ID)
	assert.NoError(t, err)
	assert.False(t, sess.IsExpired())
	assert.Equal(t, []string{pipeline.FormatSVG}, sess.Options().Formats)

	opts := pipeline.DefaultOptions()
	opts.Paint.InnerColor = "nope"
	_, err = New(opts, 0)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidScheme))
}

func TestProjects(t *testing.T) {
	sess := newSession(t)

	name, err := sess.AddProject("api", files())
	require.NoError(t, err)
	assert.Equal(t, "api", name)

	name, err = sess.AddProject("api", files())
	require.NoError(t, err)
	assert.Equal(t, "api-2", name)

	name, err = sess.AddProject("", files())
	require.NoError(t, err)
	assert.Equal(t, project.DefaultName, name)

	_, err = sess.AddProject("a/b", files())
	assert.Error(t, err)

	assert.True(t, sess.RemoveProject("api-2"))
	assert.False(t, sess.RemoveProject("api-2"))
	assert.Equal(t, []string{"api", project.DefaultName}, sess.ProjectNames())

	langs, summary := sess.Languages()
	require.Len(t, langs, 2)
	assert.Equal(t, "Go", langs[0].Name)
	assert.Equal(t, int64(1000), summary.ActiveCode)
}

func TestRenderAndClick(t *testing.T) {
	ctx := context.Background()
	runner := pipeline.NewRunner(nil, nil, nil)
	sess := newSession(t)
	_, err := sess.AddProject("api", files())
	require.NoError(t, err)

	assert.Nil(t, sess.Click(10, 10), "nothing rendered yet")
	assert.False(t, sess.Rendered())

	res, err := sess.Render(ctx, runner)
	require.NoError(t, err)
	assert.Contains(t, res.Artifacts, pipeline.FormatSVG)
	assert.True(t, sess.Rendered())

	// The center of the util box resolves to the util node.
	i := slices.IndexFunc(res.Layout.Boxes, func(b layout.Box) bool { return b.Node.Path == "api/internal/util" })
	require.GreaterOrEqual(t, i, 0)
	x, y := res.Layout.Boxes[i].Rect.Center()
	node := sess.Click(x, y)
	require.NotNil(t, node)
	assert.Equal(t, "api/internal/util", node.Path)

	// Excluding the clicked folder removes it from the next tree.
	assert.True(t, sess.ExcludeFolder(node.Path))
	assert.False(t, sess.Rendered())
	root, err := sess.Tree(ctx, runner)
	require.NoError(t, err)
	assert.Nil(t, root.Find("api/internal/util"))
	assert.Equal(t, int64(200), root.Value)
}

func TestRenderEmptyTree(t *testing.T) {
	ctx := context.Background()
	runner := pipeline.NewRunner(nil, nil, nil)
	sess := newSession(t)
	_, err := sess.AddProject("api", files())
	require.NoError(t, err)
	sess.SetFilter(project.Filter{ExcludedLanguages: []string{"Go", "YAML"}})

	res, err := sess.Render(ctx, runner)
	require.NoError(t, err)
	assert.Empty(t, res.Rects)
	assert.True(t, sess.Rendered(), "an empty render is still a render")
	assert.Nil(t, sess.Click(320, 180))

	sess.SetFilter(project.Filter{})
	assert.False(t, sess.Rendered())
}

func TestRenderFormatsOverride(t *testing.T) {
	sess := newSession(t)
	_, err := sess.AddProject("api", files())
	require.NoError(t, err)

	res, err := sess.Render(context.Background(), pipeline.NewRunner(nil, nil, nil), pipeline.FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, res.Artifacts, pipeline.FormatJSON)
	assert.NotContains(t, res.Artifacts, pipeline.FormatSVG)
}

func TestFilterAndOptions(t *testing.T) {
	ctx := context.Background()
	runner := pipeline.NewRunner(nil, nil, nil)
	sess := newSession(t)
	_, err := sess.AddProject("api", files())
	require.NoError(t, err)

	sess.SetFilter(project.Filter{ExcludedLanguages: []string{"YAML"}})
	f := sess.Filter()
	f.ExcludedLanguages[0] = "Go"
	assert.Equal(t, []string{"YAML"}, sess.Filter().ExcludedLanguages, "Filter returns a copy")

	root, err := sess.Tree(ctx, runner)
	require.NoError(t, err)
	assert.Equal(t, int64(420), root.Value)

	opts := sess.Options()
	opts.KPI = stats.KPIFiles
	require.NoError(t, sess.SetOptions(opts))
	root, err = sess.Tree(ctx, runner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), root.Value)

	opts.Formats = []string{"gif"}
	assert.Error(t, sess.SetOptions(opts))
	assert.Equal(t, stats.KPIFiles, sess.Options().KPI, "rejected options are not applied")
}

func TestPaletteSurvivesRenders(t *testing.T) {
	ctx := context.Background()
	runner := pipeline.NewRunner(nil, nil, nil)
	sess := newSession(t)
	_, err := sess.AddProject("api", files())
	require.NoError(t, err)

	_, err = sess.Render(ctx, runner)
	require.NoError(t, err)
	leaf, _ := sess.palette.Cached()
	require.NotZero(t, leaf)

	// A change of the inner scheme keeps the leaf colors.
	opts := sess.Options()
	opts.Paint.InnerColor = "viridis-depth"
	require.NoError(t, sess.SetOptions(opts))
	_, err = sess.Render(ctx, runner)
	require.NoError(t, err)
	after, _ := sess.palette.Cached()
	assert.Equal(t, leaf, after)
	assert.Equal(t, "viridis-depth", sess.palette.InnerScheme())
	assert.Equal(t, paint.DefaultLeafScheme, sess.palette.LeafScheme())
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewMemoryStore(2)
	require.NoError(t, err)

	a, b, c := newSession(t), newSession(t), newSession(t)
	require.NoError(t, store.Set(ctx, a))
	require.NoError(t, store.Set(ctx, b))

	got, err := store.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)

	// a was used last, so adding c evicts b.
	require.NoError(t, store.Set(ctx, c))
	_, err = store.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, store.Len())

	require.NoError(t, store.Delete(ctx, a.ID))
	_, err = store.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, err := NewMemoryStore(0)
	require.NoError(t, err)

	short, err := New(pipeline.DefaultOptions(), time.Millisecond)
	require.NoError(t, err)
	long := newSession(t)
	require.NoError(t, store.Set(ctx, short))
	require.NoError(t, store.Set(ctx, long))

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.Cleanup(ctx))
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Set(ctx, short))
	_, err = store.Get(ctx, short.ID)
	assert.ErrorIs(t, err, ErrExpired)
	assert.Equal(t, 1, store.Len())
}
