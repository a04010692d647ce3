// Package session holds the state of interactive treemap sessions.
//
// A session exclusively owns everything that survives between two renders:
// the loaded projects, the filter, the pipeline options, the palette with
// its color caches, and the hit rectangles of the last paint. Every
// operation takes the session lock, so renders of one session are
// serialized while separate sessions run independently.
//
// # Usage
//
//	store, _ := session.NewMemoryStore(session.DefaultLimit)
//	sess, _ := session.New(pipeline.DefaultOptions(), session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess.AddProject("api", files)
//	result, err := sess.Render(ctx, runner)
//	node := sess.Click(x, y)
//	sess.ExcludeFolder(node.Path)
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/codexray/pkg/cache"
	"github.com/matzehuels/codexray/pkg/pipeline"
	"github.com/matzehuels/codexray/pkg/project"
	"github.com/matzehuels/codexray/pkg/render/treemap/hit"
	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
	"github.com/matzehuels/codexray/pkg/stats"
	"github.com/matzehuels/codexray/pkg/tree"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// DefaultTTL is how long an idle session lives.
const DefaultTTL = 2 * time.Hour

// Session is one user's interactive treemap.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	ttl       time.Duration
	expiresAt time.Time
	projects  project.Set
	filter    project.Filter
	options   pipeline.Options
	palette   *paint.Palette

	// Derived state, reset when an input changes.
	root     *tree.Node
	rects    []paint.HitRect
	rendered bool
}

// New creates a session with the given options and a fresh palette.
func New(opts pipeline.Options, ttl time.Duration) (*Session, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	palette, err := opts.NewPalette()
	if err != nil {
		return nil, err
	}
	opts.Logger = nil // the runner's logger applies
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ttl:       ttl,
		expiresAt: now.Add(ttl),
		options:   opts,
		palette:   palette,
	}, nil
}

// IsExpired returns true if the session has been idle longer than its TTL.
func (s *Session) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Now().After(s.expiresAt)
}

// touch extends the session's lifetime. Callers hold the lock.
func (s *Session) touch() {
	s.expiresAt = time.Now().Add(s.ttl)
}

// invalidate drops the derived tree and hit rectangles. Callers hold the
// lock.
func (s *Session) invalidate() {
	s.root = nil
	s.rects = nil
	s.rendered = false
}

// Keyer scopes cache keys to this session, whose palette history is its
// own.
func (s *Session) Keyer(inner cache.Keyer) cache.Keyer {
	return cache.NewScopedKeyer(inner, "session:"+s.ID)
}

// =============================================================================
// Projects
// =============================================================================

// AddProject loads files as a new project and returns its final name,
// which differs from name when name is already taken.
func (s *Session) AddProject(name string, files []tree.FileEntry) (string, error) {
	if name == "" {
		name = project.DefaultName
	}
	p, err := project.New(name, files)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.invalidate()
	return s.projects.Add(p), nil
}

// RemoveProject unloads the named project.
func (s *Session) RemoveProject(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if !s.projects.Remove(name) {
		return false
	}
	s.invalidate()
	return true
}

// ProjectNames lists the loaded projects in load order.
func (s *Session) ProjectNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects.Names()
}

// Languages returns the merged language totals of all projects together
// with the split by the current filter.
func (s *Session) Languages() ([]stats.Record, project.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	langs := s.projects.Languages()
	return langs, project.Summarize(langs, s.filter)
}

// =============================================================================
// Filter and Options
// =============================================================================

// Filter returns a copy of the current filter.
func (s *Session) Filter() project.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.Clone()
}

// SetFilter replaces the filter.
func (s *Session) SetFilter(f project.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.filter = f.Clone()
	s.invalidate()
}

// ExcludeFolder adds a node path to the folder exclusions. It reports
// whether the filter changed.
func (s *Session) ExcludeFolder(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if !s.filter.ExcludeFolder(path) {
		return false
	}
	s.invalidate()
	return true
}

// Options returns the current pipeline options.
func (s *Session) Options() pipeline.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

// SetOptions validates and replaces the options. Color scheme changes take
// effect on the palette at the next render; the seed is fixed at creation.
func (s *Session) SetOptions(opts pipeline.Options) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if opts.KPI != s.options.KPI || opts.Collapse != s.options.Collapse || opts.ContainerName != s.options.ContainerName {
		s.root = nil
	}
	s.rects = nil
	s.rendered = false
	opts.Logger = nil
	s.options = opts
	return nil
}

// =============================================================================
// Pipeline
// =============================================================================

// Tree returns the annotated tree for the current inputs, building it
// when needed.
func (s *Session) Tree(ctx context.Context, r *pipeline.Runner) (*tree.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.tree(ctx, r)
}

func (s *Session) tree(ctx context.Context, r *pipeline.Runner) (*tree.Node, error) {
	if s.root != nil {
		return s.root, nil
	}
	root, err := r.Build(ctx, s.projects.Projects(), s.filter, s.options)
	if err != nil {
		return nil, err
	}
	s.root = root
	return root, nil
}

// Render builds the tree if needed and renders it in formats, or in the
// session's formats when none are given. The hit rectangles of the paint
// replace the previous ones.
func (s *Session) Render(ctx context.Context, r *pipeline.Runner, formats ...string) (*pipeline.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	root, err := s.tree(ctx, r)
	if err != nil {
		return nil, err
	}
	opts := s.options
	if len(formats) > 0 {
		opts.Formats = formats
	}
	res, err := r.WithKeyer(s.Keyer(r.Keyer)).Render(ctx, root, opts, s.palette)
	if err != nil {
		return nil, err
	}
	s.rects = res.Rects
	s.rendered = true
	return res, nil
}

// Click returns the node under canvas point (x, y) of the last render, or
// nil when nothing was rendered or the point misses every box.
func (s *Session) Click(x, y float64) *tree.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return hit.Find(s.rects, x, y)
}

// Rendered reports whether the current inputs were rendered. A render of
// an empty tree counts even though it leaves no hit rectangles.
func (s *Session) Rendered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rendered
}

// =============================================================================
// Store
// =============================================================================

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, ErrNotFound if the session doesn't exist.
	// Returns nil, ErrExpired if the session exists but has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}
