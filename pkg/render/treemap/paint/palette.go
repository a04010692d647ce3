package paint

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/codexray/pkg/errors"
)

// DefaultSeed seeds the palette's random source when none is given.
const DefaultSeed uint64 = 42

// Key selects the input a scheme maps to a color.
type Key string

const (
	// KeyRand draws a uniform random value per name.
	KeyRand Key = "rand"
	// KeyDepth uses the node's relative depth in [0, 1].
	KeyDepth Key = "depth"
)

// Scheme is a named interpolator over [0, 1].
type Scheme struct {
	Name   string
	Label  string
	Key    Key
	interp func(t float64) colorful.Color
}

// At returns the scheme's color at t, clamped to the displayable range.
func (s Scheme) At(t float64) color.NRGBA {
	return toNRGBA(s.interp(t))
}

var schemes = []Scheme{
	{Name: "warm", Label: "Leaf default", Key: KeyRand, interp: warm},
	{Name: "YlGnBu", Label: "Inner default", Key: KeyDepth, interp: ramp(ylGnBu)},
	{Name: "orange-depth", Label: "Orange (depth)", Key: KeyDepth, interp: ramp(oranges)},
	{Name: "purple-depth", Label: "Purple (depth)", Key: KeyDepth, interp: ramp(purples)},
	{Name: "viridis-depth", Label: "Viridis (depth)", Key: KeyDepth, interp: ramp(viridis)},
	{Name: "viridis", Label: "Viridis", Key: KeyRand, interp: ramp(viridis)},
	{Name: "rainbow", Label: "Rainbow", Key: KeyRand, interp: rainbow},
}

// Schemes returns the available color schemes in menu order.
func Schemes() []Scheme {
	out := make([]Scheme, len(schemes))
	copy(out, schemes)
	return out
}

// SchemeNames returns the names of all color schemes.
func SchemeNames() []string {
	names := make([]string, len(schemes))
	for i, s := range schemes {
		names[i] = s.Name
	}
	return names
}

// LookupScheme finds a scheme by name.
func LookupScheme(name string) (Scheme, bool) {
	for _, s := range schemes {
		if s.Name == name {
			return s, true
		}
	}
	return Scheme{}, false
}

// Palette assigns colors to boxes. Leaf and inner boxes use separate schemes,
// each with a cache keyed by node name, so a directory keeps its color across
// repaints until its scheme changes. A Palette is safe for concurrent use.
type Palette struct {
	mu         sync.Mutex
	leaf       Scheme
	inner      Scheme
	leafCache  map[string]color.NRGBA
	innerCache map[string]color.NRGBA
	rng        *rand.Rand
	seed       uint64
	generation uint64
}

// NewPalette returns a palette using the named schemes and a random source
// seeded with seed.
func NewPalette(leaf, inner string, seed uint64) (*Palette, error) {
	p := &Palette{
		leafCache:  map[string]color.NRGBA{},
		innerCache: map[string]color.NRGBA{},
		rng:        rand.New(rand.NewPCG(seed, seed)),
		seed:       seed,
	}
	if err := p.SetLeafScheme(leaf); err != nil {
		return nil, err
	}
	if err := p.SetInnerScheme(inner); err != nil {
		return nil, err
	}
	return p, nil
}

// DefaultPalette returns a palette with the default schemes and seed.
func DefaultPalette() *Palette {
	p, _ := NewPalette(DefaultLeafScheme, DefaultInnerScheme, DefaultSeed)
	return p
}

// SetLeafScheme switches the leaf scheme. The leaf cache is cleared even when
// the scheme does not change; the inner cache is left alone.
func (p *Palette) SetLeafScheme(name string) error {
	s, ok := LookupScheme(name)
	if !ok {
		return errors.New(errors.ErrCodeInvalidScheme, "unknown color scheme %q", name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.leaf = s
	clear(p.leafCache)
	p.generation++
	return nil
}

// SetInnerScheme switches the inner scheme and clears only the inner cache.
func (p *Palette) SetInnerScheme(name string) error {
	s, ok := LookupScheme(name)
	if !ok {
		return errors.New(errors.ErrCodeInvalidScheme, "unknown color scheme %q", name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inner = s
	clear(p.innerCache)
	p.generation++
	return nil
}

// Apply switches both schemes when they differ from the current ones. An
// unchanged scheme keeps its cache.
func (p *Palette) Apply(leaf, inner string) error {
	if leaf != p.LeafScheme() {
		if err := p.SetLeafScheme(leaf); err != nil {
			return err
		}
	}
	if inner != p.InnerScheme() {
		return p.SetInnerScheme(inner)
	}
	return nil
}

// LeafScheme returns the name of the leaf scheme.
func (p *Palette) LeafScheme() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.leaf.Name
}

// InnerScheme returns the name of the inner scheme.
func (p *Palette) InnerScheme() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inner.Name
}

// Color returns the fill color for a box. relDepth is the node depth divided
// by the tree's depth levels. The first color computed for a name sticks
// until the cache is cleared, whatever relDepth later calls pass.
func (p *Palette) Color(isLeaf bool, relDepth float64, name string) color.NRGBA {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, cache := p.inner, p.innerCache
	if isLeaf {
		s, cache = p.leaf, p.leafCache
	}
	if c, ok := cache[name]; ok {
		return c
	}

	var t float64
	switch s.Key {
	case KeyRand:
		t = p.rng.Float64()
	case KeyDepth:
		t = relDepth
	}
	c := s.At(t)
	cache[name] = c
	return c
}

// Identity identifies the colors the palette hands out. It changes whenever a
// cache is cleared, so artifacts painted under an older identity are stale.
// New names only extend the caches and leave the identity alone.
func (p *Palette) Identity() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("%s/%s/%d/%d", p.leaf.Name, p.inner.Name, p.seed, p.generation)
}

// Cached returns how many leaf and inner colors are cached.
func (p *Palette) Cached() (leaf, inner int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.leafCache), len(p.innerCache)
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Cubehelix, as popularized by Dave Green's 2011 paper.
const (
	chA = -0.14861
	chB = +1.78277
	chC = -0.29227
	chD = -0.90649
	chE = +1.97294
)

func cubehelix(h, s, l float64) colorful.Color {
	h = (h + 120) * math.Pi / 180
	a := s * l * (1 - l)
	cosh, sinh := math.Cos(h), math.Sin(h)
	return colorful.Color{
		R: l + a*(chA*cosh+chB*sinh),
		G: l + a*(chC*cosh+chD*sinh),
		B: l + a*(chE*cosh),
	}
}

// warm interpolates the long way round from (-100°, 0.75, 0.35) to
// (80°, 1.5, 0.8).
func warm(t float64) colorful.Color {
	t = clamp01(t)
	return cubehelix(-100+180*t, 0.75+0.75*t, 0.35+0.45*t)
}

// rainbow is the cyclical "less angry rainbow".
func rainbow(t float64) colorful.Color {
	if t < 0 || t > 1 {
		t -= math.Floor(t)
	}
	ts := math.Abs(t - 0.5)
	return cubehelix(360*t-100, 1.5-1.5*ts, 0.8-0.9*ts)
}

var (
	ylGnBu  = mustHex("#ffffd9", "#edf8b1", "#c7e9b4", "#7fcdbb", "#41b6c4", "#1d91c0", "#225ea8", "#253494", "#081d58")
	oranges = mustHex("#fff5eb", "#fee6ce", "#fdd0a2", "#fdae6b", "#fd8d3c", "#f16913", "#d94801", "#a63603", "#7f2704")
	purples = mustHex("#fcfbfd", "#efedf5", "#dadaeb", "#bcbddc", "#9e9ac8", "#807dba", "#6a51a3", "#54278f", "#3f007d")
	viridis = mustHex("#440154", "#482475", "#414487", "#355f8d", "#2a788e", "#21918c", "#22a884", "#44bf70", "#7ad151", "#bddf26", "#fde725")
)

// ramp interpolates linearly in RGB between evenly spaced stops.
func ramp(stops []colorful.Color) func(float64) colorful.Color {
	n := len(stops) - 1
	return func(t float64) colorful.Color {
		t = clamp01(t)
		i := min(int(t*float64(n)), n-1)
		return stops[i].BlendRgb(stops[i+1], t*float64(n)-float64(i))
	}
}

func mustHex(hex ...string) []colorful.Color {
	out := make([]colorful.Color, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}

func clamp01(t float64) float64 {
	if math.IsNaN(t) {
		return 0
	}
	return math.Max(0, math.Min(1, t))
}
