package cache

// Keyer generates cache keys.
type Keyer interface {
	// TreeKey addresses a tree built from input with the given hash.
	TreeKey(inputHash string, opts TreeKeyOpts) string
	// ArtifactKey addresses one rendered output of a tree.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string
}

// TreeKeyOpts holds the build settings that change a tree.
type TreeKeyOpts struct {
	KPI        string `json:"kpi"`
	Collapse   bool   `json:"collapse"`
	FilterHash string `json:"filter_hash,omitempty"`
}

// ArtifactKeyOpts holds the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Paint   string  `json:"paint"`
	Palette string  `json:"palette"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key generator.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TreeKey returns "tree:<hash>".
func (DefaultKeyer) TreeKey(inputHash string, opts TreeKeyOpts) string {
	return hashKey("tree", inputHash, opts)
}

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, treeHash, opts)
}

var _ Keyer = DefaultKeyer{}
