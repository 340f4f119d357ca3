package cache

// Keyer generates cache keys for the pipeline stages. Each stage keys on the
// hash of its input plus the options that influence its output, so a change
// to either is automatically a fresh key.
type Keyer interface {
	// DeriveKey generates a key for derived graph caching.
	DeriveKey(docHash string, opts DeriveKeyOpts) string

	// LayoutKey generates a key for computed layout caching.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// RenderKey generates a key for rendered artifact caching.
	RenderKey(layoutHash string, format string) string
}

// DeriveKeyOpts carries the derivation options that affect the output graph.
type DeriveKeyOpts struct {
	RootLabel        string `json:"root_label"`
	CollectionsField string `json:"collections_field"`
}

// LayoutKeyOpts carries the spacing configuration that affects positions.
type LayoutKeyOpts struct {
	NodeWidth       float64 `json:"node_width"`
	NodeHeight      float64 `json:"node_height"`
	HorizontalGap   float64 `json:"horizontal_gap"`
	VerticalSpacing float64 `json:"vertical_spacing"`
	CategoryWidth   float64 `json:"category_width"`
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DeriveKey generates a key for derived graph caching.
func (k *DefaultKeyer) DeriveKey(docHash string, opts DeriveKeyOpts) string {
	return hashKey("derive", docHash, opts)
}

// LayoutKey generates a key for computed layout caching.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// RenderKey generates a key for rendered artifact caching.
func (k *DefaultKeyer) RenderKey(layoutHash string, format string) string {
	return hashKey("render", layoutHash, format)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g. one
// namespace per inspection when the server shares a Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DeriveKey generates a prefixed key for derived graph caching.
func (k *ScopedKeyer) DeriveKey(docHash string, opts DeriveKeyOpts) string {
	return k.prefix + k.inner.DeriveKey(docHash, opts)
}

// LayoutKey generates a prefixed key for computed layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// RenderKey generates a prefixed key for rendered artifact caching.
func (k *ScopedKeyer) RenderKey(layoutHash string, format string) string {
	return k.prefix + k.inner.RenderKey(layoutHash, format)
}
