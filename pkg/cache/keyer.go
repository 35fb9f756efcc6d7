package cache

// StatusKeyOpts identifies one status check.
type StatusKeyOpts struct {
	Owner    string
	Name     string
	Branch   string
	Prefix   string
	Class    string
	Resolver string
}

// Keyer builds cache keys for status reports.
type Keyer interface {
	StatusKey(opts StatusKeyOpts) string
}

// DefaultKeyer hashes every option into the key, so two checks share an
// entry only when they would run the exact same pipeline.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// StatusKey returns "status:<sha256>" for opts.
func (DefaultKeyer) StatusKey(opts StatusKeyOpts) string {
	return hashKey("status", opts.Owner, opts.Name, opts.Branch, opts.Prefix, opts.Class, opts.Resolver)
}

// ScopedKeyer wraps a Keyer with a prefix, for example to separate several
// deployments sharing one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer falls back to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// StatusKey returns the inner key with the prefix prepended.
func (k *ScopedKeyer) StatusKey(opts StatusKeyOpts) string {
	return k.prefix + k.inner.StatusKey(opts)
}
