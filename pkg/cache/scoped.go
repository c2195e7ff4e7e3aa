package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, for
// example when several servers share one Redis instance:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// GasketKey generates a prefixed key for gasket caching.
func (k *ScopedKeyer) GasketKey(opts GasketKeyOpts) string {
	return k.prefix + k.inner.GasketKey(opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(gasketHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(gasketHash, opts)
}
