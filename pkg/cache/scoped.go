package cache

// ScopedKeyer prefixes every key of an inner Keyer. Runners pair it with a
// Scoped backend (Redis, Mongo) so every entry lands under the namespace
// that the backend's Clear is limited to.
//
//	keyer := cache.NewScopedKeyer(nil, "fiducial:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// Prefix returns the namespace prepended to every key.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

// ArtifactKey returns the inner key with the prefix prepended.
func (k *ScopedKeyer) ArtifactKey(key int, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(key, opts)
}

// KeyerFor returns the keyer matching c: a ScopedKeyer on the backend's
// prefix for Scoped caches, the default keyer otherwise.
func KeyerFor(c Cache) Keyer {
	if s, ok := c.(Scoped); ok && s.Prefix() != "" {
		return NewScopedKeyer(nil, s.Prefix())
	}
	return NewDefaultKeyer()
}
