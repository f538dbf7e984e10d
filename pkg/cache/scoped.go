package cache

// ScopedKeyer prefixes every key produced by an inner [Keyer].
//
// Artifacts depend on the catalog that produced the plan, so the server
// scopes keys by catalog digest; reloading a different catalog into a shared
// Redis never serves stale composites:
//
//	keyer := cache.NewScopedKeyer(nil, "catalog:"+digest[:12]+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (default keyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(planHash, opts)
}

func (k *ScopedKeyer) AssetKey(url string) string {
	return k.prefix + k.inner.AssetKey(url)
}
