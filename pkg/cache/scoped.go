package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Useful on the server, where different users or workspaces need separate
// cache namespaces over one shared backend.
//
// Example usage:
//
//	// Workspace-specific keys for private mindmaps
//	wsKeyer := NewScopedKeyer(NewDefaultKeyer(), "ws:abc123:")
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// DocumentKey generates a prefixed key for document conversion caching.
func (k *ScopedKeyer) DocumentKey(contentHash, format string) string {
	return k.prefix + k.inner.DocumentKey(contentHash, format)
}
