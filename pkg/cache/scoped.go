package cache

// ScopedKeyer prefixes every key of an inner Keyer, e.g. to keep one
// server's sessions apart from another's in a shared Redis:
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "drivetrain:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, which defaults to the standard keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) SceneKey(definitionHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(definitionHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}

func (k *ScopedKeyer) SessionKey(id string) string {
	return k.prefix + k.inner.SessionKey(id)
}
