package types

// ProjectConfig is the immutable project description the engine works from.
// A tree is enabled when its path is non-empty; the path is relative to the
// project directory.
type ProjectConfig struct {
	ProjectName  string
	BehaviorPath string
	ResourcePath string
}

// TreePath returns the configured source path for a tree kind
func (c ProjectConfig) TreePath(kind TreeKind) string {
	switch kind {
	case TreeBehavior:
		return c.BehaviorPath
	case TreeResource:
		return c.ResourcePath
	default:
		return ""
	}
}

// TreeEnabled reports whether the tree of the given kind takes part in builds
func (c ProjectConfig) TreeEnabled(kind TreeKind) bool {
	return c.TreePath(kind) != ""
}

// EnabledTrees returns the enabled tree kinds in build order
func (c ProjectConfig) EnabledTrees() []TreeKind {
	var kinds []TreeKind
	for _, kind := range AllTreeKinds() {
		if c.TreeEnabled(kind) {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}
