package types

import "fmt"

// TreeKind identifies one of the two parallel source/destination tree pairs
type TreeKind int

const (
	// TreeBehavior is the behavior tree (scripts and server-side data)
	TreeBehavior TreeKind = iota

	// TreeResource is the resource tree (textures, models, client data)
	TreeResource
)

// AllTreeKinds returns every tree kind in build order
func AllTreeKinds() []TreeKind {
	return []TreeKind{TreeBehavior, TreeResource}
}

// String returns the human name of the tree kind
func (k TreeKind) String() string {
	switch k {
	case TreeBehavior:
		return "behavior"
	case TreeResource:
		return "resource"
	default:
		return fmt.Sprintf("TreeKind(%d)", int(k))
	}
}

// Abbrev returns the short directory tag used in folder names ("BP" or "RP").
// It returns an empty string for unknown kinds.
func (k TreeKind) Abbrev() string {
	switch k {
	case TreeBehavior:
		return "BP"
	case TreeResource:
		return "RP"
	default:
		return ""
	}
}

// Valid reports whether k is one of the declared tree kinds
func (k TreeKind) Valid() bool {
	return k == TreeBehavior || k == TreeResource
}
