package types

import "fmt"

// ChangeKind is the coarse kind of a filesystem change
type ChangeKind int

const (
	ChangeCreated ChangeKind = iota
	ChangeModified
	ChangeRemoved
)

func (c ChangeKind) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeModified:
		return "modified"
	case ChangeRemoved:
		return "removed"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(c))
	}
}

// ChangeEvent is a single filesystem change delivered to the watch loop.
// IsDir is only a hint taken when the event was observed; removal events
// in particular carry no reliable type information.
type ChangeEvent struct {
	Path  string
	Kind  ChangeKind
	IsDir bool
}
