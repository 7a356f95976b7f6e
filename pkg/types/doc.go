// Package types defines the core value types shared by the build engine:
// deployment targets, tree kinds, the project configuration record and the
// filesystem change events consumed by the watch loop.
package types
