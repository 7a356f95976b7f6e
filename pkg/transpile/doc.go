// Package transpile is the file transpiler adapter of the build engine.
//
// Only files ending in .ts are eligible; everything else bypasses this
// package and is copied verbatim by the synchronizer. Eligible files are
// handed to a pluggable Transpiler together with an opaque dialect string:
//
//   - TypeScript erases type syntax using a tree-sitter parse tree
//   - Script runs a user-supplied Risor script
//   - Cached wraps either with an LRU result cache
//
// A transpile failure never aborts a build. Adapter.Transform reports it as
// an Outcome carrying a one-line diagnostic and the file is left unproduced.
package transpile
