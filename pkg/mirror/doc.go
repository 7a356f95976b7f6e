// Package mirror implements the tree synchronizer.
//
// A synchronization pass clears a destination subtree and rebuilds it from
// the matching source subtree: script sources go through the transpile
// adapter, every other file is copied byte-for-byte. There is no diffing;
// every pass rewrites every file it covers.
//
// Directory walking happens in the caller's goroutine. File work is fanned
// out to a bounded errgroup that the pass joins before it reports its file
// count, so a pass never returns with writes still in flight. Each source
// file maps to exactly one destination path, so tasks never write the same
// file.
package mirror
