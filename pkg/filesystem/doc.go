// Package filesystem provides filesystem implementations for addonc.
//
// The build engine only talks to the FS interface, so the synchronizer and the
// change router can run against the real disk or an in-memory afero tree.
package filesystem
