// Package watch turns filesystem change events into the smallest correct
// set of destination updates.
//
// The Router handles one event at a time: a removed source removes its
// destination image, a changed file is recompiled on its own, and a changed
// directory is fully resynchronized. Events outside every source root are
// ignored. The Watcher feeds the router from fsnotify.
package watch
