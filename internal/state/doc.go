// Package state holds the slice of the document tree a UI is showing and
// keeps it consistent with storage.
//
// Every mutating command validates its input, calls the storage engine and,
// once the engine call succeeds, reloads the current folder in full. The
// displayed contents are therefore always a fresh read, never a local patch.
// Subscribers registered with Store.Subscribe receive a Snapshot after every
// state change.
package state
