// Package registry implements the IP record lifecycle engine and its durable
// JSON document store.
//
// The engine performs a full load-modify-save cycle against the store on
// every mutating operation. The durable document has no built-in locking, so
// the engine serializes all mutations behind a single mutex; this is a
// correctness requirement, not an optimization. Without it two concurrent
// registrations of the same content could both miss the duplicate check, and
// concurrent transfers could lose updates to last-write-wins on the whole
// document.
//
// The store writes via temp-file-and-rename, so read-only operations always
// observe a consistent snapshot and run without taking the mutex.
package registry
