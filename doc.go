// Package appstate provides observable typed state containers for client-side
// ordering consoles. A Store wraps a single root value; mutations replace the
// value through explicit update functions and notify every subscriber
// synchronously before the mutating call returns. Stores are constructed
// explicitly and injected where needed, so tests get a fresh instance each.
//
// A store can be bound to a storage.Adapter: it hydrates from the adapter at
// construction, falling back to the initial value when the snapshot is
// missing or corrupt, and persists after every mutation. Storage failures
// never propagate to mutators; in-memory state always updates.
//
// Domain modules (cart, guest, session, selection, viewport) each own one
// store and expose their mutation API on top of this primitive.
package appstate
