// Package primitives provides the foundational value types shared by the
// accessibility coordinator, store and focus manager.
//
// This package uses ONLY the Go standard library.
//
// Core invariants:
//   - Events are immutable values
//   - State is replaced wholesale, never patched in place (use Clone)
//   - Snapshot versions increase by one per publish
package primitives
