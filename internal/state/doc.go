// Package state holds the particle arrays of a run.
//
// Each array lives in a [Cell]. Access goes through short-lived handles:
// any number of [Ref] handles, or exactly one [Mut] handle, may be live for
// a cell at a time. Taking a conflicting handle panics, which turns an
// aliasing bug into an immediate failure instead of silent corruption.
//
//	pos := st.Pos().BorrowMut()
//	defer pos.Release()
//	for i := range pos.Data { ... }
//
// # Thread Safety
//
// Cells are NOT thread-safe. The borrow bookkeeping catches aliasing inside
// one goroutine; it is not a lock.
package state
