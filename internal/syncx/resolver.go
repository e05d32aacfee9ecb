package syncx

// ShouldApply is the conflict resolver: it decides whether an incoming
// version of a row supersedes the stored one.
//
//   - No stored row: apply unconditionally (first write).
//   - Stored row present: apply only if the incoming updated_at is strictly
//     greater. On a tie, or when the incoming version is older, the stored
//     row wins and the incoming one is discarded entirely.
//
// Discarding is expected steady-state behavior under last-write-wins, not a
// fault. The strict comparison also makes re-pushing an already-applied
// batch a no-op, which is what lets failed sessions retry safely.
//
// ShouldApply is a pure function; within a batch, callers evaluate rows in
// the order given, each call seeing the effect of earlier applications.
func ShouldApply(incoming *Meta, stored *Meta) bool {
	if stored == nil {
		return true
	}
	return incoming.UpdatedAt.After(stored.UpdatedAt)
}
