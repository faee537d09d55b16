package scanpack

// ProgressFunc receives a statistics snapshot after every accepted file
// and after every chunk write. Callbacks run synchronously on the
// builder's goroutine; keep them cheap. Deduplicating repeated
// snapshots (the totals only move when a chunk is written) is the
// callback's concern.
type ProgressFunc func(Stats)
