// Package lifecycle implements the Node Lifecycle Runtime (C4): running one
// node through prep -> exec (with retry/backoff) -> fallback -> post,
// wrapped outside-in by instrumentation, namespacing, template resolution,
// and progress-callback decorators.
//
// Retries use a fixed backoff loop; the timeout path runs exec in a
// goroutine and selects on a buffered result channel against the timeout
// and ctx.Done(), so a timed-out attempt is abandoned rather than joined.
package lifecycle
