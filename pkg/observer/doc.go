// Package observer implements the Observer pattern for workflow execution
// monitoring: register one or more Observer implementations with a
// Manager, and every workflow/node lifecycle Event is fanned out to them
// asynchronously, each in its own goroutine with panic recovery so a
// misbehaving observer can never affect execution.
package observer
