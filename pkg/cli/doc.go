// Package cli implements the Stdin Router & Output Controller (C7): the
// CLI-boundary glue that routes piped input into the one workflow input
// declared stdin=true, and gates progress output on TTY/mode so a piped or
// scripted invocation gets clean stdout with no progress contamination.
package cli
