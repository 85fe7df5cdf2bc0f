package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/pflow-dev/pflow/pkg/lifecycle"
)

// OutputController gates progress output on interactivity: in interactive
// mode each node's start/complete is echoed to stderr as it runs; otherwise
// stderr stays silent and only the final result reaches stdout, so piping
// pflow's output into another command (or another pflow invocation) never
// sees progress noise mixed in.
type OutputController struct {
	Stdout io.Writer
	Stderr io.Writer

	interactive bool
}

// Options configures interactivity detection.
type Options struct {
	Stdin        *os.File
	Stdout       *os.File
	Stderr       io.Writer
	PrintFlag    bool   // -p/--print forces non-interactive stdout
	OutputFormat string // "text" or "json"; "json" forces non-interactive
}

// NewOutputController computes interactive = stdin.isTTY() AND
// stdout.isTTY() AND NOT print_flag AND output_format != "json".
func NewOutputController(opts Options) *OutputController {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	interactive := !opts.PrintFlag &&
		opts.OutputFormat != "json" &&
		isTTY(opts.Stdin) &&
		isTTY(opts.Stdout)

	return &OutputController{
		Stdout:      opts.Stdout,
		Stderr:      stderr,
		interactive: interactive,
	}
}

func isTTY(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Interactive reports whether progress lines will be emitted.
func (c *OutputController) Interactive() bool { return c.interactive }

// Progress is a lifecycle.ProgressFunc that renders
// "{indent}{node_id}... <done marker> {duration:.1f}s" to stderr on
// completion, indented two spaces per nested-workflow depth. It is a no-op
// in non-interactive mode.
func (c *OutputController) Progress() lifecycle.ProgressFunc {
	return func(nodeID, phase string, durationMs float64, depth int) {
		if !c.interactive || phase != "complete" {
			return
		}
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(c.Stderr, "%s%s... ✓ %.1fs\n", indent, nodeID, durationMs/1000.0)
	}
}

// Error always writes to stderr regardless of interactivity.
func (c *OutputController) Error(err error) {
	fmt.Fprintf(c.Stderr, "Error: %v\n", err)
}

// Result writes the final rendered output to stdout exclusively.
func (c *OutputController) Result(s string) {
	fmt.Fprintln(c.Stdout, s)
}
