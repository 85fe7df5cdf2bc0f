// Command pflow compiles and runs a workflow IR document.
//
// Usage:
//
//	pflow <workflow-file-or-name> [key=value ...]
//	pflow registry list
//	pflow save <file> <name>
//	pflow workflows
//	pflow rm <name>
//	pflow serve-metrics
//
// Flags (must appear before the workflow argument):
//
//	-p, --print              force non-interactive stdout
//	    --output-format      text|json (default text)
//	    --validate-only      compile and validate, then exit without running
//	    --trace              include the full execution trace in output
//	    --verbose            surface node stderr and internal error detail
//	    --timeout duration   ceiling for the whole run (default from config)
//	    --metrics-addr       serve /metrics on this address for the run's duration
//
// Exit codes: 0 success, 1 workflow failure, 2 validation/compilation
// failure, 64 usage error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const (
	exitSuccess  = 0
	exitFailure  = 1
	exitInvalid  = 2
	exitUsageErr = 64
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		return exitUsageErr
	}

	switch args[0] {
	case "registry":
		return runRegistry(args[1:])
	case "save":
		return runSave(args[1:])
	case "workflows":
		return runWorkflows(args[1:])
	case "rm":
		return runRm(args[1:])
	case "serve-metrics":
		return runServeMetrics(args[1:])
	default:
		return runExecute(args)
	}
}

// installSignalHandler returns a context canceled on SIGINT/SIGTERM.
// Cancellation flows into WorkflowExecutor.Run's own ctx.Done() check,
// rather than anything resembling an HTTP server's graceful-shutdown window.
func installSignalHandler(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

const usage = `usage: pflow <workflow-file-or-name> [key=value ...]
       pflow registry list
       pflow save <file> <name>
       pflow workflows
       pflow rm <name>
       pflow serve-metrics`
