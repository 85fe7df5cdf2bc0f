package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pflow-dev/pflow/pkg/cli"
	"github.com/pflow-dev/pflow/pkg/types"
)

// renderResult formats a *types.Result per --output-format. "json" marshals
// the outputs (and, with --trace, the execution trace) as a single JSON
// object; "text" prints one "key: value" line per output, sorted by key,
// plus a trailing trace dump when requested.
func renderResult(result *types.Result, format string, includeTrace bool) string {
	if result == nil {
		return ""
	}

	if format == "json" {
		payload := map[string]any{"outputs": result.Outputs, "succeeded": result.Succeeded}
		if includeTrace {
			payload["trace"] = result.Trace
		}
		raw, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Sprintf(`{"succeeded":false,"error":%q}`, err.Error())
		}
		return string(raw)
	}

	var b strings.Builder
	keys := make([]string, 0, len(result.Outputs))
	for k := range result.Outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, result.Outputs[k])
	}
	if includeTrace {
		for _, rec := range result.Trace {
			fmt.Fprintf(&b, "[trace] %s %s %.1fms\n", rec.NodeID, rec.Action, float64(rec.Duration().Microseconds())/1000.0)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// reportRunError writes a node/runtime execution failure via out.Error as a
// single error line. No title or remediation lines are printed, and verbose
// adds nothing further.
func reportRunError(out *cli.OutputController, err error, verbose bool) {
	out.Error(err)
	if verbose {
		return
	}
}

func reportUserError(w io.Writer, err error, verbose bool) {
	title, explanation, remedies := classifyUserError(err)
	fmt.Fprintf(w, "Error: %s\n", title)
	fmt.Fprintln(w, explanation)
	for _, r := range remedies {
		fmt.Fprintf(w, "  - %s\n", r)
	}
	if verbose {
		fmt.Fprintf(w, "\ndetail: %v\n", err)
	}
}
