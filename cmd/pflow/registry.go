package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pflow-dev/pflow/pkg/config"
)

// runRegistry handles `pflow registry list`, printing every registered node
// type's metadata (inputs/outputs/actions/params) as a debugging aid over
// the compiler's registry.
func runRegistry(args []string) int {
	if len(args) == 0 || args[0] != "list" {
		fmt.Fprintln(os.Stderr, "usage: pflow registry list")
		return exitUsageErr
	}

	home, err := pflowHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pflow: %v\n", err)
		return exitFailure
	}

	_, meta, err := buildRegistry(home, config.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "pflow: building registry: %v\n", err)
		return exitFailure
	}

	types := make([]string, 0, len(meta))
	for t := range meta {
		types = append(types, t)
	}
	sort.Strings(types)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, t := range types {
		if err := enc.Encode(meta[t]); err != nil {
			fmt.Fprintf(os.Stderr, "pflow: %v\n", err)
			return exitFailure
		}
	}
	return exitSuccess
}
