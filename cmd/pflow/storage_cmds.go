package main

import (
	"fmt"
	"os"

	"github.com/pflow-dev/pflow/pkg/storage"
)

// runSave handles `pflow save <file> <name>`: validates the file is at
// least well-formed JSON and persists it under PFLOW_HOME/workflows/<name>.json.
func runSave(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: pflow save <file> <name>")
		return exitUsageErr
	}
	file, name := args[0], args[1]

	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pflow: reading %q: %v\n", file, err)
		return exitFailure
	}

	home, err := pflowHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pflow: %v\n", err)
		return exitFailure
	}
	store, err := storage.NewFileStore(home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pflow: %v\n", err)
		return exitFailure
	}

	id, err := store.Save(name, "", data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pflow: saving %q: %v\n", name, err)
		return exitInvalid
	}
	fmt.Printf("saved %q (id %s)\n", name, id)
	return exitSuccess
}

// runWorkflows handles `pflow workflows`, listing every saved workflow name.
func runWorkflows(args []string) int {
	home, err := pflowHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pflow: %v\n", err)
		return exitFailure
	}
	store, err := storage.NewFileStore(home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pflow: %v\n", err)
		return exitFailure
	}

	summaries, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pflow: %v\n", err)
		return exitFailure
	}
	for _, s := range summaries {
		fmt.Printf("%s\t%s\n", s.Name, s.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return exitSuccess
}

// runRm handles `pflow rm <name>`, deleting a saved workflow.
func runRm(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: pflow rm <name>")
		return exitUsageErr
	}
	name := args[0]

	home, err := pflowHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pflow: %v\n", err)
		return exitFailure
	}
	store, err := storage.NewFileStore(home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pflow: %v\n", err)
		return exitFailure
	}

	if err := store.Delete(name); err != nil {
		fmt.Fprintf(os.Stderr, "pflow: removing %q: %v\n", name, err)
		return exitFailure
	}
	fmt.Printf("removed %q\n", name)
	return exitSuccess
}
