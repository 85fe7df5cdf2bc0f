package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewOutputController_NonInteractiveWhenNotATTY(t *testing.T) {
	var stderr bytes.Buffer
	oc := NewOutputController(Options{Stderr: &stderr})
	if oc.Interactive() {
		t.Error("expected non-interactive when stdin/stdout are nil (not TTYs)")
	}
}

func TestNewOutputController_PrintFlagForcesNonInteractive(t *testing.T) {
	var stderr bytes.Buffer
	oc := NewOutputController(Options{Stderr: &stderr, PrintFlag: true})
	if oc.Interactive() {
		t.Error("expected -p/--print to force non-interactive")
	}
}

func TestNewOutputController_JSONFormatForcesNonInteractive(t *testing.T) {
	var stderr bytes.Buffer
	oc := NewOutputController(Options{Stderr: &stderr, OutputFormat: "json"})
	if oc.Interactive() {
		t.Error("expected output-format=json to force non-interactive")
	}
}

func TestOutputController_ProgressSilentWhenNonInteractive(t *testing.T) {
	var stderr bytes.Buffer
	oc := NewOutputController(Options{Stderr: &stderr})
	progress := oc.Progress()
	progress("node1", "complete", 150, 0)

	if stderr.Len() != 0 {
		t.Errorf("expected no progress output, got %q", stderr.String())
	}
}

func TestOutputController_ErrorAlwaysWritesToStderr(t *testing.T) {
	var stderr bytes.Buffer
	oc := NewOutputController(Options{Stderr: &stderr})
	oc.Error(errNodeFailed)

	if !strings.Contains(stderr.String(), "node failed") {
		t.Errorf("expected error message in stderr, got %q", stderr.String())
	}
}

func TestOutputController_ResultWritesToStdout(t *testing.T) {
	var stdout bytes.Buffer
	oc := &OutputController{Stdout: &stdout, Stderr: &bytes.Buffer{}}
	oc.Result(`{"ok":true}`)

	if strings.TrimSpace(stdout.String()) != `{"ok":true}` {
		t.Errorf("stdout = %q", stdout.String())
	}
}

var errNodeFailed = &simpleError{"node failed"}

type simpleError struct{ msg string }

func (e *simpleError) Error() string { return e.msg }
