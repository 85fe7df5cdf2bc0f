package nodes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pflow-dev/pflow/pkg/registry"
	"github.com/pflow-dev/pflow/pkg/types"
)

// shellPrep carries the resolved command line and stdin through to Exec.
type shellPrep struct {
	command string
	stdin   string
}

// Shell runs params.command via os/exec, feeding params.stdin (if present) to
// the child process's stdin. A string stdin param is passed through as-is;
// any other resolved type (object, array, number) is JSON-encoded first, so
// a templated object param reaches the child as the same JSON bytes a caller
// would have piped in by hand. Output stdout is captured as output "stdout"
// and the process exit code as "exit_code". stderr is captured separately
// and only surfaced (as output "stderr") when the reserved __verbose__ flag
// is set; by default it is discarded to keep node output predictable.
type Shell struct{ registry.NoFallback }

func (Shell) Prep(nc registry.NodeContext) (any, error) {
	command, ok := nc.Params["command"].(string)
	if !ok || strings.TrimSpace(command) == "" {
		return nil, fmt.Errorf("shell node %q missing params.command", nc.Node.ID)
	}

	var stdin string
	switch v := nc.Params["stdin"].(type) {
	case nil:
	case string:
		stdin = v
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("shell node %q: marshaling stdin: %w", nc.Node.ID, err)
		}
		stdin = string(raw)
	}
	return shellPrep{command: command, stdin: stdin}, nil
}

func (Shell) Exec(nc registry.NodeContext, prepData any) (any, error) {
	p := prepData.(shellPrep)

	cmd := exec.CommandContext(nc.Ctx, "sh", "-c", p.command)
	if p.stdin != "" {
		cmd.Stdin = strings.NewReader(p.stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(runErr, &exitErr):
			exitCode = exitErr.ExitCode()
		case nc.Ctx.Err() != nil:
			return nil, fmt.Errorf("shell node %q: %w", nc.Node.ID, nc.Ctx.Err())
		default:
			return nil, fmt.Errorf("shell node %q: %w", nc.Node.ID, runErr)
		}
	}

	return map[string]any{
		"stdout":    stdout.String(),
		"stderr":    stderr.String(),
		"exit_code": exitCode,
	}, nil
}

func (Shell) Post(nc registry.NodeContext, prepData, execResult any) (string, error) {
	res := execResult.(map[string]any)
	nc.Store.Set("stdout", res["stdout"])
	nc.Store.Set("exit_code", res["exit_code"])

	if verbose, _ := nc.Store.Get("__verbose__"); verbose == true {
		nc.Store.Set("stderr", res["stderr"])
	}

	if res["exit_code"].(int) != 0 {
		return types.ErrorAction, nil
	}
	return types.DefaultAction, nil
}

func (Shell) Meta() types.NodeMeta {
	return types.NodeMeta{
		Type: "shell",
		Params: []types.ParamSpec{
			{Key: "command", Required: true},
			{Key: "stdin", Required: false},
		},
		Outputs: []types.FieldSpec{
			{Key: "stdout", Type: types.ValueString},
			{Key: "exit_code", Type: types.ValueInt},
			{Key: "stderr", Type: types.ValueString},
		},
	}
}
