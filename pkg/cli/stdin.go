package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/pflow-dev/pflow/pkg/types"
)

// StdinRouter routes piped stdin into the one declared workflow input with
// stdin=true, without blocking when stdin is a TTY or an idle socket.
type StdinRouter struct{}

// NewStdinRouter constructs a StdinRouter.
func NewStdinRouter() *StdinRouter { return &StdinRouter{} }

// Route resolves the final input set: cliInputs plus, if stdin carried data
// and no CLI value already claims the target key, the piped bytes under the
// IR's unique stdin=true input. CLI values always win over piped data.
func (StdinRouter) Route(wf *types.Workflow, cliInputs map[string]any, stdin *os.File) (map[string]any, error) {
	target := stdinTargetInput(wf)

	piped, data, err := readIfPiped(stdin)
	if err != nil {
		return nil, fmt.Errorf("cli: reading stdin: %w", err)
	}
	if !piped {
		return cliInputs, nil
	}
	if target == "" {
		return nil, ErrNoStdinTarget
	}

	resolved := make(map[string]any, len(cliInputs)+1)
	for k, v := range cliInputs {
		resolved[k] = v
	}
	if _, explicit := resolved[target]; !explicit {
		resolved[target] = string(data)
	}
	return resolved, nil
}

// stdinTargetInput returns the name of wf's unique stdin=true input, or ""
// if none is declared. The compiler already rejects more than one.
func stdinTargetInput(wf *types.Workflow) string {
	for name, spec := range wf.Inputs {
		if spec.Stdin {
			return name
		}
	}
	return ""
}

// readIfPiped distinguishes a real pipe (FIFO, safe to block-read in full)
// from a TTY (never read) from a socket or other non-regular stdin (probed
// once, non-blockingly, so an idle embedded caller never hangs).
func readIfPiped(f *os.File) (bool, []byte, error) {
	if f == nil {
		return false, nil, nil
	}

	info, err := f.Stat()
	if err != nil {
		return false, nil, err
	}

	if info.Mode()&os.ModeNamedPipe != 0 {
		data, err := io.ReadAll(f)
		return len(data) > 0, data, err
	}

	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return false, nil, nil
	}

	return probeSocket(f)
}

// probeSocket performs a single non-blocking readiness check (timeout=0):
// data already buffered on the descriptor is consumed and the rest of the
// stream is drained; nothing pending within the window means "not piped".
// The probing goroutine is intentionally not joined on the not-ready path:
// it either returns immediately or is abandoned blocked on a Read nobody
// will service again, which is harmless for a one-shot CLI process.
func probeSocket(f *os.File) (bool, []byte, error) {
	type probeResult struct {
		n   int
		buf []byte
		err error
	}
	ready := make(chan probeResult, 1)
	go func() {
		buf := make([]byte, 64*1024)
		n, err := f.Read(buf)
		ready <- probeResult{n: n, buf: buf, err: err}
	}()

	select {
	case res := <-ready:
		if res.err != nil && res.err != io.EOF {
			return false, nil, res.err
		}
		if res.n == 0 {
			return false, nil, nil
		}
		rest, err := io.ReadAll(f)
		if err != nil {
			return false, nil, err
		}
		return true, append(res.buf[:res.n], rest...), nil
	case <-time.After(0):
		return false, nil, nil
	}
}
