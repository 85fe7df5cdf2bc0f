package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pflow-dev/pflow/pkg/cli"
	"github.com/pflow-dev/pflow/pkg/compiler"
	"github.com/pflow-dev/pflow/pkg/config"
	"github.com/pflow-dev/pflow/pkg/executor"
	"github.com/pflow-dev/pflow/pkg/lifecycle"
	"github.com/pflow-dev/pflow/pkg/logging"
	"github.com/pflow-dev/pflow/pkg/observer"
	"github.com/pflow-dev/pflow/pkg/storage"
	"github.com/pflow-dev/pflow/pkg/telemetry"
	"github.com/pflow-dev/pflow/pkg/template"
)

func runExecute(args []string) int {
	fs := flag.NewFlagSet("pflow", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	printFlag := fs.Bool("print", false, "force non-interactive stdout")
	fs.BoolVar(printFlag, "p", false, "force non-interactive stdout (shorthand)")
	outputFormat := fs.String("output-format", "text", "text|json")
	validateOnly := fs.Bool("validate-only", false, "compile and validate, then exit")
	traceFlag := fs.Bool("trace", false, "include the full execution trace in output")
	verbose := fs.Bool("verbose", false, "surface node stderr and internal error detail")
	timeoutFlag := fs.Duration("timeout", 0, "ceiling for the whole run")
	metricsAddr := fs.String("metrics-addr", os.Getenv("PFLOW_METRICS_ADDR"), "serve /metrics on this address for the run's duration (optional)")

	if err := fs.Parse(args); err != nil {
		return exitUsageErr
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		return exitUsageErr
	}
	ref, paramArgs := rest[0], rest[1:]

	cliInputs := make(map[string]any, len(paramArgs))
	for _, arg := range paramArgs {
		key, val, ok := parseKeyValue(arg)
		if !ok {
			fmt.Fprintf(os.Stderr, "pflow: invalid parameter %q, expected key=value\n", arg)
			return exitUsageErr
		}
		cliInputs[key] = val
	}

	logger := logging.New(logging.Config{
		Level:  logLevel(),
		Output: os.Stderr,
		Pretty: *verbose,
	})

	home, err := pflowHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pflow: %v\n", err)
		return exitFailure
	}

	data, err := loadWorkflowData(home, ref)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pflow: loading %q: %v\n", ref, err)
		return exitInvalid
	}

	cfg := config.Default()
	if *timeoutFlag > 0 {
		cfg.MaxExecutionTime = *timeoutFlag
	}

	reg, _, err := buildRegistry(home, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pflow: building registry: %v\n", err)
		return exitFailure
	}

	comp := compiler.New(reg, nil)
	compiled, err := comp.Compile(data)
	if err != nil {
		reportUserError(os.Stderr, err, *verbose)
		return exitInvalid
	}
	for _, w := range compiled.Warnings {
		fmt.Fprintf(os.Stderr, "pflow: warning: %s: %s\n", w.Path, w.Message)
	}
	if *validateOnly {
		return exitSuccess
	}

	out := cli.NewOutputController(cli.Options{
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		PrintFlag:    *printFlag,
		OutputFormat: *outputFormat,
	})

	router := cli.NewStdinRouter()
	resolvedInputs, err := router.Route(compiled.Workflow, cliInputs, os.Stdin)
	if err != nil {
		out.Error(err)
		return exitInvalid
	}

	obsMgr := observer.NewManager()
	provider, provErr := telemetry.NewProvider(context.Background(), telemetry.DefaultConfig())
	if provErr != nil {
		logger.WithError(provErr).Warn("telemetry disabled: provider init failed")
	} else {
		obsMgr.Register(telemetry.NewTelemetryObserver(provider))
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = provider.Shutdown(shutdownCtx)
		}()
	}
	if *verbose {
		obsMgr.Register(observer.NewConsoleObserverWithLogger(observerLogger{logger}))
	}

	rt := lifecycle.New(reg, template.NewResolver(), cfg)
	rt.Observer = obsMgr
	we := executor.New(rt, template.NewResolver(), cfg.MaxIterations)
	we.Observer = obsMgr

	ctx, cancel := installSignalHandler(context.Background())
	defer cancel()
	if cfg.MaxExecutionTime > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, cfg.MaxExecutionTime)
		defer timeoutCancel()
	}

	if *metricsAddr != "" {
		srv, errChan := startMetricsServer(*metricsAddr)
		fmt.Fprintf(os.Stderr, "pflow: serving metrics on http://%s/metrics\n", *metricsAddr)
		go func() {
			if err := <-errChan; err != nil {
				fmt.Fprintf(os.Stderr, "pflow: metrics server error: %v\n", err)
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	logger.WithField("ref", ref).Info("starting workflow execution")
	result, runErr := we.Run(ctx, compiled.Workflow, compiled.Graph, resolvedInputs, 0, out.Progress())

	out.Result(renderResult(result, *outputFormat, *traceFlag))
	if result != nil {
		for _, c := range result.Collisions {
			fmt.Fprintf(os.Stderr, "pflow: warning: node %q overwrote reserved key %q first written by node %q\n", c.NodeID, c.Key, c.FirstNode)
		}
	}

	if runErr != nil {
		reportRunError(out, runErr, *verbose)
		logger.WithField("ref", ref).WithError(runErr).Error("workflow execution failed")
		return exitFailure
	}
	return exitSuccess
}

// observerLogger adapts *logging.Logger to observer.Logger so the console
// observer can share the run's structured logger instead of writing its own
// independent stdout stream.
type observerLogger struct{ l *logging.Logger }

func (o observerLogger) Debug(msg string, fields map[string]interface{}) {
	o.l.WithFields(fields).Debug(msg)
}

func (o observerLogger) Info(msg string, fields map[string]interface{}) {
	o.l.WithFields(fields).Info(msg)
}

func (o observerLogger) Warn(msg string, fields map[string]interface{}) {
	o.l.WithFields(fields).Warn(msg)
}

func (o observerLogger) Error(msg string, fields map[string]interface{}) {
	o.l.WithFields(fields).Error(msg)
}

// loadWorkflowData reads ref as a filesystem path when it exists on disk or
// carries a path separator/.json suffix; otherwise it resolves ref as a
// saved workflow name under PFLOW_HOME.
func loadWorkflowData(home, ref string) ([]byte, error) {
	if data, err := os.ReadFile(ref); err == nil {
		return data, nil
	} else if looksLikePath(ref) {
		return nil, err
	}

	store, err := storage.NewFileStore(home)
	if err != nil {
		return nil, err
	}
	wf, err := store.Load(ref)
	if err != nil {
		return nil, err
	}
	return wf.Data, nil
}

func looksLikePath(ref string) bool {
	return strings.ContainsRune(ref, os.PathSeparator) || strings.HasSuffix(ref, ".json")
}

func logLevel() string {
	if lvl := os.Getenv("PFLOW_LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "info"
}
