// Command efx runs the effect/purity analysis over a set of source
// roots named in efx.yaml, producing a report of every function's
// inferred effect. Argument handling and the panic-recover wrapper are
// grounded on cmd/funxy/main.go's own top-level shape (a deferred
// recover printing a user-facing message, DEBUG=1 in the environment
// re-panicking for a stack trace) generalized from an interpreter CLI's many run modes
// down to this tool's single "analyze and report" mode.
package main

import (
	"fmt"
	"os"

	"github.com/efx-project/efx/internal/config"
	"github.com/efx-project/efx/internal/diagnostics"
	"github.com/efx-project/efx/internal/fixpoint"
	"github.com/efx-project/efx/internal/ingest"
	"github.com/efx-project/efx/internal/obslog"
	"github.com/efx-project/efx/internal/registry"
	"github.com/efx-project/efx/internal/reporter"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "this is a bug, please report it")
			os.Exit(1)
		}
	}()

	cfgPath := ""
	if len(os.Args) >= 2 {
		cfgPath = os.Args[1]
	}
	if cfgPath == "" {
		found, err := config.FindConfig(".")
		if err != nil {
			fmt.Fprintf(os.Stderr, "locating efx.yaml: %v\n", err)
			os.Exit(1)
		}
		cfgPath = found
	}
	if cfgPath == "" {
		fmt.Fprintln(os.Stderr, "no efx.yaml found; pass a config path explicitly")
		os.Exit(1)
	}

	log := obslog.New(os.Stderr, nil)

	if err := run(cfgPath, log); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath string, log *obslog.Logger) error {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log.Stage("config", cfgPath)

	seed, err := readOptional(cfg.Registries.Seed)
	if err != nil {
		return err
	}
	generated, err := readOptional(cfg.Registries.Generated)
	if err != nil {
		return err
	}
	explicit, err := readOptional(cfg.Registries.Explicit)
	if err != nil {
		return err
	}
	reg, err := registry.Load(seed, generated, explicit)
	if err != nil {
		return fmt.Errorf("loading registry: %w", err)
	}
	log.Stage("registry", fmt.Sprintf("%d entries", reg.Size()))

	diags := &diagnostics.Bag{}
	prog, err := ingest.Load(cfg.SourceRoots, reg, diags)
	if err != nil {
		return fmt.Errorf("ingesting sources: %w", err)
	}
	log.Progress("parsed", len(prog.Modules), len(prog.Modules))

	log.Stage("fixpoint", "analyzing")
	result := fixpoint.Run(prog)
	result.Diags.Merge(diags)

	for _, d := range result.Diags.Items() {
		log.Warn("%s", d.Error())
	}

	report := reporter.Build(result)

	var rep reporter.Reporter
	switch cfg.Output.Format {
	case "sqlite":
		rep = &reporter.SQLiteReporter{Path: cfg.Output.Path}
	case "protobuf":
		rep = &reporter.ProtobufReporter{Path: cfg.Output.Path}
	default:
		rep = &reporter.JSONReporter{Path: cfg.Output.Path}
	}

	if err := rep.Write(report); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	log.Stage("report", fmt.Sprintf("%d functions -> %s", len(report.Records), cfg.Output.Path))
	return nil
}

func readOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
