// Command evtrace-demo reproduces original_source/example/main.c's demo
// loop against the trace package: a fixed sequence of events captured
// across a number of iterations, followed by a dump. It is example
// scaffolding, not part of the event-tracer core.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tracebuf/evtrace/catalog"
	"github.com/tracebuf/evtrace/trace"
)

var cfgPath string
var formatOverride int

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evtrace-demo",
		Short: "Run the evtrace example capture loop and dump the buffer",
		RunE:  runDemo,
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	cmd.Flags().IntVar(&formatOverride, "format", -1, "dump format to use (overrides config)")
	return cmd
}

func runDemo(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("evtrace-demo: build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("evtrace-demo: load config: %w", err)
	}
	if formatOverride >= 0 {
		cfg.DumpFormat = formatOverride
	}

	logger.Info("starting capture",
		zap.Int("capacity", cfg.Capacity),
		zap.Bool("one_shot", cfg.OneShot),
		zap.Int("iterations", cfg.Iterations),
	)

	inst := trace.New(
		trace.WithCapacity(cfg.Capacity),
		trace.WithOneShot(cfg.OneShot),
	)
	inst.SetEnable(true)

	for i := cfg.Iterations; i > 0; i-- {
		inst.Add(catalog.Pack(catalog.IterStart), 4)
		someEvent(inst)
		longComp(inst)
		misc(inst)
		inst.Add(catalog.Pack(catalog.IterStop), 4)
	}

	logger.Info("capture complete, dumping buffer",
		zap.Int("events_attempted", inst.Log().Cnt()),
		zap.Bool("wrapped", inst.Log().Wrapped()),
	)

	inst.Dump(cfg.DumpFormat)
	return nil
}

func someEvent(inst *trace.Instance) {
	inst.Add(catalog.Pack(catalog.SomeEvent), 4)
}

func longComp(inst *trace.Instance) {
	inst.Add(catalog.Pack(catalog.LongCompBody, 1), 8)
	inst.Add(catalog.Pack(catalog.LongCompBody, 0), 8)
}

func misc(inst *trace.Instance) {
	inst.Add(catalog.Pack(catalog.Msg1, 111), 8)
	inst.Add(catalog.Pack(catalog.Msg2, 221), 8)
	inst.Add(catalog.Pack(catalog.Msg3, 331), 8)
	inst.Add(catalog.Pack(catalog.Msg3, 330), 8)
	inst.Add(catalog.Pack(catalog.Msg2, 220), 8)
	inst.Add(catalog.Pack(catalog.Msg1, 110), 8)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
