package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pthm-cable/torsion/config"
	"github.com/pthm-cable/torsion/suspension"
	"github.com/pthm-cable/torsion/telemetry"
	"github.com/pthm-cable/torsion/torque"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run builds the assembly named on the command line and reports it. It
// returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("torsion", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to config.yaml (empty = use defaults)")
	dataDir := fs.String("data-dir", "", "Vehicle data directory (empty = use config)")
	outputDir := fs.String("output-dir", "", "Output directory for CSV reports and snapshots (empty = use config)")
	noShock := fs.Bool("no-shock", false, "Build the assembly without its rotational damper")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: torsion [flags] <assembly file>\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	cfg := config.Cfg()
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}

	logger := newLogger(cfg.Log.Level, cfg.Log.Format, stdout)

	b := suspension.NewBuilder(suspension.Options{
		HasShock: !*noShock,
		Locator:  suspension.DataDir(cfg.Data.Dir),
		Observer: telemetry.SlogObserver{Logger: logger},
	})
	a, err := b.BuildFile(fs.Arg(0))
	if err != nil {
		logger.Error("failed to build assembly", "file", fs.Arg(0), "state", b.State().String(), "error", err)
		return 1
	}

	g := a.Geometry()
	logger.Info("built assembly",
		"name", a.Name(),
		"template", a.Template(),
		"has_shock", a.HasShock(),
		"arm_mass", g.Mass,
		"arm_radius", g.ArmRadius,
		"spring", torque.Describe(a.Spring()),
		"damper", torque.Describe(a.Damper()),
		"road_wheel", a.Wheel().Template(),
	)

	records, err := telemetry.Sweep(a, cfg.Sweep)
	if err != nil {
		logger.Error("failed to sweep torque", "error", err)
		return 1
	}
	spring, damper := telemetry.SummarizeSweep(records)
	logger.Info("torque sweep",
		"steps", len(records),
		"spring_min", spring.Min,
		"spring_max", spring.Max,
		"damper_min", damper.Min,
		"damper_max", damper.Max,
	)

	if err := writeReports(cfg, a, records); err != nil {
		logger.Error("failed to write reports", "dir", cfg.Output.Dir, "error", err)
		return 1
	}
	if cfg.Output.Dir != "" {
		logger.Info("wrote reports", "dir", cfg.Output.Dir)
	}
	return 0
}

func writeReports(cfg *config.Config, a *suspension.Assembly, records []telemetry.SweepRecord) (err error) {
	om, err := telemetry.NewOutputManager(cfg.Output.Dir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := om.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := om.WriteConfig(cfg); err != nil {
		return err
	}
	if err := om.WriteGeometry(a); err != nil {
		return err
	}
	if err := om.WriteSweep(records); err != nil {
		return err
	}
	if err := om.WriteDamperCurve(a); err != nil {
		return err
	}
	return om.WriteAssembly(a)
}

// newLogger creates a slog.Logger for the configured level and format.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}
	return slog.New(handler)
}
