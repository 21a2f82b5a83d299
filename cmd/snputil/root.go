package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cwbudde/algo-rf/internal/config"
	"github.com/cwbudde/algo-rf/internal/report"
	"github.com/cwbudde/algo-rf/rf/frequency"
	"github.com/cwbudde/algo-rf/rf/mixedmode"
	"github.com/cwbudde/algo-rf/rf/touchstone"
)

// errQualityFailed makes main exit with status 2.
var errQualityFailed = errors.New("quality metrics below pass criterion")

// app carries the resolved settings shared by all subcommands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	flags      config.Config
	verbose    bool
	noColor    bool

	cfg     config.Config
	format  touchstone.Format
	order   mixedmode.Order
	unit    frequency.Unit
	log     *zap.Logger
	printer *report.Printer
}

func execute(args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	defer func() {
		if a.log != nil {
			_ = a.log.Sync()
		}
	}()
	return root.Execute()
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "snputil",
		Short: "Touchstone S-parameter utilities",
		Long: `snputil bisects, cascades, de-embeds, converts and checks Touchstone
(.sNp) S-parameter files.

The optional trailing ri|ma|db argument of the file commands selects the
output data format; it overrides --format.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Arguments have been validated at this point; later failures
			// are not usage errors.
			cmd.SilenceUsage = true
			return a.setup(cmd.Flags())
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	def := config.Default()
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML defaults file (default ./"+config.DefaultFile+" if present)")
	pf.StringVar(&a.flags.OutDir, "out-dir", def.OutDir, "directory for generated files")
	pf.StringVar(&a.flags.Format, "format", def.Format, "output data format: ri, ma or db")
	pf.Float64Var(&a.flags.Z0, "z0", def.Z0, "reference impedance in ohms")
	pf.Float64Var(&a.flags.PassCriterion, "pass", def.PassCriterion, "quality pass criterion in percent")
	pf.StringVar(&a.flags.Order, "order", def.Order, "differential port pairing: sides or oddeven")
	pf.StringVar(&a.flags.FreqUnit, "freq-unit", def.FreqUnit, "frequency unit of written files")
	pf.BoolVar(&a.flags.NoPlot, "no-plot", def.NoPlot, "do not render PNG charts")
	pf.BoolVar(&a.noColor, "no-color", false, "disable colored console output")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newBisectCmd(a),
		newCascadeCmd(a),
		newDeembedCmd(a),
		newDiffCmd(a),
		newConvertCmd(a),
		newCombineCmd(a),
		newAttachCmd(a),
		newZerosCmd(a),
		newQMCmd(a),
		newTDRCmd(a),
	)
	return root
}

// setup merges the config file, the environment and explicitly set flags,
// in increasing priority.
func (a *app) setup(flags *pflag.FlagSet) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	override := map[string]func(){
		"out-dir":   func() { cfg.OutDir = a.flags.OutDir },
		"format":    func() { cfg.Format = a.flags.Format },
		"z0":        func() { cfg.Z0 = a.flags.Z0 },
		"pass":      func() { cfg.PassCriterion = a.flags.PassCriterion },
		"order":     func() { cfg.Order = a.flags.Order },
		"freq-unit": func() { cfg.FreqUnit = a.flags.FreqUnit },
		"no-plot":   func() { cfg.NoPlot = a.flags.NoPlot },
	}
	for name, apply := range override {
		if flags.Changed(name) {
			apply()
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.format, _ = touchstone.ParseFormat(cfg.Format)
	a.order, _ = mixedmode.ParseOrder(cfg.Order)
	a.unit, _ = frequency.ParseUnit(cfg.FreqUnit)

	if a.log == nil {
		if a.log, err = newLogger(a.verbose); err != nil {
			return err
		}
	}
	a.printer = report.New(a.stdout, a.noColor || !isTerminal(a.stdout))
	a.log.Debug("settings", zap.String("config", a.configPath), zap.Any("resolved", cfg))
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
