package main

import (
	"fmt"
	"io"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()

// options collects the flags of every command. Flags that are not set
// on the command line fall back to the config file.
type options struct {
	config     string
	debug      bool
	quiet      bool
	cpuprofile string
	outDir     string

	trunc      bool
	transUnits string
	threshold  float64
	kind       string

	nanometers bool
	specUnits  string
	types      []string
	column     int

	profile *os.File
}

func newRootCmd() *cobra.Command {
	opts := new(options)
	root := &cobra.Command{
		Use:   "rassi",
		Short: "Extract RASSI energies and transition strengths from OpenMolcas output",
		Long: `rassi reads an OpenMolcas output file, captures the spin-orbit state
energies and the requested transition tables of the RASSI module, and
writes them as fixed-width text reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.quiet {
				logger = zap.NewNop()
				return startProfile(opts)
			}
			config := zap.NewProductionConfig()
			config.Encoding = "console"
			config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			config.DisableStacktrace = true
			if opts.debug {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := config.Build()
			if err != nil {
				return err
			}
			logger = l
			return startProfile(opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.profile != nil {
				pprof.StopCPUProfile()
				opts.profile.Close()
			}
			logger.Sync()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.config, "config", "",
		"TOML or YAML file with default options")
	pf.BoolVar(&opts.debug, "debug", false, "toggle debugging information")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "disable logging")
	pf.StringVar(&opts.cpuprofile, "cpu", "", "write a CPU profile")
	pf.StringVarP(&opts.outDir, "outdir", "o", ".",
		"directory for the reports")

	transitions := &cobra.Command{
		Use:   "transitions FILE",
		Short: "Write SO State energy differences with Einstein coefficients",
		Long: `transitions reads the SO State energy table (cm-1) and one transition
table, then writes every transition with its energy difference. With
--trunc it also writes the transitions from state 1, or from states 1
and 2 when they are degenerate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransitions(cmd, opts, args[0])
		},
	}
	tf := transitions.Flags()
	tf.BoolVar(&opts.trunc, "trunc", false,
		"also write the truncated report")
	tf.StringVar(&opts.transUnits, "units", "eV",
		"units for energy differences: eV or cm-1. The SO State table "+
			"is in cm-1, so pass cm-1 to keep the raw differences")
	tf.Float64Var(&opts.threshold, "threshold", 0.0,
		"degeneracy threshold for states 1 and 2 (cm-1)")
	tf.StringVarP(&opts.kind, "type", "t", Dipole.String(),
		"transition table: velocity, length, total, dipole or complex")

	spectrum := &cobra.Command{
		Use:   "spectrum FILE",
		Short: "Write SO-RASSI energy differences with transition strengths",
		Long: `spectrum reads the SO-RASSI total energies (hartree) of the last
usable RASSI module section, forms the differences between each of the
first states and every higher state, and joins them to the selected
transition tables.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpectrum(cmd, opts, args[0])
		},
	}
	sf := spectrum.Flags()
	sf.BoolVarP(&opts.nanometers, "nanometers", "n", false,
		"calculate in nanometers, default is wavenumbers")
	sf.StringVar(&opts.specUnits, "units", "cm-1",
		"units for energy differences: cm-1, eV or nm")
	sf.StringSliceVarP(&opts.types, "types", "t",
		[]string{Dipole.String()},
		"transition tables: velocity, length, total, dipole, complex")
	sf.IntVar(&opts.column, "column", 0,
		"only write this column of each transition row (2 or more)")

	root.AddCommand(transitions, spectrum)
	return root
}

func startProfile(opts *options) error {
	if opts.cpuprofile == "" {
		return nil
	}
	f, err := os.Create(opts.cpuprofile)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return err
	}
	opts.profile = f
	return nil
}

// load reads the config file and applies any flags set on cmd. units
// is the value of the command's own --units flag.
func load(cmd *cobra.Command, opts *options, units string) (Config, error) {
	conf, err := LoadConfig(opts.config)
	if err != nil {
		return conf, err
	}
	flags := cmd.Flags()
	if flags.Changed("outdir") || conf.OutDir == "" {
		conf.OutDir = opts.outDir
	}
	if flags.Changed("units") || conf.Units == "" {
		conf.Units = units
	}
	if flags.Changed("trunc") {
		conf.Trunc = opts.trunc
	}
	if flags.Changed("threshold") {
		conf.Threshold = opts.threshold
	}
	if flags.Changed("column") {
		conf.Column = opts.column
	}
	switch {
	case flags.Changed("type"):
		conf.Kinds, err = ParseKinds([]string{opts.kind})
	case flags.Changed("types"):
		conf.Kinds, err = ParseKinds(opts.types)
	}
	if err != nil {
		return conf, err
	}
	if len(conf.Kinds) == 0 {
		conf.Kinds = []Kind{Dipole}
	}
	return conf, nil
}

// scanFile runs s over filename
func scanFile(filename string, s *Scanner) (*Result, error) {
	f, err := OpenInput(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	res, err := s.Scan(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableInput,
			filename, err)
	}
	return res, nil
}

func runTransitions(cmd *cobra.Command, opts *options, filename string) error {
	conf, err := load(cmd, opts, opts.transUnits)
	if err != nil {
		return err
	}
	unit, err := ParseUnit(conf.Units)
	if err != nil {
		return err
	}
	if _, err := ConvertWavenumber(0, unit); err != nil {
		return err
	}
	kind := conf.Kinds[0]
	if len(conf.Kinds) > 1 {
		logger.Warn("transitions uses only the first table type",
			zap.Stringer("type", kind))
	}
	schema := conf.Schemas[kind]

	s := NewScanner(HeaderMode, kind)
	s.Schemas = conf.Schemas
	s.Logger = logger
	res, err := scanFile(filename, s)
	if err != nil {
		return err
	}
	sec := res.Last()
	trans := sec.Transitions[kind]
	logger.Debug("scanned",
		zap.String("file", filename),
		zap.Int("states", sec.Energies.Len()),
		zap.Int("transitions", len(trans)),
	)

	full, truncated := TransitionsNames(conf.OutDir, filename)
	err = WriteFile(full, func(w io.Writer) error {
		return WriteTransitions(w, schema, sec.Energies, trans, unit)
	})
	if err != nil {
		return err
	}
	logger.Info("full mapped transitions saved", zap.String("file", full))

	if !conf.Trunc {
		return nil
	}
	states := TruncStates(sec.Energies, conf.Threshold)
	if len(states) > 1 {
		logger.Info("degeneracy detected, including transitions from states 1 and 2")
	}
	err = WriteFile(truncated, func(w io.Writer) error {
		return WriteTransitions(w, schema, sec.Energies,
			FilterFrom(trans, states), unit)
	})
	if err != nil {
		return err
	}
	logger.Info("truncated transitions saved", zap.String("file", truncated))
	return nil
}

func runSpectrum(cmd *cobra.Command, opts *options, filename string) error {
	conf, err := load(cmd, opts, opts.specUnits)
	if err != nil {
		return err
	}
	if opts.nanometers {
		conf.Units = Nanometer.String()
	}
	unit, err := ParseUnit(conf.Units)
	if err != nil {
		return err
	}
	if conf.Column < 0 || conf.Column == 1 {
		return fmt.Errorf("column %d holds no transition value",
			conf.Column)
	}
	if conf.Column >= 2 {
		for _, k := range conf.Kinds {
			if _, ok := conf.Schemas[k].Column(conf.Column); !ok {
				return fmt.Errorf("column %d not in %v table",
					conf.Column, k)
			}
		}
	}

	s := NewScanner(ModuleMode, conf.Kinds...)
	s.Schemas = conf.Schemas
	s.Logger = logger
	res, err := scanFile(filename, s)
	if err != nil {
		return err
	}
	var sec *Section
	for _, r := range res.Sections {
		if r.Empty() {
			logger.Warn("rassi section failed",
				zap.String("date", r.Date),
				zap.Int("states", r.Energies.Len()),
			)
			continue
		}
		sec = r
	}
	if sec == nil {
		sec = res.Last()
	}
	diffs, err := sec.Energies.PairDifferences(MaxFromState,
		func(ht float64) (float64, error) {
			return ConvertHartree(ht, unit)
		})
	if err != nil {
		return err
	}

	out := SpectrumName(conf.OutDir, filename, conf.Kinds)
	err = WriteFile(out, func(w io.Writer) error {
		return WriteSpectrum(w, conf.Schemas, conf.Kinds, sec, diffs,
			unit, conf.Column)
	})
	if err != nil {
		return err
	}
	logger.Info("data has been written",
		zap.String("file", out),
		zap.String("section", sec.Date),
	)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
