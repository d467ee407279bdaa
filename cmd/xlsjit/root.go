package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shaunstanislauslau/xls/config"
	"github.com/shaunstanislauslau/xls/jit"
	"github.com/shaunstanislauslau/xls/quickcheck"
)

// rootOptions holds global flags and the state prepared before every
// command runs.
type rootOptions struct {
	cfg        *config.Config
	log        *zap.Logger
	ConfigPath string
	Backend    string
	LogFormat  string
	Verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "xlsjit",
		Short:         "Compile and run IR functions",
		Long:          "xlsjit compiles IR functions to wasm or closures and runs, checks or inspects them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: search for xlsjit.yaml)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "JIT backend (auto|native|closure)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (auto|console|json)")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newQuickCheckCommand(opts))
	cmd.AddCommand(newReplayCommand(opts))
	cmd.AddCommand(newDumpCommand(opts))
	cmd.AddCommand(newInteractiveCommand(opts))

	return cmd
}

// setup loads the configuration, applies flag overrides and installs the
// logger in the library packages.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	path := o.ConfigPath
	if path == "" {
		found, err := config.Find(".")
		if err != nil {
			return WrapExitError(ExitCommandError, "find config", err)
		}
		path = found
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return WrapExitError(ExitCommandError, "load config", err)
		}
		cfg = loaded
	}

	if o.Backend != "" {
		if _, err := jit.ParseBackend(o.Backend); err != nil {
			return WrapExitError(ExitCommandError, "invalid --backend", err)
		}
		cfg.Backend = o.Backend
	}
	if o.LogFormat != "" {
		switch o.LogFormat {
		case config.FormatAuto, config.FormatConsole, config.FormatJSON:
			cfg.Log.Format = o.LogFormat
		default:
			return NewExitError(ExitCommandError, "invalid --log-format "+o.LogFormat)
		}
	}
	level := cfg.Level()
	if o.Verbose {
		level = zapcore.DebugLevel
	}

	o.cfg = cfg
	o.log = newLogger(cfg.Log.Format, level)
	jit.SetLogger(o.log)
	quickcheck.SetLogger(o.log)

	if path != "" {
		o.log.Debug("loaded config", zap.String("path", path), zap.String("backend", cfg.Backend))
	}
	return nil
}

// jitConfig returns the compile configuration for commands.
func (o *rootOptions) jitConfig() *jit.Config {
	if o.cfg == nil {
		return jit.DefaultConfig()
	}
	return o.cfg.JIT()
}
