package app

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Ronniet1977/CamperShowBackup/pkg/log"
)

// RunFunc defines the application's startup callback function.
type RunFunc func() error

// CliOptions abstracts the configuration options of an application. Options
// are bound to command-line flags and to viper (config file + environment).
type CliOptions interface {
	// AddFlags adds all the option flags to the given flag set.
	AddFlags(fs *pflag.FlagSet)

	// Complete fills in any fields not set explicitly but required to
	// have valid data.
	Complete() error

	// Validate checks the options and returns a non-nil error on the
	// first problem found.
	Validate() error
}

// App is the main application structure. It wraps a cobra command with
// option binding, config-file loading and logger initialization.
type App struct {
	name        string
	short       string
	description string
	options     CliOptions
	run         RunFunc
	noConfig    bool
	cmdArgs     cobra.PositionalArgs
	cfgFile     string
	cmd         *cobra.Command
}

// Option defines optional parameters for initializing the App structure.
type Option func(*App)

// WithDescription sets the long description of the application.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithOptions opens the application's function to read from the command line
// or read parameters from the configuration file.
func WithOptions(opts CliOptions) Option {
	return func(a *App) {
		a.options = opts
	}
}

// WithRunFunc sets the application startup callback function option.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) {
		a.run = run
	}
}

// WithNoConfig disables the --config flag.
func WithNoConfig() Option {
	return func(a *App) {
		a.noConfig = true
	}
}

// WithDefaultValidArgs rejects any positional arguments.
func WithDefaultValidArgs() Option {
	return func(a *App) {
		a.cmdArgs = cobra.NoArgs
	}
}

// NewApp creates a new application instance.
func NewApp(name string, short string, opts ...Option) *App {
	a := &App{
		name:  name,
		short: short,
	}

	for _, o := range opts {
		o(a)
	}

	a.buildCommand()

	return a
}

func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:           a.name,
		Short:         a.short,
		Long:          a.description,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          a.cmdArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCommand()
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	if a.options != nil {
		a.options.AddFlags(cmd.Flags())
	}

	if !a.noConfig {
		cmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
			fmt.Sprintf("Read configuration from the specified file (default: %s.yaml)", a.name))
	}

	a.cmd = cmd
}

func (a *App) runCommand() error {
	if !a.noConfig {
		if err := a.loadConfig(); err != nil {
			return err
		}
	}

	if a.options != nil {
		if err := a.options.Complete(); err != nil {
			return err
		}
		if err := a.options.Validate(); err != nil {
			return err
		}
	}

	log.Info("Starting application", "name", a.name)

	if a.run != nil {
		return a.run()
	}

	return nil
}

// loadConfig binds the command's flags to viper, reads the optional config
// file and the environment, and writes any viper-sourced values back into
// the flag set so the options structs observe them.
func (a *App) loadConfig() error {
	v := viper.New()

	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.SetConfigName(a.name)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/campershow")
	}

	v.SetEnvPrefix("CAMPERSHOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(a.cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing default config file is fine: flags and env still apply.
	}

	fs := a.cmd.Flags()
	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	return nil
}

// Run launches the application.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Command returns the underlying cobra command, mainly for tests.
func (a *App) Command() *cobra.Command {
	return a.cmd
}
