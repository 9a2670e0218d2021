// Package cli implements the mart command-line interface: table-generic
// CRUD over the store plus customer and product lookups.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/mart/internal/logger"
	"github.com/mesh-intelligence/mart/internal/paths"
	"github.com/mesh-intelligence/mart/internal/repository"
	"github.com/mesh-intelligence/mart/internal/sqlite"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values.
type rootFlags struct {
	configDir string
	dataDir   string
	logLevel  string
	logJSON   bool
}

// app is the state shared by the subcommands of one invocation.
type app struct {
	flags rootFlags
	cfg   *viper.Viper
	dirs  paths.Dirs
}

// NewRootCmd creates the top-level "mart" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "mart",
		Short:         "Inspect and edit the mart store",
		Long:          "mart manages customers, products, locations, orders and inventory\nin a local SQLite store.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/mart)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $XDG_DATA_HOME/mart)")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.flags.logJSON, "log-json", false, "log in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newGetCmd(a))
	root.AddCommand(newCreateCmd(a))
	root.AddCommand(newUpdateCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newCustomerCmd(a))
	root.AddCommand(newProductsCmd(a))

	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "mart:", err)
	}
	os.Exit(ExitCode(err))
}

// setup resolves directories, loads config.yaml and installs the logger on
// the command's context.
func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return systemError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return systemError(err)
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return systemError(fmt.Errorf("resolve data dir: %w", err))
	}
	a.cfg = cfg
	a.dirs = paths.Dirs{Config: configDir, Data: dataDir}

	level := cfg.GetString(cfgKeyLogLevel)
	if a.flags.logLevel != "" {
		level = a.flags.logLevel
	}
	log := logger.New(&logger.Config{
		Level:      logger.ParseLevel(level),
		Output:     cmd.ErrOrStderr(),
		JSON:       a.flags.logJSON || cfg.GetBool(cfgKeyLogJSON),
		TimeFormat: logger.DefaultConfig().TimeFormat,
	})
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.ContextWithLogger(ctx, log))
	return nil
}

// openDatabase opens the store and returns a Database over it. The caller
// must call the returned close function.
func (a *app) openDatabase(ctx context.Context) (*repository.Database, func(), error) {
	cfg, err := storeConfig(a.cfg, a.dirs.Data)
	if err != nil {
		return nil, nil, systemError(err)
	}
	store, err := sqlite.Open(ctx, cfg)
	if err != nil {
		return nil, nil, systemError(fmt.Errorf("open store: %w", err))
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.FromContext(ctx).Warn("closing store", "error", err)
		}
	}
	return repository.NewDatabase(store.DB()), closeFn, nil
}

// exitError carries the process exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(format string, args ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

func systemError(err error) error {
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	return &exitError{code: exitSysError, err: err}
}

// ExitCode maps a command error to the process exit code. Errors raised by
// cobra itself (bad flags, wrong argument count) are user errors.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}
