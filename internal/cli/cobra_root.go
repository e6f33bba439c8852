package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"todo/internal/api"
	"todo/internal/bridge"
	"todo/internal/config"
	"todo/internal/logging"
)

// Backend opens the store described by cfg and returns the API bound to it
// together with a function releasing it.
type Backend func(ctx context.Context, cfg *config.Config, log *slog.Logger) (api.API, func() error, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	backend Backend
	config  *config.Config
	api     api.API
	env     *bridge.Environment
	log     *slog.Logger
	release func() error
	preview bool
}

// NewRootCommand creates the root cobra command with global flags. The
// backend is opened after flags are parsed, so flag overrides reach it.
func NewRootCommand(backend Backend, cfg *config.Config) *RootCommand {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	root := &RootCommand{
		backend: backend,
		config:  cfg,
		log:     logging.Discard(),
	}

	root.cmd = &cobra.Command{
		Use:   "todo",
		Short: "A command-line to-do list with groups and memos",
		Long: `todo keeps a personal task list in a local SQLite database.

EXAMPLES:
  todo group add Errands                   # Create a group
  todo task add --group 1 "Buy milk"       # Create a task in group 1
  todo task list --sort priority           # List all tasks by priority
  todo task list --source today --watch    # Follow today's tasks as they change
  todo task done 3                         # Complete task 3
  todo memo set 3 "aisle 4\nbring bags"    # Attach a two line memo
  todo count completed                     # Number of completed tasks

CONFIGURATION:
  Priority order: command-line flags > environment variables > config file > defaults

    TODO_DB_DIR                            Database directory (default: ~/.todo)
    TODO_DB_FILENAME                       Database filename (default: todo.db)
    TODO_DB_IN_MEMORY                      Use a throwaway in-memory database
    TODO_DB_BUSY_TIMEOUT                   SQLite busy timeout (default: 5s)
    TODO_LOG_LEVEL                         DEBUG, INFO, WARN or ERROR (default: INFO)
    TODO_DEBUG                             Any value forces DEBUG logging
    TODO_BRIDGE_QUANTUM                    Delay before delivering list changes (default: 1ms)
    TODO_APP_TIMEOUT                       Timeout for non-watching commands (default: 30s)

  todo config init writes the effective configuration to ~/.todo/config.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return root.teardown()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command exposes the underlying cobra command.
func (r *RootCommand) Command() *cobra.Command { return r.cmd }

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	err := r.cmd.ExecuteContext(ctx)
	// PersistentPostRunE is skipped when RunE fails.
	if terr := r.teardown(); err == nil {
		err = terr
	}
	return err
}

func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "YAML config file (default ~/.todo/config.yaml)")
	flags.String("db-dir", "", "Database directory (overrides TODO_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides TODO_DB_FILENAME)")
	flags.String("log-level", "", "Log level (overrides TODO_LOG_LEVEL)")
	flags.Duration("timeout", 0, "Command timeout (overrides TODO_APP_TIMEOUT)")
	flags.BoolVar(&r.preview, "preview", false, "Use built-in sample data instead of the database")
}

// applyFlags updates the configuration with values from command-line flags
func (r *RootCommand) applyFlags() error {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	if dbDir, _ := flags.GetString("db-dir"); dbDir != "" {
		overrides.DBDir = &dbDir
	}
	if dbFilename, _ := flags.GetString("db-filename"); dbFilename != "" {
		overrides.DBFilename = &dbFilename
	}
	if level, _ := flags.GetString("log-level"); level != "" {
		overrides.LogLevel = &level
	}
	if timeout, _ := flags.GetDuration("timeout"); timeout > 0 {
		overrides.Timeout = &timeout
	}

	overrides.Apply(r.config)
	return r.config.Validate()
}

// loadConfig settles the effective configuration: the --config file if
// given, then flag overrides. It also builds the logger.
func (r *RootCommand) loadConfig(cmd *cobra.Command) error {
	if path, _ := r.cmd.PersistentFlags().GetString("config"); path != "" {
		loaded, err := config.NewLoader(path).Load()
		if err != nil {
			return err
		}
		*r.config = *loaded
	}
	if err := r.applyFlags(); err != nil {
		return err
	}
	r.log = logging.New(cmd.ErrOrStderr(), r.config.LogLevel())
	logging.Debugf("todo: database %s (in memory: %v, preview: %v)\n",
		r.config.GetDatabasePath(), r.config.Database.InMemory, r.preview)
	return nil
}

func (r *RootCommand) setup(cmd *cobra.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	if r.preview || r.backend == nil {
		r.api = api.Unimplemented(r.log)
		r.env = bridge.NewEnvironment(bridge.DefaultDataSource())
		return nil
	}

	a, release, err := r.backend(cmd.Context(), r.config, r.log)
	if err != nil {
		return err
	}
	r.api = a
	r.release = release
	r.env = bridge.NewEnvironment(bridge.LiveDataSource())
	return nil
}

func (r *RootCommand) teardown() error {
	release := r.release
	r.release = nil
	if release == nil {
		return nil
	}
	return release()
}

func (r *RootCommand) newApp(cmd *cobra.Command) *App {
	return NewAppWithConfig(r.api, r.config,
		WithEnvironment(r.env),
		WithOutput(cmd.OutOrStdout()),
		WithLogger(r.log),
	)
}

// commandContext bounds one-shot commands by the configured timeout.
// Watching commands run until interrupted.
func (r *RootCommand) commandContext(cmd *cobra.Command, watch bool) (context.Context, context.CancelFunc) {
	if watch {
		return signal.NotifyContext(cmd.Context(), os.Interrupt)
	}
	return context.WithTimeout(cmd.Context(), r.getAppTimeout())
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 30 * time.Second
}

// run adapts a handler to cobra. configure copies flag values into the
// handler and reports whether it watches.
func run[C Command](r *RootCommand, newHandler func(*App) C, configure func(*cobra.Command, C) bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		handler := newHandler(r.newApp(cmd))
		watch := false
		if configure != nil {
			watch = configure(cmd, handler)
		}
		ctx, cancel := r.commandContext(cmd, watch)
		defer cancel()
		return handler.Execute(ctx, args)
	}
}
