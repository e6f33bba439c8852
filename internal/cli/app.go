package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"todo/internal/api"
	"todo/internal/bridge"
	"todo/internal/config"
	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/logging"
	"todo/internal/validation"
)

// App represents the main CLI application
type App struct {
	api       api.API
	env       *bridge.Environment
	config    *config.Config
	validator *validation.TaskValidator
	errors    *ErrorHandler
	out       io.Writer
	log       *slog.Logger
	registry  *CommandRegistry
}

// AppOption customizes an App.
type AppOption func(*App)

// WithEnvironment sets the data source configuration used for listings.
func WithEnvironment(env *bridge.Environment) AppOption {
	return func(a *App) { a.env = env }
}

// WithOutput redirects command output, which defaults to stdout.
func WithOutput(w io.Writer) AppOption {
	return func(a *App) { a.out = w }
}

func WithLogger(l *slog.Logger) AppOption {
	return func(a *App) { a.log = logging.OrDiscard(l) }
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(apiInstance api.API, opts ...AppOption) *App {
	return NewAppWithConfig(apiInstance, config.NewConfig(), opts...)
}

// NewAppWithConfig creates an application whose limits and timings come
// from cfg.
func NewAppWithConfig(apiInstance api.API, cfg *config.Config, opts ...AppOption) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	app := &App{
		api:       apiInstance,
		config:    cfg,
		validator: validation.NewTaskValidatorWith(validation.NewValidatorWithConfig(cfg)),
		errors:    NewErrorHandler(),
		out:       os.Stdout,
		log:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.env == nil {
		app.env = bridge.NewEnvironment(defaultDataSource(apiInstance))
	}
	app.registry = NewCommandRegistry(app)
	return app
}

// defaultDataSource picks live queries when the API can run them.
func defaultDataSource(a api.API) bridge.DataSource {
	if a.Tasks == nil || a.Groups == nil {
		return bridge.DefaultDataSource()
	}
	return bridge.LiveDataSource()
}

// Run executes the CLI application with the given arguments. Two-word
// commands such as "task add" take precedence over one-word ones.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%s", a.registry.GetUsage())
	}
	if len(args) >= 2 && a.registry.Has(args[0]+" "+args[1]) {
		return a.registry.Execute(ctx, args[0]+" "+args[1], args[2:])
	}
	return a.registry.Execute(ctx, args[0], args[1:])
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) quantum() time.Duration {
	if a.config.Bridge.Quantum > 0 {
		return a.config.Bridge.Quantum
	}
	return bridge.DefaultQuantum
}

// parseRef turns "12" or "task/12" into a store reference for entity.
func parseRef(entity, s string) (domain.EntityID, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n <= 0 {
			return domain.EntityID{}, errors.NewInvalidInputError(entity+" id", s, "must be a positive integer")
		}
		return domain.RefID(entity, n), nil
	}
	ref, err := domain.ParseStoreRef(s)
	if err != nil {
		return domain.EntityID{}, errors.NewInvalidInputError(entity+" id", s, "expected a number or "+entity+"/<number>")
	}
	if ref.Entity != entity {
		return domain.EntityID{}, errors.NewInvalidInputError(entity+" id", s, "refers to a "+ref.Entity)
	}
	return domain.RefID(ref.Entity, ref.Key), nil
}

func (a *App) findTask(ctx context.Context, arg string) (domain.Task, error) {
	id, err := parseRef(domain.EntityTask, arg)
	if err != nil {
		return domain.Task{}, err
	}
	task, ok := a.api.FindTask(ctx, id)
	if !ok {
		return domain.Task{}, errors.NewNotFoundError("task", id.String())
	}
	return task, nil
}

func (a *App) findGroup(ctx context.Context, arg string) (domain.Group, error) {
	id, err := parseRef(domain.EntityGroup, arg)
	if err != nil {
		return domain.Group{}, err
	}
	group, ok := a.api.FindGroup(ctx, id)
	if !ok {
		return domain.Group{}, errors.NewNotFoundError("group", id.String())
	}
	return group, nil
}
