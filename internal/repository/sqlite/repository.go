package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"todo/internal/errors"
	"todo/internal/logging"
	"todo/internal/notify"
	"todo/internal/query"
	"todo/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// InMemory is the path that selects a private in-memory database.
const InMemory = ":memory:"

const (
	selectTasks = `
	SELECT t.id, t.title, t.priority, t.created_at, t.completed, t.due_today, t.group_id,
		m.id AS memo_id, m.content AS memo_content
	FROM tasks t
	LEFT JOIN memos m ON m.task_id = t.id`

	selectGroups = `
	SELECT g.id, g.title,
		(SELECT COUNT(*) FROM tasks c WHERE c.group_id = g.id) AS task_count
	FROM groups g`

	countTasks = `SELECT COUNT(*) FROM tasks t`

	selectMemo = `SELECT id, content, task_id FROM memos WHERE id = ?`
)

// Reader defines the read operations available both on the repository and
// inside a write transaction.
type Reader interface {
	GetTask(ctx context.Context, id int64) (*Task, error)
	GetGroup(ctx context.Context, id int64) (*Group, error)
	GetMemo(ctx context.Context, id int64) (*Memo, error)
	ListTasks(ctx context.Context, q *query.Query) ([]*Task, error)
	ListGroups(ctx context.Context, q *query.Query) ([]*Group, error)
	CountTasks(ctx context.Context, q *query.Query) (int, error)
}

// Repository defines the interface for database operations
type Repository interface {
	Reader

	// WithTx runs fn inside the single write scope. The transaction is
	// committed when fn returns nil and rolled back otherwise, including
	// when fn panics.
	WithTx(ctx context.Context, fn func(Tx) error) error

	// Subscribe registers for commit notifications.
	Subscribe() (<-chan notify.Event, func())

	Close() error
}

// Options configures how the database is opened.
type Options struct {
	Path        string
	BusyTimeout time.Duration
	Logger      *slog.Logger
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	reader
	db      *sqlx.DB
	writeMu sync.Mutex
	events  *notify.Broadcaster
	log     *slog.Logger
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithOptions(context.Background(), Options{Path: dbPath})
}

// NewInMemory opens a private in-memory database.
func NewInMemory() (*SQLiteRepository, error) {
	return New(InMemory)
}

// NewWithOptions opens the database, applies pending migrations and returns
// the repository.
func NewWithOptions(ctx context.Context, opts Options) (*SQLiteRepository, error) {
	log := logging.OrDiscard(opts.Logger)

	db, err := sqlx.Open("sqlite", dsn(opts))
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	// One logical connection. This also keeps a :memory: database alive and
	// shared between readers and the writer.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("open database", err)
	}

	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	log.Debug("database ready", "path", opts.Path)
	return &SQLiteRepository{
		reader: reader{ext: db},
		db:     db,
		events: notify.NewBroadcaster(),
		log:    log,
	}, nil
}

func dsn(opts Options) string {
	path := opts.Path
	if path == "" {
		path = InMemory
	}
	pragmas := []string{"_pragma=foreign_keys(1)"}
	if opts.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("_pragma=busy_timeout(%d)", opts.BusyTimeout.Milliseconds()))
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(pragmas, "&")
}

// Close closes the database connection and ends every subscription.
func (r *SQLiteRepository) Close() error {
	r.events.Close()
	return r.db.Close()
}

// Subscribe registers for commit notifications.
func (r *SQLiteRepository) Subscribe() (<-chan notify.Event, func()) {
	return r.events.Subscribe()
}

// WithTx runs fn in a write transaction. Writers are serialized by a
// process-wide mutex; subscribers are notified after a successful commit.
func (r *SQLiteRepository) WithTx(ctx context.Context, fn func(Tx) error) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	sqlTx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin transaction", err)
	}
	tx := &sqliteTx{reader: reader{ext: sqlTx}}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			r.log.Debug("rollback", "error", rbErr)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return HandleDatabaseError("commit", err)
	}
	committed = true

	if tx.touched != 0 {
		r.log.Debug("commit", "touched", tx.touched.String())
		r.events.Publish(notify.Event{Kinds: tx.touched})
	}
	return nil
}

// reader implements Reader over either the database or a transaction.
type reader struct {
	ext sqlx.ExtContext
}

// GetTask retrieves a task and its memo by ID
func (r reader) GetTask(ctx context.Context, id int64) (*Task, error) {
	query := selectTasks + " WHERE t.id = ?"
	return QuerySingle[Task](ctx, r.ext, query, "task", fmt.Sprintf("%d", id), id)
}

// GetGroup retrieves a group with its task count by ID
func (r reader) GetGroup(ctx context.Context, id int64) (*Group, error) {
	query := selectGroups + " WHERE g.id = ?"
	return QuerySingle[Group](ctx, r.ext, query, "group", fmt.Sprintf("%d", id), id)
}

// GetMemo retrieves a memo by ID
func (r reader) GetMemo(ctx context.Context, id int64) (*Memo, error) {
	return QuerySingle[Memo](ctx, r.ext, selectMemo, "memo", fmt.Sprintf("%d", id), id)
}

// ListTasks retrieves the tasks matching q in q's order
func (r reader) ListTasks(ctx context.Context, q *query.Query) ([]*Task, error) {
	clause, err := Compile(q, query.Tasks)
	if err != nil {
		return nil, err
	}
	return QueryMultiple[Task](ctx, r.ext, clause.SQL(selectTasks), "tasks", clause.Args...)
}

// ListGroups retrieves the groups matching q in q's order
func (r reader) ListGroups(ctx context.Context, q *query.Query) ([]*Group, error) {
	clause, err := Compile(q, query.Groups)
	if err != nil {
		return nil, err
	}
	return QueryMultiple[Group](ctx, r.ext, clause.SQL(selectGroups), "groups", clause.Args...)
}

// CountTasks counts the tasks matching q. Sort keys are ignored.
func (r reader) CountTasks(ctx context.Context, q *query.Query) (int, error) {
	clause, err := Compile(q, query.Tasks)
	if err != nil {
		return 0, err
	}
	clause.OrderBy = ""
	var count int
	if err := sqlx.GetContext(ctx, r.ext, &count, clause.SQL(countTasks), clause.Args...); err != nil {
		return 0, HandleDatabaseError("count tasks", err)
	}
	return count, nil
}
