package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"todo/internal/api"
	"todo/internal/bridge"
	"todo/internal/domain"
	"todo/internal/query"
	"todo/internal/repository/sqlite"
	"todo/internal/services"
)

// syncBuffer is safe for the delivery goroutines of watching commands.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// setupTestApp wires the CLI to a fresh in-memory store.
func setupTestApp(t *testing.T) (*App, *syncBuffer) {
	t.Helper()
	repo, err := sqlite.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	out := &syncBuffer{}
	app := NewApp(api.New(services.NewStorageService(repo)), WithOutput(out))
	return app, out
}

// setupPreviewApp wires the CLI to the not-implemented API and the sample
// data source.
func setupPreviewApp(t *testing.T) (*App, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	app := NewApp(api.Unimplemented(nil),
		WithOutput(out),
		WithEnvironment(bridge.NewEnvironment(bridge.DefaultDataSource())))
	return app, out
}

func mustRun(t *testing.T, app *App, args ...string) {
	t.Helper()
	require.NoError(t, app.Run(context.Background(), args))
}

func liveDataSource() bridge.DataSource { return bridge.LiveDataSource() }

func allTasksQuery(app *App) *query.Query {
	incomplete, _ := app.api.BuildTaskQuery(context.Background(), domain.AllTasks(), domain.SortByTitle)
	return incomplete
}
