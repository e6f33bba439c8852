package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/api"
	"todo/internal/domain"
	"todo/internal/errors"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		name    string
		entity  string
		input   string
		want    domain.EntityID
		wantErr bool
	}{
		{"bare number", domain.EntityTask, "12", domain.TaskRef(12), false},
		{"store reference", domain.EntityGroup, "group/3", domain.GroupRef(3), false},
		{"surrounding space", domain.EntityTask, " 4 ", domain.TaskRef(4), false},
		{"zero", domain.EntityTask, "0", domain.EntityID{}, true},
		{"negative", domain.EntityTask, "-2", domain.EntityID{}, true},
		{"wrong entity", domain.EntityTask, "memo/2", domain.EntityID{}, true},
		{"garbage", domain.EntityGroup, "errands", domain.EntityID{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRef(tt.entity, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApp_Run(t *testing.T) {
	app, _ := setupPreviewApp(t)
	ctx := context.Background()

	err := app.Run(ctx, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "todo task add")

	err = app.Run(ctx, []string{"frobnicate"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))

	err = app.Run(ctx, []string{"task", "frobnicate"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestNewApp_DefaultEnvironment(t *testing.T) {
	preview := NewApp(api.Unimplemented(nil))
	assert.False(t, preview.env.DataSource().IncompleteTasks.IsLive())

	app, _ := setupTestApp(t)
	assert.True(t, app.env.DataSource().IncompleteTasks.IsLive())
	assert.True(t, app.env.DataSource().Groups.IsLive())
}

func TestCommandRegistry(t *testing.T) {
	app, _ := setupPreviewApp(t)
	registry := app.registry

	assert.True(t, registry.Has("task add"))
	assert.True(t, registry.Has("count"))
	assert.False(t, registry.Has("task"))

	var got []string
	registry.Register("echo", commandFunc(func(_ context.Context, args []string) error {
		got = args
		return nil
	}))
	require.NoError(t, app.Run(context.Background(), []string{"echo", "a", "b"}))
	assert.Equal(t, []string{"a", "b"}, got)
}

type commandFunc func(ctx context.Context, args []string) error

func (f commandFunc) Execute(ctx context.Context, args []string) error { return f(ctx, args) }

func TestFormatTask(t *testing.T) {
	task := domain.Task{ID: domain.TaskRef(7), Title: "Plain"}
	assert.Equal(t, "task/7     [ ] Plain", formatTask(task))

	task.Completed = true
	task.Priority = domain.PriorityHigh
	task.DueToday = true
	task.Memo = &domain.Memo{Content: "x"}
	assert.Equal(t, "task/7     [x] !! Plain (today) +memo", formatTask(task))

	group := domain.Group{ID: domain.GroupRef(2), Title: "Home", TaskCount: 3}
	assert.Equal(t, "group/2    Home (3)", formatGroup(group))
}
