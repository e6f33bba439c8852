package services

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/query"
)

func TestSortChain(t *testing.T) {
	tests := []struct {
		sort domain.TaskSortType
		want string
	}{
		{domain.SortByTitle, "title asc, created_at desc, priority desc"},
		{domain.SortByCreatedAt, "created_at desc, title asc, priority desc"},
		{domain.SortByPriority, "priority desc, created_at desc, title asc"},
	}
	for _, tt := range tests {
		t.Run(tt.sort.String(), func(t *testing.T) {
			q := query.New(query.Tasks).OrderBy(SortChain(tt.sort)...)
			assert.Equal(t, "tasks order by "+tt.want, q.String())
		})
	}
}

func TestBuildTaskQuery_Predicates(t *testing.T) {
	svc, _ := setupStorageService(t)
	ctx := context.Background()
	svc.CreateGroup(ctx, "Home")
	g := groupNamed(t, svc, "Home")
	ref, _ := g.ID.AsStoreRef()
	order := " order by title asc, created_at desc, priority desc"

	tests := []struct {
		name           string
		source         domain.TaskSource
		wantIncomplete string
		wantComplete   string
	}{
		{
			name:           "all",
			source:         domain.AllTasks(),
			wantIncomplete: "tasks where completed = false" + order,
			wantComplete:   "tasks where completed = true" + order,
		},
		{
			name:           "completed",
			source:         domain.CompletedTasks(),
			wantIncomplete: "tasks where false" + order,
			wantComplete:   "tasks where completed = true" + order,
		},
		{
			name:           "due today",
			source:         domain.DueTodayTasks(),
			wantIncomplete: "tasks where completed = false and due_today = true" + order,
			wantComplete:   "tasks where completed = true and due_today = true" + order,
		},
		{
			name:           "group",
			source:         domain.InGroup(g),
			wantIncomplete: "tasks where completed = false and group = " + itoa(ref.Key) + order,
			wantComplete:   "tasks where completed = true and group = " + itoa(ref.Key) + order,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			incomplete, complete := svc.BuildTaskQuery(ctx, tt.source, domain.SortByTitle)
			require.NotNil(t, incomplete)
			require.NotNil(t, complete)
			assert.Equal(t, tt.wantIncomplete, incomplete.String())
			assert.Equal(t, tt.wantComplete, complete.String())
		})
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func TestBuildTaskQuery_UnresolvableGroup(t *testing.T) {
	svc, _ := setupStorageService(t)
	ctx := context.Background()

	for _, g := range []domain.Group{
		{ID: domain.GroupRef(42), Title: "gone"},
		{ID: domain.StringID("preview"), Title: "synthetic"},
	} {
		incomplete, complete := svc.BuildTaskQuery(ctx, domain.InGroup(g), domain.SortByTitle)
		assert.Nil(t, incomplete)
		assert.Nil(t, complete)
	}
}

func TestBuildTaskQuery_MovableGroupsPanics(t *testing.T) {
	svc, _ := setupStorageService(t)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeContract))
	}()
	svc.BuildTaskQuery(context.Background(), domain.MovableGroupsFor(domain.TaskRef(1)), domain.SortByTitle)
}

// Three tasks created at t0 < t1 < t2 in one group, only t2 completed.
func TestBuildTaskQuery_GroupByCreatedAt(t *testing.T) {
	svc, _ := setupStorageService(t)
	ctx := context.Background()
	svc.CreateGroup(ctx, "Chores")
	g := groupNamed(t, svc, "Chores")

	for _, title := range []string{"t0", "t1", "t2"} {
		svc.CreateTask(ctx, domain.NewTask(title), domain.InGroup(g))
	}
	svc.CreateTask(ctx, domain.NewTask("elsewhere"), domain.AllTasks())
	for _, task := range allTasks(t, svc) {
		if task.Title == "t2" {
			task.Completed = true
			svc.UpdateTask(ctx, task)
		}
	}

	incomplete, complete := svc.BuildTaskQuery(ctx, domain.InGroup(g), domain.SortByCreatedAt)
	assert.Equal(t, []string{"t2"}, titlesOf(fetchTasks(t, svc, complete)))
	assert.Equal(t, []string{"t1", "t0"}, titlesOf(fetchTasks(t, svc, incomplete)))
}

func TestBuildTaskQuery_SortChainsOrderResults(t *testing.T) {
	svc, _ := setupStorageService(t)
	ctx := context.Background()

	// Created in this order, so created_at ascends down the list.
	inputs := []struct {
		title    string
		priority domain.Priority
	}{
		{"b", domain.PriorityStandard},
		{"a", domain.PriorityHigh},
		{"a", domain.PriorityStandard},
		{"c", domain.PriorityHigh},
	}
	for _, in := range inputs {
		task := domain.NewTask(in.title)
		task.Priority = in.priority
		svc.CreateTask(ctx, task, domain.AllTasks())
	}

	tests := []struct {
		sort domain.TaskSortType
		want []string
	}{
		// title asc, then newest first
		{domain.SortByTitle, []string{"a:standard", "a:high", "b:standard", "c:high"}},
		{domain.SortByCreatedAt, []string{"c:high", "a:standard", "a:high", "b:standard"}},
		// high first, then newest first
		{domain.SortByPriority, []string{"c:high", "a:high", "a:standard", "b:standard"}},
	}
	for _, tt := range tests {
		t.Run(tt.sort.String(), func(t *testing.T) {
			incomplete, _ := svc.BuildTaskQuery(ctx, domain.AllTasks(), tt.sort)
			var got []string
			for _, task := range fetchTasks(t, svc, incomplete) {
				got = append(got, task.Title+":"+task.Priority.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildTaskQuery_CompletedSourceIncompleteIsEmpty(t *testing.T) {
	svc, _ := setupStorageService(t)
	ctx := context.Background()
	svc.CreateTask(ctx, domain.NewTask("open"), domain.AllTasks())

	incomplete, complete := svc.BuildTaskQuery(ctx, domain.CompletedTasks(), domain.SortByTitle)
	assert.Empty(t, fetchTasks(t, svc, incomplete))
	assert.Empty(t, fetchTasks(t, svc, complete))
}

func TestBuildGroupQuery(t *testing.T) {
	svc, _ := setupStorageService(t)
	ctx := context.Background()
	for _, title := range []string{"Work", "Errands", "Home"} {
		svc.CreateGroup(ctx, title)
	}

	var got []string
	for _, g := range fetchGroups(t, svc) {
		got = append(got, g.Title)
	}
	assert.Equal(t, []string{"Errands", "Home", "Work"}, got)
}

func TestBuildMovableGroupsQuery(t *testing.T) {
	svc, _ := setupStorageService(t)
	ctx := context.Background()
	for _, title := range []string{"Work", "Errands", "Home"} {
		svc.CreateGroup(ctx, title)
	}
	home := groupNamed(t, svc, "Home")
	svc.CreateTask(ctx, domain.NewTask("grouped"), domain.InGroup(home))
	svc.CreateTask(ctx, domain.NewTask("loose"), domain.AllTasks())

	groupTitles := func(q *query.Query) []string {
		handles, err := svc.GroupFetcher().Fetch(ctx, q)
		require.NoError(t, err)
		var out []string
		for _, h := range handles {
			out = append(out, h.Snapshot().Title)
		}
		return out
	}

	var grouped, loose domain.Task
	for _, task := range allTasks(t, svc) {
		switch task.Title {
		case "grouped":
			grouped = task
		case "loose":
			loose = task
		}
	}

	assert.Equal(t, []string{"Errands", "Work"}, groupTitles(svc.BuildMovableGroupsQuery(ctx, grouped)))
	assert.Equal(t, []string{"Errands", "Home", "Work"}, groupTitles(svc.BuildMovableGroupsQuery(ctx, loose)))
	assert.Nil(t, svc.BuildMovableGroupsQuery(ctx, domain.Task{ID: domain.TaskRef(404)}))
	assert.Nil(t, svc.BuildMovableGroupsQuery(ctx, domain.NewTask("synthetic")))
}
