// Package api exposes every storage operation as an independently
// replaceable function, so callers can fake one operation without faking
// the whole service.
package api

import (
	"context"

	"todo/internal/bridge"
	"todo/internal/domain"
	"todo/internal/live"
	"todo/internal/query"
	"todo/internal/services"
)

// API is the operation set consumed by the feature layer.
type API struct {
	// Group operations
	CreateGroup func(ctx context.Context, title string)
	UpdateGroup func(ctx context.Context, group domain.Group)
	DeleteGroup func(ctx context.Context, group domain.Group)

	// Task operations
	CreateTask func(ctx context.Context, task domain.Task, source domain.TaskSource)
	UpdateTask func(ctx context.Context, task domain.Task)
	DeleteTask func(ctx context.Context, task domain.Task)
	MoveTask   func(ctx context.Context, taskID, groupID domain.EntityID)
	UpdateMemo func(ctx context.Context, task domain.Task, memo *domain.Memo)

	// Observation
	TaskHandle func(ctx context.Context, task domain.Task) (live.Observable[domain.Task], bool)
	TaskCount  func(ctx context.Context, category domain.TaskSource) <-chan int

	// Query construction
	BuildTaskQuery          func(ctx context.Context, source domain.TaskSource, sort domain.TaskSortType) (incomplete, complete *query.Query)
	BuildGroupQuery         func(ctx context.Context) *query.Query
	BuildMovableGroupsQuery func(ctx context.Context, task domain.Task) *query.Query

	// Query execution. Nil fetchers mean only fixed collections are available.
	Tasks  bridge.Fetcher[domain.Task]
	Groups bridge.Fetcher[domain.Group]
}

// New binds every operation to svc.
func New(svc services.StorageService) API {
	return API{
		CreateGroup:             svc.CreateGroup,
		UpdateGroup:             svc.UpdateGroup,
		DeleteGroup:             svc.DeleteGroup,
		CreateTask:              svc.CreateTask,
		UpdateTask:              svc.UpdateTask,
		DeleteTask:              svc.DeleteTask,
		MoveTask:                svc.MoveTask,
		UpdateMemo:              svc.UpdateMemo,
		TaskHandle:              svc.TaskHandle,
		TaskCount:               svc.TaskCountStream,
		BuildTaskQuery:          svc.BuildTaskQuery,
		BuildGroupQuery:         svc.BuildGroupQuery,
		BuildMovableGroupsQuery: svc.BuildMovableGroupsQuery,
		Tasks:                   svc.TaskFetcher(),
		Groups:                  svc.GroupFetcher(),
	}
}

// FetchTasks runs q and returns the current values. A nil query or a
// missing fetcher yields no tasks.
func (a API) FetchTasks(ctx context.Context, q *query.Query) ([]domain.Task, error) {
	if q == nil || a.Tasks == nil {
		return nil, nil
	}
	handles, err := a.Tasks.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	return live.Snapshots(handles), nil
}

// FetchGroups runs q and returns the current values.
func (a API) FetchGroups(ctx context.Context, q *query.Query) ([]domain.Group, error) {
	if q == nil || a.Groups == nil {
		return nil, nil
	}
	handles, err := a.Groups.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	return live.Snapshots(handles), nil
}

// FindTask resolves a stored task by id.
func (a API) FindTask(ctx context.Context, id domain.EntityID) (domain.Task, bool) {
	h, ok := a.TaskHandle(ctx, domain.Task{ID: id})
	if !ok {
		return domain.Task{}, false
	}
	task, err := h.Current(ctx)
	if err != nil {
		return domain.Task{}, false
	}
	return task, true
}

// FindGroup resolves a stored group by id.
func (a API) FindGroup(ctx context.Context, id domain.EntityID) (domain.Group, bool) {
	groups, err := a.FetchGroups(ctx, a.BuildGroupQuery(ctx))
	if err != nil {
		return domain.Group{}, false
	}
	for _, g := range groups {
		if g.ID == id {
			return g, true
		}
	}
	return domain.Group{}, false
}
