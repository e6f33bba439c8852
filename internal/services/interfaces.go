package services

import (
	"context"

	"todo/internal/bridge"
	"todo/internal/domain"
	"todo/internal/live"
	"todo/internal/query"
)

// StorageService is the facade every mutation and query goes through.
//
// Mutations block until their write scope has committed or been abandoned.
// They report nothing: a reference that no longer resolves is logged and
// ignored, and so is a failed commit. Passing an identity that was not
// produced by the store to a mutation is a programming error and panics.
type StorageService interface {
	// Group operations
	CreateGroup(ctx context.Context, title string)
	UpdateGroup(ctx context.Context, group domain.Group)
	DeleteGroup(ctx context.Context, group domain.Group)

	// Task operations
	CreateTask(ctx context.Context, task domain.Task, source domain.TaskSource)
	UpdateTask(ctx context.Context, task domain.Task)
	DeleteTask(ctx context.Context, task domain.Task)
	MoveTask(ctx context.Context, taskID, groupID domain.EntityID)
	UpdateMemo(ctx context.Context, task domain.Task, memo *domain.Memo)

	// Observation
	TaskHandle(ctx context.Context, task domain.Task) (live.Observable[domain.Task], bool)
	TaskCountStream(ctx context.Context, category domain.TaskSource) <-chan int

	// Query construction
	BuildTaskQuery(ctx context.Context, source domain.TaskSource, sort domain.TaskSortType) (incomplete, complete *query.Query)
	BuildGroupQuery(ctx context.Context) *query.Query
	BuildMovableGroupsQuery(ctx context.Context, task domain.Task) *query.Query

	// Query execution for the bridge and the CLI
	TaskFetcher() bridge.Fetcher[domain.Task]
	GroupFetcher() bridge.Fetcher[domain.Group]
}
