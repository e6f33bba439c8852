package api

import (
	"context"
	"log/slog"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/live"
	"todo/internal/logging"
	"todo/internal/query"
)

// Preview counts reported by Unimplemented().TaskCount.
const (
	PreviewAllCount      = 30
	PreviewDueTodayCount = 10
	PreviewCompleteCount = 5
)

// Unimplemented returns an API whose operations log and do nothing. It is
// the default for previews and the base for per-operation test fakes.
func Unimplemented(logger *slog.Logger) API {
	log := logging.OrDiscard(logger)
	unimplemented := func(op string) {
		log.Warn("not implemented", "operation", op)
	}

	return API{
		CreateGroup: func(context.Context, string) { unimplemented("CreateGroup") },
		UpdateGroup: func(context.Context, domain.Group) { unimplemented("UpdateGroup") },
		DeleteGroup: func(context.Context, domain.Group) { unimplemented("DeleteGroup") },
		CreateTask: func(context.Context, domain.Task, domain.TaskSource) {
			unimplemented("CreateTask")
		},
		UpdateTask: func(context.Context, domain.Task) { unimplemented("UpdateTask") },
		DeleteTask: func(context.Context, domain.Task) { unimplemented("DeleteTask") },
		MoveTask:   func(context.Context, domain.EntityID, domain.EntityID) { unimplemented("MoveTask") },
		UpdateMemo: func(context.Context, domain.Task, *domain.Memo) { unimplemented("UpdateMemo") },
		TaskHandle: func(context.Context, domain.Task) (live.Observable[domain.Task], bool) {
			unimplemented("TaskHandle")
			return nil, false
		},
		TaskCount: previewCount,
		BuildTaskQuery: func(context.Context, domain.TaskSource, domain.TaskSortType) (*query.Query, *query.Query) {
			unimplemented("BuildTaskQuery")
			return nil, nil
		},
		BuildGroupQuery: func(context.Context) *query.Query {
			unimplemented("BuildGroupQuery")
			return nil
		},
		BuildMovableGroupsQuery: func(context.Context, domain.Task) *query.Query {
			unimplemented("BuildMovableGroupsQuery")
			return nil
		},
	}
}

// previewCount yields a fixed count for a category and closes when ctx is
// done.
func previewCount(ctx context.Context, category domain.TaskSource) <-chan int {
	var n int
	switch category.Kind() {
	case domain.SourceAll:
		n = PreviewAllCount
	case domain.SourceDueToday:
		n = PreviewDueTodayCount
	case domain.SourceCompleted:
		n = PreviewCompleteCount
	default:
		panic(errors.NewContractError("task count", category.String()+" is not a category"))
	}

	out := make(chan int)
	go func() {
		defer close(out)
		select {
		case out <- n:
		case <-ctx.Done():
			return
		}
		<-ctx.Done()
	}()
	return out
}
