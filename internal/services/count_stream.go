package services

import (
	"context"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/notify"
	"todo/internal/query"
)

// categoryQuery is the count predicate of a category.
func categoryQuery(category domain.TaskSource) *query.Query {
	base := query.New(query.Tasks)
	switch category.Kind() {
	case domain.SourceAll:
		return base
	case domain.SourceDueToday:
		return base.Where(query.FieldDueToday, query.Eq, true)
	case domain.SourceCompleted:
		return base.Where(query.FieldCompleted, query.Eq, true)
	default:
		panic(errors.NewContractError("task count stream", category.String()+" is not a category"))
	}
}

// TaskCountStream yields the current count of the category, then a fresh
// count after every commit that touched tasks. The channel is closed once
// ctx is done.
func (s *storageServiceImpl) TaskCountStream(ctx context.Context, category domain.TaskSource) <-chan int {
	q := categoryQuery(category)

	// Subscribe before the first count so no commit falls in between.
	events, cancel := s.repo.Subscribe()
	out := make(chan int)

	go func() {
		defer close(out)
		defer cancel()

		emit := func() bool {
			n, err := s.repo.CountTasks(ctx, q)
			if err != nil {
				if ctx.Err() == nil {
					s.log.Error("task count failed", "category", category.String(), "error", err)
				}
				return ctx.Err() == nil
			}
			select {
			case out <- n:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				if !e.Touches(notify.Tasks) {
					continue
				}
				if !emit() {
					return
				}
			}
		}
	}()
	return out
}
