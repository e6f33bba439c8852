package services

import (
	"context"

	"todo/internal/bridge"
	"todo/internal/domain"
	"todo/internal/live"
	"todo/internal/notify"
	"todo/internal/query"
)

type taskFetcher struct {
	s *storageServiceImpl
}

// TaskFetcher executes task queries for the bridge.
func (s *storageServiceImpl) TaskFetcher() bridge.Fetcher[domain.Task] {
	return taskFetcher{s: s}
}

func (f taskFetcher) Fetch(ctx context.Context, q *query.Query) ([]live.Handle[domain.Task], error) {
	recs, err := f.s.repo.ListTasks(ctx, q)
	if err != nil {
		return nil, err
	}
	tasks := f.s.mapper.Task.FromDatabaseSlice(recs)
	handles := make([]live.Handle[domain.Task], len(tasks))
	for i, task := range tasks {
		handles[i] = f.s.taskHandle(task)
	}
	return handles, nil
}

func (f taskFetcher) Subscribe() (<-chan notify.Event, func()) {
	return f.s.repo.Subscribe()
}

type groupFetcher struct {
	s *storageServiceImpl
}

// GroupFetcher executes group queries for the bridge.
func (s *storageServiceImpl) GroupFetcher() bridge.Fetcher[domain.Group] {
	return groupFetcher{s: s}
}

func (f groupFetcher) Fetch(ctx context.Context, q *query.Query) ([]live.Handle[domain.Group], error) {
	recs, err := f.s.repo.ListGroups(ctx, q)
	if err != nil {
		return nil, err
	}
	groups := f.s.mapper.Group.FromDatabaseSlice(recs)
	handles := make([]live.Handle[domain.Group], len(groups))
	for i, group := range groups {
		handles[i] = f.s.groupHandle(group)
	}
	return handles, nil
}

func (f groupFetcher) Subscribe() (<-chan notify.Event, func()) {
	return f.s.repo.Subscribe()
}
