package services

import (
	"context"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/query"
)

// SortChain returns the three ordering keys for sort. The chain is fixed
// per sort type so ties break the same way on every run.
func SortChain(sort domain.TaskSortType) []query.SortKey {
	switch sort {
	case domain.SortByTitle:
		return []query.SortKey{query.Asc(query.FieldTitle), query.Desc(query.FieldCreatedAt), query.Desc(query.FieldPriority)}
	case domain.SortByCreatedAt:
		return []query.SortKey{query.Desc(query.FieldCreatedAt), query.Asc(query.FieldTitle), query.Desc(query.FieldPriority)}
	case domain.SortByPriority:
		return []query.SortKey{query.Desc(query.FieldPriority), query.Desc(query.FieldCreatedAt), query.Asc(query.FieldTitle)}
	default:
		panic(errors.NewContractError("sort chain", "unknown sort type "+sort.String()))
	}
}

// BuildTaskQuery splits source into the incomplete and complete halves of
// one list. For a group that no longer exists both queries are nil,
// meaning no query is available.
func (s *storageServiceImpl) BuildTaskQuery(ctx context.Context, source domain.TaskSource, sort domain.TaskSortType) (incomplete, complete *query.Query) {
	chain := SortChain(sort)
	base := query.New(query.Tasks)

	switch source.Kind() {
	case domain.SourceAll:
		complete = base.Where(query.FieldCompleted, query.Eq, true)
		incomplete = base.Where(query.FieldCompleted, query.Eq, false)
	case domain.SourceCompleted:
		complete = base.Where(query.FieldCompleted, query.Eq, true)
		incomplete = base.None()
	case domain.SourceDueToday:
		complete = base.Where(query.FieldCompleted, query.Eq, true).Where(query.FieldDueToday, query.Eq, true)
		incomplete = base.Where(query.FieldCompleted, query.Eq, false).Where(query.FieldDueToday, query.Eq, true)
	case domain.SourceGroup:
		group, _ := source.Group()
		key, ok := s.lookupKey("build task query", group.ID, domain.EntityGroup)
		if !ok {
			return nil, nil
		}
		if _, err := s.repo.GetGroup(ctx, key); err != nil {
			s.log.Debug("build task query: can't get group", "id", group.ID.String(), "error", err)
			return nil, nil
		}
		complete = base.Where(query.FieldCompleted, query.Eq, true).Where(query.FieldGroup, query.Eq, key)
		incomplete = base.Where(query.FieldCompleted, query.Eq, false).Where(query.FieldGroup, query.Eq, key)
	default:
		panic(errors.NewContractError("build task query", source.String()+" is not a task source"))
	}

	return incomplete.OrderBy(chain...), complete.OrderBy(chain...)
}

// BuildGroupQuery selects every group by title.
func (s *storageServiceImpl) BuildGroupQuery(_ context.Context) *query.Query {
	return query.New(query.Groups).OrderBy(query.Asc(query.FieldTitle))
}

// BuildMovableGroupsQuery selects every group except the one task is in.
// It returns nil when the task can't be resolved.
func (s *storageServiceImpl) BuildMovableGroupsQuery(ctx context.Context, task domain.Task) *query.Query {
	key, ok := s.lookupKey("build movable groups query", task.ID, domain.EntityTask)
	if !ok {
		return nil
	}
	rec, err := s.repo.GetTask(ctx, key)
	if err != nil {
		s.log.Debug("build movable groups query: can't get task", "id", task.ID.String(), "error", err)
		return nil
	}

	q := query.New(query.Groups)
	if rec.GroupID.Valid {
		q = q.Where(query.FieldID, query.Ne, rec.GroupID.Int64)
	}
	return q.OrderBy(query.Asc(query.FieldTitle))
}
