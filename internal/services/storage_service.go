package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/live"
	"todo/internal/logging"
	"todo/internal/repository/sqlite"
)

// storageServiceImpl implements the StorageService interface
type storageServiceImpl struct {
	repo   sqlite.Repository
	mapper *domain.Mapper
	log    *slog.Logger
	now    func() time.Time
}

// Option configures the storage service.
type Option func(*storageServiceImpl)

// WithLogger sets the logger used for the log-and-ignore paths.
func WithLogger(l *slog.Logger) Option {
	return func(s *storageServiceImpl) { s.log = logging.OrDiscard(l) }
}

// WithClock replaces the clock that stamps new tasks.
func WithClock(now func() time.Time) Option {
	return func(s *storageServiceImpl) { s.now = now }
}

// NewStorageService creates a new StorageService instance
func NewStorageService(repo sqlite.Repository, opts ...Option) StorageService {
	s := &storageServiceImpl{
		repo:   repo,
		mapper: domain.NewMapper(),
		log:    logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// mutationKey extracts the store key of id for a mutation. An identity that
// is not a store reference at all is a contract violation; a store reference
// to another kind of record is unresolvable and is logged.
func (s *storageServiceImpl) mutationKey(op string, id domain.EntityID, entity string) (int64, bool) {
	ref, ok := id.AsStoreRef()
	if !ok {
		panic(errors.NewContractError(op, fmt.Sprintf("%q is not a %s store reference", id.String(), entity)))
	}
	if ref.Entity != entity {
		s.log.Error(op+": reference does not resolve to a "+entity, "id", id.String())
		return 0, false
	}
	return ref.Key, true
}

// lookupKey is mutationKey for read paths: any foreign identity is logged
// and treated as unresolvable.
func (s *storageServiceImpl) lookupKey(op string, id domain.EntityID, entity string) (int64, bool) {
	ref, ok := id.AsStoreRef()
	if !ok || ref.Entity != entity {
		s.log.Error(op+": not a store reference", "id", id.String(), "kind", id.Kind().String())
		return 0, false
	}
	return ref.Key, true
}

// write runs fn in the repository's write scope and applies the
// log-and-ignore policy to whatever goes wrong.
func (s *storageServiceImpl) write(ctx context.Context, op string, id domain.EntityID, fn func(sqlite.Tx) error) {
	err := s.repo.WithTx(ctx, fn)
	if err == nil {
		return
	}
	attrs := []any{"id", id.String(), "error", err}
	if appErr, ok := errors.AsAppError(err); ok {
		attrs = append(attrs, appErr.LogAttrs()...)
	}
	if errors.ShouldLogError(err) {
		s.log.Error(op+" abandoned", attrs...)
		return
	}
	s.log.Debug(op+" ignored", attrs...)
}

// CreateGroup inserts a group with no tasks. Titles need not be unique.
func (s *storageServiceImpl) CreateGroup(ctx context.Context, title string) {
	rec := sqlite.Group{Title: sql.NullString{String: title, Valid: true}}
	s.write(ctx, "create group", domain.EntityID{}, func(tx sqlite.Tx) error {
		return tx.CreateGroup(ctx, &rec)
	})
}

// UpdateGroup overwrites the group's title.
func (s *storageServiceImpl) UpdateGroup(ctx context.Context, group domain.Group) {
	key, ok := s.mutationKey("update group", group.ID, domain.EntityGroup)
	if !ok {
		return
	}
	rec := s.mapper.Group.ToDatabase(group, key)
	s.write(ctx, "update group", group.ID, func(tx sqlite.Tx) error {
		return tx.UpdateGroup(ctx, &rec)
	})
}

// DeleteGroup deletes the group. Its tasks survive without a group.
func (s *storageServiceImpl) DeleteGroup(ctx context.Context, group domain.Group) {
	key, ok := s.mutationKey("delete group", group.ID, domain.EntityGroup)
	if !ok {
		return
	}
	s.write(ctx, "delete group", group.ID, func(tx sqlite.Tx) error {
		return tx.DeleteGroup(ctx, key)
	})
}

// CreateTask inserts task stamped with the current time. When source names
// a group the group must still exist, otherwise nothing is written.
func (s *storageServiceImpl) CreateTask(ctx context.Context, task domain.Task, source domain.TaskSource) {
	rec := s.mapper.Task.NewRecord(task, s.now())

	group, inGroup := source.Group()
	var groupKey int64
	if inGroup {
		key, ok := s.mutationKey("create task", group.ID, domain.EntityGroup)
		if !ok {
			return
		}
		groupKey = key
	}

	err := s.repo.WithTx(ctx, func(tx sqlite.Tx) error {
		if inGroup {
			if _, err := tx.GetGroup(ctx, groupKey); err != nil {
				return err
			}
			rec.GroupID = sql.NullInt64{Int64: groupKey, Valid: true}
		}
		return tx.CreateTask(ctx, &rec)
	})
	if err != nil {
		// An unresolvable group abandons the create; report it loudly.
		s.log.Error("create task abandoned", "title", task.Title, "source", source.String(), "error", err)
	}
}

// UpdateTask overwrites title, priority, completion and due-today. Memo and
// group are left alone.
func (s *storageServiceImpl) UpdateTask(ctx context.Context, task domain.Task) {
	key, ok := s.mutationKey("update task", task.ID, domain.EntityTask)
	if !ok {
		return
	}
	rec := s.mapper.Task.ToDatabase(task, key)
	s.write(ctx, "update task", task.ID, func(tx sqlite.Tx) error {
		return tx.UpdateTask(ctx, &rec)
	})
}

// DeleteTask deletes the task along with its memo.
func (s *storageServiceImpl) DeleteTask(ctx context.Context, task domain.Task) {
	key, ok := s.mutationKey("delete task", task.ID, domain.EntityTask)
	if !ok {
		return
	}
	s.write(ctx, "delete task", task.ID, func(tx sqlite.Tx) error {
		return tx.DeleteTask(ctx, key)
	})
}

// MoveTask repoints the task at the group. Both records are resolved in the
// same write scope; if either is gone nothing changes.
func (s *storageServiceImpl) MoveTask(ctx context.Context, taskID, groupID domain.EntityID) {
	taskKey, ok := s.mutationKey("move task", taskID, domain.EntityTask)
	if !ok {
		return
	}
	groupKey, ok := s.mutationKey("move task", groupID, domain.EntityGroup)
	if !ok {
		return
	}
	s.write(ctx, "move task", taskID, func(tx sqlite.Tx) error {
		if _, err := tx.GetTask(ctx, taskKey); err != nil {
			return err
		}
		if _, err := tx.GetGroup(ctx, groupKey); err != nil {
			return err
		}
		return tx.SetTaskGroup(ctx, taskKey, sql.NullInt64{Int64: groupKey, Valid: true})
	})
}

// UpdateMemo replaces or clears the task's memo. A replacement always
// deletes the old memo record and attaches a new one; content is never
// edited in place.
func (s *storageServiceImpl) UpdateMemo(ctx context.Context, task domain.Task, memo *domain.Memo) {
	key, ok := s.mutationKey("update memo", task.ID, domain.EntityTask)
	if !ok {
		return
	}
	s.write(ctx, "update memo", task.ID, func(tx sqlite.Tx) error {
		rec, err := tx.GetTask(ctx, key)
		if err != nil {
			return err
		}
		if memo == nil {
			return tx.DetachMemo(ctx, key)
		}
		if rec.MemoID.Valid {
			if err := tx.DeleteMemo(ctx, rec.MemoID.Int64); err != nil {
				return err
			}
		}
		fresh := s.mapper.Memo.NewRecord(*memo, key)
		return tx.CreateMemo(ctx, &fresh)
	})
}

// TaskHandle returns a live handle to the stored task.
func (s *storageServiceImpl) TaskHandle(ctx context.Context, task domain.Task) (live.Observable[domain.Task], bool) {
	key, ok := s.lookupKey("task handle", task.ID, domain.EntityTask)
	if !ok {
		return nil, false
	}
	rec, err := s.repo.GetTask(ctx, key)
	if err != nil {
		s.log.Debug("task handle: can't get task", "id", task.ID.String(), "error", err)
		return nil, false
	}
	return s.taskHandle(s.mapper.Task.FromDatabase(*rec)), true
}

func (s *storageServiceImpl) taskHandle(task domain.Task) *live.StoreHandle[domain.Task] {
	return live.NewStoreHandle(task, s.loadTask, s.repo.Subscribe)
}

func (s *storageServiceImpl) groupHandle(group domain.Group) *live.StoreHandle[domain.Group] {
	return live.NewStoreHandle(group, s.loadGroup, s.repo.Subscribe)
}

func (s *storageServiceImpl) loadTask(ctx context.Context, id domain.EntityID) (domain.Task, error) {
	ref, ok := id.AsStoreRef()
	if !ok {
		return domain.Task{}, errors.NewNotFoundError("task", id.String())
	}
	rec, err := s.repo.GetTask(ctx, ref.Key)
	if err != nil {
		return domain.Task{}, err
	}
	return s.mapper.Task.FromDatabase(*rec), nil
}

func (s *storageServiceImpl) loadGroup(ctx context.Context, id domain.EntityID) (domain.Group, error) {
	ref, ok := id.AsStoreRef()
	if !ok {
		return domain.Group{}, errors.NewNotFoundError("group", id.String())
	}
	rec, err := s.repo.GetGroup(ctx, ref.Key)
	if err != nil {
		return domain.Group{}, err
	}
	return s.mapper.Group.FromDatabase(*rec), nil
}
