package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"todo/internal/bridge"
	"todo/internal/domain"
	"todo/internal/live"
	"todo/internal/query"
)

var errNoStore = fmt.Errorf("no store is configured for live queries; run with --preview")

func newRequest[T any](a *App, selector bridge.Selector[T], fetcher bridge.Fetcher[T], q *query.Query, opts ...bridge.Option[T]) (*bridge.FetchRequest[T], error) {
	if selector(a.env.DataSource()).IsLive() && fetcher == nil {
		return nil, errNoStore
	}
	opts = append([]bridge.Option[T]{
		bridge.WithQuery[T](q),
		bridge.WithQuantum[T](a.quantum()),
		bridge.WithLogger[T](a.log),
	}, opts...)
	return bridge.New(a.env, selector, fetcher, opts...), nil
}

// collect returns the first result set delivered for the slot.
func collect[T any](ctx context.Context, a *App, selector bridge.Selector[T], fetcher bridge.Fetcher[T], q *query.Query) ([]T, error) {
	req, err := newRequest(a, selector, fetcher, q)
	if err != nil {
		return nil, err
	}
	defer req.Close()

	updates := req.Updates()
	req.Activate(ctx)
	select {
	case u, ok := <-updates:
		if !ok {
			return nil, fmt.Errorf("listing closed before delivering results")
		}
		return live.Snapshots(u.Results), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// taskBoard renders the incomplete and completed sections together, each
// time either side changes.
type taskBoard struct {
	app        *App
	mu         sync.Mutex
	incomplete []domain.Task
	complete   []domain.Task
	seen       [2]bool
}

func (b *taskBoard) set(section int, tasks []domain.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if section == 0 {
		b.incomplete = tasks
	} else {
		b.complete = tasks
	}
	b.seen[section] = true
	if b.seen[0] && b.seen[1] {
		b.app.printTaskSections(b.incomplete, b.complete)
	}
}

// watchTasks prints both sections on every change until ctx is done.
func (a *App) watchTasks(ctx context.Context, incomplete, complete *query.Query) error {
	board := &taskBoard{app: a}
	onChange := func(section int) bridge.Option[domain.Task] {
		return bridge.OnChange(func(u bridge.Update[domain.Task]) {
			board.set(section, live.Snapshots(u.Results))
		})
	}

	inc, err := newRequest(a, bridge.SelectIncompleteTasks, a.api.Tasks, incomplete, onChange(0))
	if err != nil {
		return err
	}
	defer inc.Close()
	done, err := newRequest(a, bridge.SelectCompletedTasks, a.api.Tasks, complete, onChange(1))
	if err != nil {
		return err
	}
	defer done.Close()

	inc.Activate(ctx)
	done.Activate(ctx)
	<-ctx.Done()
	return nil
}

func (a *App) watchGroups(ctx context.Context, q *query.Query) error {
	req, err := newRequest(a, bridge.SelectGroups, a.api.Groups, q,
		bridge.OnChange(func(u bridge.Update[domain.Group]) {
			a.printGroups(live.Snapshots(u.Results))
		}))
	if err != nil {
		return err
	}
	defer req.Close()

	req.Activate(ctx)
	<-ctx.Done()
	return nil
}

func (a *App) printTaskSections(incomplete, complete []domain.Task) {
	if len(incomplete) == 0 && len(complete) == 0 {
		a.printf("No tasks found\n")
		return
	}
	a.printf("Incomplete (%d)\n", len(incomplete))
	for _, t := range incomplete {
		a.printf("  %s\n", formatTask(t))
	}
	a.printf("Completed (%d)\n", len(complete))
	for _, t := range complete {
		a.printf("  %s\n", formatTask(t))
	}
}

func (a *App) printGroups(groups []domain.Group) {
	if len(groups) == 0 {
		a.printf("No groups found\n")
		return
	}
	for _, g := range groups {
		a.printf("%s\n", formatGroup(g))
	}
}

func formatTask(t domain.Task) string {
	check := " "
	if t.Completed {
		check = "x"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s [%s] ", t.ID.String(), check)
	if t.Priority == domain.PriorityHigh {
		b.WriteString("!! ")
	}
	b.WriteString(t.Title)
	if t.DueToday {
		b.WriteString(" (today)")
	}
	if t.Memo != nil {
		b.WriteString(" +memo")
	}
	return b.String()
}

func formatGroup(g domain.Group) string {
	return fmt.Sprintf("%-10s %s (%d)", g.ID.String(), g.Title, g.TaskCount)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
