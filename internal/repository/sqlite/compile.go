package sqlite

import (
	"fmt"
	"strings"

	"todo/internal/errors"
	"todo/internal/query"
)

var taskColumns = map[query.Field]string{
	query.FieldID:        "t.id",
	query.FieldTitle:     "t.title",
	query.FieldCreatedAt: "t.created_at",
	query.FieldPriority:  "t.priority",
	query.FieldCompleted: "t.completed",
	query.FieldDueToday:  "t.due_today",
	query.FieldGroup:     "t.group_id",
}

var groupColumns = map[query.Field]string{
	query.FieldID:    "g.id",
	query.FieldTitle: "g.title",
}

// Clause is the SQL rendering of a query.Query.
type Clause struct {
	Where   string
	OrderBy string
	Args    []interface{}
}

// SQL appends the clause to a base SELECT statement.
func (c Clause) SQL(base string) string {
	var sb strings.Builder
	sb.WriteString(base)
	if c.Where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(c.Where)
	}
	if c.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(c.OrderBy)
	}
	return sb.String()
}

// Compile renders q against the column set of want. A nil query selects
// every row in storage order.
func Compile(q *query.Query, want query.Entity) (Clause, error) {
	if q == nil {
		return Clause{}, nil
	}
	if q.Entity != want {
		return Clause{}, errors.NewInvalidInputError("entity", q.Entity, fmt.Sprintf("expected a %s query", want))
	}
	columns, ok := columnsFor(want)
	if !ok {
		return Clause{}, errors.NewInvalidInputError("entity", want, "unknown entity")
	}

	var c Clause
	if q.MatchNone {
		c.Where = "0 = 1"
	} else {
		terms := make([]string, 0, len(q.Conditions))
		for _, cond := range q.Conditions {
			col, ok := columns[cond.Field]
			if !ok {
				return Clause{}, errors.NewInvalidInputError("field", cond.Field, "not queryable on "+string(want))
			}
			op, err := sqlOp(cond.Op)
			if err != nil {
				return Clause{}, err
			}
			terms = append(terms, col+" "+op+" ?")
			c.Args = append(c.Args, bindValue(cond.Value))
		}
		c.Where = strings.Join(terms, " AND ")
	}

	keys := make([]string, 0, len(q.Sort))
	for _, key := range q.Sort {
		col, ok := columns[key.Field]
		if !ok {
			return Clause{}, errors.NewInvalidInputError("sort", key.Field, "not sortable on "+string(want))
		}
		if key.Ascending {
			keys = append(keys, col+" ASC")
		} else {
			keys = append(keys, col+" DESC")
		}
	}
	c.OrderBy = strings.Join(keys, ", ")
	return c, nil
}

func columnsFor(e query.Entity) (map[query.Field]string, bool) {
	switch e {
	case query.Tasks:
		return taskColumns, true
	case query.Groups:
		return groupColumns, true
	default:
		return nil, false
	}
}

func sqlOp(op query.Op) (string, error) {
	switch op {
	case query.Eq:
		return "=", nil
	case query.Ne:
		return "!=", nil
	default:
		return "", errors.NewInvalidInputError("operator", op, "unsupported")
	}
}

// bindValue stores booleans as the 0/1 integers the schema uses.
func bindValue(v interface{}) interface{} {
	switch b := v.(type) {
	case bool:
		if b {
			return 1
		}
		return 0
	default:
		return v
	}
}
