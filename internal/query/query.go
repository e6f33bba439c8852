// Package query describes a store-neutral fetch request: which records, which
// predicates must hold, and the ordering of the result.
package query

import (
	"fmt"
	"strings"
)

// Entity names the record collection a query reads.
type Entity string

const (
	Tasks  Entity = "tasks"
	Groups Entity = "groups"
)

// Field is a queryable record attribute.
type Field string

const (
	FieldID        Field = "id"
	FieldTitle     Field = "title"
	FieldCreatedAt Field = "created_at"
	FieldPriority  Field = "priority"
	FieldCompleted Field = "completed"
	FieldDueToday  Field = "due_today"
	FieldGroup     Field = "group"
)

// Op is a comparison operator.
type Op string

const (
	Eq Op = "="
	Ne Op = "!="
)

// Condition is a single predicate term. Terms are combined with AND.
type Condition struct {
	Field Field
	Op    Op
	Value any
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %v", c.Field, c.Op, c.Value)
}

// SortKey orders results by one field.
type SortKey struct {
	Field     Field
	Ascending bool
}

func (k SortKey) String() string {
	if k.Ascending {
		return string(k.Field) + " asc"
	}
	return string(k.Field) + " desc"
}

// Query is an immutable-by-convention fetch request.
type Query struct {
	Entity     Entity
	Conditions []Condition
	// MatchNone makes the query yield no rows regardless of Conditions.
	MatchNone bool
	Sort      []SortKey
}

// New creates a query over entity with no predicate and no ordering.
func New(entity Entity) *Query {
	return &Query{Entity: entity}
}

// Where returns a copy of q with an additional AND term.
func (q *Query) Where(field Field, op Op, value any) *Query {
	out := q.clone()
	out.Conditions = append(out.Conditions, Condition{Field: field, Op: op, Value: value})
	return out
}

// None returns a copy of q that matches nothing.
func (q *Query) None() *Query {
	out := q.clone()
	out.MatchNone = true
	return out
}

// OrderBy returns a copy of q with keys replacing the sort chain.
func (q *Query) OrderBy(keys ...SortKey) *Query {
	out := q.clone()
	out.Sort = append([]SortKey(nil), keys...)
	return out
}

// Asc and Desc build sort keys.
func Asc(f Field) SortKey  { return SortKey{Field: f, Ascending: true} }
func Desc(f Field) SortKey { return SortKey{Field: f, Ascending: false} }

func (q *Query) clone() *Query {
	return &Query{
		Entity:     q.Entity,
		Conditions: append([]Condition(nil), q.Conditions...),
		MatchNone:  q.MatchNone,
		Sort:       append([]SortKey(nil), q.Sort...),
	}
}

// Equal reports structural equality.
func (q *Query) Equal(other *Query) bool {
	if q == nil || other == nil {
		return q == other
	}
	return q.String() == other.String()
}

// String renders the query for logs, e.g.
// "tasks where completed = false and group = 3 order by created_at desc".
func (q *Query) String() string {
	if q == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(string(q.Entity))
	switch {
	case q.MatchNone:
		b.WriteString(" where false")
	case len(q.Conditions) > 0:
		terms := make([]string, len(q.Conditions))
		for i, c := range q.Conditions {
			terms[i] = c.String()
		}
		b.WriteString(" where ")
		b.WriteString(strings.Join(terms, " and "))
	}
	if len(q.Sort) > 0 {
		keys := make([]string, len(q.Sort))
		for i, k := range q.Sort {
			keys[i] = k.String()
		}
		b.WriteString(" order by ")
		b.WriteString(strings.Join(keys, ", "))
	}
	return b.String()
}
