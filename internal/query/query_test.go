package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery_BuildersDoNotMutateReceiver(t *testing.T) {
	base := New(Tasks)
	filtered := base.Where(FieldCompleted, Eq, true)
	sorted := filtered.OrderBy(Desc(FieldCreatedAt), Asc(FieldTitle))

	assert.Empty(t, base.Conditions)
	assert.Len(t, filtered.Conditions, 1)
	assert.Empty(t, filtered.Sort)
	assert.Len(t, sorted.Sort, 2)
}

func TestQuery_String(t *testing.T) {
	tests := []struct {
		name  string
		query *Query
		want  string
	}{
		{
			name:  "bare",
			query: New(Groups),
			want:  "groups",
		},
		{
			name:  "conditions and sort",
			query: New(Tasks).Where(FieldCompleted, Eq, false).Where(FieldGroup, Eq, int64(3)).OrderBy(Desc(FieldCreatedAt)),
			want:  "tasks where completed = false and group = 3 order by created_at desc",
		},
		{
			name:  "match none wins over conditions",
			query: New(Tasks).Where(FieldCompleted, Eq, true).None(),
			want:  "tasks where false",
		},
		{
			name: "nil",
			want: "<nil>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.String())
		})
	}
}

func TestQuery_Equal(t *testing.T) {
	a := New(Groups).Where(FieldID, Ne, int64(1)).OrderBy(Asc(FieldTitle))
	b := New(Groups).Where(FieldID, Ne, int64(1)).OrderBy(Asc(FieldTitle))
	c := New(Groups).OrderBy(Asc(FieldTitle))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	assert.True(t, (*Query)(nil).Equal(nil))
}
