package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_LineCount(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"one", 1},
		{"one\n", 1},
		{"one\ntwo", 2},
		{"\n\n", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, v.LineCount(tt.input), "LineCount(%q)", tt.input)
	}
}

func TestValidator_IsValidStringLength(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.IsValidStringLength("日本語", 1, 3))
	assert.False(t, v.IsValidStringLength("日本語", 1, 2))
	assert.False(t, v.IsValidStringLength("", 1, 2))
}

func TestValidator_HasNoControlCharacters(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.HasNoControlCharacters("plain text"))
	assert.False(t, v.HasNoControlCharacters("tab\there"))
	assert.False(t, v.HasNoControlCharacters("bell\a"))
}

func TestValidationError_Messages(t *testing.T) {
	ve := NewValidationError()
	assert.Equal(t, "validation error", ve.Error())
	assert.Equal(t, "Input validation failed", ve.GetUserFriendlyMessage())
	assert.NoError(t, ve.orNil())

	ve.AddRequiredError("title")
	assert.Equal(t, "validation error for field 'title': title is required", ve.Error())
	assert.Equal(t, "title is required", ve.GetUserFriendlyMessage())
	assert.True(t, IsValidationError(ve.orNil()))

	ve.AddInvalidLengthError("memo", 20, 0, 15, "lines")
	assert.Contains(t, ve.Error(), "multiple validation errors")
	assert.Contains(t, ve.GetUserFriendlyMessage(), "- memo must be at most 15 lines long")
}
