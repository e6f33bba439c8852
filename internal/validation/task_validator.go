package validation

import (
	"todo/internal/domain"
)

// TaskValidator validates titles and memos entered through the CLI.
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a task validator with DefaultLimits
func NewTaskValidator() *TaskValidator {
	return NewTaskValidatorWith(NewValidator())
}

// NewTaskValidatorWith wraps v.
func NewTaskValidatorWith(v *Validator) *TaskValidator {
	return &TaskValidator{validator: v}
}

// ValidateTaskTitle validates a task title for creation or update
func (tv *TaskValidator) ValidateTaskTitle(title string) error {
	return tv.validateTitle("title", title, tv.validator.limits.TitleMaxLength)
}

// ValidateGroupTitle validates a group title
func (tv *TaskValidator) ValidateGroupTitle(title string) error {
	return tv.validateTitle("group_title", title, tv.validator.limits.GroupTitleMaxLength)
}

func (tv *TaskValidator) validateTitle(field, title string, maxLen int) error {
	validationError := NewValidationError()

	trimmed := tv.validator.TrimAndValidateString(title)
	if !tv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError(field)
		return validationError
	}

	minLen := tv.validator.limits.TitleMinLength
	if !tv.validator.IsValidStringLength(trimmed, minLen, maxLen) {
		validationError.AddInvalidLengthError(field, trimmed, minLen, maxLen, "characters")
	}
	if !tv.validator.HasNoControlCharacters(trimmed) {
		validationError.AddInvalidCharacterError(field, trimmed)
	}

	return validationError.orNil()
}

// ValidateMemo validates memo content. An empty memo clears it and is
// always valid.
func (tv *TaskValidator) ValidateMemo(content string) error {
	validationError := NewValidationError()

	maxLines := tv.validator.limits.MemoMaxLines
	if n := tv.validator.LineCount(content); n > maxLines {
		validationError.AddInvalidLengthError("memo", n, 0, maxLines, "lines")
	}

	return validationError.orNil()
}

// ValidateTask validates the user editable fields of task
func (tv *TaskValidator) ValidateTask(task domain.Task) error {
	validationError := NewValidationError()

	if err := tv.ValidateTaskTitle(task.Title); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			validationError.Errors = append(validationError.Errors, ve.Errors...)
		}
	}
	if task.Priority != domain.PriorityStandard && task.Priority != domain.PriorityHigh {
		validationError.AddInvalidFormatError("priority", int(task.Priority), "standard or high")
	}
	if task.Memo != nil {
		if err := tv.ValidateMemo(task.Memo.Content); err != nil {
			if ve, ok := err.(*ValidationError); ok {
				validationError.Errors = append(validationError.Errors, ve.Errors...)
			}
		}
	}

	return validationError.orNil()
}

// ParsePriority accepts "standard" or "high".
func (tv *TaskValidator) ParsePriority(s string) (domain.Priority, error) {
	switch tv.validator.TrimAndValidateString(s) {
	case "standard", "":
		return domain.PriorityStandard, nil
	case "high":
		return domain.PriorityHigh, nil
	}
	validationError := NewValidationError()
	validationError.AddInvalidFormatError("priority", s, "standard or high")
	return 0, validationError
}

// MemoDisplayLines splits content into at least MemoMinLines rows.
func (tv *TaskValidator) MemoDisplayLines(content string) []string {
	var lines []string
	if content != "" {
		lines = splitLines(content)
	}
	for len(lines) < tv.validator.limits.MemoMinLines {
		lines = append(lines, "")
	}
	return lines
}
