package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"todo/internal/config"
)

// Limits are the input bounds shown to and enforced on the user.
type Limits struct {
	TitleMinLength      int
	TitleMaxLength      int
	GroupTitleMaxLength int
	// A memo is displayed with at least MemoMinLines rows and accepted with
	// up to MemoMaxLines lines.
	MemoMinLines int
	MemoMaxLines int
}

// DefaultLimits are used when no configuration is supplied.
var DefaultLimits = Limits{
	TitleMinLength:      1,
	TitleMaxLength:      50,
	GroupTitleMaxLength: 20,
	MemoMinLines:        10,
	MemoMaxLines:        15,
}

// LimitsFromConfig reads the validation section of cfg.
func LimitsFromConfig(cfg *config.Config) Limits {
	if cfg == nil {
		return DefaultLimits
	}
	v := cfg.Validation
	return Limits{
		TitleMinLength:      v.TitleMinLength,
		TitleMaxLength:      v.TitleMaxLength,
		GroupTitleMaxLength: v.GroupTitleMaxLength,
		MemoMinLines:        v.MemoMinLines,
		MemoMaxLines:        v.MemoMaxLines,
	}
}

// Validator provides common validation utilities
type Validator struct {
	limits Limits
}

// NewValidator creates a validator using DefaultLimits
func NewValidator() *Validator {
	return &Validator{limits: DefaultLimits}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{limits: LimitsFromConfig(cfg)}
}

func (v *Validator) Limits() Limits { return v.limits }

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks the character count of s, not its byte length
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(s)
	return length >= min && length <= max
}

// HasNoControlCharacters rejects newlines, tabs and other control characters
func (v *Validator) HasNoControlCharacters(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// LineCount counts the lines of s. A trailing newline does not start a new
// line.
func (v *Validator) LineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(s, "\n"), "\n") + 1
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
