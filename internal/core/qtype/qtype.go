// Package qtype implements question-type strategies: per-type payload
// validation and aggregate assembly. The package is pure; callers
// translate RuleError into transport errors at the service boundary
package qtype

import "fmt"

// Type discriminates the closed set of question types
type Type string

const (
	// TypeMCQ is a multiple-choice question
	TypeMCQ Type = "mcq"
	// TypeTrueFalse is a true/false question
	TypeTrueFalse Type = "true_false"
	// TypeEssay is a free-text essay question
	TypeEssay Type = "essay"
)

// ParseType maps a wire value onto a Type. ok is false for anything
// outside the closed set (no case folding; wire values are exact)
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeMCQ, TypeTrueFalse, TypeEssay:
		return Type(s), true
	default:
		return "", false
	}
}

// Types returns the closed set in declaration order
func Types() []Type { return []Type{TypeMCQ, TypeTrueFalse, TypeEssay} }

// Rule codes emitted by this package. Values are stable wire codes;
// the common set matches the platform error taxonomy by string value
const (
	CodeMissingField     = "MISSING_REQUIRED_FIELD"
	CodeConstraint       = "CONSTRAINT_VIOLATION"
	CodeInvalidType      = "INVALID_QUESTION_TYPE"
	CodeTypeDataMismatch = "TYPE_DATA_MISMATCH"

	CodeMCQDataRequired    = "MCQ_DATA_REQUIRED"
	CodeMCQOptionCount     = "MCQ_OPTION_COUNT_INVALID"
	CodeMCQOptionText      = "MCQ_OPTION_TEXT_INVALID"
	CodeMCQNoCorrect       = "MCQ_NO_CORRECT_OPTION"
	CodeMCQMultipleCorrect = "MCQ_MULTIPLE_CORRECT_NOT_ALLOWED"
	CodeMCQTimeLimit       = "MCQ_TIME_LIMIT_INVALID"

	CodeTrueFalseDataRequired   = "TRUE_FALSE_DATA_REQUIRED"
	CodeTrueFalseAnswerRequired = "TRUE_FALSE_ANSWER_REQUIRED"
	CodeTrueFalseExplanation    = "TRUE_FALSE_EXPLANATION_INVALID"
	CodeTrueFalseTimeLimit      = "TRUE_FALSE_TIME_LIMIT_INVALID"

	CodeEssayDataRequired = "ESSAY_DATA_REQUIRED"
	CodeEssayWordLimit    = "ESSAY_WORD_LIMIT_INVALID"
	CodeEssayRubric       = "ESSAY_RUBRIC_INVALID"
)

// RuleError is a single validation rule violation.
// Field uses JSON-path style ("mcq_data.options[2].text")
type RuleError struct {
	Code   string
	Field  string
	Reason string
}

// Error renders "CODE: reason"
func (e *RuleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

func ruleErrf(code, field, format string, a ...any) *RuleError {
	return &RuleError{Code: code, Field: field, Reason: fmt.Sprintf(format, a...)}
}

// Strategy validates the type-specific payload of an Input.
// Implementations return *RuleError on the first violated rule
type Strategy interface {
	Type() Type
	Validate(in Input) error
}

// Closed dispatch table; the three types are the whole universe
var strategies = map[Type]Strategy{
	TypeMCQ:       mcqStrategy{},
	TypeTrueFalse: trueFalseStrategy{},
	TypeEssay:     essayStrategy{},
}

// ForType returns the strategy for t. ok is false for the zero Type
// or anything never registered
func ForType(t Type) (Strategy, bool) {
	s, ok := strategies[t]
	return s, ok
}
