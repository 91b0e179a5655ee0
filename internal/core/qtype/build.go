package qtype

import (
	"strings"
	"unicode/utf8"
)

const (
	maxTitleChars = 500
	maxPoints     = 1000
)

// Input is the strategy-facing slice of an upsert command: the common
// fields every type shares plus the three mutually exclusive payload
// blocks exactly as bound from the wire
type Input struct {
	Type         string
	Title        string
	Content      string
	Points       *int
	DisplayOrder *int

	MCQ       *MCQData
	TrueFalse *TrueFalseData
	Essay     *EssayData
}

// Aggregate is a validated, typed question payload: the matching block
// set, the other two guaranteed nil
type Aggregate struct {
	Type      Type
	MCQ       *MCQData
	TrueFalse *TrueFalseData
	Essay     *EssayData
}

// Build validates in and assembles the typed aggregate.
// Order: common field rules, type parse, payload/type consistency,
// then the per-type strategy. First violation wins
func Build(in Input) (Aggregate, error) {
	if err := validateCommon(in); err != nil {
		return Aggregate{}, err
	}
	t, ok := ParseType(in.Type)
	if !ok {
		return Aggregate{}, ruleErrf(CodeInvalidType, "question_type",
			"unknown question_type %q", in.Type)
	}
	if err := matchPayload(t, in); err != nil {
		return Aggregate{}, err
	}
	s, _ := ForType(t)
	if err := s.Validate(in); err != nil {
		return Aggregate{}, err
	}
	agg := Aggregate{Type: t}
	switch t {
	case TypeMCQ:
		agg.MCQ = in.MCQ
	case TypeTrueFalse:
		agg.TrueFalse = in.TrueFalse
	case TypeEssay:
		agg.Essay = in.Essay
	}
	return agg, nil
}

func validateCommon(in Input) error {
	if strings.TrimSpace(in.Title) == "" {
		return ruleErrf(CodeMissingField, "title", "title is required")
	}
	if utf8.RuneCountInString(in.Title) > maxTitleChars {
		return ruleErrf(CodeConstraint, "title", "title exceeds %d characters", maxTitleChars)
	}
	if strings.TrimSpace(in.Content) == "" {
		return ruleErrf(CodeMissingField, "content", "content is required")
	}
	if in.Points != nil && (*in.Points < 0 || *in.Points > maxPoints) {
		return ruleErrf(CodeConstraint, "points", "points %d outside [0, %d]", *in.Points, maxPoints)
	}
	if in.DisplayOrder != nil && *in.DisplayOrder < 0 {
		return ruleErrf(CodeConstraint, "display_order", "display_order must be >= 0")
	}
	return nil
}

// matchPayload rejects payload blocks that contradict the declared
// type. An absent matching block is left for the strategy so the
// type-specific *_DATA_REQUIRED code is reported
func matchPayload(t Type, in Input) error {
	foreign := ""
	switch {
	case t != TypeMCQ && in.MCQ != nil:
		foreign = "mcq_data"
	case t != TypeTrueFalse && in.TrueFalse != nil:
		foreign = "true_false_data"
	case t != TypeEssay && in.Essay != nil:
		foreign = "essay_data"
	}
	if foreign != "" {
		return ruleErrf(CodeTypeDataMismatch, foreign,
			"%s does not belong on a %s question", foreign, t)
	}
	return nil
}
