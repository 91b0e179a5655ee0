package qtype

import (
	"strings"
	"unicode/utf8"
)

const tfMaxExplanation = 2000

type trueFalseStrategy struct{}

func (trueFalseStrategy) Type() Type { return TypeTrueFalse }

func (trueFalseStrategy) Validate(in Input) error {
	d := in.TrueFalse
	if d == nil {
		return ruleErrf(CodeTrueFalseDataRequired, "true_false_data",
			"true_false_data is required for true_false questions")
	}
	if d.CorrectAnswer == nil {
		return ruleErrf(CodeTrueFalseAnswerRequired, "true_false_data.correct_answer",
			"correct_answer must be supplied")
	}
	if d.Explanation != "" {
		if strings.TrimSpace(d.Explanation) == "" {
			return ruleErrf(CodeTrueFalseExplanation, "true_false_data.explanation",
				"explanation must not be blank when present")
		}
		if utf8.RuneCountInString(d.Explanation) > tfMaxExplanation {
			return ruleErrf(CodeTrueFalseExplanation, "true_false_data.explanation",
				"explanation exceeds %d characters", tfMaxExplanation)
		}
	}
	return timeLimitRule(d.TimeLimitSeconds, CodeTrueFalseTimeLimit, "true_false_data.time_limit_seconds")
}
