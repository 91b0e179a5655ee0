package qtype

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	mcqMinOptions    = 2
	mcqMaxOptions    = 10
	mcqMaxOptionText = 500
	maxTimeLimitSecs = 3600
)

type mcqStrategy struct{}

func (mcqStrategy) Type() Type { return TypeMCQ }

func (mcqStrategy) Validate(in Input) error {
	d := in.MCQ
	if d == nil {
		return ruleErrf(CodeMCQDataRequired, "mcq_data", "mcq_data is required for mcq questions")
	}
	if n := len(d.Options); n < mcqMinOptions || n > mcqMaxOptions {
		return ruleErrf(CodeMCQOptionCount, "mcq_data.options",
			"option count %d outside [%d, %d]", n, mcqMinOptions, mcqMaxOptions)
	}
	correct := 0
	for i, opt := range d.Options {
		field := fmt.Sprintf("mcq_data.options[%d].text", i)
		if strings.TrimSpace(opt.Text) == "" {
			return ruleErrf(CodeMCQOptionText, field, "option text must not be blank")
		}
		if utf8.RuneCountInString(opt.Text) > mcqMaxOptionText {
			return ruleErrf(CodeMCQOptionText, field,
				"option text exceeds %d characters", mcqMaxOptionText)
		}
		if opt.IsCorrect {
			correct++
		}
	}
	if correct == 0 {
		return ruleErrf(CodeMCQNoCorrect, "mcq_data.options", "at least one option must be correct")
	}
	if correct > 1 && !d.AllowMultipleCorrect {
		return ruleErrf(CodeMCQMultipleCorrect, "mcq_data.options",
			"%d correct options but allow_multiple_correct is false", correct)
	}
	if err := timeLimitRule(d.TimeLimitSeconds, CodeMCQTimeLimit, "mcq_data.time_limit_seconds"); err != nil {
		return err
	}
	return nil
}

// timeLimitRule enforces the shared optional (0, 3600] window
func timeLimitRule(v *int, code, field string) error {
	if v == nil {
		return nil
	}
	if *v <= 0 || *v > maxTimeLimitSecs {
		return ruleErrf(code, field, "time limit %d outside (0, %d]", *v, maxTimeLimitSecs)
	}
	return nil
}
