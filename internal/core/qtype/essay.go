package qtype

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	essayMaxWordsCeiling = 10000
	essayMaxCriterion    = 1000
	essayMaxPoints       = 1000
)

type essayStrategy struct{}

func (essayStrategy) Type() Type { return TypeEssay }

func (essayStrategy) Validate(in Input) error {
	d := in.Essay
	if d == nil {
		return ruleErrf(CodeEssayDataRequired, "essay_data", "essay_data is required for essay questions")
	}
	switch {
	case d.MinWords < 0:
		return ruleErrf(CodeEssayWordLimit, "essay_data.min_words", "min_words must be >= 0")
	case d.MaxWords <= 0:
		return ruleErrf(CodeEssayWordLimit, "essay_data.max_words", "max_words must be > 0")
	case d.MaxWords > essayMaxWordsCeiling:
		return ruleErrf(CodeEssayWordLimit, "essay_data.max_words",
			"max_words exceeds %d", essayMaxWordsCeiling)
	case d.MinWords > d.MaxWords:
		return ruleErrf(CodeEssayWordLimit, "essay_data.min_words",
			"min_words %d exceeds max_words %d", d.MinWords, d.MaxWords)
	}
	if d.Rubric == nil {
		return nil
	}
	if len(d.Rubric.Criteria) == 0 {
		return ruleErrf(CodeEssayRubric, "essay_data.rubric.criteria",
			"rubric must carry at least one criterion")
	}
	for i, c := range d.Rubric.Criteria {
		field := fmt.Sprintf("essay_data.rubric.criteria[%d]", i)
		if strings.TrimSpace(c.Criterion) == "" {
			return ruleErrf(CodeEssayRubric, field+".criterion", "criterion must not be blank")
		}
		if utf8.RuneCountInString(c.Criterion) > essayMaxCriterion {
			return ruleErrf(CodeEssayRubric, field+".criterion",
				"criterion exceeds %d characters", essayMaxCriterion)
		}
		if c.MaxPoints <= 0 || c.MaxPoints > essayMaxPoints {
			return ruleErrf(CodeEssayRubric, field+".max_points",
				"max_points %g outside (0, %d]", c.MaxPoints, essayMaxPoints)
		}
	}
	return nil
}
