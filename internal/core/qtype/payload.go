package qtype

// Payload structs are both the command blocks and the persisted JSONB
// shapes; tags are the storage contract, do not rename

// MCQOption is one selectable answer
type MCQOption struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// MCQData is the multiple-choice payload
type MCQData struct {
	Options              []MCQOption `json:"options"`
	AllowMultipleCorrect bool        `json:"allow_multiple_correct,omitempty"`
	ShuffleOptions       bool        `json:"shuffle_options,omitempty"`
	TimeLimitSeconds     *int        `json:"time_limit_seconds,omitempty"`
}

// TrueFalseData is the true/false payload. CorrectAnswer is a pointer
// so an absent answer is distinguishable from false
type TrueFalseData struct {
	CorrectAnswer    *bool  `json:"correct_answer"`
	Explanation      string `json:"explanation,omitempty"`
	TimeLimitSeconds *int   `json:"time_limit_seconds,omitempty"`
}

// RubricCriterion is one graded dimension of an essay rubric
type RubricCriterion struct {
	Criterion string  `json:"criterion"`
	MaxPoints float64 `json:"max_points"`
}

// EssayRubric bundles grading criteria
type EssayRubric struct {
	Criteria []RubricCriterion `json:"criteria"`
}

// EssayData is the essay payload
type EssayData struct {
	MinWords int          `json:"min_words"`
	MaxWords int          `json:"max_words"`
	Rubric   *EssayRubric `json:"rubric,omitempty"`
}
