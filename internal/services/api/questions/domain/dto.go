// Package domain holds DTOs and ports for the questions module
package domain

import (
	"time"

	"qbank/internal/core/qtype"
	"qbank/internal/core/queryplan"
	"qbank/internal/core/taxonomy"
	adom "qbank/internal/services/audit/domain"
)

// Operation labels for upsert outcomes
const (
	OperationCreated = "created"
	OperationUpdated = "updated"
)

// UpsertInput is the idempotent write envelope. The natural key is
// (user, bank, source_question_id); repeating a request converges on
// the same row
type UpsertInput struct {
	UserID              int64                `json:"user_id,omitempty" validate:"omitempty,gt=0" example:"12345"`
	SourceQuestionID    string               `json:"source_question_id" validate:"required,max=128" example:"src-q-001"`
	QuestionType        string               `json:"question_type" validate:"required,oneof=mcq true_false essay" example:"mcq"`
	Title               string               `json:"title" validate:"required,max=500" example:"Capital of France"`
	Content             string               `json:"content" validate:"required" example:"Which city is the capital of France?"`
	Status              string               `json:"status" validate:"required,oneof=draft published archived" example:"published"`
	Points              *int                 `json:"points,omitempty" validate:"omitempty,gte=0,lte=1000" example:"5"`
	DisplayOrder        *int                 `json:"display_order,omitempty" validate:"omitempty,gte=0" example:"1"`
	SolutionExplanation string               `json:"solution_explanation,omitempty"`
	Attachments         []map[string]any     `json:"attachments,omitempty"`
	QuestionSettings    map[string]any       `json:"question_settings,omitempty"`
	Metadata            map[string]any       `json:"metadata,omitempty"`
	Taxonomy            TaxonomyBlock        `json:"taxonomy"`
	MCQData             *qtype.MCQData       `json:"mcq_data,omitempty"`
	TrueFalseData       *qtype.TrueFalseData `json:"true_false_data,omitempty"`
	EssayData           *qtype.EssayData     `json:"essay_data,omitempty"`
}

// TaxonomyBlock classifies a question against the bank's taxonomy set
type TaxonomyBlock struct {
	Categories      CategoryLevels `json:"categories"`
	Tags            []string       `json:"tags,omitempty"`
	Quizzes         []string       `json:"quizzes,omitempty"`
	DifficultyLevel string         `json:"difficulty_level" validate:"required" example:"easy"`
}

// CategoryLevels names one category per hierarchy level. Deeper levels
// require every shallower one to be present
type CategoryLevels struct {
	Level1 string `json:"level_1,omitempty" example:"science"`
	Level2 string `json:"level_2,omitempty"`
	Level3 string `json:"level_3,omitempty"`
	Level4 string `json:"level_4,omitempty"`
}

// Selection lifts the wire block into the core taxonomy shape
func (t TaxonomyBlock) Selection() taxonomy.Selection {
	return taxonomy.Selection{
		Categories: map[int]string{
			1: t.Categories.Level1,
			2: t.Categories.Level2,
			3: t.Categories.Level3,
			4: t.Categories.Level4,
		},
		Tags:       t.Tags,
		Quizzes:    t.Quizzes,
		Difficulty: t.DifficultyLevel,
	}
}

// UpsertCommand carries a validated upsert through the service
type UpsertCommand struct {
	Principal int64
	UserID    int64
	BankID    int64
	Meta      adom.Meta
	In        UpsertInput
}

// UpsertOutput reports which side of the upsert fired and how many
// taxonomy relationship rows the question now carries
type UpsertOutput struct {
	QuestionID                 string `json:"question_id" example:"0192f0c1-5b7a-7cc3-9d2e-8f6a1b2c3d4e"`
	SourceQuestionID           string `json:"source_question_id" example:"src-q-001"`
	Operation                  string `json:"operation" example:"created"`
	TaxonomyRelationshipsCount int    `json:"taxonomy_relationships_count" example:"2"`
}

// ListCommand carries a parsed query through the service
type ListCommand struct {
	Principal int64
	UserID    int64
	BankID    int64
	Meta      adom.Meta
	Params    queryplan.Params
}

// QuestionRow is one question in a query result page
type QuestionRow struct {
	QuestionID          string               `json:"question_id"`
	SourceQuestionID    string               `json:"source_question_id"`
	QuestionType        string               `json:"question_type"`
	Title               string               `json:"title"`
	Content             string               `json:"content"`
	Status              string               `json:"status"`
	Points              *int                 `json:"points,omitempty"`
	DisplayOrder        *int                 `json:"display_order,omitempty"`
	SolutionExplanation string               `json:"solution_explanation,omitempty"`
	MCQData             *qtype.MCQData       `json:"mcq_data,omitempty"`
	TrueFalseData       *qtype.TrueFalseData `json:"true_false_data,omitempty"`
	EssayData           *qtype.EssayData     `json:"essay_data,omitempty"`
	Attachments         []map[string]any     `json:"attachments,omitempty"`
	QuestionSettings    map[string]any       `json:"question_settings,omitempty"`
	Metadata            map[string]any       `json:"metadata,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
	PublishedAt         *time.Time           `json:"published_at,omitempty"`
	ArchivedAt          *time.Time           `json:"archived_at,omitempty"`
}

// Pagination describes the page window relative to the filtered total
type Pagination struct {
	CurrentPage   int   `json:"current_page"`
	PageSize      int   `json:"page_size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	IsFirst       bool  `json:"is_first"`
	IsLast        bool  `json:"is_last"`
	HasNext       bool  `json:"has_next"`
	HasPrevious   bool  `json:"has_previous"`
}

// PageOf derives the pagination envelope for a zero-based page window.
// An empty result set has zero pages and the requested page is both
// first and last
func PageOf(page, size int, total int64) Pagination {
	pages := 0
	if total > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Pagination{
		CurrentPage:   page,
		PageSize:      size,
		TotalElements: total,
		TotalPages:    pages,
		IsFirst:       page == 0,
		IsLast:        pages == 0 || page >= pages-1,
		HasNext:       page < pages-1,
		HasPrevious:   page > 0,
	}
}

// Filters echoes back which filter axes the query actually applied
type Filters struct {
	Applied     map[string]any `json:"applied"`
	ResultCount int            `json:"result_count"`
}

// ListOutput is one page of questions plus its pagination envelope
type ListOutput struct {
	Questions  []QuestionRow `json:"questions"`
	Pagination Pagination    `json:"pagination"`
	Filters    Filters       `json:"filters"`
}
