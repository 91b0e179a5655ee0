// Package repo provides the questions repository implementation
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"qbank/internal/core/qtype"
	"qbank/internal/core/queryplan"
	"qbank/internal/core/taxonomy"
	"qbank/internal/modkit/repokit"
	perr "qbank/internal/platform/errors"
	"qbank/internal/platform/store"
	"qbank/internal/services/api/questions/domain"
)

// Repo is the questions persistence surface used by the service layer
type Repo interface {
	// UpsertByNaturalKey converges on the row keyed by
	// (user_id, bank_id, source_question_id). created_at survives the
	// update arm untouched
	UpsertByNaturalKey(ctx context.Context, nq NewQuestion) (Persisted, error)

	// ReplaceForQuestion swaps the question's relationship rows for
	// the given set in place (delete then insert)
	ReplaceForQuestion(ctx context.Context, userID, bankID int64, questionID string, refs []taxonomy.Ref) error

	// Query returns one page plus the filtered total
	Query(ctx context.Context, userID, bankID int64, plan queryplan.Plan) ([]domain.QuestionRow, int64, error)
}

// NewQuestion is the full upsert write unit. ID only matters when the
// insert arm fires; on conflict the existing row keeps its id
type NewQuestion struct {
	ID                  string
	UserID              int64
	BankID              int64
	SourceQuestionID    string
	Type                string
	Title               string
	Content             string
	Status              string
	Points              *int
	DisplayOrder        *int
	SolutionExplanation string
	Payload             qtype.Aggregate
	Attachments         []map[string]any
	QuestionSettings    map[string]any
	Metadata            map[string]any
}

// Persisted reports the row the upsert converged on
type Persisted struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type (
	// PG is a Postgres implementation of the questions repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// UpsertByNaturalKey inserts or updates the question row. The update
// arm rewrites every content field, bumps updated_at and leaves
// created_at alone, so callers can derive the operation from the two
// returned timestamps. published_at and archived_at stamp the first
// transition into their status and stick afterwards
func (r *queries) UpsertByNaturalKey(ctx context.Context, nq NewQuestion) (Persisted, error) {
	const sql = `
		INSERT INTO questions (
			id, user_id, bank_id, source_question_id, question_type,
			title, content, status, points, display_order, solution_explanation,
			mcq_data, true_false_data, essay_data,
			attachments, question_settings, metadata,
			created_at, updated_at, published_at, archived_at
		) VALUES (
			$1::uuid, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, NULLIF($11, ''),
			$12, $13, $14,
			$15, $16, $17,
			now(), now(),
			CASE WHEN $8 = 'published' THEN now() END,
			CASE WHEN $8 = 'archived' THEN now() END
		)
		ON CONFLICT (user_id, bank_id, source_question_id) DO UPDATE SET
			question_type        = EXCLUDED.question_type,
			title                = EXCLUDED.title,
			content              = EXCLUDED.content,
			status               = EXCLUDED.status,
			points               = EXCLUDED.points,
			display_order        = EXCLUDED.display_order,
			solution_explanation = EXCLUDED.solution_explanation,
			mcq_data             = EXCLUDED.mcq_data,
			true_false_data      = EXCLUDED.true_false_data,
			essay_data           = EXCLUDED.essay_data,
			attachments          = EXCLUDED.attachments,
			question_settings    = EXCLUDED.question_settings,
			metadata             = EXCLUDED.metadata,
			updated_at           = now(),
			published_at = CASE
				WHEN EXCLUDED.status = 'published' THEN COALESCE(questions.published_at, now())
				ELSE questions.published_at
			END,
			archived_at = CASE
				WHEN EXCLUDED.status = 'archived' THEN COALESCE(questions.archived_at, now())
				ELSE questions.archived_at
			END
		RETURNING id::text, created_at, updated_at
	`
	mcq, tf, essay, err := payloadDocs(nq.Payload)
	if err != nil {
		return Persisted{}, err
	}
	attachments := []byte(`[]`)
	if len(nq.Attachments) > 0 {
		if attachments, err = json.Marshal(nq.Attachments); err != nil {
			return Persisted{}, perr.Wrap(err, perr.ErrorCodeInternal, "marshal attachments")
		}
	}
	settings, err := objectDoc(nq.QuestionSettings, "question settings")
	if err != nil {
		return Persisted{}, err
	}
	meta, err := objectDoc(nq.Metadata, "metadata")
	if err != nil {
		return Persisted{}, err
	}

	var p Persisted
	row := r.q.QueryRow(ctx, sql,
		nq.ID, nq.UserID, nq.BankID, nq.SourceQuestionID, nq.Type,
		nq.Title, nq.Content, nq.Status, nq.Points, nq.DisplayOrder, nq.SolutionExplanation,
		mcq, tf, essay,
		attachments, settings, meta,
	)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Persisted{}, err
	}
	return p, nil
}

// payloadDocs marshals the aggregate's single set payload; the other
// two stay nil so the column lands NULL and the type check holds
func payloadDocs(agg qtype.Aggregate) (mcq, tf, essay []byte, err error) {
	switch {
	case agg.MCQ != nil:
		mcq, err = json.Marshal(agg.MCQ)
	case agg.TrueFalse != nil:
		tf, err = json.Marshal(agg.TrueFalse)
	case agg.Essay != nil:
		essay, err = json.Marshal(agg.Essay)
	}
	if err != nil {
		return nil, nil, nil, perr.Wrap(err, perr.ErrorCodeInternal, "marshal question payload")
	}
	return mcq, tf, essay, nil
}

func objectDoc(m map[string]any, what string) ([]byte, error) {
	if len(m) == 0 {
		return []byte(`{}`), nil
	}
	doc, err := json.Marshal(m)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInternal, "marshal "+what)
	}
	return doc, nil
}

// ReplaceForQuestion deletes and reinserts the question's relationship
// rows. Runs inside the upsert transaction, so readers never observe
// the gap between the two statements
func (r *queries) ReplaceForQuestion(
	ctx context.Context, userID, bankID int64, questionID string, refs []taxonomy.Ref,
) error {
	const del = `
		DELETE FROM question_taxonomy_relationships
		WHERE user_id = $1 AND bank_id = $2 AND question_id = $3::uuid
	`
	if _, err := r.q.Exec(ctx, del, userID, bankID, questionID); err != nil {
		return err
	}
	if len(refs) == 0 {
		return nil
	}

	const ins = `
		INSERT INTO question_taxonomy_relationships (user_id, bank_id, question_id, taxonomy_type, taxonomy_id)
		SELECT $1, $2, $3::uuid, t.taxonomy_type, t.taxonomy_id
		FROM unnest($4::text[], $5::text[]) AS t(taxonomy_type, taxonomy_id)
	`
	types := make([]string, len(refs))
	ids := make([]string, len(refs))
	for i, ref := range refs {
		types[i] = string(ref.Type)
		ids[i] = ref.ID
	}
	_, err := r.q.Exec(ctx, ins, userID, bankID, questionID, types, ids)
	return err
}

// Query runs the planned listing: an optional relationship candidate
// scan, then the page and count statements over the same filter
func (r *queries) Query(
	ctx context.Context, userID, bankID int64, plan queryplan.Plan,
) ([]domain.QuestionRow, int64, error) {
	var candidates []string
	if plan.HasTaxonomy() {
		ids, err := r.candidates(ctx, userID, bankID, plan)
		if err != nil {
			return nil, 0, err
		}
		// no candidate can match; skip the questions table entirely
		if len(ids) == 0 {
			return nil, 0, nil
		}
		candidates = ids
	}

	var sb strings.Builder
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	sb.WriteString(`
		SELECT
			id::text, source_question_id, question_type, title, content, status,
			points, display_order, COALESCE(solution_explanation, ''),
			mcq_data, true_false_data, essay_data,
			attachments, question_settings, metadata,
			created_at, updated_at, published_at, archived_at
		FROM questions
	`)
	writeFilter(&sb, arg, userID, bankID, plan, candidates)
	writeOrder(&sb, arg, plan)
	sb.WriteString("LIMIT " + arg(plan.Size) + " OFFSET " + arg(plan.Offset()) + "\n")

	rows, err := store.Many(ctx, r.q, scanQuestion, sb.String(), args...)
	if err != nil {
		return nil, 0, err
	}

	// count gets its own builder and args; sharing the page statement's
	// slice would leave stale LIMIT/OFFSET placeholders behind
	var cb strings.Builder
	var countArgs []any
	carg := func(v any) string {
		countArgs = append(countArgs, v)
		return fmt.Sprintf("$%d", len(countArgs))
	}
	cb.WriteString("SELECT COUNT(*) FROM questions\n")
	writeFilter(&cb, carg, userID, bankID, plan, candidates)

	total, err := store.Scalar[int64](ctx, r.q, cb.String(), countArgs...)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// candidates scans the relationship table for question ids matching
// every requested taxonomy axis. One HAVING clause per axis; ids within
// an axis (or within one category level) stay OR-ed via ANY
func (r *queries) candidates(
	ctx context.Context, userID, bankID int64, plan queryplan.Plan,
) ([]string, error) {
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	var having []string
	for _, c := range plan.Categories {
		t, _ := taxonomy.CategoryLevel(c.Level)
		having = append(having,
			"bool_or(taxonomy_type = '"+string(t)+"' AND taxonomy_id = ANY("+arg(c.IDs)+"))")
	}
	if len(plan.Tags) > 0 {
		having = append(having,
			"bool_or(taxonomy_type = 'tag' AND taxonomy_id = ANY("+arg(plan.Tags)+"))")
	}
	if len(plan.Quizzes) > 0 {
		having = append(having,
			"bool_or(taxonomy_type = 'quiz' AND taxonomy_id = ANY("+arg(plan.Quizzes)+"))")
	}
	if plan.Difficulty != "" {
		having = append(having,
			"bool_or(taxonomy_type = 'difficulty_level' AND taxonomy_id = "+arg(plan.Difficulty)+")")
	}

	var sb strings.Builder
	sb.WriteString("SELECT question_id::text FROM question_taxonomy_relationships\n")
	sb.WriteString("WHERE user_id = " + arg(userID) + " AND bank_id = " + arg(bankID) + "\n")
	sb.WriteString("GROUP BY question_id\n")
	sb.WriteString("HAVING " + strings.Join(having, "\n   AND ") + "\n")

	return store.Many(ctx, r.q, func(row store.Row) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	}, sb.String(), args...)
}

// writeFilter appends the WHERE clause shared by the page and count
// statements. Ownership scoping always comes first
func writeFilter(
	sb *strings.Builder, arg func(any) string, userID, bankID int64, plan queryplan.Plan, candidates []string,
) {
	sb.WriteString("WHERE user_id = " + arg(userID) + " AND bank_id = " + arg(bankID) + "\n")
	if len(candidates) > 0 {
		sb.WriteString("  AND id = ANY(" + arg(candidates) + "::uuid[])\n")
	}
	if plan.Status != "" {
		sb.WriteString("  AND status = " + arg(plan.Status) + "\n")
	}
	if plan.Type != "" {
		sb.WriteString("  AND question_type = " + arg(plan.Type) + "\n")
	}
	if plan.Search != "" {
		sb.WriteString("  AND search_tsv @@ plainto_tsquery('english', " + arg(plan.Search) + ")\n")
	}
}

// sortColumns pins plan sort fields to concrete columns; the planner
// already rejects anything outside this set
var sortColumns = map[string]string{
	"title":         "title",
	"created_at":    "created_at",
	"updated_at":    "updated_at",
	"display_order": "display_order",
	"points":        "points",
}

// writeOrder appends ORDER BY. Relevance ranks title hits over content
// hits; id breaks every remaining tie so pages never shuffle
func writeOrder(sb *strings.Builder, arg func(any) string, plan queryplan.Plan) {
	if plan.Sort.Relevance {
		sb.WriteString("ORDER BY ts_rank('{0, 0, 0.5, 1}'::float4[], search_tsv, plainto_tsquery('english', " +
			arg(plan.Search) + ")) DESC, created_at DESC, id DESC\n")
		return
	}
	col, ok := sortColumns[plan.Sort.Field]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if plan.Sort.Desc {
		dir = "DESC"
	}
	sb.WriteString("ORDER BY " + col + " " + dir + " NULLS LAST, id " + dir + "\n")
}

func scanQuestion(row store.Row) (domain.QuestionRow, error) {
	var (
		q                 domain.QuestionRow
		mcq, tf, essay    []byte
		attachments       []byte
		settings, rowMeta []byte
	)
	if err := row.Scan(
		&q.QuestionID, &q.SourceQuestionID, &q.QuestionType, &q.Title, &q.Content, &q.Status,
		&q.Points, &q.DisplayOrder, &q.SolutionExplanation,
		&mcq, &tf, &essay,
		&attachments, &settings, &rowMeta,
		&q.CreatedAt, &q.UpdatedAt, &q.PublishedAt, &q.ArchivedAt,
	); err != nil {
		return domain.QuestionRow{}, err
	}

	if len(mcq) > 0 {
		if err := json.Unmarshal(mcq, &q.MCQData); err != nil {
			return domain.QuestionRow{}, perr.Wrap(err, perr.ErrorCodeInternal, "decode mcq payload")
		}
	}
	if len(tf) > 0 {
		if err := json.Unmarshal(tf, &q.TrueFalseData); err != nil {
			return domain.QuestionRow{}, perr.Wrap(err, perr.ErrorCodeInternal, "decode true/false payload")
		}
	}
	if len(essay) > 0 {
		if err := json.Unmarshal(essay, &q.EssayData); err != nil {
			return domain.QuestionRow{}, perr.Wrap(err, perr.ErrorCodeInternal, "decode essay payload")
		}
	}
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &q.Attachments); err != nil {
			return domain.QuestionRow{}, perr.Wrap(err, perr.ErrorCodeInternal, "decode attachments")
		}
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &q.QuestionSettings); err != nil {
			return domain.QuestionRow{}, perr.Wrap(err, perr.ErrorCodeInternal, "decode question settings")
		}
	}
	if len(rowMeta) > 0 {
		if err := json.Unmarshal(rowMeta, &q.Metadata); err != nil {
			return domain.QuestionRow{}, perr.Wrap(err, perr.ErrorCodeInternal, "decode metadata")
		}
	}
	return q, nil
}
