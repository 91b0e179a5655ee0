// Package service implements question upsert and query on top of the
// admission chain and the questions repo
package service

import (
	"context"
	"errors"
	"time"

	"qbank/internal/core/qtype"
	"qbank/internal/core/queryplan"
	"qbank/internal/modkit"
	"qbank/internal/modkit/repokit"
	perr "qbank/internal/platform/errors"
	"qbank/internal/platform/logger"
	"qbank/internal/platform/retry"
	"qbank/internal/platform/store"

	"github.com/google/uuid"

	bdom "qbank/internal/services/api/banks/domain"
	"qbank/internal/services/api/questions/admission"
	"qbank/internal/services/api/questions/domain"
	qrepo "qbank/internal/services/api/questions/repo"
	adom "qbank/internal/services/audit/domain"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// upsertTxBudget bounds one write attempt. The retry loop wraps the
// whole unit, so a wedged transaction fails this attempt instead of
// holding the request until the server timeout
const upsertTxBudget = 10 * time.Second

// Svc implements the service port
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[qrepo.Repo]
	repo   qrepo.Repo

	chain *admission.Chain
	audit adom.RecorderPort
	deps  modkit.Deps
}

// Options control service behavior
type Options struct {
	// Audit is required; identity violations must reach the trail
	Audit adom.RecorderPort

	// Ownership and Taxonomy are the banks module probes the
	// admission chain runs against
	Ownership bdom.OwnershipPort
	Taxonomy  bdom.TaxonomyPort

	// Binder overrides the Postgres repo (tests)
	Binder repokit.Binder[qrepo.Repo]
}

// New constructs the service
func New(deps modkit.Deps, opt Options) *Svc {
	if deps.PG == nil {
		panic("questions.Service requires a non nil TxRunner")
	}
	if opt.Audit == nil {
		panic("questions.Service requires a non nil audit RecorderPort")
	}
	if opt.Ownership == nil {
		panic("questions.Service requires a non nil OwnershipPort")
	}
	if opt.Taxonomy == nil {
		panic("questions.Service requires a non nil TaxonomyPort")
	}

	b := opt.Binder
	if b == nil {
		b = qrepo.NewPG()
	}
	return &Svc{
		// concurrent upserts of one natural key queue on the row lock;
		// the hook bounds that wait so a stuck writer fails into retry
		db:     repokit.WithBeginHooks(deps.PG, repokit.LockTimeout(3*time.Second)),
		binder: b,
		repo:   b.Bind(deps.PG),
		chain:  admission.New(opt.Ownership, opt.Taxonomy, opt.Audit, deps.Metrics),
		audit:  opt.Audit,
		deps:   deps,
	}
}

// Upsert admits the command, then writes the question and its taxonomy
// relationship rows in one transaction. Re-sending the same
// source_question_id converges on the same row
func (s *Svc) Upsert(ctx context.Context, cmd domain.UpsertCommand) (domain.UpsertOutput, error) {
	start := time.Now()
	defer func() { s.deps.Metrics.Operation(ctx, "questions.upsert", time.Since(start)) }()

	sel := cmd.In.Taxonomy.Selection()
	agg, err := s.chain.Admit(ctx, admission.Command{
		Principal:  cmd.Principal,
		PathUserID: cmd.UserID,
		BodyUserID: cmd.In.UserID,
		BankID:     cmd.BankID,
		Meta:       cmd.Meta,
		Selection:  sel,
		Payload: qtype.Input{
			Type:         cmd.In.QuestionType,
			Title:        cmd.In.Title,
			Content:      cmd.In.Content,
			Points:       cmd.In.Points,
			DisplayOrder: cmd.In.DisplayOrder,
			MCQ:          cmd.In.MCQData,
			TrueFalse:    cmd.In.TrueFalseData,
			Essay:        cmd.In.EssayData,
		},
	})
	if err != nil {
		return domain.UpsertOutput{}, err
	}

	refs := sel.Refs()

	// mint once, outside the retry loop: a replayed insert arm must not
	// change ids between attempts
	id, err := uuid.NewV7()
	if err != nil {
		return domain.UpsertOutput{}, perr.Wrap(err, perr.ErrorCodeInternal, "mint question id")
	}

	var persisted qrepo.Persisted
	err = retry.Do(ctx, "questions.upsert_tx", retry.Default(), func(ctx context.Context) error {
		return store.RunWithTimeout(ctx, s.db, upsertTxBudget, func(ctx context.Context, q repokit.Queryer) error {
			rr := repokit.MustBind(s.binder, q)
			p, err := rr.UpsertByNaturalKey(ctx, qrepo.NewQuestion{
				ID:                  id.String(),
				UserID:              cmd.UserID,
				BankID:              cmd.BankID,
				SourceQuestionID:    cmd.In.SourceQuestionID,
				Type:                cmd.In.QuestionType,
				Title:               cmd.In.Title,
				Content:             cmd.In.Content,
				Status:              cmd.In.Status,
				Points:              cmd.In.Points,
				DisplayOrder:        cmd.In.DisplayOrder,
				SolutionExplanation: cmd.In.SolutionExplanation,
				Payload:             agg,
				Attachments:         cmd.In.Attachments,
				QuestionSettings:    cmd.In.QuestionSettings,
				Metadata:            cmd.In.Metadata,
			})
			if err != nil {
				return err
			}
			if err := rr.ReplaceForQuestion(ctx, cmd.UserID, cmd.BankID, p.ID, refs); err != nil {
				return err
			}
			persisted = p
			return nil
		})
	})
	if err != nil {
		return domain.UpsertOutput{}, txFailure(err, "question upsert did not commit")
	}

	operation := domain.OperationUpdated
	if persisted.CreatedAt.Equal(persisted.UpdatedAt) {
		operation = domain.OperationCreated
	}

	logger.C(ctx).Info().
		Int64("user_id", cmd.UserID).
		Int64("bank_id", cmd.BankID).
		Str("question_id", persisted.ID).
		Str("operation", operation).
		Int("taxonomy_refs", len(refs)).
		Msg("question upserted")

	return domain.UpsertOutput{
		QuestionID:                 persisted.ID,
		SourceQuestionID:           cmd.In.SourceQuestionID,
		Operation:                  operation,
		TaxonomyRelationshipsCount: len(refs),
	}, nil
}

// List validates the query parameters, plans the listing and runs it.
// Ownership scoping happens inside the SQL itself: a foreign or
// unknown bank simply yields an empty page
func (s *Svc) List(ctx context.Context, cmd domain.ListCommand) (domain.ListOutput, error) {
	start := time.Now()
	defer func() { s.deps.Metrics.Operation(ctx, "questions.list", time.Since(start)) }()

	if cmd.UserID != cmd.Principal {
		s.audit.Record(ctx, cmd.Meta.Event(adom.EventPathManipulation, adom.SeverityCritical, cmd.Principal, map[string]any{
			"operation":    "question_query",
			"path_user_id": cmd.UserID,
		}))
		s.deps.Metrics.Validation(ctx, "identity", string(perr.ErrorCodeUnauthorized), false)
		return domain.ListOutput{}, perr.Unauthorizedf(
			"authenticated user %d cannot query questions for user %d", cmd.Principal, cmd.UserID)
	}
	s.deps.Metrics.Validation(ctx, "identity", "", true)

	plan, err := queryplan.Build(cmd.Params)
	if err != nil {
		var pe *queryplan.ParamError
		if errors.As(err, &pe) {
			return domain.ListOutput{}, perr.WithField(perr.QueryParamf("%s", pe.Reason), pe.Param)
		}
		return domain.ListOutput{}, err
	}

	var (
		rows  []domain.QuestionRow
		total int64
	)
	if err := retry.Do(ctx, "questions.query", retry.Default(), func(ctx context.Context) error {
		var qErr error
		rows, total, qErr = s.repo.Query(ctx, cmd.UserID, cmd.BankID, plan)
		return qErr
	}); err != nil {
		return domain.ListOutput{}, queryFailure(err, "question query failed")
	}
	if rows == nil {
		rows = []domain.QuestionRow{}
	}

	return domain.ListOutput{
		Questions:  rows,
		Pagination: domain.PageOf(plan.Page, plan.Size, total),
		Filters: domain.Filters{
			Applied:     plan.Applied(),
			ResultCount: len(rows),
		},
	}, nil
}

// txFailure keeps retry and timeout codes, mapping everything else to
// TRANSACTION_FAILED
func txFailure(err error, msg string) error {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeRetryExhausted, perr.ErrorCodeTimeout:
		return err
	default:
		return perr.Wrap(err, perr.ErrorCodeTxFailed, msg)
	}
}

// queryFailure is txFailure's read-side sibling, mapping to QUERY_ERROR
func queryFailure(err error, msg string) error {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeRetryExhausted, perr.ErrorCodeTimeout:
		return err
	default:
		return perr.Wrap(err, perr.ErrorCodeQuery, msg)
	}
}
