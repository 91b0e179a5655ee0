// Package repo provides the banks repository implementation
package repo

import (
	"context"
	"encoding/json"
	"time"

	"qbank/internal/core/taxonomy"
	"qbank/internal/modkit/repokit"
	perr "qbank/internal/platform/errors"
	"qbank/internal/platform/store"
	"qbank/internal/services/api/banks/domain"
)

// Repo is the banks persistence surface used by the service layer
type Repo interface {
	UserExists(ctx context.Context, userID int64) (bool, error)
	InsertUser(ctx context.Context, u domain.NewUser) (time.Time, error)
	InsertTaxonomySet(ctx context.Context, userID, bankID int64, set taxonomy.Set) error

	Owns(ctx context.Context, userID, bankID int64) (bool, error)
	Active(ctx context.Context, userID, bankID int64) (bool, error)
	DefaultBankID(ctx context.Context, userID int64) (int64, error)
	TaxonomySet(ctx context.Context, userID, bankID int64) (taxonomy.Set, error)
}

type (
	// PG is a Postgres implementation of the banks repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// UserExists reports whether the user already bootstrapped
func (r *queries) UserExists(ctx context.Context, userID int64) (bool, error) {
	const sql = `SELECT EXISTS (SELECT 1 FROM question_bank_users WHERE user_id = $1)`
	return store.Scalar[bool](ctx, r.q, sql, userID)
}

// InsertUser creates the bank-user row and returns its created_at.
// A primary key violation surfaces unchanged for the service to map
func (r *queries) InsertUser(ctx context.Context, u domain.NewUser) (time.Time, error) {
	const sql = `
		INSERT INTO question_bank_users (user_id, default_bank_id, banks, user_email, metadata)
		VALUES ($1, $2, $3::jsonb, NULLIF($4, ''), $5::jsonb)
		RETURNING created_at
	`
	banks, err := json.Marshal(u.Banks)
	if err != nil {
		return time.Time{}, perr.Wrap(err, perr.ErrorCodeInternal, "marshal bank list")
	}
	meta := []byte(`{}`)
	if len(u.Metadata) > 0 {
		if meta, err = json.Marshal(u.Metadata); err != nil {
			return time.Time{}, perr.Wrap(err, perr.ErrorCodeInternal, "marshal metadata")
		}
	}

	var createdAt time.Time
	row := r.q.QueryRow(ctx, sql, u.UserID, u.DefaultBankID, banks, u.UserEmail, meta)
	if err := row.Scan(&createdAt); err != nil {
		return time.Time{}, err
	}
	return createdAt, nil
}

// InsertTaxonomySet stores the four taxonomy documents for (user, bank)
func (r *queries) InsertTaxonomySet(ctx context.Context, userID, bankID int64, set taxonomy.Set) error {
	const sql = `
		INSERT INTO taxonomy_sets (user_id, bank_id, categories, tags, quizzes, difficulty_levels)
		VALUES ($1, $2, $3::jsonb, $4::jsonb, $5::jsonb, $6::jsonb)
	`
	cats, err := json.Marshal(set.Categories)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeInternal, "marshal categories")
	}
	tags, err := json.Marshal(set.Tags)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeInternal, "marshal tags")
	}
	quizzes, err := json.Marshal(set.Quizzes)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeInternal, "marshal quizzes")
	}
	diffs, err := json.Marshal(set.DifficultyLevels)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeInternal, "marshal difficulty levels")
	}

	_, err = r.q.Exec(ctx, sql, userID, bankID, cats, tags, quizzes, diffs)
	return err
}

// Owns probes the bank list by jsonb containment (gin-indexed)
func (r *queries) Owns(ctx context.Context, userID, bankID int64) (bool, error) {
	const sql = `
		SELECT EXISTS (
			SELECT 1 FROM question_bank_users
			WHERE user_id = $1 AND banks @> $2::jsonb
		)
	`
	return store.Scalar[bool](ctx, r.q, sql, userID, containment(bankID, nil))
}

// Active probes for the bank being both present and active
func (r *queries) Active(ctx context.Context, userID, bankID int64) (bool, error) {
	const sql = `
		SELECT EXISTS (
			SELECT 1 FROM question_bank_users
			WHERE user_id = $1 AND banks @> $2::jsonb
		)
	`
	active := true
	return store.Scalar[bool](ctx, r.q, sql, userID, containment(bankID, &active))
}

// containment renders the jsonb probe document for the banks column
func containment(bankID int64, active *bool) []byte {
	doc := map[string]any{"bank_id": bankID}
	if active != nil {
		doc["is_active"] = *active
	}
	b, _ := json.Marshal([]map[string]any{doc})
	return b
}

// DefaultBankID returns the user's default bank, zero for unknown users
func (r *queries) DefaultBankID(ctx context.Context, userID int64) (int64, error) {
	const sql = `SELECT default_bank_id FROM question_bank_users WHERE user_id = $1`
	id, err := store.One(ctx, r.q, func(row store.Row) (int64, error) {
		var v int64
		err := row.Scan(&v)
		return v, err
	}, sql, userID)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return 0, nil
	}
	return id, err
}

// TaxonomySet loads and decodes the four taxonomy documents
func (r *queries) TaxonomySet(ctx context.Context, userID, bankID int64) (taxonomy.Set, error) {
	const sql = `
		SELECT categories, tags, quizzes, difficulty_levels
		FROM taxonomy_sets
		WHERE user_id = $1 AND bank_id = $2
	`
	return store.One(ctx, r.q, func(row store.Row) (taxonomy.Set, error) {
		var cats, tags, quizzes, diffs []byte
		if err := row.Scan(&cats, &tags, &quizzes, &diffs); err != nil {
			return taxonomy.Set{}, err
		}
		var set taxonomy.Set
		if err := json.Unmarshal(cats, &set.Categories); err != nil {
			return taxonomy.Set{}, perr.Wrap(err, perr.ErrorCodeInternal, "decode categories")
		}
		if err := json.Unmarshal(tags, &set.Tags); err != nil {
			return taxonomy.Set{}, perr.Wrap(err, perr.ErrorCodeInternal, "decode tags")
		}
		if err := json.Unmarshal(quizzes, &set.Quizzes); err != nil {
			return taxonomy.Set{}, perr.Wrap(err, perr.ErrorCodeInternal, "decode quizzes")
		}
		if err := json.Unmarshal(diffs, &set.DifficultyLevels); err != nil {
			return taxonomy.Set{}, perr.Wrap(err, perr.ErrorCodeInternal, "decode difficulty levels")
		}
		return set, nil
	}, sql, userID, bankID)
}
