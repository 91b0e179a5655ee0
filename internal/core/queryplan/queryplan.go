// Package queryplan validates and normalizes question listing input
// into an executable Plan. Raw wire values never reach SQL: paging is
// bounded, sort targets are whitelisted, and search terms are folded
// before the repository sees them
package queryplan

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"qbank/internal/core/fold"
	"qbank/internal/core/qtype"
)

const (
	// DefaultSize is the page size when none is supplied
	DefaultSize = 20
	// MaxSize bounds a single page
	MaxSize = 100
	// MaxSearchChars bounds the raw search term
	MaxSearchChars = 200
	// MaxCategoryLevel is the deepest category level
	MaxCategoryLevel = 4
)

// ParamError is a rejected query parameter
type ParamError struct {
	Param  string
	Reason string
}

// Error renders "param: reason"
func (e *ParamError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s", e.Param, e.Reason)
}

func paramErrf(param, format string, a ...any) *ParamError {
	return &ParamError{Param: param, Reason: fmt.Sprintf(format, a...)}
}

// Params is the raw listing input as bound from the query string.
// Numeric fields stay strings so this package owns the parse errors
type Params struct {
	Page    string
	Size    string
	SortBy  string
	SortDir string

	Status     string
	Type       string
	Categories map[int][]string // level (1..4) -> category ids
	Tags       []string
	Quizzes    []string
	Difficulty string
	Search     string
}

// Sort is a validated ordering. Relevance means ts_rank descending
// with the field as tiebreak
type Sort struct {
	Field     string
	Desc      bool
	Relevance bool
}

// CategoryFilter is one required category level
type CategoryFilter struct {
	Level int
	IDs   []string
}

// Plan is a fully validated listing request
type Plan struct {
	Page int
	Size int
	Sort Sort

	Status     string
	Type       string
	Categories []CategoryFilter // ascending level order
	Tags       []string
	Quizzes    []string
	Difficulty string
	Search     string // folded; empty means no text search
}

// sortFields is the closed set of sortable columns
var sortFields = map[string]bool{
	"title":         true,
	"created_at":    true,
	"updated_at":    true,
	"display_order": true,
	"points":        true,
}

var statuses = map[string]bool{
	"draft":     true,
	"published": true,
	"archived":  true,
}

// Build validates p and assembles the Plan. Violations return
// *ParamError naming the offending parameter
func Build(p Params) (Plan, error) {
	var plan Plan

	page, err := intField(p.Page, "page", 0)
	if err != nil {
		return Plan{}, err
	}
	if page < 0 {
		return Plan{}, paramErrf("page", "must be >= 0, got %d", page)
	}
	plan.Page = page

	size, err := intField(p.Size, "size", DefaultSize)
	if err != nil {
		return Plan{}, err
	}
	if size < 1 || size > MaxSize {
		return Plan{}, paramErrf("size", "must be in [1, %d], got %d", MaxSize, size)
	}
	plan.Size = size

	if s := strings.TrimSpace(p.Status); s != "" {
		if !statuses[s] {
			return Plan{}, paramErrf("status", "unknown status %q", s)
		}
		plan.Status = s
	}
	if s := strings.TrimSpace(p.Type); s != "" {
		if _, ok := qtype.ParseType(s); !ok {
			return Plan{}, paramErrf("question_type", "unknown question_type %q", s)
		}
		plan.Type = s
	}

	cats, err := categoryFilters(p.Categories)
	if err != nil {
		return Plan{}, err
	}
	plan.Categories = cats
	plan.Tags = cleanList(p.Tags)
	plan.Quizzes = cleanList(p.Quizzes)
	plan.Difficulty = strings.TrimSpace(p.Difficulty)

	search := strings.TrimSpace(p.Search)
	if utf8.RuneCountInString(search) > MaxSearchChars {
		return Plan{}, paramErrf("search", "exceeds %d characters", MaxSearchChars)
	}
	plan.Search = fold.Fold(search)

	sort, err := buildSort(p.SortBy, p.SortDir, plan.Search != "")
	if err != nil {
		return Plan{}, err
	}
	plan.Sort = sort

	return plan, nil
}

func intField(raw, name string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, paramErrf(name, "not an integer: %q", raw)
	}
	return n, nil
}

func buildSort(by, dir string, searching bool) (Sort, error) {
	by = strings.TrimSpace(by)
	dir = strings.TrimSpace(dir)

	desc := true
	switch dir {
	case "", "desc":
	case "asc":
		desc = false
	default:
		return Sort{}, paramErrf("sort_dir", "must be asc or desc, got %q", dir)
	}

	if by == "" {
		// no explicit sort: relevance when searching, else recency
		return Sort{Field: "created_at", Desc: desc, Relevance: searching}, nil
	}
	if !sortFields[by] {
		return Sort{}, paramErrf("sort_by", "unsortable field %q", by)
	}
	return Sort{Field: by, Desc: desc}, nil
}

func categoryFilters(in map[int][]string) ([]CategoryFilter, error) {
	if len(in) == 0 {
		return nil, nil
	}
	for level := range in {
		if level < 1 || level > MaxCategoryLevel {
			return nil, paramErrf("category_level_"+strconv.Itoa(level),
				"level must be in [1, %d]", MaxCategoryLevel)
		}
	}
	out := make([]CategoryFilter, 0, len(in))
	for level := 1; level <= MaxCategoryLevel; level++ {
		ids := cleanList(in[level])
		if len(ids) > 0 {
			out = append(out, CategoryFilter{Level: level, IDs: ids})
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// cleanList trims, drops empties, and dedupes preserving first-seen order
func cleanList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Offset is the row offset for the page
func (p Plan) Offset() int { return p.Page * p.Size }

// HasTaxonomy reports whether any relationship axis is filtered,
// requiring the candidate scan
func (p Plan) HasTaxonomy() bool {
	return len(p.Categories) > 0 || len(p.Tags) > 0 || len(p.Quizzes) > 0 || p.Difficulty != ""
}

// Applied echoes the active filters for the response envelope
func (p Plan) Applied() map[string]any {
	m := map[string]any{}
	if p.Status != "" {
		m["status"] = p.Status
	}
	if p.Type != "" {
		m["question_type"] = p.Type
	}
	for _, c := range p.Categories {
		m["category_level_"+strconv.Itoa(c.Level)] = c.IDs
	}
	if len(p.Tags) > 0 {
		m["tags"] = p.Tags
	}
	if len(p.Quizzes) > 0 {
		m["quizzes"] = p.Quizzes
	}
	if p.Difficulty != "" {
		m["difficulty_level"] = p.Difficulty
	}
	if p.Search != "" {
		m["search"] = p.Search
	}
	return m
}
