// Package taxonomy models the per-bank taxonomy document and the
// references questions make into it. Pure package: membership and
// selection rules live here, storage and transport elsewhere
package taxonomy

import (
	"fmt"
	"strconv"
	"strings"
)

// RefType is the relationship axis a reference belongs to. Values are
// stored verbatim in relationship rows; do not rename
type RefType string

const (
	RefCategoryL1 RefType = "category_level_1"
	RefCategoryL2 RefType = "category_level_2"
	RefCategoryL3 RefType = "category_level_3"
	RefCategoryL4 RefType = "category_level_4"
	RefTag        RefType = "tag"
	RefQuiz       RefType = "quiz"
	RefDifficulty RefType = "difficulty_level"
)

// MaxCategoryLevel is the deepest supported category level
const MaxCategoryLevel = 4

// CategoryLevel returns the ref type for a category level in [1, 4]
func CategoryLevel(n int) (RefType, bool) {
	if n < 1 || n > MaxCategoryLevel {
		return "", false
	}
	return RefType("category_level_" + strconv.Itoa(n)), true
}

// Level extracts the category level from a category ref type.
// ok is false for non-category types
func (t RefType) Level() (int, bool) {
	s := string(t)
	if !strings.HasPrefix(s, "category_level_") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "category_level_"))
	if err != nil || n < 1 || n > MaxCategoryLevel {
		return 0, false
	}
	return n, true
}

// Ref is one taxonomy reference
type Ref struct {
	Type RefType
	ID   string
}

// String renders "type:id" for messages
func (r Ref) String() string { return fmt.Sprintf("%s:%s", r.Type, r.ID) }

// Category is one node of the category tree. ParentID links a level N
// entry to its level N-1 parent
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ParentID string `json:"parent_id,omitempty"`
}

// Tag is a flat label
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color,omitempty"`
}

// Quiz is a quiz grouping reference
type Quiz struct {
	QuizID   string `json:"quiz_id"`
	QuizName string `json:"quiz_name"`
	QuizSlug string `json:"quiz_slug"`
}

// Difficulty is one difficulty rung
type Difficulty struct {
	Level        string `json:"level"`
	NumericValue int    `json:"numeric_value"`
	Description  string `json:"description,omitempty"`
}

// Set is a user's complete taxonomy for one bank; the four fields map
// onto the four jsonb document columns
type Set struct {
	Categories       map[string][]Category `json:"categories"` // "level_1".."level_4"
	Tags             []Tag                 `json:"tags"`
	Quizzes          []Quiz                `json:"quizzes"`
	DifficultyLevels []Difficulty          `json:"difficulty_levels"`
}

// LevelKey is the categories document key for a level
func LevelKey(n int) string { return "level_" + strconv.Itoa(n) }

// Contains reports whether the set knows the reference
func (s *Set) Contains(r Ref) bool {
	if s == nil {
		return false
	}
	if lvl, ok := r.Type.Level(); ok {
		for _, c := range s.Categories[LevelKey(lvl)] {
			if c.ID == r.ID {
				return true
			}
		}
		return false
	}
	switch r.Type {
	case RefTag:
		for _, t := range s.Tags {
			if t.ID == r.ID {
				return true
			}
		}
	case RefQuiz:
		for _, q := range s.Quizzes {
			if q.QuizID == r.ID {
				return true
			}
		}
	case RefDifficulty:
		for _, d := range s.DifficultyLevels {
			if d.Level == r.ID {
				return true
			}
		}
	}
	return false
}

// Unknown returns the subset of refs the set does not contain,
// input order preserved
func (s *Set) Unknown(refs []Ref) []Ref {
	var out []Ref
	for _, r := range refs {
		if !s.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}

// Available is the compact projection returned by bootstrap
type Available struct {
	Categories map[string][]string `json:"categories"`
	Tags       []string            `json:"tags"`
	Difficulty []string            `json:"difficulty"`
}

// Available projects the set into its bootstrap response shape:
// category and tag names, difficulty level names
func (s *Set) Available() Available {
	out := Available{Categories: map[string][]string{}}
	if s == nil {
		return out
	}
	for n := 1; n <= MaxCategoryLevel; n++ {
		key := LevelKey(n)
		cats := s.Categories[key]
		if len(cats) == 0 {
			continue
		}
		names := make([]string, 0, len(cats))
		for _, c := range cats {
			names = append(names, c.Name)
		}
		out.Categories[key] = names
	}
	for _, t := range s.Tags {
		out.Tags = append(out.Tags, t.Name)
	}
	for _, d := range s.DifficultyLevels {
		out.Difficulty = append(out.Difficulty, d.Level)
	}
	return out
}
