package taxonomy

import "strings"

// Selection is the taxonomy block of an upsert command: at most one
// category per level, any number of tags and quizzes, one difficulty
type Selection struct {
	Categories map[int]string // level -> category id
	Tags       []string
	Quizzes    []string
	Difficulty string
}

// GapLevel returns the lowest absent level below the deepest supplied
// category, enforcing that level N implies levels 1..N-1.
// ok is false when the selection is gapless (including no categories)
func (s Selection) GapLevel() (int, bool) {
	deepest := 0
	for lvl := 1; lvl <= MaxCategoryLevel; lvl++ {
		if strings.TrimSpace(s.Categories[lvl]) != "" {
			deepest = lvl
		}
	}
	for lvl := 1; lvl < deepest; lvl++ {
		if strings.TrimSpace(s.Categories[lvl]) == "" {
			return lvl, true
		}
	}
	return 0, false
}

// Refs derives the relationship rows for the selection: one ref per
// supplied category level, per tag, per quiz, plus the difficulty.
// Identical (type, id) pairs are deduped, first occurrence wins
func (s Selection) Refs() []Ref {
	seen := make(map[Ref]bool, 8)
	var out []Ref
	add := func(t RefType, id string) {
		id = strings.TrimSpace(id)
		if id == "" {
			return
		}
		r := Ref{Type: t, ID: id}
		if seen[r] {
			return
		}
		seen[r] = true
		out = append(out, r)
	}

	for lvl := 1; lvl <= MaxCategoryLevel; lvl++ {
		if id := s.Categories[lvl]; id != "" {
			t, _ := CategoryLevel(lvl)
			add(t, id)
		}
	}
	for _, id := range s.Tags {
		add(RefTag, id)
	}
	for _, id := range s.Quizzes {
		add(RefQuiz, id)
	}
	add(RefDifficulty, s.Difficulty)
	return out
}
