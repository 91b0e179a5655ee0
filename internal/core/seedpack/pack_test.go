package seedpack

import (
	"testing"

	"qbank/internal/core/taxonomy"
)

func mustLoad(t *testing.T) *Pack {
	t.Helper()
	p, err := Load()
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	return p
}

func TestLoad_BankNaming(t *testing.T) {
	t.Parallel()

	p := mustLoad(t)
	if p.BankName != "Default Question Bank" {
		t.Fatalf("BankName = %q", p.BankName)
	}
	if p.BankDescription == "" {
		t.Fatalf("BankDescription empty")
	}
}

func TestLoad_SeededContent(t *testing.T) {
	t.Parallel()

	set := mustLoad(t).Set()

	l1 := set.Categories[taxonomy.LevelKey(1)]
	if len(l1) != 8 {
		t.Fatalf("level_1 categories = %d, want 8", len(l1))
	}
	wantCats := map[string]string{
		"general-knowledge":  "General Knowledge",
		"science":            "Science",
		"mathematics":        "Mathematics",
		"language-arts":      "Language Arts",
		"social-studies":     "Social Studies",
		"technology":         "Technology",
		"arts":               "Arts",
		"physical-education": "Physical Education",
	}
	for _, c := range l1 {
		if wantCats[c.ID] != c.Name {
			t.Fatalf("category %q/%q unexpected", c.ID, c.Name)
		}
		if c.Slug != c.ID || c.ParentID != "" {
			t.Fatalf("category %q slug/parent wrong: %+v", c.ID, c)
		}
	}

	if len(set.Tags) != 4 {
		t.Fatalf("tags = %d, want 4", len(set.Tags))
	}
	for i, want := range []string{"review", "homework", "exam-prep", "practice"} {
		if set.Tags[i].ID != want {
			t.Fatalf("tag[%d] = %q, want %q", i, set.Tags[i].ID, want)
		}
	}

	if len(set.Quizzes) != 0 {
		t.Fatalf("seed carries quizzes: %v", set.Quizzes)
	}

	wantDiff := []struct {
		level string
		value int
	}{{"easy", 1}, {"medium", 2}, {"hard", 3}, {"expert", 4}}
	if len(set.DifficultyLevels) != len(wantDiff) {
		t.Fatalf("difficulty levels = %d", len(set.DifficultyLevels))
	}
	for i, w := range wantDiff {
		d := set.DifficultyLevels[i]
		if d.Level != w.level || d.NumericValue != w.value {
			t.Fatalf("difficulty[%d] = %+v, want %s(%d)", i, d, w.level, w.value)
		}
	}
}

func TestSet_CopiesPerCall(t *testing.T) {
	t.Parallel()

	p := mustLoad(t)
	a := p.Set()
	a.Categories[taxonomy.LevelKey(1)][0].Name = "Mutated"
	a.Tags[0].Name = "mutated"

	b := p.Set()
	if b.Categories[taxonomy.LevelKey(1)][0].Name == "Mutated" {
		t.Fatalf("category seed shared between calls")
	}
	if b.Tags[0].Name == "mutated" {
		t.Fatalf("tag seed shared between calls")
	}
}

func TestSet_SupportsMembershipProbes(t *testing.T) {
	t.Parallel()

	set := mustLoad(t).Set()
	known := []taxonomy.Ref{
		{Type: taxonomy.RefCategoryL1, ID: "science"},
		{Type: taxonomy.RefTag, ID: "exam-prep"},
		{Type: taxonomy.RefDifficulty, ID: "expert"},
	}
	if bad := set.Unknown(known); bad != nil {
		t.Fatalf("seed misses its own entries: %v", bad)
	}
	missing := set.Unknown([]taxonomy.Ref{{Type: taxonomy.RefQuiz, ID: "quiz-1"}})
	if len(missing) != 1 {
		t.Fatalf("quiz probe = %v", missing)
	}
}
