// Package seedpack loads the embedded default taxonomy seed applied at
// bank bootstrap. Ids and slugs are derived by unicode folding so the
// seed file carries display names only
package seedpack

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"qbank/internal/core/fold"
	"qbank/internal/core/taxonomy"
)

//go:embed default_taxonomy.json
var embedded []byte

type rawBank struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type rawCategory struct {
	Name string `json:"name"`
}

type rawTag struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type rawDifficulty struct {
	Level        string `json:"level"`
	NumericValue int    `json:"numeric_value"`
	Description  string `json:"description,omitempty"`
}

type rawPack struct {
	Version          int             `json:"version"`
	Bank             rawBank         `json:"bank"`
	Categories       []rawCategory   `json:"categories"`
	Tags             []rawTag        `json:"tags"`
	DifficultyLevels []rawDifficulty `json:"difficulty_levels"`
}

// Pack is the validated seed content
type Pack struct {
	Version         int
	BankName        string
	BankDescription string

	categories []taxonomy.Category
	tags       []taxonomy.Tag
	difficulty []taxonomy.Difficulty
}

// Load parses and validates the embedded seed
func Load() (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(embedded, &rp); err != nil {
		return nil, fmt.Errorf("seedpack: parse default_taxonomy.json: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("seedpack: unsupported seed version %d (want 1)", rp.Version)
	}
	if rp.Bank.Name == "" {
		return nil, fmt.Errorf("seedpack: bank name missing")
	}
	if len(rp.Categories) == 0 {
		return nil, fmt.Errorf("seedpack: no categories")
	}
	if len(rp.DifficultyLevels) == 0 {
		return nil, fmt.Errorf("seedpack: no difficulty levels")
	}

	p := &Pack{
		Version:         rp.Version,
		BankName:        rp.Bank.Name,
		BankDescription: rp.Bank.Description,
	}

	seen := make(map[string]bool, len(rp.Categories))
	for _, c := range rp.Categories {
		slug := fold.Slug(c.Name)
		if slug == "" {
			return nil, fmt.Errorf("seedpack: category %q folds to an empty slug", c.Name)
		}
		if seen[slug] {
			return nil, fmt.Errorf("seedpack: duplicate category slug %q", slug)
		}
		seen[slug] = true
		p.categories = append(p.categories, taxonomy.Category{
			ID:   slug,
			Name: c.Name,
			Slug: slug,
		})
	}

	seen = make(map[string]bool, len(rp.Tags))
	for _, tg := range rp.Tags {
		slug := fold.Slug(tg.Name)
		if slug == "" {
			return nil, fmt.Errorf("seedpack: tag %q folds to an empty slug", tg.Name)
		}
		if seen[slug] {
			return nil, fmt.Errorf("seedpack: duplicate tag slug %q", slug)
		}
		seen[slug] = true
		p.tags = append(p.tags, taxonomy.Tag{
			ID:    slug,
			Name:  tg.Name,
			Slug:  slug,
			Color: tg.Color,
		})
	}

	seen = make(map[string]bool, len(rp.DifficultyLevels))
	for _, d := range rp.DifficultyLevels {
		if d.Level == "" || d.NumericValue <= 0 {
			return nil, fmt.Errorf("seedpack: difficulty %q needs a name and a positive numeric_value", d.Level)
		}
		if seen[d.Level] {
			return nil, fmt.Errorf("seedpack: duplicate difficulty level %q", d.Level)
		}
		seen[d.Level] = true
		p.difficulty = append(p.difficulty, taxonomy.Difficulty{
			Level:        d.Level,
			NumericValue: d.NumericValue,
			Description:  d.Description,
		})
	}

	return p, nil
}

// Set assembles a fresh taxonomy document from the seed. Each call
// copies so callers can extend their set without touching the pack
func (p *Pack) Set() taxonomy.Set {
	return taxonomy.Set{
		Categories: map[string][]taxonomy.Category{
			taxonomy.LevelKey(1): append([]taxonomy.Category(nil), p.categories...),
		},
		Tags:             append([]taxonomy.Tag(nil), p.tags...),
		Quizzes:          []taxonomy.Quiz{},
		DifficultyLevels: append([]taxonomy.Difficulty(nil), p.difficulty...),
	}
}
