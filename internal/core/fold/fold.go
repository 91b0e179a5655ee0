// Package fold provides deterministic unicode folding for search terms
// and taxonomy slugs
//
// Fold pipeline (search terms)
// 1 drop bytes that are not valid UTF-8
// 2 NFKC compatibility normalization, composed output
// 3 unicode case fold
// 4 strip zero-width and other format characters
// 5 fold fullwidth forms down to ASCII
// 6 squash whitespace runs and trim the edges
//
// Slug swaps NFKC for NFKD and strips combining marks so accented
// names land on plain ASCII slugs
package fold

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pools of fresh transformer chains
var (
	foldPool = sync.Pool{
		New: func() any {
			// chain order follows the package doc. NFKC keeps accents
			// composed so folded terms agree with stored text
			return transform.Chain(
				norm.NFKC,
				cases.Fold(),
				runes.Remove(runes.In(unicode.Cf)), // ZWJ ZWNJ FEFF and friends
				width.Fold,
			)
		},
	}

	slugPool = sync.Pool{
		New: func() any {
			// NFKD first so Remove(Mn) actually sees the combining marks
			return transform.Chain(
				norm.NFKD,
				cases.Fold(),
				runes.Remove(runes.In(unicode.Mn)),
				runes.Remove(runes.In(unicode.Cf)),
				width.Fold,
			)
		},
	}
)

// runChain borrows a transformer from pool, runs s through it and puts
// it back reset for the next caller
func runChain(pool *sync.Pool, s string) string {
	tr := pool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	pool.Put(tr)
	return ns
}

// Fold returns the folded form of s following the pipeline above
func Fold(s string) string {
	if s == "" {
		return ""
	}

	// step 1, everything that is not UTF-8 goes away first
	s = strings.ToValidUTF8(s, "")

	// steps 2 through 5 live in the pooled chain
	ns := runChain(&foldPool, s)

	// step 6
	return collapseSpaces(ns)
}

// Slug folds s with mark stripping and maps it to kebab case: runs of
// anything that is not a letter or digit become a single '-', edges
// trimmed. Slug("Language Arts") == "language-arts"
func Slug(s string) string {
	if s == "" {
		return ""
	}
	s = runChain(&slugPool, strings.ToValidUTF8(s, ""))
	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}

// collapseSpaces converts whitespace runs to a single ASCII space and
// trims the edges
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
