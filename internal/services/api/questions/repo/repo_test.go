package repo

import (
	"fmt"
	"strings"
	"testing"

	"qbank/internal/core/qtype"
	"qbank/internal/core/queryplan"
)

func builder() (*strings.Builder, func(any) string, *[]any) {
	sb := &strings.Builder{}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	return sb, arg, &args
}

func TestWriteFilter_OwnershipAlwaysLeads(t *testing.T) {
	t.Parallel()

	sb, arg, args := builder()
	writeFilter(sb, arg, 11, 22, queryplan.Plan{}, nil)

	got := sb.String()
	if !strings.HasPrefix(got, "WHERE user_id = $1 AND bank_id = $2") {
		t.Fatalf("filter = %q, want ownership scoping first", got)
	}
	if len(*args) != 2 || (*args)[0] != int64(11) || (*args)[1] != int64(22) {
		t.Fatalf("args = %v", *args)
	}
	if strings.Contains(got, "status") || strings.Contains(got, "search_tsv") {
		t.Fatalf("empty plan grew filters: %q", got)
	}
}

func TestWriteFilter_PlaceholdersTrackArgs(t *testing.T) {
	t.Parallel()

	sb, arg, args := builder()
	plan := queryplan.Plan{Status: "published", Type: "mcq", Search: "capital"}
	candidates := []string{"a", "b"}
	writeFilter(sb, arg, 11, 22, plan, candidates)

	got := sb.String()
	for _, want := range []string{
		"id = ANY($3::uuid[])",
		"status = $4",
		"question_type = $5",
		"search_tsv @@ plainto_tsquery('english', $6)",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("filter %q missing %q", got, want)
		}
	}
	if len(*args) != 6 {
		t.Fatalf("got %d args, want 6", len(*args))
	}
	if (*args)[3] != "published" || (*args)[5] != "capital" {
		t.Fatalf("args out of order: %v", *args)
	}
}

func TestWriteOrder_RelevanceWinsOverSortField(t *testing.T) {
	t.Parallel()

	sb, arg, _ := builder()
	writeOrder(sb, arg, queryplan.Plan{
		Search: "capital",
		Sort:   queryplan.Sort{Relevance: true},
	})

	got := sb.String()
	if !strings.Contains(got, "ts_rank('{0, 0, 0.5, 1}'::float4[], search_tsv, plainto_tsquery('english', $1)) DESC") {
		t.Fatalf("order = %q, want weighted rank", got)
	}
	if !strings.Contains(got, "created_at DESC, id DESC") {
		t.Fatalf("order = %q, want stable tiebreak", got)
	}
}

func TestWriteOrder_ColumnSortCarriesTiebreak(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		sort queryplan.Sort
		want string
	}{
		{"ascending title", queryplan.Sort{Field: "title"}, "ORDER BY title ASC NULLS LAST, id ASC"},
		{"descending points", queryplan.Sort{Field: "points", Desc: true}, "ORDER BY points DESC NULLS LAST, id DESC"},
		{"unknown falls back", queryplan.Sort{Field: "rank"}, "ORDER BY created_at ASC NULLS LAST, id ASC"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			sb, arg, _ := builder()
			writeOrder(sb, arg, queryplan.Plan{Sort: tc.sort})
			if got := strings.TrimSpace(sb.String()); got != tc.want {
				t.Fatalf("order = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPayloadDocs_OnlyTheSetBlockMarshals(t *testing.T) {
	t.Parallel()

	answer := true
	mcq, tf, essay, err := payloadDocs(qtype.Aggregate{
		Type:      qtype.TypeTrueFalse,
		TrueFalse: &qtype.TrueFalseData{CorrectAnswer: &answer},
	})
	if err != nil {
		t.Fatalf("payloadDocs: %v", err)
	}
	if mcq != nil || essay != nil {
		t.Fatalf("foreign payloads not nil: mcq=%v essay=%v", mcq, essay)
	}
	if !strings.Contains(string(tf), `"correct_answer":true`) {
		t.Fatalf("true/false doc = %s", tf)
	}
}
