package qtype

import (
	"errors"
	"strings"
	"testing"
)

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

func validMCQ() *MCQData {
	return &MCQData{
		Options: []MCQOption{
			{Text: "Paris", IsCorrect: true},
			{Text: "Lyon"},
		},
	}
}

func validInput() Input {
	return Input{
		Type:    "mcq",
		Title:   "Capital of France",
		Content: "Pick the capital.",
		MCQ:     validMCQ(),
	}
}

func ruleCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error")
	}
	var re *RuleError
	if !errors.As(err, &re) {
		t.Fatalf("want *RuleError, got %T: %v", err, err)
	}
	return re.Code
}

func TestParseType(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"mcq", "true_false", "essay"} {
		if _, ok := ParseType(s); !ok {
			t.Fatalf("ParseType(%q) not ok", s)
		}
	}
	for _, s := range []string{"", "MCQ", "multiple_choice", "truefalse"} {
		if _, ok := ParseType(s); ok {
			t.Fatalf("ParseType(%q) unexpectedly ok", s)
		}
	}
}

func TestBuild_Valid(t *testing.T) {
	t.Parallel()

	agg, err := Build(validInput())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if agg.Type != TypeMCQ {
		t.Fatalf("Type = %q, want mcq", agg.Type)
	}
	if agg.MCQ == nil || agg.TrueFalse != nil || agg.Essay != nil {
		t.Fatalf("aggregate payload slots wrong: %+v", agg)
	}
}

func TestBuild_CommonFieldRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		mut      func(*Input)
		wantCode string
	}{
		{"blank title", func(in *Input) { in.Title = "   " }, CodeMissingField},
		{"long title", func(in *Input) { in.Title = strings.Repeat("x", 501) }, CodeConstraint},
		{"blank content", func(in *Input) { in.Content = "" }, CodeMissingField},
		{"negative points", func(in *Input) { in.Points = intp(-1) }, CodeConstraint},
		{"points over cap", func(in *Input) { in.Points = intp(1001) }, CodeConstraint},
		{"negative display order", func(in *Input) { in.DisplayOrder = intp(-5) }, CodeConstraint},
	}
	for _, tc := range cases {
		in := validInput()
		tc.mut(&in)
		_, err := Build(in)
		if got := ruleCode(t, err); got != tc.wantCode {
			t.Fatalf("%s: code = %s, want %s", tc.name, got, tc.wantCode)
		}
	}

	// boundary values stay valid
	in := validInput()
	in.Title = strings.Repeat("x", 500)
	in.Points = intp(1000)
	in.DisplayOrder = intp(0)
	if _, err := Build(in); err != nil {
		t.Fatalf("boundary input rejected: %v", err)
	}
}

func TestBuild_UnknownType(t *testing.T) {
	t.Parallel()

	in := validInput()
	in.Type = "multiple_choice"
	if got := ruleCode(t, mustFail(t, in)); got != CodeInvalidType {
		t.Fatalf("code = %s, want %s", got, CodeInvalidType)
	}
}

func TestBuild_TypeDataMismatch(t *testing.T) {
	t.Parallel()

	// declared mcq, only a true_false block supplied
	in := validInput()
	in.MCQ = nil
	in.TrueFalse = &TrueFalseData{CorrectAnswer: boolp(true)}
	if got := ruleCode(t, mustFail(t, in)); got != CodeTypeDataMismatch {
		t.Fatalf("foreign block only: code = %s, want %s", got, CodeTypeDataMismatch)
	}

	// matching block present alongside a foreign one
	in = validInput()
	in.Essay = &EssayData{MaxWords: 100}
	if got := ruleCode(t, mustFail(t, in)); got != CodeTypeDataMismatch {
		t.Fatalf("extra block: code = %s, want %s", got, CodeTypeDataMismatch)
	}

	// no payload at all is the strategy's concern, not a mismatch
	in = validInput()
	in.MCQ = nil
	if got := ruleCode(t, mustFail(t, in)); got != CodeMCQDataRequired {
		t.Fatalf("absent block: code = %s, want %s", got, CodeMCQDataRequired)
	}
}

func TestBuild_AggregatePerType(t *testing.T) {
	t.Parallel()

	tf := Input{
		Type: "true_false", Title: "t", Content: "c",
		TrueFalse: &TrueFalseData{CorrectAnswer: boolp(false)},
	}
	agg, err := Build(tf)
	if err != nil {
		t.Fatalf("true_false Build: %v", err)
	}
	if agg.TrueFalse == nil || agg.MCQ != nil || agg.Essay != nil {
		t.Fatalf("true_false aggregate wrong: %+v", agg)
	}

	es := Input{
		Type: "essay", Title: "t", Content: "c",
		Essay: &EssayData{MinWords: 10, MaxWords: 200},
	}
	agg, err = Build(es)
	if err != nil {
		t.Fatalf("essay Build: %v", err)
	}
	if agg.Essay == nil || agg.MCQ != nil || agg.TrueFalse != nil {
		t.Fatalf("essay aggregate wrong: %+v", agg)
	}
}

func mustFail(t *testing.T, in Input) error {
	t.Helper()
	_, err := Build(in)
	if err == nil {
		t.Fatalf("Build unexpectedly succeeded")
	}
	return err
}

func TestForType_Closed(t *testing.T) {
	t.Parallel()

	for _, typ := range Types() {
		s, ok := ForType(typ)
		if !ok || s.Type() != typ {
			t.Fatalf("ForType(%s) = %v, %v", typ, s, ok)
		}
	}
	if _, ok := ForType(Type("short_answer")); ok {
		t.Fatalf("ForType accepted an unregistered type")
	}
}

func TestRuleError_Render(t *testing.T) {
	t.Parallel()

	err := ruleErrf(CodeMCQNoCorrect, "mcq_data.options", "at least one option must be correct")
	want := "MCQ_NO_CORRECT_OPTION: at least one option must be correct"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
	var nilErr *RuleError
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil Error() = %q", nilErr.Error())
	}
}
