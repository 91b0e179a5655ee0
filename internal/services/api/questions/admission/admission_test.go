package admission

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"qbank/internal/core/qtype"
	"qbank/internal/core/taxonomy"
	perr "qbank/internal/platform/errors"
	adom "qbank/internal/services/audit/domain"
)

type fakeOwners struct {
	owns      bool
	ownsErr   error
	active    bool
	activeErr error

	ownsCalls   int
	activeCalls int
}

func (f *fakeOwners) Owns(context.Context, int64, int64) (bool, error) {
	f.ownsCalls++
	return f.owns, f.ownsErr
}

func (f *fakeOwners) Active(context.Context, int64, int64) (bool, error) {
	f.activeCalls++
	return f.active, f.activeErr
}

func (f *fakeOwners) DefaultBankID(context.Context, int64) (int64, error) { return 0, nil }

type fakeRefs struct {
	unknown []taxonomy.Ref
	err     error

	calls  int
	probed []taxonomy.Ref
}

func (f *fakeRefs) UnknownRefs(_ context.Context, _, _ int64, refs []taxonomy.Ref) ([]taxonomy.Ref, error) {
	f.calls++
	f.probed = refs
	return f.unknown, f.err
}

func (f *fakeRefs) Get(context.Context, int64, int64) (taxonomy.Set, error) {
	return taxonomy.Set{}, nil
}

type fakeAudit struct {
	mu     sync.Mutex
	events []adom.Event
}

func (f *fakeAudit) Record(_ context.Context, ev adom.Event) adom.Receipt {
	f.mu.Lock()
	f.events = append(f.events, adom.Seal(ev))
	f.mu.Unlock()
	rcpt, out := adom.NewReceipt()
	out <- adom.OutcomeStored
	return rcpt
}

func (f *fakeAudit) recorded() []adom.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]adom.Event, len(f.events))
	copy(out, f.events)
	return out
}

// goodOwners passes the bank step
func goodOwners() *fakeOwners { return &fakeOwners{owns: true, active: true} }

// okCommand passes every step as-is: identity aligned, tagged
// selection, valid mcq payload
func okCommand() Command {
	return Command{
		Principal:  11,
		PathUserID: 11,
		BankID:     1730832000000000,
		Meta:       adom.Meta{RequestID: "req-1", ClientIP: "10.0.0.9", UserAgent: "cli/1"},
		Selection: taxonomy.Selection{
			Categories: map[int]string{1: "general"},
			Difficulty: "easy",
		},
		Payload: qtype.Input{
			Type:    "mcq",
			Title:   "Capital of France",
			Content: "Which city is the capital of France?",
			MCQ: &qtype.MCQData{Options: []qtype.MCQOption{
				{Text: "Paris", IsCorrect: true},
				{Text: "Lyon"},
			}},
		},
	}
}

func TestAdmit_FullPassReturnsAggregate(t *testing.T) {
	t.Parallel()

	owners := goodOwners()
	refs := &fakeRefs{}
	audit := &fakeAudit{}
	c := New(owners, refs, audit, nil)

	agg, err := c.Admit(context.Background(), okCommand())
	if err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if agg.Type != qtype.TypeMCQ || agg.MCQ == nil {
		t.Fatalf("aggregate = %+v, want mcq payload set", agg)
	}
	if owners.ownsCalls != 1 || owners.activeCalls != 1 {
		t.Fatalf("owns/active calls = %d/%d, want 1/1", owners.ownsCalls, owners.activeCalls)
	}
	if refs.calls != 1 {
		t.Fatalf("taxonomy probe calls = %d, want 1", refs.calls)
	}
	if got := len(refs.probed); got != 2 {
		t.Fatalf("probed %d refs, want category + difficulty", got)
	}
	if got := len(audit.recorded()); got != 0 {
		t.Fatalf("clean admission recorded %d events, want 0", got)
	}
}

func TestAdmit_PathMismatchIsAuditedBeforeAnyProbe(t *testing.T) {
	t.Parallel()

	owners := goodOwners()
	audit := &fakeAudit{}
	c := New(owners, &fakeRefs{}, audit, nil)

	cmd := okCommand()
	cmd.PathUserID = 999888777
	_, err := c.Admit(context.Background(), cmd)
	if !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("code = %v, want UNAUTHORIZED_ACCESS", perr.CodeOf(err))
	}

	events := audit.recorded()
	if len(events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Type != adom.EventPathManipulation {
		t.Fatalf("event type = %q, want %q", ev.Type, adom.EventPathManipulation)
	}
	if ev.Severity != adom.SeverityCritical {
		t.Fatalf("severity = %q, want %q", ev.Severity, adom.SeverityCritical)
	}
	if ev.UserID != 11 {
		t.Fatalf("event user = %d, want the authenticated principal 11", ev.UserID)
	}
	if ev.Details["path_user_id"] != int64(999888777) {
		t.Fatalf("details = %+v, want the offending path user id", ev.Details)
	}
	if owners.ownsCalls != 0 {
		t.Fatalf("ownership probed %d times after identity failure, want 0", owners.ownsCalls)
	}
}

func TestAdmit_BodyMismatchIsPrivilegeEscalation(t *testing.T) {
	t.Parallel()

	audit := &fakeAudit{}
	c := New(goodOwners(), &fakeRefs{}, audit, nil)

	cmd := okCommand()
	cmd.BodyUserID = 12
	_, err := c.Admit(context.Background(), cmd)
	if !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("code = %v, want UNAUTHORIZED_ACCESS", perr.CodeOf(err))
	}

	events := audit.recorded()
	if len(events) != 1 || events[0].Type != adom.EventPrivilegeEscalation {
		t.Fatalf("events = %+v, want one TOKEN_PRIVILEGE_ESCALATION", events)
	}
	if events[0].Details["body_user_id"] != int64(12) {
		t.Fatalf("details = %+v, want the offending body user id", events[0].Details)
	}
}

func TestAdmit_MatchingBodyUserIDPasses(t *testing.T) {
	t.Parallel()

	c := New(goodOwners(), &fakeRefs{}, &fakeAudit{}, nil)

	cmd := okCommand()
	cmd.BodyUserID = 11
	if _, err := c.Admit(context.Background(), cmd); err != nil {
		t.Fatalf("Admit with matching body user_id: %v", err)
	}
}

func TestAdmit_ForeignBankIsCriticalAndNotFound(t *testing.T) {
	t.Parallel()

	owners := goodOwners()
	owners.owns = false
	audit := &fakeAudit{}
	c := New(owners, &fakeRefs{}, audit, nil)

	_, err := c.Admit(context.Background(), okCommand())
	if !perr.IsCode(err, perr.ErrorCodeBankNotFound) {
		t.Fatalf("code = %v, want QUESTION_BANK_NOT_FOUND", perr.CodeOf(err))
	}

	events := audit.recorded()
	if len(events) != 1 || events[0].Severity != adom.SeverityCritical {
		t.Fatalf("events = %+v, want one critical escalation", events)
	}
	if owners.activeCalls != 0 {
		t.Fatal("active probed for a bank the user does not own")
	}
}

func TestAdmit_InactiveBankIsHighAndNotFound(t *testing.T) {
	t.Parallel()

	owners := goodOwners()
	owners.active = false
	audit := &fakeAudit{}
	c := New(owners, &fakeRefs{}, audit, nil)

	_, err := c.Admit(context.Background(), okCommand())
	if !perr.IsCode(err, perr.ErrorCodeBankNotFound) {
		t.Fatalf("code = %v, want QUESTION_BANK_NOT_FOUND", perr.CodeOf(err))
	}

	events := audit.recorded()
	if len(events) != 1 || events[0].Severity != adom.SeverityHigh {
		t.Fatalf("events = %+v, want one high-severity escalation", events)
	}
}

func TestAdmit_OwnershipProbeFailureHasNoEvent(t *testing.T) {
	t.Parallel()

	owners := goodOwners()
	owners.ownsErr = errors.New("connection refused")
	audit := &fakeAudit{}
	c := New(owners, &fakeRefs{}, audit, nil)

	_, err := c.Admit(context.Background(), okCommand())
	if !perr.IsCode(err, perr.ErrorCodeOwnership) {
		t.Fatalf("code = %v, want OWNERSHIP_VALIDATION_ERROR", perr.CodeOf(err))
	}
	if got := len(audit.recorded()); got != 0 {
		t.Fatalf("infra failure recorded %d events, want 0", got)
	}
}

func TestAdmit_CategoryGapNamesTheMissingLevel(t *testing.T) {
	t.Parallel()

	refs := &fakeRefs{}
	c := New(goodOwners(), refs, &fakeAudit{}, nil)

	cmd := okCommand()
	cmd.Selection.Categories = map[int]string{3: "fractions"}
	_, err := c.Admit(context.Background(), cmd)
	if !perr.IsCode(err, perr.ErrorCodeConstraintViolation) {
		t.Fatalf("code = %v, want CONSTRAINT_VIOLATION", perr.CodeOf(err))
	}
	if !strings.Contains(err.Error(), "level 1") {
		t.Fatalf("error %q does not name the missing level", err)
	}
	if refs.calls != 0 {
		t.Fatal("taxonomy probed despite the category gap")
	}
}

func TestAdmit_UnknownRefsAreListedInOrder(t *testing.T) {
	t.Parallel()

	refs := &fakeRefs{unknown: []taxonomy.Ref{
		{Type: taxonomy.RefTag, ID: "ghost"},
		{Type: taxonomy.RefDifficulty, ID: "impossible"},
	}}
	c := New(goodOwners(), refs, &fakeAudit{}, nil)

	cmd := okCommand()
	cmd.Selection.Tags = []string{"ghost"}
	cmd.Selection.Difficulty = "impossible"
	_, err := c.Admit(context.Background(), cmd)
	if !perr.IsCode(err, perr.ErrorCodeTaxonomyNotFound) {
		t.Fatalf("code = %v, want TAXONOMY_REFERENCE_NOT_FOUND", perr.CodeOf(err))
	}
	if !strings.Contains(err.Error(), "tag:ghost, difficulty_level:impossible") {
		t.Fatalf("error %q does not list the unknown refs in order", err)
	}
}

func TestAdmit_TaxonomyProbeFailureMapsToDatabaseError(t *testing.T) {
	t.Parallel()

	refs := &fakeRefs{err: errors.New("taxonomy set scan failed")}
	c := New(goodOwners(), refs, &fakeAudit{}, nil)

	_, err := c.Admit(context.Background(), okCommand())
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("code = %v, want DATABASE_ERROR", perr.CodeOf(err))
	}
}

func TestAdmit_EmptySelectionSkipsTaxonomyProbe(t *testing.T) {
	t.Parallel()

	refs := &fakeRefs{}
	c := New(goodOwners(), refs, &fakeAudit{}, nil)

	cmd := okCommand()
	cmd.Selection = taxonomy.Selection{}
	if _, err := c.Admit(context.Background(), cmd); err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if refs.calls != 0 {
		t.Fatalf("taxonomy probe calls = %d, want 0 for an empty selection", refs.calls)
	}
}

func TestAdmit_PayloadRuleErrorCarriesCodeAndField(t *testing.T) {
	t.Parallel()

	c := New(goodOwners(), &fakeRefs{}, &fakeAudit{}, nil)

	cmd := okCommand()
	cmd.Payload.MCQ = nil
	_, err := c.Admit(context.Background(), cmd)
	if !perr.IsCode(err, perr.ErrorCode(qtype.CodeMCQDataRequired)) {
		t.Fatalf("code = %v, want MCQ_DATA_REQUIRED", perr.CodeOf(err))
	}

	var pe *perr.Error
	if !errors.As(err, &pe) {
		t.Fatalf("error %T does not expose a field", err)
	}
	if pe.Field() != "mcq_data" {
		t.Fatalf("field = %q, want mcq_data", pe.Field())
	}
}
