package repokit

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestWithBeginHooksRunsHooksThenFn(t *testing.T) {
	t.Parallel()

	q := &stubQuerier{}
	inner := &stubTx{q: q}

	var seq []string
	hook := func(name string) BeginHook {
		return func(_ context.Context, got Queryer) error {
			if got != Queryer(q) {
				t.Fatal("hook should run on the tx bound Queryer")
			}
			seq = append(seq, name)
			return nil
		}
	}

	runner := WithBeginHooks(inner, hook("first"), hook("second"))
	err := runner.Tx(context.Background(), func(got Queryer) error {
		if got != Queryer(q) {
			t.Fatal("fn should run on the tx bound Queryer")
		}
		seq = append(seq, "fn")
		return nil
	})
	if err != nil {
		t.Fatalf("Tx: %v", err)
	}

	if want := []string{"first", "second", "fn"}; !reflect.DeepEqual(seq, want) {
		t.Fatalf("sequence = %v, want %v", seq, want)
	}
	if inner.txCalls != 1 {
		t.Fatalf("inner txCalls = %d", inner.txCalls)
	}
}

func TestWithBeginHooksHookErrorStopsFn(t *testing.T) {
	t.Parallel()

	want := errors.New("lock_timeout rejected")
	inner := &stubTx{q: &stubQuerier{}}

	failing := func(context.Context, Queryer) error { return want }
	never := func(context.Context, Queryer) error {
		t.Fatal("hooks after a failure must not run")
		return nil
	}

	ran := false
	err := WithBeginHooks(inner, failing, never).Tx(context.Background(), func(Queryer) error {
		ran = true
		return nil
	})
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
	if ran {
		t.Fatal("fn must not run after a hook failure")
	}
}

func TestWithBeginHooksNoHooksReturnsInner(t *testing.T) {
	t.Parallel()

	inner := &stubTx{q: &stubQuerier{}}
	if got := WithBeginHooks(inner); got != TxRunner(inner) {
		t.Fatal("no hooks should mean no wrapper")
	}
}

func TestHookedTxDelegatesOutsideTx(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inner := &stubTx{q: &stubQuerier{}}
	runner := WithBeginHooks(inner, LockTimeout(time.Second))

	if _, err := runner.Exec(ctx, "UPDATE questions SET is_active = $1", false); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if inner.execs != 1 || !reflect.DeepEqual(inner.lastArgs, []any{false}) {
		t.Fatalf("Exec did not pass through: execs=%d args=%v", inner.execs, inner.lastArgs)
	}

	if _, err := runner.Query(ctx, "SELECT id FROM questions WHERE bank_id = $1", int64(7)); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if inner.queries != 1 || inner.lastSQL != "SELECT id FROM questions WHERE bank_id = $1" {
		t.Fatalf("Query did not pass through: queries=%d sql=%q", inner.queries, inner.lastSQL)
	}

	_ = runner.QueryRow(ctx, "SELECT prompt FROM questions WHERE id = $1", "q-1")
	if inner.rowCalls != 1 || !reflect.DeepEqual(inner.lastArgs, []any{"q-1"}) {
		t.Fatalf("QueryRow did not pass through: rows=%d args=%v", inner.rowCalls, inner.lastArgs)
	}
}

func TestLockTimeoutStatement(t *testing.T) {
	t.Parallel()

	q := &stubQuerier{}
	hook := LockTimeout(3 * time.Second)

	if err := hook(context.Background(), q); err != nil {
		t.Fatalf("hook: %v", err)
	}
	if q.execs != 1 {
		t.Fatalf("execs = %d", q.execs)
	}
	if want := "SET LOCAL lock_timeout = '3000ms'"; q.lastSQL != want {
		t.Fatalf("statement = %q, want %q", q.lastSQL, want)
	}
	if len(q.lastArgs) != 0 {
		t.Fatalf("a utility statement should carry no args, got %v", q.lastArgs)
	}
}

func TestLockTimeoutPropagatesExecError(t *testing.T) {
	t.Parallel()

	want := errors.New("tx already aborted")
	q := &stubQuerier{execErr: want}

	err := LockTimeout(500 * time.Millisecond)(context.Background(), q)
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}

func TestLockTimeoutRunsBeforeFn(t *testing.T) {
	t.Parallel()

	q := &stubQuerier{}
	inner := &stubTx{q: q}
	runner := WithBeginHooks(inner, LockTimeout(250*time.Millisecond))

	err := runner.Tx(context.Background(), func(got Queryer) error {
		if q.lastSQL != "SET LOCAL lock_timeout = '250ms'" {
			t.Fatalf("fn started before the lock bound was set, last sql %q", q.lastSQL)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Tx: %v", err)
	}
}
