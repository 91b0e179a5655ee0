//go:build integration_pg
// +build integration_pg

package pg

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// pgContainer boots a disposable postgres and returns its DSN. Deadlines
// are generous so a cold image pull does not fail the suite
func pgContainer(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	ctr, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "qbank",
				"POSTGRES_PASSWORD": "qbank",
				"POSTGRES_DB":       "qbank",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	host, err := ctr.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	return fmt.Sprintf("postgres://qbank:qbank@%s:%s/qbank?sslmode=disable", host, port.Port())
}

func TestOpenAndQueryRoundTrip(t *testing.T) {
	dsn := pgContainer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	appName := "qbank-pg-integration"
	p := testPool(t, dsn, func(pc *pgxpool.Config) {
		if pc.ConnConfig.RuntimeParams == nil {
			pc.ConnConfig.RuntimeParams = map[string]string{}
		}
		pc.ConnConfig.RuntimeParams["application_name"] = appName
		pc.MinConns = 1
	})

	// TEMP table must live on one session
	conn := pinConn(t, ctx, p)

	var one int
	if err := conn.QueryRow(ctx, "select 1").Scan(&one); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if one != 1 {
		t.Fatalf("unexpected value: %d", one)
	}

	// no ON COMMIT DROP: autocommit would reap the table between statements
	if _, err := conn.Exec(ctx, `create temporary table fixture_questions (external_id text primary key, prompt text)`); err != nil {
		t.Fatalf("create temp table failed: %v", err)
	}
	defer func() { _, _ = conn.Exec(ctx, `drop table if exists fixture_questions`) }()

	batch := &pgx.Batch{}
	batch.Queue(`insert into fixture_questions (external_id, prompt) values ($1,$2)`, "GEO-0001", "Name the capital of Kenya.")
	br := conn.SendBatch(ctx, batch)
	if _, err := br.Exec(); err != nil {
		_ = br.Close()
		t.Fatalf("insert failed: %v", err)
	}
	if err := br.Close(); err != nil {
		t.Fatalf("batch close: %v", err)
	}

	type row struct {
		ExternalID string
		Prompt     string
	}
	rows, err := conn.Query(ctx, `select external_id, prompt from fixture_questions order by external_id`)
	if err != nil {
		t.Fatalf("query rows: %v", err)
	}
	defer rows.Close()

	got, err := pgx.CollectRows(rows, pgx.RowToStructByPos[row])
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(got) != 1 || got[0].ExternalID != "GEO-0001" || got[0].Prompt != "Name the capital of Kenya." {
		t.Fatalf("unexpected rows: %#v", got)
	}

	var gotApp string
	if err := conn.QueryRow(ctx, `select current_setting('application_name')`).Scan(&gotApp); err != nil {
		t.Fatalf("check app name: %v", err)
	}
	if gotApp != appName {
		t.Fatalf("application_name mismatch: got %q want %q", gotApp, appName)
	}
}
