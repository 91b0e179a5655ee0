package pg

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// testPool opens a client against dsn and closes it when the test ends.
// tune is optional
func testPool(t *testing.T, dsn string, tune func(*pgxpool.Config)) *PG {
	t.Helper()

	client, err := Open(context.Background(), Config{URL: dsn}, nil, tune)
	if err != nil {
		t.Fatalf("open test pool: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

// pinConn holds one connection for the whole test so TEMP tables and
// session settings stay on a single session
func pinConn(t *testing.T, ctx context.Context, p *PG) *pgxpool.Conn {
	t.Helper()

	conn, err := p.Pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire conn: %v", err)
	}
	t.Cleanup(conn.Release)
	return conn
}
