package db

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/atharv3903/logiroute/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/go-sql-driver/mysql"
)

// Runs against a real server: LOGIROUTE_TEST_DSN=user:pass@tcp(127.0.0.1:3306)/logiroute_test
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("LOGIROUTE_TEST_DSN")
	if dsn == "" {
		t.Skip("LOGIROUTE_TEST_DSN not set")
	}
	conn, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.Ping())
	return conn
}

func TestReplaceAndReadEdges(t *testing.T) {
	ctx := context.Background()
	s := Store{DB: openTestDB(t)}
	require.NoError(t, s.EnsureSchema(ctx))

	edges := []model.Edge{
		{From: "A", To: "B", Weight: 2},
		{From: "B", To: "C", Weight: 3.5},
	}
	require.NoError(t, s.ReplaceEdges(ctx, edges))

	arcs, err := s.Arcs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.Edge{
		{From: "A", To: "B", Weight: 2},
		{From: "B", To: "A", Weight: 2},
		{From: "B", To: "C", Weight: 3.5},
		{From: "C", To: "B", Weight: 3.5},
	}, arcs)

	require.NoError(t, s.ReplaceEdges(ctx, edges[:1]))
	arcs, err = s.Arcs(ctx)
	require.NoError(t, err)
	assert.Len(t, arcs, 2)
}
