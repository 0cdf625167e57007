//go:build integration

// Package integration runs DISTINCT_ON queries against a real PostgreSQL.
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bawdo/pgdistinct/internal/db"
	"github.com/bawdo/pgdistinct/managers"
	"github.com/bawdo/pgdistinct/nodes"
	"github.com/bawdo/pgdistinct/plugins/distinctorder"
	"github.com/bawdo/pgdistinct/visitors"
)

const schema = `
CREATE TABLE employees (
	id         SERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	department TEXT NOT NULL,
	salary     INTEGER NOT NULL
);
INSERT INTO employees (name, department, salary) VALUES
	('John Doe', 'Engineering', 80000),
	('Jane Smith', 'Engineering', 95000),
	('Bob Johnson', 'Engineering', 75000),
	('Alice Brown', 'Sales', 70000),
	('Charlie Wilson', 'Sales', 85000),
	('Diana Prince', 'HR', 65000),
	('Eve Adams', 'HR', 72000);
`

// startPostgres starts a seeded container and returns its connection string.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:16-alpine",
		postgres.WithDatabase("pgdistinct_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := pgx.Connect(ctx, connStr)
	require.NoError(t, err)
	defer func() { _ = conn.Close(ctx) }()
	_, err = conn.Exec(ctx, schema)
	require.NoError(t, err)

	return connStr
}

func pickFirst(columns ...string) *managers.SelectManager {
	e := nodes.NewTable("employees").Alias("e")
	args := make([]nodes.Node, 0, len(columns)+1)
	for _, c := range columns {
		args = append(args, e.Col(c))
	}
	args = append(args, e.Star())
	return managers.NewSelectManager(e).
		PickFirst(args...).
		Order(e.Col("salary").Desc()).
		Use(distinctorder.New())
}

func TestPickFirstPerDepartment(t *testing.T) {
	connStr := startPostgres(t)
	ctx := context.Background()

	conn, err := pgx.Connect(ctx, connStr)
	require.NoError(t, err)
	defer func() { _ = conn.Close(ctx) }()

	sql, params, err := pickFirst("department").ToSQL(visitors.NewPostgresVisitor())
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT DISTINCT ON("e"."department") "e".*  FROM "employees" AS "e" ORDER BY "e"."department" ASC, "e"."salary" DESC`,
		sql)

	rows, err := conn.Query(ctx, sql, params...)
	require.NoError(t, err)
	defer rows.Close()

	type employee struct {
		ID         int32
		Name       string
		Department string
		Salary     int32
	}
	got, err := pgx.CollectRows(rows, pgx.RowToStructByPos[employee])
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "Jane Smith", got[0].Name)
	assert.Equal(t, "Engineering", got[0].Department)
	assert.Equal(t, "Eve Adams", got[1].Name)
	assert.Equal(t, "Charlie Wilson", got[2].Name)
}

func TestPickFirstMultipleColumns(t *testing.T) {
	connStr := startPostgres(t)
	ctx := context.Background()

	sql, params, err := pickFirst("department", "name").ToSQL(visitors.NewPostgresVisitor())
	require.NoError(t, err)

	conn, err := db.Open(ctx, "postgres", connStr)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	cols, rows, err := conn.Rows(ctx, sql, params)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "department", "salary"}, cols)
	assert.Len(t, rows, 7)
}

func TestPickFirstWithCondition(t *testing.T) {
	connStr := startPostgres(t)
	ctx := context.Background()

	e := nodes.NewTable("employees").Alias("e")
	q := managers.NewSelectManager(e).
		PickFirst(e.Col("department"), e.Col("name")).
		Where(e.Col("salary").Lt(80000)).
		Order(e.Col("salary").Desc()).
		Use(distinctorder.New())
	sql, params, err := q.ToSQL(visitors.NewPostgresVisitor())
	require.NoError(t, err)
	assert.Equal(t, []any{80000}, params)

	conn, err := db.Open(ctx, "postgres", connStr)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	_, rows, err := conn.Rows(ctx, sql, params)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Bob Johnson"}, rows[0])
	assert.Equal(t, []string{"Eve Adams"}, rows[1])
	assert.Equal(t, []string{"Alice Brown"}, rows[2])
}
