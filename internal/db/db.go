// Package db runs rendered queries against PostgreSQL, MySQL or SQLite
// through database/sql and formats the result as an ASCII table.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// ErrNoDriver is returned by Open for an engine without a registered driver.
var ErrNoDriver = errors.New("no driver for engine")

var driverName = map[string]string{
	"postgres": "pgx",
	"mysql":    "mysql",
	"sqlite":   "sqlite",
}

// DefaultMaxRows caps the rows formatted by Query.
const DefaultMaxRows = 1000

// Conn is an open database connection for one engine.
type Conn struct {
	db      *sql.DB
	dsn     string
	engine  string
	maxRows int
}

// Option configures a Conn.
type Option func(*Conn)

// WithMaxRows caps the number of rows Query formats. Values <= 0 are ignored.
func WithMaxRows(n int) Option {
	return func(c *Conn) {
		if n > 0 {
			c.maxRows = n
		}
	}
}

// Open connects to the database and verifies the connection with a ping.
func Open(ctx context.Context, engine, dsn string, opts ...Option) (*Conn, error) {
	driver, ok := driverName[engine]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNoDriver, engine)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if engine == "sqlite" {
		// every pooled connection to :memory: would be a separate database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	c := &Conn{db: db, dsn: dsn, engine: engine, maxRows: DefaultMaxRows}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Engine returns the engine the connection was opened for.
func (c *Conn) Engine() string { return c.engine }

// DSN returns the connection string with any password masked.
func (c *Conn) DSN() string { return SanitizeDSN(c.dsn) }

// Close closes the underlying pool.
func (c *Conn) Close() error {
	return c.db.Close()
}

// Exec runs a statement that returns no rows.
func (c *Conn) Exec(ctx context.Context, sqlStr string, params ...any) error {
	if _, err := c.db.ExecContext(ctx, sqlStr, params...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// Query runs sqlStr with params and returns the rows as a formatted table.
func (c *Conn) Query(ctx context.Context, sqlStr string, params []any) (string, error) {
	rows, err := c.db.QueryContext(ctx, sqlStr, params...)
	if err != nil {
		return "", fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return c.formatRows(rows)
}

// Rows runs sqlStr with params and returns every value as a string, NULL
// as "NULL". It is not capped by the row limit.
func (c *Conn) Rows(ctx context.Context, sqlStr string, params []any) ([]string, [][]string, error) {
	rows, err := c.db.QueryContext(ctx, sqlStr, params...)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	columns, data, _, err := scanRows(rows, 0)
	return columns, data, err
}

// Tables lists the user tables of the connected database.
func (c *Conn) Tables(ctx context.Context) ([]string, error) {
	var query string
	switch c.engine {
	case "postgres":
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name"
	case "mysql":
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name"
	case "sqlite":
		query = "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
	default:
		return nil, fmt.Errorf("unsupported engine: %s", c.engine)
	}
	_, data, err := c.Rows(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	tables := make([]string, len(data))
	for i, row := range data {
		tables[i] = row[0]
	}
	return tables, nil
}

func (c *Conn) formatRows(rows *sql.Rows) (string, error) {
	columns, data, truncated, err := scanRows(rows, c.maxRows)
	if err != nil {
		return "", err
	}
	result := FormatTable(columns, data)
	if truncated {
		result += fmt.Sprintf("(truncated at %d rows)\n", c.maxRows)
	}
	return result, nil
}

// scanRows reads rows as strings. limit <= 0 reads everything.
func scanRows(rows *sql.Rows, limit int) ([]string, [][]string, bool, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, false, fmt.Errorf("columns: %w", err)
	}

	var data [][]string
	truncated := false
	for rows.Next() {
		if limit > 0 && len(data) >= limit {
			truncated = true
			break
		}
		vals := make([]sql.NullString, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, false, fmt.Errorf("scan: %w", err)
		}
		row := make([]string, len(columns))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, false, fmt.Errorf("rows: %w", err)
	}
	return columns, data, truncated, nil
}

// FormatTable renders columns and rows as a psql-style ASCII table
// followed by a row count.
func FormatTable(columns []string, rows [][]string) string {
	if len(columns) == 0 {
		return "(0 rows)\n"
	}

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	sep := buildSeparator(widths)

	b.WriteString(sep)
	writeRow(&b, columns, widths)
	b.WriteString(sep)
	for _, row := range rows {
		writeRow(&b, row, widths)
	}
	b.WriteString(sep)

	if n := len(rows); n == 1 {
		b.WriteString("(1 row)\n")
	} else {
		fmt.Fprintf(&b, "(%d rows)\n", n)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	b.WriteByte('|')
	for i, cell := range cells {
		fmt.Fprintf(b, " %-*s |", widths[i], cell)
	}
	b.WriteByte('\n')
}

func buildSeparator(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}

// SanitizeDSN masks the password in a URL-style or MySQL-style DSN.
func SanitizeDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err == nil && u.Scheme != "" && u.User != nil {
		if _, hasPass := u.User.Password(); hasPass {
			// Rebuilt by hand so the mask is not percent-encoded.
			masked := u.Scheme + "://" + u.User.Username() + ":****@" + u.Host + u.Path
			if u.RawQuery != "" {
				masked += "?" + u.RawQuery
			}
			return masked
		}
		return dsn
	}

	// user:pass@tcp(host)/db
	if atIdx := strings.LastIndex(dsn, "@"); atIdx > 0 {
		userPass := dsn[:atIdx]
		if colonIdx := strings.Index(userPass, ":"); colonIdx >= 0 {
			return userPass[:colonIdx+1] + "****" + dsn[atIdx:]
		}
	}
	return dsn
}
