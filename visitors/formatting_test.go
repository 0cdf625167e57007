package visitors

import (
	"errors"
	"strings"
	"testing"

	"github.com/bawdo/pgdistinct/dialect"
	"github.com/bawdo/pgdistinct/internal/testutil"
	"github.com/bawdo/pgdistinct/nodes"
)

// fmtPG returns a FormattingVisitor wrapping a non-parameterised PostgresVisitor.
func fmtPG() *FormattingVisitor {
	return NewFormattingVisitor(NewPostgresVisitor(WithoutParams()))
}

func TestFormattingVisitorDelegatesLeafNodes(t *testing.T) {
	t.Parallel()
	fv := fmtPG()
	_, e := employees()

	testutil.AssertSQL(t, fv, e.Col("name"), `"e"."name"`)
	testutil.AssertSQL(t, fv, nodes.Literal("Sales"), `'Sales'`)
	testutil.AssertSQL(t, fv, e.Star(), `"e".*`)
	testutil.AssertSQL(t, NewFormattingVisitor(NewMySQLVisitor()), e.Col("name"), "`e`.`name`")
}

func TestFormattingVisitorDistinctOn(t *testing.T) {
	t.Parallel()
	_, e := employees()
	core := &nodes.SelectCore{
		From:        e,
		Projections: []nodes.Node{nodes.DistinctOn(e.Col("department"), e.Star()), e.Col("salary")},
		Wheres:      []nodes.Node{e.Col("salary").Gt(60000), e.Col("department").NotEq("HR")},
		Orders:      []nodes.Node{e.Col("department").Asc(), e.Col("salary").Desc()},
		Limit:       nodes.Literal(3),
	}

	want := "SELECT DISTINCT ON(\"e\".\"department\") \"e\".*\n" +
		"\t,\"e\".\"salary\"\n" +
		"FROM \"employees\" AS \"e\"\n" +
		"WHERE \"e\".\"salary\" > 60000\n" +
		"\tAND \"e\".\"department\" != 'HR'\n" +
		"ORDER BY \"e\".\"department\" ASC\n" +
		"\t,\"e\".\"salary\" DESC\n" +
		"LIMIT 3"
	testutil.AssertSQL(t, fmtPG(), core, want)
}

func TestFormattingVisitorNativeDistinctOn(t *testing.T) {
	t.Parallel()
	_, e := employees()
	core := &nodes.SelectCore{
		From:        e,
		DistinctOn:  []nodes.Node{e.Col("department")},
		Projections: []nodes.Node{e.Col("name"), e.Col("salary")},
	}

	want := "SELECT DISTINCT ON (\"e\".\"department\") \"e\".\"name\"\n" +
		"\t,\"e\".\"salary\"\n" +
		"FROM \"employees\" AS \"e\""
	testutil.AssertSQL(t, fmtPG(), core, want)
}

func TestFormattingVisitorNativeDistinctOnUnsupported(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		inner   nodes.Visitor
		dialect string
	}{
		{"mysql", NewMySQLVisitor(WithoutParams()), "MySQL"},
		{"sqlite", NewSQLiteVisitor(WithoutParams()), "SQLite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			users := nodes.NewTable("users")
			core := &nodes.SelectCore{From: users, DistinctOn: []nodes.Node{users.Col("dept")}}
			fv := NewFormattingVisitor(tt.inner)

			sql := core.Accept(fv)
			if strings.Contains(sql, "DISTINCT ON") {
				t.Errorf("unsupported DISTINCT ON rendered: %q", sql)
			}
			var ue dialect.UnsupportedFunctionError
			if !errors.As(fv.Err(), &ue) {
				t.Fatalf("expected UnsupportedFunctionError, got %v", fv.Err())
			}
			testutil.AssertEqual(t, ue.Dialect, tt.dialect)
			testutil.AssertEqual(t, ue.Function, "DISTINCT_ON")
		})
	}
}

func TestFormattingVisitorForwardsErrors(t *testing.T) {
	t.Parallel()
	_, e := employees()
	core := &nodes.SelectCore{From: e, Projections: []nodes.Node{nodes.DistinctOn(e.Star())}}

	testutil.AssertRenderError(t, fmtPG(), core, dialect.ErrInsufficientArguments)
}

func TestFormattingVisitorParamsForwardedToInner(t *testing.T) {
	t.Parallel()
	inner := NewPostgresVisitor()
	fv := NewFormattingVisitor(inner)
	_, e := employees()

	testutil.AssertSQL(t, fv, e.Col("salary").Gt(70000), `"e"."salary" > $1`)
	params := fv.Params()
	if len(params) != 1 || params[0] != 70000 {
		t.Errorf("unexpected params: %v", params)
	}
}

func TestFormattingVisitorPanicsOnNilInner(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil inner visitor")
		}
	}()
	NewFormattingVisitor(nil)
}
