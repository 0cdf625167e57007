package distinctorder

import (
	"errors"
	"testing"

	"github.com/bawdo/pgdistinct/internal/testutil"
	"github.com/bawdo/pgdistinct/nodes"
)

func employees() *nodes.TableAlias {
	return nodes.NewTable("employees").Alias("e")
}

func assertOrders(t *testing.T, core *nodes.SelectCore, want ...string) {
	t.Helper()
	got := testutil.Orders(core)
	if len(got) != len(want) {
		t.Fatalf("expected orders %v, got %v", want, got)
	}
	for i := range want {
		testutil.AssertEqual(t, got[i], want[i])
	}
}

func TestPrependsGroupingColumns(t *testing.T) {
	t.Parallel()
	e := employees()
	core := &nodes.SelectCore{
		From:        e,
		Projections: []nodes.Node{nodes.DistinctOn(e.Col("department"), e.Star())},
		Orders:      []nodes.Node{e.Col("salary").Desc()},
	}

	out, err := New().TransformSelect(core)
	testutil.AssertNoError(t, err)
	assertOrders(t, out, "e.department asc", "e.salary desc")
}

func TestKeepsExistingDirection(t *testing.T) {
	t.Parallel()
	e := employees()
	core := &nodes.SelectCore{
		From:        e,
		Projections: []nodes.Node{nodes.DistinctOn(e.Col("department"), e.Col("name"), e.Star())},
		Orders:      []nodes.Node{e.Col("salary").Desc(), e.Col("department").Desc()},
	}

	out, err := New().TransformSelect(core)
	testutil.AssertNoError(t, err)
	assertOrders(t, out, "e.department desc", "e.name asc", "e.salary desc")
}

func TestAlreadyAligned(t *testing.T) {
	t.Parallel()
	e := employees()
	core := &nodes.SelectCore{
		From:        e,
		Projections: []nodes.Node{nodes.DistinctOn(e.Col("department"), e.Star())},
		Orders:      []nodes.Node{e.Col("department").Asc(), e.Col("salary").Desc()},
	}

	out, err := New().TransformSelect(core)
	testutil.AssertNoError(t, err)
	assertOrders(t, out, "e.department asc", "e.salary desc")
}

func TestNativeDistinctOn(t *testing.T) {
	t.Parallel()
	e := employees()
	core := &nodes.SelectCore{
		From:       e,
		DistinctOn: []nodes.Node{e.Col("department")},
	}

	out, err := New(WithDirection(nodes.Desc)).TransformSelect(core)
	testutil.AssertNoError(t, err)
	assertOrders(t, out, "e.department desc")
}

func TestLeavesShortCallsAlone(t *testing.T) {
	t.Parallel()
	e := employees()
	orders := []nodes.Node{e.Col("salary").Desc()}
	core := &nodes.SelectCore{
		From:        e,
		Projections: []nodes.Node{nodes.DistinctOn(e.Star())},
		Orders:      orders,
	}

	out, err := New().TransformSelect(core)
	testutil.AssertNoError(t, err)
	assertOrders(t, out, "e.salary desc")
}

func TestPlainSelectUntouched(t *testing.T) {
	t.Parallel()
	e := employees()
	core := &nodes.SelectCore{From: e, Projections: []nodes.Node{e.Col("name")}}

	out, err := New().TransformSelect(core)
	testutil.AssertNoError(t, err)
	if len(out.Orders) != 0 {
		t.Errorf("expected no orders, got %v", testutil.Orders(out))
	}
}

func TestStrict(t *testing.T) {
	t.Parallel()
	e := employees()
	call := nodes.DistinctOn(e.Col("department"), e.Col("name"), e.Star())

	tests := []struct {
		name    string
		orders  []nodes.Node
		wantErr bool
	}{
		{"aligned", []nodes.Node{e.Col("department").Asc(), e.Col("name").Asc(), e.Col("salary").Desc()}, false},
		{"aligned any order", []nodes.Node{e.Col("name").Desc(), e.Col("department").Asc()}, false},
		{"missing", []nodes.Node{e.Col("department").Asc()}, true},
		{"interleaved", []nodes.Node{e.Col("department").Asc(), e.Col("salary").Desc(), e.Col("name").Asc()}, true},
		{"none", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			core := &nodes.SelectCore{From: e, Projections: []nodes.Node{call}, Orders: tt.orders}
			_, err := New(Strict()).TransformSelect(core)
			if tt.wantErr {
				if !errors.Is(err, ErrOrderMismatch) {
					t.Fatalf("expected ErrOrderMismatch, got %v", err)
				}
				return
			}
			testutil.AssertNoError(t, err)
		})
	}
}
