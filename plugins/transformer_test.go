package plugins

import (
	"testing"

	"github.com/bawdo/pgdistinct/nodes"
)

func TestBaseTransformerSelect(t *testing.T) {
	t.Parallel()
	bt := BaseTransformer{}
	e := nodes.NewTable("employees").Alias("e")
	core := &nodes.SelectCore{
		From:        e,
		Projections: []nodes.Node{e.Col("name")},
		Wheres:      []nodes.Node{e.Col("salary").Gt(1)},
	}

	result, err := bt.TransformSelect(core)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != core {
		t.Error("expected BaseTransformer.TransformSelect to return input unchanged")
	}
}

func TestGroupingColumns(t *testing.T) {
	t.Parallel()
	e := nodes.NewTable("employees").Alias("e")
	dept := e.Col("department")
	name := e.Col("name")

	tests := []struct {
		name string
		core *nodes.SelectCore
		want []nodes.Node
	}{
		{
			name: "distinct_on call",
			core: &nodes.SelectCore{Projections: []nodes.Node{nodes.DistinctOn(dept, name, e.Star())}},
			want: []nodes.Node{dept, name},
		},
		{
			name: "native list",
			core: &nodes.SelectCore{DistinctOn: []nodes.Node{name}},
			want: []nodes.Node{name},
		},
		{
			name: "call wins over native list",
			core: &nodes.SelectCore{
				DistinctOn:  []nodes.Node{name},
				Projections: []nodes.Node{nodes.DistinctOn(dept, e.Star())},
			},
			want: []nodes.Node{dept},
		},
		{
			name: "entity only",
			core: &nodes.SelectCore{Projections: []nodes.Node{nodes.DistinctOn(e.Star())}},
		},
		{
			name: "plain select",
			core: &nodes.SelectCore{Projections: []nodes.Node{dept}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := GroupingColumns(tt.core)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d columns, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("column %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestSameExpr(t *testing.T) {
	t.Parallel()
	e := nodes.NewTable("employees").Alias("e")
	raw := nodes.NewSqlLiteral("1")

	if !SameExpr(e.Col("department"), e.Col("department")) {
		t.Error("expected equal attributes to match")
	}
	if SameExpr(e.Col("department"), e.Col("name")) {
		t.Error("expected different attributes not to match")
	}
	if !SameExpr(raw, raw) {
		t.Error("expected a node to match itself")
	}
	if SameExpr(raw, nodes.NewSqlLiteral("1")) {
		t.Error("expected distinct non-attribute nodes not to match")
	}
	if SameExpr(e.Col("department"), raw) {
		t.Error("expected attribute and literal not to match")
	}
}
