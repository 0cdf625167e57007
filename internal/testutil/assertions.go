package testutil

import (
	"errors"
	"testing"

	"github.com/bawdo/pgdistinct/nodes"
)

// AssertEqual checks that got == want and reports a descriptive error if not.
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("expected:\n  %v\ngot:\n  %v", want, got)
	}
}

// AssertSQL renders node with v and compares the result with expected.
// It also fails when the visitor recorded a compilation error.
func AssertSQL(t *testing.T, v nodes.Visitor, node nodes.Node, expected string) {
	t.Helper()
	if p, ok := v.(nodes.Parameterizer); ok {
		p.Reset()
	}
	got := node.Accept(v)
	if r, ok := v.(nodes.ErrorReporter); ok && r.Err() != nil {
		t.Fatalf("unexpected render error: %v", r.Err())
	}
	if got != expected {
		t.Errorf("expected:\n  %q\ngot:\n  %q", expected, got)
	}
}

// AssertRenderError renders node with v and fails unless the visitor
// recorded an error matching target.
func AssertRenderError(t *testing.T, v nodes.Visitor, node nodes.Node, target error) {
	t.Helper()
	if p, ok := v.(nodes.Parameterizer); ok {
		p.Reset()
	}
	node.Accept(v)
	r, ok := v.(nodes.ErrorReporter)
	if !ok {
		t.Fatalf("visitor %T does not report errors", v)
	}
	AssertErrorIs(t, r.Err(), target)
}

// AssertNoError fails the test if err is non-nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error but got nil")
	}
}

// AssertErrorIs fails the test unless errors.Is(err, target).
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected error matching %v, got %v", target, err)
	}
}
