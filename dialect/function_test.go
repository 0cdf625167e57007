package dialect

import (
	"errors"
	"testing"
)

func upper(tokens []string) (string, error) { return "UP", nil }

func TestRegistryRegisterAndLookup(t *testing.T) {
	t.Parallel()
	r := NewRegistry("Test")
	if err := r.Register(Function{Name: "UP", Render: upper}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fn, ok := r.Lookup("UP")
	if !ok {
		t.Fatal("expected UP to be registered")
	}
	if got, _ := fn.Render(nil); got != "UP" {
		t.Errorf("Render = %q", got)
	}
	if _, ok := r.Lookup("up"); ok {
		t.Error("lookup should be case-sensitive")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	t.Parallel()
	r := NewRegistry("Test")
	r.MustRegister(Function{Name: "UP", Render: upper})
	err := r.Register(Function{Name: "UP", Render: upper})
	if !errors.Is(err, ErrDuplicateFunction) {
		t.Errorf("expected ErrDuplicateFunction, got %v", err)
	}
}

func TestRegistryRejectsInvalidNames(t *testing.T) {
	t.Parallel()
	r := NewRegistry("Test")
	for _, name := range []string{"", "DROP TABLE", "F()", "a;b"} {
		err := r.Register(Function{Name: name, Render: upper})
		if !errors.Is(err, ErrInvalidFunctionName) {
			t.Errorf("name %q: expected ErrInvalidFunctionName, got %v", name, err)
		}
	}
}

func TestValidName(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"DISTINCT_ON", "coalesce", "F2"} {
		if !ValidName(name) {
			t.Errorf("expected %q to be valid", name)
		}
	}
	for _, name := range []string{"", "DROP TABLE", "F()", "a;b", "a.b"} {
		if ValidName(name) {
			t.Errorf("expected %q to be invalid", name)
		}
	}
}

func TestRegistryRejectsNilRender(t *testing.T) {
	t.Parallel()
	r := NewRegistry("Test")
	if err := r.Register(Function{Name: "UP"}); err == nil {
		t.Error("expected error for nil render function")
	}
}

func TestMustRegisterPanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	r := NewRegistry("Test")
	r.MustRegister(Function{Name: "bad name", Render: upper})
}

func TestRegistryNamesSorted(t *testing.T) {
	t.Parallel()
	r := NewRegistry("Test")
	r.MustRegister(Function{Name: "ZED", Render: upper})
	r.MustRegister(Function{Name: "ALPHA", Render: upper})
	names := r.Names()
	if len(names) != 2 || names[0] != "ALPHA" || names[1] != "ZED" {
		t.Errorf("Names() = %v", names)
	}
}

func TestRegistryDeny(t *testing.T) {
	t.Parallel()
	r := NewRegistry("Test")
	r.MustRegister(Function{Name: "UP", Render: upper})
	r.Deny("UP", "not here")
	if _, ok := r.Lookup("UP"); ok {
		t.Error("denied function should not be looked up")
	}
	err := r.Denied("UP")
	var ufErr UnsupportedFunctionError
	if !errors.As(err, &ufErr) {
		t.Fatalf("expected UnsupportedFunctionError, got %v", err)
	}
	if ufErr.Dialect != "Test" || ufErr.Hint != "not here" {
		t.Errorf("error = %+v", ufErr)
	}
	if r.Denied("OTHER") != nil {
		t.Error("OTHER was never denied")
	}

	r.MustRegister(Function{Name: "UP", Render: upper})
	if r.Denied("UP") != nil {
		t.Error("registering should lift the denial")
	}
}

func TestNilRegistry(t *testing.T) {
	t.Parallel()
	var r *Registry
	if _, ok := r.Lookup(DistinctOnName); ok {
		t.Error("nil registry should find nothing")
	}
	if r.Denied(DistinctOnName) != nil {
		t.Error("nil registry should deny nothing")
	}
}

func TestDialectRegistries(t *testing.T) {
	t.Parallel()
	pg := Postgres()
	if pg.Dialect() != "PostgreSQL" {
		t.Errorf("Dialect() = %q", pg.Dialect())
	}
	fn, ok := pg.Lookup(DistinctOnName)
	if !ok {
		t.Fatal("PostgreSQL should register DISTINCT_ON")
	}
	got, err := fn.Render([]string{"e.department", "e"})
	if err != nil || got != "DISTINCT ON(e.department) e " {
		t.Errorf("Render = %q, %v", got, err)
	}

	for _, r := range []*Registry{MySQL(), SQLite()} {
		if _, ok := r.Lookup(DistinctOnName); ok {
			t.Errorf("%s should not register DISTINCT_ON", r.Dialect())
		}
		if r.Denied(DistinctOnName) == nil {
			t.Errorf("%s should deny DISTINCT_ON", r.Dialect())
		}
	}
}

func TestUnsupportedFunctionErrorMessage(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  UnsupportedFunctionError
		want string
	}{
		{UnsupportedFunctionError{Function: "DISTINCT_ON", Dialect: "MySQL"}, "MySQL: DISTINCT_ON is not supported"},
		{UnsupportedFunctionError{Function: "DISTINCT_ON", Dialect: "SQLite", Hint: "use a window"}, "SQLite: DISTINCT_ON is not supported: use a window"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
