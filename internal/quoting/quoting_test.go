package quoting

import "testing"

func TestEscapeString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"no quotes", "hello", "hello"},
		{"single quote", "it's", "it''s"},
		{"backslash", `hello\world`, `hello\\world`},
		{"injection attempt", "'; DROP TABLE employees; --", "''; DROP TABLE employees; --"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := EscapeString(tt.input); got != tt.want {
				t.Errorf("EscapeString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDoubleQuote(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  string
	}{
		{"employees", `"employees"`},
		{"", `""`},
		{`us"ers`, `"us""ers"`},
		{`e"."salary`, `"e"".""salary"`},
	}
	for _, tt := range tests {
		if got := DoubleQuote(tt.input); got != tt.want {
			t.Errorf("DoubleQuote(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBacktick(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  string
	}{
		{"employees", "`employees`"},
		{"a`b", "`a``b`"},
	}
	for _, tt := range tests {
		if got := Backtick(tt.input); got != tt.want {
			t.Errorf("Backtick(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSplitRef(t *testing.T) {
	t.Parallel()
	tests := []struct {
		ref       string
		qualifier string
		name      string
	}{
		{"e.department", "e", "department"},
		{"department", "", "department"},
		{" e.name ", "e", "name"},
		{"e.address.city", "e", "address.city"},
		{"e.", "e", ""},
	}
	for _, tt := range tests {
		q, n := SplitRef(tt.ref)
		if q != tt.qualifier || n != tt.name {
			t.Errorf("SplitRef(%q) = (%q, %q), want (%q, %q)", tt.ref, q, n, tt.qualifier, tt.name)
		}
	}
}
