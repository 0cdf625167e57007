package dialect

import "strings"

// DistinctOnName is the name DISTINCT_ON is registered under.
const DistinctOnName = "DISTINCT_ON"

// DistinctOn is the PostgreSQL "first row per group" select modifier.
// Call sites pass the grouping columns followed by the entity to select:
// DISTINCT_ON(e.department, e.name, e).
var DistinctOn = Function{
	Name:           DistinctOnName,
	MinArgs:        2,
	HasArguments:   true,
	ParensIfNoArgs: true,
	ReturnType:     ReturnString,
	SelectModifier: true,
	Render:         RenderDistinctOn,
}

// RenderDistinctOn renders tokens as `DISTINCT ON(c1,...,cn) entity `.
// The last token is the entity and every preceding token is a grouping
// column. Tokens are emitted verbatim and in order.
func RenderDistinctOn(tokens []string) (string, error) {
	if len(tokens) == 0 {
		return "", &ArgumentError{Function: DistinctOnName, Err: ErrMissingArguments}
	}
	if len(tokens) < 2 {
		return "", &ArgumentError{Function: DistinctOnName, Count: len(tokens), Err: ErrInsufficientArguments}
	}

	last := len(tokens) - 1
	var sb strings.Builder
	sb.WriteString("DISTINCT ON(")
	sb.WriteString(strings.Join(tokens[:last], ","))
	sb.WriteString(") ")
	sb.WriteString(tokens[last])
	sb.WriteString(" ")
	return sb.String(), nil
}
