package repl

import (
	"sort"
	"strings"

	"github.com/bawdo/pgdistinct/visitors"
)

// completionContext describes what kind of completion is appropriate.
type completionContext int

const (
	contextCommand   completionContext = iota // start of line or partial command
	contextTableName                          // after from
	contextColumnRef                          // after select/pick/where/distinct on
	contextEngine                             // after engine
	contextOrderDir                           // after a column ref in order context
	contextOperator                           // after a column ref in condition context
)

var orderDirs = []string{"asc", "desc", "nulls first", "nulls last"}
var operators = []string{"!=", "<", "<=", "<>", "=", ">", ">="}

// Completer implements readline's AutoCompleter interface.
type Completer struct {
	sess *Session
}

// NewCompleter returns a tab completer bound to s.
func NewCompleter(s *Session) *Completer {
	return &Completer{sess: s}
}

// Do returns completion candidates for the current line/cursor position.
// length is the number of chars from end of line[:pos] that form the prefix being completed.
// newLine contains the suffixes to append for each candidate.
func (c *Completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	lineStr := string(line[:pos])
	ctx, prefix := c.parseContext(lineStr)

	var candidates []string
	switch ctx {
	case contextCommand:
		candidates = filterPrefix(c.sess.CommandNames(), prefix)
	case contextTableName:
		candidates = filterPrefix(c.sess.tables, prefix)
	case contextColumnRef:
		candidates = c.completeColumnRef(prefix)
	case contextEngine:
		candidates = filterPrefix(visitors.Engines, prefix)
	case contextOrderDir:
		candidates = filterPrefix(orderDirs, prefix)
	case contextOperator:
		candidates = filterPrefix(operators, prefix)
	}

	for _, cand := range candidates {
		suffix := cand[len(prefix):]
		newLine = append(newLine, []rune(suffix+" "))
	}
	length = len([]rune(prefix))
	return
}

// parseContext examines the line up to cursor and determines what kind of
// completion is needed and the current prefix being typed.
func (c *Completer) parseContext(line string) (completionContext, string) {
	lower := strings.ToLower(line)

	for _, cmd := range c.sess.commands {
		if !strings.HasSuffix(cmd.prefix, " ") {
			continue
		}
		if strings.HasPrefix(lower, cmd.prefix) && cmd.completer != nil {
			return cmd.completer(line[len(cmd.prefix):])
		}
	}

	return contextCommand, strings.TrimLeft(line, " ")
}

// completeColumnRef offers the FROM relation's name and star.
func (c *Completer) completeColumnRef(prefix string) []string {
	if c.sess.scope == nil {
		return nil
	}
	name := c.sess.scope.Name()
	candidates := []string{name, name + ".*"}
	sort.Strings(candidates)
	return filterPrefix(candidates, prefix)
}

// filterPrefix returns items that start with prefix (case-insensitive).
func filterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		result := make([]string, len(items))
		copy(result, items)
		return result
	}
	lowerPrefix := strings.ToLower(prefix)
	var result []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			result = append(result, item)
		}
	}
	return result
}
