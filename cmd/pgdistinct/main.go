// Command pgdistinct builds and runs PostgreSQL DISTINCT ON queries.
//
// Usage:
//
//	pgdistinct render e.department e
//	pgdistinct query --from employees --alias e --on department --order "salary desc"
//	pgdistinct repl
package main

import (
	"os"

	"github.com/bawdo/pgdistinct/internal/cli"
)

func main() {
	os.Exit(cli.ReportError(os.Stderr, cli.NewRootCmd().Execute()))
}
