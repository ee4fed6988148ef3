// Command leapgeo translates spatial operations into engine SQL and manages
// spatial column metadata on SQLite/SpatiaLite, PostGIS, MySQL and DuckDB.
package main

import (
	"os"

	"github.com/leapstack-labs/leapgeo/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
