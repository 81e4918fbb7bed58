// Package all wires every built-in run-history backend into the storage
// registry. Importing it for side effects makes the "sqlite", "postgres",
// "mssql" and "mysql" kinds available:
//
//	import _ "modecount/internal/storage/all"
//
// A binary that needs only some backends can import those packages directly
// instead.
package all

import (
	_ "modecount/internal/storage/mssql"
	_ "modecount/internal/storage/mysql"
	_ "modecount/internal/storage/postgres"
	_ "modecount/internal/storage/sqlite"
)
