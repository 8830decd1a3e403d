// Package database provides the PostgreSQL connection pool backing the
// snapshot store. Schema lives in schema.sql at the repository root.
package database
