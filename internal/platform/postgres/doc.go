// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
// It handles query execution, mapping of driver errors onto the store
// sentinel errors, and data mapping between domain entities and rows.
// The schema itself lives in the migrations subpackage.
package postgres
