// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic. The PostgreSQL implementation lives in
// internal/platform/postgres and an in-memory one in internal/store/memstore.
package store
