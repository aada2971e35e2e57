// Package storage is the persistence engine of the data room: CRUD over
// folder and file records, cascading folder deletion, ancestor path
// resolution and name search.
//
// An Engine is an explicit handle over a *sql.DB. Repositories are bound per
// call through a repomanager so multi-step operations can share one
// transaction. File payloads live in the files table unless a ContentStore
// is configured, in which case only the object key is kept in the row.
//
// The engine does not enforce name uniqueness; callers validate names
// against the sibling scope before mutating.
package storage
