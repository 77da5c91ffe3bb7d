// Package sqlite provides SQLite-backed implementations of driven port
// interfaces. The only table today is the tool-call audit log.
//
// The database uses WAL mode and embedded SQL migrations, so opening a
// store on a fresh machine creates and upgrades the schema in place.
package sqlite
