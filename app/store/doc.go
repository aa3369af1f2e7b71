// Package store provides the persistence layer for crane. It opens the embedded SQLite
// database in WAL mode with foreign keys enforced, applies the embedded schema migrations
// and implements typed repositories for workspaces, chronographs and the singleton
// user settings row.
package store
