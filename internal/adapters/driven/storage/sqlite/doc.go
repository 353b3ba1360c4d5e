// Package sqlite persists the chunk cache and conversations in a single
// SQLite database using modernc.org/sqlite, so no CGO is needed.
//
//   - ChunkCache: extracted chunks keyed by path and chunk size
//   - ConversationStore: conversations and their turns
//
// # Schema
//
// Versioned migrations live in migrations/ as NNN_name.up.sql files.
// Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default the database is ~/.docchat/data/docchat.db.
package sqlite
