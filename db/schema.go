package db

import "database/sql"

// Progress is a plain key-value table, the server-side equivalent of the
// browser's local storage. Keys look like berlingo_done_lesson1. SQLite and
// Postgres both accept this DDL and the $1 placeholder style.
const Schema = `
CREATE TABLE IF NOT EXISTS kv (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// InitSchema creates the tables if they do not exist.
func InitSchema(database *sql.DB) error {
	_, err := database.Exec(Schema)
	return err
}
