package sqlite

import "database/sql"

// schema holds one JSON payload per session and slot.
// These run on startup to ensure tables exist.
const schema = `
CREATE TABLE IF NOT EXISTS session_state (
    session_id TEXT NOT NULL,
    slot TEXT NOT NULL,
    payload TEXT NOT NULL,
    updated_at INTEGER NOT NULL,
    PRIMARY KEY (session_id, slot)
);

CREATE INDEX IF NOT EXISTS idx_session_state_updated_at ON session_state(updated_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
