package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Money columns are TEXT (decimal strings); date columns are Unix seconds.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS rounds (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    organizer_id TEXT NOT NULL,
    currency TEXT NOT NULL,
    contribution_amount TEXT NOT NULL,
    frequency TEXT NOT NULL,
    number_of_members INTEGER NOT NULL,
    payout_order TEXT NOT NULL,
    start_type TEXT NOT NULL,
    start_date INTEGER,
    grace_period_days INTEGER NOT NULL,
    verification TEXT NOT NULL,
    organizer_participates INTEGER NOT NULL,
    status TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (organizer_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS round_members (
    round_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    role TEXT NOT NULL,
    payout_position INTEGER NOT NULL DEFAULT 0,
    joined_at INTEGER NOT NULL,
    PRIMARY KEY (round_id, user_id),
    FOREIGN KEY (round_id) REFERENCES rounds(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS contributions (
    id TEXT PRIMARY KEY,
    round_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    due_date INTEGER NOT NULL,
    paid_date INTEGER,
    status TEXT NOT NULL,
    UNIQUE (round_id, user_id, due_date),
    FOREIGN KEY (round_id) REFERENCES rounds(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payment_proofs (
    id TEXT PRIMARY KEY,
    contribution_id TEXT NOT NULL,
    submitted_by TEXT NOT NULL,
    proof_type TEXT NOT NULL,
    url TEXT NOT NULL DEFAULT '',
    reference_text TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    reviewed_by TEXT NOT NULL DEFAULT '',
    reviewed_at INTEGER,
    rejection_reason TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    FOREIGN KEY (contribution_id) REFERENCES contributions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payouts (
    id TEXT PRIMARY KEY,
    round_id TEXT NOT NULL,
    recipient_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    scheduled_date INTEGER NOT NULL,
    completed_date INTEGER,
    status TEXT NOT NULL,
    UNIQUE (round_id, scheduled_date),
    FOREIGN KEY (round_id) REFERENCES rounds(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS invite_links (
    id TEXT PRIMARY KEY,
    round_id TEXT NOT NULL,
    code TEXT NOT NULL UNIQUE,
    max_uses INTEGER NOT NULL DEFAULT 0,
    use_count INTEGER NOT NULL DEFAULT 0,
    expires_at INTEGER,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (round_id) REFERENCES rounds(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS timeline_events (
    id TEXT PRIMARY KEY,
    round_id TEXT NOT NULL,
    user_id TEXT NOT NULL DEFAULT '',
    event_type TEXT NOT NULL,
    event_data TEXT NOT NULL DEFAULT '{}',
    created_at INTEGER NOT NULL,
    FOREIGN KEY (round_id) REFERENCES rounds(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_round_members_user_id ON round_members(user_id);
CREATE INDEX IF NOT EXISTS idx_contributions_round_id ON contributions(round_id);
CREATE INDEX IF NOT EXISTS idx_contributions_round_user ON contributions(round_id, user_id);
CREATE INDEX IF NOT EXISTS idx_proofs_contribution_id ON payment_proofs(contribution_id);
CREATE INDEX IF NOT EXISTS idx_payouts_round_id ON payouts(round_id);
CREATE INDEX IF NOT EXISTS idx_invite_links_round_id ON invite_links(round_id);
CREATE INDEX IF NOT EXISTS idx_timeline_events_round_id ON timeline_events(round_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
