package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Money columns hold decimal strings; the cap invariant is enforced by the
// ledger code under a version check, not by SQL arithmetic on text.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		role       TEXT NOT NULL
		           CHECK(role IN ('pengusul','verifikator','kepala_madrasah','komite_madrasah','bendahara')),
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS budget_lines (
		id         TEXT PRIMARY KEY,
		code       TEXT NOT NULL UNIQUE,
		category   TEXT NOT NULL,
		year       INTEGER NOT NULL,
		cap        TEXT NOT NULL,
		consumed   TEXT NOT NULL DEFAULT '0',
		version    INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_budget_lines_year ON budget_lines(year)`,

	`CREATE TABLE IF NOT EXISTS proposals (
		id                          TEXT PRIMARY KEY,
		owner_id                    TEXT NOT NULL REFERENCES users(id),
		budget_line_id              TEXT NOT NULL REFERENCES budget_lines(id),
		title                       TEXT NOT NULL DEFAULT '',
		description                 TEXT NOT NULL DEFAULT '',
		amount                      TEXT NOT NULL,
		status                      TEXT NOT NULL DEFAULT 'draft'
		                            CHECK(status IN ('draft','submitted','verified','approved','final_approved',
		                                             'rejected','payment_processing','completed')),
		requires_committee_approval INTEGER NOT NULL DEFAULT 0,
		rejection_reason            TEXT,
		improvement_suggestions     TEXT,
		rejected_by                 TEXT,
		verified_by                 TEXT,
		approved_by                 TEXT,
		final_approved_by           TEXT,
		submitted_at                TEXT,
		verified_at                 TEXT,
		approved_at                 TEXT,
		final_approved_at           TEXT,
		rejected_at                 TEXT,
		completed_at                TEXT,
		created_at                  TEXT NOT NULL,
		updated_at                  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_proposals_status ON proposals(status)`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_owner ON proposals(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_budget_line ON proposals(budget_line_id)`,

	`CREATE TABLE IF NOT EXISTS payments (
		id                TEXT PRIMARY KEY,
		proposal_id       TEXT NOT NULL REFERENCES proposals(id),
		amount            TEXT NOT NULL,
		recipient_name    TEXT NOT NULL,
		recipient_account TEXT NOT NULL DEFAULT '',
		bank_name         TEXT NOT NULL DEFAULT '',
		method            TEXT NOT NULL CHECK(method IN ('transfer','cash','check')),
		reference         TEXT NOT NULL DEFAULT '',
		notes             TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL
		                  CHECK(status IN ('pending','processing','completed','failed')),
		resume_status     TEXT NOT NULL CHECK(resume_status IN ('approved','final_approved')),
		proof_file        TEXT,
		proof_url         TEXT,
		admin_notes       TEXT,
		cancel_reason     TEXT,
		processed_by      TEXT NOT NULL,
		completed_by      TEXT,
		cancelled_by      TEXT,
		processed_at      TEXT,
		completed_at      TEXT,
		cancelled_at      TEXT,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_payments_proposal ON payments(proposal_id)`,

	// At most one non-terminal payment per proposal.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_one_active
		ON payments(proposal_id) WHERE status IN ('pending','processing')`,

	`CREATE TABLE IF NOT EXISTS audit_events (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL UNIQUE,
		proposal_id TEXT NOT NULL,
		payment_id  TEXT NOT NULL DEFAULT '',
		actor_id    TEXT NOT NULL,
		actor_role  TEXT NOT NULL,
		transition  TEXT NOT NULL,
		from_status TEXT NOT NULL,
		to_status   TEXT NOT NULL,
		note        TEXT NOT NULL DEFAULT '',
		occurred_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_audit_events_proposal ON audit_events(proposal_id, seq)`,

	// Audit rows are append-only.
	`CREATE TRIGGER IF NOT EXISTS trg_audit_events_no_update
		BEFORE UPDATE ON audit_events
		BEGIN SELECT RAISE(ABORT, 'audit_events is append-only'); END`,

	`CREATE TRIGGER IF NOT EXISTS trg_audit_events_no_delete
		BEFORE DELETE ON audit_events
		BEGIN SELECT RAISE(ABORT, 'audit_events is append-only'); END`,
}
