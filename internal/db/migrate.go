package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies every schema statement. Statements are idempotent, so
// Migrate can run on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS refinements (
		id             TEXT PRIMARY KEY,
		theme          TEXT NOT NULL,
		final_prompt   TEXT NOT NULL,
		source         TEXT NOT NULL
		               CHECK(source IN ('llm','deterministic')),
		active_modules TEXT NOT NULL DEFAULT '{}',
		question_count INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_refinements_created ON refinements(created_at)`,

	`CREATE TABLE IF NOT EXISTS refinement_turns (
		refinement_id     TEXT NOT NULL REFERENCES refinements(id) ON DELETE CASCADE,
		seq               INTEGER NOT NULL,
		question_id       TEXT NOT NULL,
		module            TEXT NOT NULL
		                  CHECK(module IN ('character','setting','atmosphere','action','general')),
		category          TEXT NOT NULL DEFAULT '',
		question          TEXT NOT NULL,
		options           TEXT NOT NULL DEFAULT '[]',
		examples          TEXT NOT NULL DEFAULT '[]',
		adaptation_reason TEXT NOT NULL DEFAULT '',
		response          TEXT NOT NULL,
		answered_at       TEXT NOT NULL,
		PRIMARY KEY (refinement_id, seq)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_refinement_turns_refinement ON refinement_turns(refinement_id)`,
}
