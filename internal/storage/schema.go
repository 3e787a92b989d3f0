// Package storage persists fiscal years, journal entries and classifications
// in SQLite. All owners share one table set; rows are partitioned by
// owner_id and fiscal_year_id.
package storage

// Schema defines the SQL statements to create database tables.
const Schema = `
CREATE TABLE IF NOT EXISTS fiscal_years (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'open',
    UNIQUE(owner_id, name)
);

CREATE TABLE IF NOT EXISTS journal_entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    fiscal_year_id INTEGER NOT NULL REFERENCES fiscal_years(id) ON DELETE CASCADE,
    date TEXT NOT NULL,                -- YYYY-MM-DD
    debited TEXT NOT NULL CHECK (debited <> ''),
    credited TEXT NOT NULL CHECK (credited <> ''),
    amount TEXT NOT NULL,              -- canonical decimal string
    description TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journal_entries_debited
    ON journal_entries(fiscal_year_id, debited);

CREATE INDEX IF NOT EXISTS idx_journal_entries_credited
    ON journal_entries(fiscal_year_id, credited);

CREATE TABLE IF NOT EXISTS classifications (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    fiscal_year_id INTEGER NOT NULL REFERENCES fiscal_years(id) ON DELETE CASCADE,
    account TEXT NOT NULL,
    type TEXT NOT NULL,
    subtype TEXT NOT NULL,
    operation TEXT NOT NULL,
    UNIQUE(fiscal_year_id, account)
);
`
