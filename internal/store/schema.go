package store

const schema = `
CREATE TABLE IF NOT EXISTS audits (
    id TEXT PRIMARY KEY,
    url TEXT NOT NULL,
    business TEXT,
    status TEXT NOT NULL,
    score INTEGER,
    submitted_at TIMESTAMP NOT NULL,
    checked_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS scan_marks (
    business TEXT PRIMARY KEY,
    scan_uuid TEXT NOT NULL,
    avg_rank REAL,
    seen_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audits_status ON audits(status);
CREATE INDEX IF NOT EXISTS idx_audits_submitted ON audits(submitted_at);
`
