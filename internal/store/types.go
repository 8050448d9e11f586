package store

import "time"

// Audit is a row in the local audit ledger. It remembers audits
// submitted (or checked) from this machine so they can be listed
// without asking the API.
type Audit struct {
	ID          string
	URL         string
	Business    string
	Status      string
	Score       *int
	SubmittedAt time.Time
	CheckedAt   *time.Time
}

// ScanMark remembers the most recent scan the watch daemon has seen
// for a business, so the next poll can detect ranking drops.
type ScanMark struct {
	Business string
	ScanUUID string
	AvgRank  *float64
	SeenAt   time.Time
}
