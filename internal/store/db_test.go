package store

import (
	"errors"
	"testing"
	"time"
)

// Helper function to create an in-memory store for testing
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	if err := store.CreateSchema(); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return store
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestNew(t *testing.T) {
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer store.Close()

	if store.db == nil {
		t.Error("Store.db should not be nil")
	}
}

func TestCreateSchema(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	// Verify tables exist by querying sqlite_master
	tables := []string{"audits", "scan_marks"}
	for _, table := range tables {
		var name string
		err := store.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Verify indexes exist
	indexes := []string{"idx_audits_status", "idx_audits_submitted"}
	for _, index := range indexes {
		var name string
		err := store.db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", index).Scan(&name)
		if err != nil {
			t.Errorf("Index %s not found: %v", index, err)
		}
	}
}

func TestInsertAndGetAudit(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	now := time.Now().UTC().Truncate(time.Second)
	audit := &Audit{
		ID:          "aud_8c2f41",
		URL:         "https://acmeplumbing.com",
		Business:    "Acme Plumbing",
		Status:      "queued",
		Score:       nil,
		SubmittedAt: now,
		CheckedAt:   nil,
	}

	// Insert audit
	if err := store.InsertAudit(audit); err != nil {
		t.Fatalf("InsertAudit() failed: %v", err)
	}

	// Get audit
	retrieved, err := store.GetAudit("aud_8c2f41")
	if err != nil {
		t.Fatalf("GetAudit() failed: %v", err)
	}

	// Verify fields
	if retrieved.ID != audit.ID {
		t.Errorf("ID = %s, want %s", retrieved.ID, audit.ID)
	}
	if retrieved.URL != audit.URL {
		t.Errorf("URL = %s, want %s", retrieved.URL, audit.URL)
	}
	if retrieved.Business != audit.Business {
		t.Errorf("Business = %s, want %s", retrieved.Business, audit.Business)
	}
	if retrieved.Status != audit.Status {
		t.Errorf("Status = %s, want %s", retrieved.Status, audit.Status)
	}
	if retrieved.Score != nil {
		t.Errorf("Score = %v, want nil for a queued audit", *retrieved.Score)
	}
	if !retrieved.SubmittedAt.Equal(audit.SubmittedAt) {
		t.Errorf("SubmittedAt = %v, want %v", retrieved.SubmittedAt, audit.SubmittedAt)
	}
	if retrieved.CheckedAt != nil {
		t.Errorf("CheckedAt = %v, want nil for a never-checked audit", retrieved.CheckedAt)
	}
}

func TestInsertAuditReplace(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	now := time.Now().UTC().Truncate(time.Second)

	// Insert initial audit
	audit1 := &Audit{
		ID:          "aud_11aa22",
		URL:         "https://valleydental.com",
		Status:      "queued",
		SubmittedAt: now,
	}

	if err := store.InsertAudit(audit1); err != nil {
		t.Fatalf("InsertAudit() failed: %v", err)
	}

	// Replace with a completed version of the same audit
	checked := now.Add(time.Hour)
	audit2 := &Audit{
		ID:          "aud_11aa22",
		URL:         "https://valleydental.com",
		Business:    "Valley Dental",
		Status:      "complete",
		Score:       intPtr(72),
		SubmittedAt: now,
		CheckedAt:   &checked,
	}

	if err := store.InsertAudit(audit2); err != nil {
		t.Fatalf("InsertAudit() (replace) failed: %v", err)
	}

	// Verify updated audit
	retrieved, err := store.GetAudit("aud_11aa22")
	if err != nil {
		t.Fatalf("GetAudit() failed: %v", err)
	}

	if retrieved.Status != "complete" {
		t.Errorf("Status = %s, want complete", retrieved.Status)
	}
	if retrieved.Score == nil || *retrieved.Score != 72 {
		t.Errorf("Score = %v, want 72", retrieved.Score)
	}
	if retrieved.CheckedAt == nil || !retrieved.CheckedAt.Equal(checked) {
		t.Errorf("CheckedAt = %v, want %v", retrieved.CheckedAt, checked)
	}
}

func TestGetAuditNotFound(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	_, err := store.GetAudit("aud_missing")
	if err == nil {
		t.Fatal("GetAudit() should return error for nonexistent audit")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetAudit() error = %v; want errors.Is(err, ErrNotFound) to be true", err)
	}
}

func TestUpdateAuditResult(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	now := time.Now().UTC().Truncate(time.Second)
	audit := &Audit{
		ID:          "aud_33cc44",
		URL:         "https://summitroofing.com",
		Status:      "running",
		SubmittedAt: now,
	}

	if err := store.InsertAudit(audit); err != nil {
		t.Fatalf("InsertAudit() failed: %v", err)
	}

	checked := now.Add(30 * time.Minute)
	if err := store.UpdateAuditResult("aud_33cc44", "complete", intPtr(85), checked); err != nil {
		t.Fatalf("UpdateAuditResult() failed: %v", err)
	}

	retrieved, err := store.GetAudit("aud_33cc44")
	if err != nil {
		t.Fatalf("GetAudit() failed: %v", err)
	}

	if retrieved.Status != "complete" {
		t.Errorf("Status = %s, want complete", retrieved.Status)
	}
	if retrieved.Score == nil || *retrieved.Score != 85 {
		t.Errorf("Score = %v, want 85", retrieved.Score)
	}
	if retrieved.CheckedAt == nil || !retrieved.CheckedAt.Equal(checked) {
		t.Errorf("CheckedAt = %v, want %v", retrieved.CheckedAt, checked)
	}

	// URL and submission time survive an update
	if retrieved.URL != "https://summitroofing.com" {
		t.Errorf("URL = %s, want https://summitroofing.com", retrieved.URL)
	}
	if !retrieved.SubmittedAt.Equal(now) {
		t.Errorf("SubmittedAt = %v, want %v", retrieved.SubmittedAt, now)
	}
}

func TestUpdateAuditResultNotFound(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	err := store.UpdateAuditResult("aud_missing", "complete", intPtr(50), time.Now())
	if err == nil {
		t.Fatal("UpdateAuditResult() should return error for nonexistent audit")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateAuditResult() error = %v; want errors.Is(err, ErrNotFound) to be true", err)
	}
}

func TestListAudits(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	now := time.Now().UTC().Truncate(time.Second)

	audits := []*Audit{
		{
			ID:          "aud_oldest",
			URL:         "https://acmeplumbing.com",
			Status:      "complete",
			Score:       intPtr(64),
			SubmittedAt: now.Add(-2 * time.Hour),
		},
		{
			ID:          "aud_newest",
			URL:         "https://valleydental.com",
			Status:      "queued",
			SubmittedAt: now,
		},
		{
			ID:          "aud_middle",
			URL:         "https://summitroofing.com",
			Status:      "running",
			SubmittedAt: now.Add(-1 * time.Hour),
		},
	}

	for _, a := range audits {
		if err := store.InsertAudit(a); err != nil {
			t.Fatalf("InsertAudit() failed for %s: %v", a.ID, err)
		}
	}

	retrieved, err := store.ListAudits()
	if err != nil {
		t.Fatalf("ListAudits() failed: %v", err)
	}

	if len(retrieved) != len(audits) {
		t.Fatalf("ListAudits() returned %d audits, want %d", len(retrieved), len(audits))
	}

	// Verify audits are ordered by submission time descending
	expectedOrder := []string{"aud_newest", "aud_middle", "aud_oldest"}
	for i, a := range retrieved {
		if a.ID != expectedOrder[i] {
			t.Errorf("Audit[%d].ID = %s, want %s", i, a.ID, expectedOrder[i])
		}
	}
}

func TestUpsertAndGetScanMark(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	now := time.Now().UTC().Truncate(time.Second)
	mark := &ScanMark{
		Business: "Acme Plumbing",
		ScanUUID: "1f0e9d8c-7b6a-5432-10fe-dcba98765432",
		AvgRank:  floatPtr(6.2),
		SeenAt:   now,
	}

	if err := store.UpsertScanMark(mark); err != nil {
		t.Fatalf("UpsertScanMark() failed: %v", err)
	}

	retrieved, err := store.GetScanMark("Acme Plumbing")
	if err != nil {
		t.Fatalf("GetScanMark() failed: %v", err)
	}
	if retrieved == nil {
		t.Fatal("GetScanMark() should return the stored mark")
	}

	if retrieved.Business != mark.Business {
		t.Errorf("Business = %s, want %s", retrieved.Business, mark.Business)
	}
	if retrieved.ScanUUID != mark.ScanUUID {
		t.Errorf("ScanUUID = %s, want %s", retrieved.ScanUUID, mark.ScanUUID)
	}
	if retrieved.AvgRank == nil || *retrieved.AvgRank != 6.2 {
		t.Errorf("AvgRank = %v, want 6.2", retrieved.AvgRank)
	}
	if !retrieved.SeenAt.Equal(now) {
		t.Errorf("SeenAt = %v, want %v", retrieved.SeenAt, now)
	}
}

func TestGetScanMarkUnseen(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	mark, err := store.GetScanMark("Never Seen LLC")
	if err != nil {
		t.Fatalf("GetScanMark() failed: %v", err)
	}
	if mark != nil {
		t.Errorf("GetScanMark() = %v, want nil for an unseen business", mark)
	}
}

func TestUpsertScanMarkReplace(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	now := time.Now().UTC().Truncate(time.Second)

	mark1 := &ScanMark{
		Business: "Valley Dental",
		ScanUUID: "aaaaaaaa-0000-0000-0000-000000000001",
		AvgRank:  floatPtr(9.1),
		SeenAt:   now.Add(-24 * time.Hour),
	}
	if err := store.UpsertScanMark(mark1); err != nil {
		t.Fatalf("UpsertScanMark() failed: %v", err)
	}

	// A newer scan replaces the remembered one
	mark2 := &ScanMark{
		Business: "Valley Dental",
		ScanUUID: "aaaaaaaa-0000-0000-0000-000000000002",
		AvgRank:  floatPtr(12.4),
		SeenAt:   now,
	}
	if err := store.UpsertScanMark(mark2); err != nil {
		t.Fatalf("UpsertScanMark() (replace) failed: %v", err)
	}

	retrieved, err := store.GetScanMark("Valley Dental")
	if err != nil {
		t.Fatalf("GetScanMark() failed: %v", err)
	}
	if retrieved == nil {
		t.Fatal("GetScanMark() should return the stored mark")
	}

	if retrieved.ScanUUID != mark2.ScanUUID {
		t.Errorf("ScanUUID = %s, want %s", retrieved.ScanUUID, mark2.ScanUUID)
	}
	if retrieved.AvgRank == nil || *retrieved.AvgRank != 12.4 {
		t.Errorf("AvgRank = %v, want 12.4", retrieved.AvgRank)
	}

	// Still exactly one mark for the business
	marks, err := store.ListScanMarks()
	if err != nil {
		t.Fatalf("ListScanMarks() failed: %v", err)
	}
	if len(marks) != 1 {
		t.Errorf("ListScanMarks() returned %d marks, want 1", len(marks))
	}
}

func TestScanMarkNilAvgRank(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	// A scan can complete without producing an average rank
	mark := &ScanMark{
		Business: "Summit Roofing",
		ScanUUID: "bbbbbbbb-0000-0000-0000-000000000001",
		AvgRank:  nil,
		SeenAt:   time.Now().UTC().Truncate(time.Second),
	}

	if err := store.UpsertScanMark(mark); err != nil {
		t.Fatalf("UpsertScanMark() failed: %v", err)
	}

	retrieved, err := store.GetScanMark("Summit Roofing")
	if err != nil {
		t.Fatalf("GetScanMark() failed: %v", err)
	}
	if retrieved == nil {
		t.Fatal("GetScanMark() should return the stored mark")
	}

	if retrieved.AvgRank != nil {
		t.Errorf("AvgRank = %v, want nil", *retrieved.AvgRank)
	}
}

func TestListScanMarks(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	now := time.Now().UTC().Truncate(time.Second)

	marks := []*ScanMark{
		{
			Business: "Valley Dental",
			ScanUUID: "cccccccc-0000-0000-0000-000000000001",
			AvgRank:  floatPtr(9.1),
			SeenAt:   now,
		},
		{
			Business: "Acme Plumbing",
			ScanUUID: "cccccccc-0000-0000-0000-000000000002",
			AvgRank:  floatPtr(4.0),
			SeenAt:   now,
		},
		{
			Business: "Summit Roofing",
			ScanUUID: "cccccccc-0000-0000-0000-000000000003",
			AvgRank:  nil,
			SeenAt:   now,
		},
	}

	for _, m := range marks {
		if err := store.UpsertScanMark(m); err != nil {
			t.Fatalf("UpsertScanMark() failed for %s: %v", m.Business, err)
		}
	}

	retrieved, err := store.ListScanMarks()
	if err != nil {
		t.Fatalf("ListScanMarks() failed: %v", err)
	}

	if len(retrieved) != len(marks) {
		t.Fatalf("ListScanMarks() returned %d marks, want %d", len(retrieved), len(marks))
	}

	// Verify marks are sorted by business name
	expectedOrder := []string{"Acme Plumbing", "Summit Roofing", "Valley Dental"}
	for i, m := range retrieved {
		if m.Business != expectedOrder[i] {
			t.Errorf("Mark[%d].Business = %s, want %s", i, m.Business, expectedOrder[i])
		}
	}
}
