package server

import (
	"path/filepath"
	"testing"
)

func TestMemoryStoreAuditLifecycle(t *testing.T) {
	store, err := NewMemoryFileStore("")
	if err != nil {
		t.Fatalf("NewMemoryFileStore error: %v", err)
	}
	meta := AuditMeta{
		AuditID:     "aud_test_1",
		Status:      "queued",
		Source:      "test",
		CreatorType: "admin",
		Request:     AuditRequest{WebsiteURL: "https://example.com"},
		CreatedAt:   nowRFC3339(),
	}
	if err := store.CreateAudit(meta); err != nil {
		t.Fatalf("CreateAudit error: %v", err)
	}
	if err := store.CreateAudit(meta); err == nil {
		t.Fatalf("expected duplicate create to fail")
	}
	updated, err := store.UpdateAudit(meta.AuditID, func(item *AuditMeta) {
		item.Status = "running"
	})
	if err != nil {
		t.Fatalf("UpdateAudit error: %v", err)
	}
	if updated.Status != "running" {
		t.Fatalf("expected status running, got %s", updated.Status)
	}
	if got, ok := store.GetAudit(meta.AuditID); !ok || got.Status != "running" {
		t.Fatalf("GetAudit after update: ok=%v status=%s", ok, got.Status)
	}
	if list := store.ListAudits(10); len(list) != 1 {
		t.Fatalf("expected 1 audit listed, got %d", len(list))
	}
	if err := store.DeleteAudit(meta.AuditID); err != nil {
		t.Fatalf("DeleteAudit error: %v", err)
	}
	if err := store.DeleteAudit(meta.AuditID); err == nil {
		t.Fatalf("expected delete of missing audit to fail")
	}
}

func TestMemoryStoreActivityAndMetrics(t *testing.T) {
	store, err := NewMemoryFileStore("")
	if err != nil {
		t.Fatalf("NewMemoryFileStore error: %v", err)
	}
	for _, meta := range []AuditMeta{
		{AuditID: "aud_a", Status: "completed", CreatorType: "public", CreatedAt: "2026-01-01T00:00:00Z"},
		{AuditID: "aud_b", Status: "failed", CreatorType: "public", CreatedAt: "2026-01-02T00:00:00Z"},
		{AuditID: "aud_c", Status: "queued", CreatorType: "admin", CreatedAt: "2026-01-03T00:00:00Z"},
	} {
		if err := store.CreateAudit(meta); err != nil {
			t.Fatalf("CreateAudit %s: %v", meta.AuditID, err)
		}
	}
	if err := store.AppendActivity(ActivityEvent{ActorType: "public", Action: "audit.create", Result: "queued"}); err != nil {
		t.Fatalf("AppendActivity error: %v", err)
	}
	events := store.ListActivity(10)
	if len(events) != 1 {
		t.Fatalf("expected 1 activity event, got %d", len(events))
	}
	if events[0].Timestamp == "" {
		t.Fatalf("expected timestamp to be filled in")
	}

	overview := store.GetMetricsOverview()
	if overview.TotalAudits != 3 {
		t.Fatalf("expected 3 audits total, got %d", overview.TotalAudits)
	}
	if overview.FailedAudits != 1 || overview.RunningAudits != 1 {
		t.Fatalf("unexpected status counts: %+v", overview)
	}
}

func TestMemoryStoreSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	store, err := NewMemoryFileStore(path)
	if err != nil {
		t.Fatalf("NewMemoryFileStore error: %v", err)
	}
	meta := AuditMeta{
		AuditID:     "aud_persist_1",
		Status:      "completed",
		CreatorType: "public",
		Request:     AuditRequest{WebsiteURL: "https://example.com"},
		CreatedAt:   nowRFC3339(),
		Score:       88,
		Grade:       "A",
	}
	if err := store.CreateAudit(meta); err != nil {
		t.Fatalf("CreateAudit error: %v", err)
	}

	reopened, err := NewMemoryFileStore(path)
	if err != nil {
		t.Fatalf("reopen store error: %v", err)
	}
	got, ok := reopened.GetAudit(meta.AuditID)
	if !ok {
		t.Fatalf("audit missing after reload")
	}
	if got.Score != 88 || got.Grade != "A" {
		t.Fatalf("reloaded audit lost fields: %+v", got)
	}
}
