package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"site-audit/internal/audit"
)

type fakeCollector struct {
	signals audit.RawSignals
	err     error
}

func (f fakeCollector) Collect(ctx context.Context, rawURL string) (audit.RawSignals, error) {
	return f.signals, f.err
}

func waitForStatus(t *testing.T, store Store, auditID string, statuses ...string) AuditMeta {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		meta, ok := store.GetAudit(auditID)
		if ok {
			for _, status := range statuses {
				if meta.Status == status {
					return meta
				}
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("audit %s never reached %v", auditID, statuses)
	return AuditMeta{}
}

func TestAuditManagerCompletesAudit(t *testing.T) {
	store, err := NewMemoryFileStore("")
	if err != nil {
		t.Fatalf("NewMemoryFileStore: %v", err)
	}
	collector := fakeCollector{
		signals: audit.RawSignals{
			Security: &audit.SecuritySignals{
				HTTPS: true, CertValid: true, CertExpiryDays: 90,
				RedirectsToHTTPS: true, HSTS: true, XFrameOptions: true,
				XContentTypeOptions: true, CSP: true, XXSSProtection: true,
			},
			Platform: "WordPress",
		},
	}
	manager := NewAuditManager(DefaultServerConfig(), store, collector, nil)
	defer manager.Shutdown()

	meta, err := manager.CreateAudit(AuditRequest{
		WebsiteURL:  "example.com",
		WebsiteType: "blog",
	}, Principal{Subject: "admin-1", Role: "admin"}, "admin.manual")
	if err != nil {
		t.Fatalf("CreateAudit: %v", err)
	}
	if meta.Status != "queued" {
		t.Fatalf("expected queued, got %s", meta.Status)
	}
	if meta.Request.WebsiteURL != "https://example.com" {
		t.Fatalf("expected https scheme prepended, got %s", meta.Request.WebsiteURL)
	}

	done := waitForStatus(t, store, meta.AuditID, "completed")
	if done.Report == nil {
		t.Fatalf("completed audit has no report")
	}
	if done.Score != done.Report.Score {
		t.Fatalf("denormalized score %d != report score %d", done.Score, done.Report.Score)
	}
	if done.Platform != "WordPress" {
		t.Fatalf("expected detected platform stored, got %q", done.Platform)
	}
	if done.Report.WebsiteType != "blog" {
		t.Fatalf("expected blog weighting, got %s", done.Report.WebsiteType)
	}
}

func TestAuditManagerMarksFailure(t *testing.T) {
	store, err := NewMemoryFileStore("")
	if err != nil {
		t.Fatalf("NewMemoryFileStore: %v", err)
	}
	collector := fakeCollector{err: errors.New("dns lookup failed")}
	manager := NewAuditManager(DefaultServerConfig(), store, collector, nil)
	defer manager.Shutdown()

	meta, err := manager.CreateAudit(AuditRequest{
		WebsiteURL: "https://broken.example",
	}, Principal{Subject: "admin-1", Role: "admin"}, "admin.manual")
	if err != nil {
		t.Fatalf("CreateAudit: %v", err)
	}

	failed := waitForStatus(t, store, meta.AuditID, "failed")
	if failed.Error == "" {
		t.Fatalf("failed audit has empty error")
	}
	if failed.Report != nil {
		t.Fatalf("failed audit should carry no report")
	}
}

func TestAuditManagerPublicRateLimit(t *testing.T) {
	store, err := NewMemoryFileStore("")
	if err != nil {
		t.Fatalf("NewMemoryFileStore: %v", err)
	}
	cfg := DefaultServerConfig()
	cfg.Limits.AuditRPM = 2
	manager := NewAuditManager(cfg, store, fakeCollector{}, nil)
	defer manager.Shutdown()

	for i := 0; i < 2; i++ {
		if _, err := manager.CreatePublicAudit(AuditRequest{
			WebsiteURL: "https://example.com",
		}, "iphash-1", "uahash-1"); err != nil {
			t.Fatalf("public audit %d rejected: %v", i, err)
		}
	}
	if _, err := manager.CreatePublicAudit(AuditRequest{
		WebsiteURL: "https://example.com",
	}, "iphash-1", "uahash-1"); err == nil {
		t.Fatalf("expected rate limit error on third request")
	}
	// a different client is unaffected
	if _, err := manager.CreatePublicAudit(AuditRequest{
		WebsiteURL: "https://example.com",
	}, "iphash-2", "uahash-2"); err != nil {
		t.Fatalf("second client rejected: %v", err)
	}
}

func TestNormalizeAuditRequest(t *testing.T) {
	cfg := DefaultServerConfig()

	request := AuditRequest{WebsiteURL: "  example.com/page  ", WebsiteType: "E-Commerce"}
	if err := normalizeAuditRequest(&request, cfg); err != nil {
		t.Fatalf("normalize valid request: %v", err)
	}
	if request.WebsiteURL != "https://example.com/page" {
		t.Fatalf("unexpected URL: %s", request.WebsiteURL)
	}
	if request.WebsiteType != "e-commerce" {
		t.Fatalf("unexpected type: %s", request.WebsiteType)
	}
	if request.TimeoutSec != cfg.Runner.DefaultTimeoutSec {
		t.Fatalf("expected default timeout, got %d", request.TimeoutSec)
	}

	bad := AuditRequest{WebsiteURL: "ftp://example.com"}
	if err := normalizeAuditRequest(&bad, cfg); err == nil {
		t.Fatalf("expected error for ftp scheme")
	}
	empty := AuditRequest{}
	if err := normalizeAuditRequest(&empty, cfg); err == nil {
		t.Fatalf("expected error for empty URL")
	}
}
