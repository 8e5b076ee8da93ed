package render

import (
	"strings"
	"testing"

	"site-audit/internal/audit"
)

func sampleReport() audit.AuditReport {
	return audit.EvaluateAudit(audit.RawSignals{
		Security: &audit.SecuritySignals{
			CertExpiryDays: 0,
		},
	}, "e-commerce", audit.BusinessContext{
		BusinessName: "North Pier Cafe",
		WebsiteURL:   "https://northpiercafe.com",
	})
}

func TestMarkdownClientReport(t *testing.T) {
	report := sampleReport()
	out := Markdown(report, ModeClient)

	if !strings.Contains(out, "# North Pier Cafe — Website Audit Report") {
		t.Fatalf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "## Score Breakdown") {
		t.Fatalf("missing breakdown section")
	}
	if !strings.Contains(out, "## Critical Business Risks") {
		t.Fatalf("expected critical section for insecure site")
	}
	if !strings.Contains(out, report.ClientSummary.ExecutiveSummary) {
		t.Fatalf("client summary not rendered")
	}
	if strings.Contains(out, report.AdminSummary.ExecutiveSummary) {
		t.Fatalf("client render leaked admin summary")
	}
	if !strings.Contains(out, report.ClientSummary.RecommendedPackage) {
		t.Fatalf("package recommendation not rendered")
	}
}

func TestMarkdownAdminReport(t *testing.T) {
	report := sampleReport()
	out := Markdown(report, ModeAdmin)
	if !strings.Contains(out, report.AdminSummary.ExecutiveSummary) {
		t.Fatalf("admin summary not rendered")
	}
}

func TestMarkdownOmitsEmptyBuckets(t *testing.T) {
	report := audit.EvaluateAudit(audit.RawSignals{
		Security: &audit.SecuritySignals{
			HTTPS: true, CertValid: true, CertExpiryDays: 120,
			RedirectsToHTTPS: true, HSTS: true, XFrameOptions: true,
			XContentTypeOptions: true, CSP: true, XXSSProtection: true,
		},
	}, "website", audit.BusinessContext{WebsiteURL: "https://example.com"})

	out := Markdown(report, ModeClient)
	if strings.Contains(out, "## Critical Business Risks") {
		t.Fatalf("healthy security should have no critical section:\n%s", out)
	}
	if !strings.Contains(out, "## Strengths") {
		t.Fatalf("expected strengths for perfect security score")
	}
}
