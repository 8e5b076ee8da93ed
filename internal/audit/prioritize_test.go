package audit

import (
	"strings"
	"testing"
)

func TestPrioritizeStablePartition(t *testing.T) {
	results := map[Category]CategoryResult{
		CategorySecurity: {Category: CategorySecurity, Findings: []Finding{
			{Text: "sec critical", Severity: SeverityCritical, Category: CategorySecurity},
			{Text: "sec major", Severity: SeverityMajor, Category: CategorySecurity},
		}},
		CategorySEO: {Category: CategorySEO, Findings: []Finding{
			{Text: "seo major", Severity: SeverityMajor, Category: CategorySEO},
			{Text: "seo opt", Severity: SeverityOptimization, Category: CategorySEO},
		}},
		CategoryPerformance: {Category: CategoryPerformance, Findings: []Finding{
			{Text: "perf major", Severity: SeverityMajor, Category: CategoryPerformance},
		}},
	}
	buckets := Prioritize(results)
	if len(buckets.Critical) != 1 || buckets.Critical[0].Text != "sec critical" {
		t.Fatalf("unexpected critical bucket: %+v", buckets.Critical)
	}
	// Canonical category order: security findings before performance before seo.
	wantMajor := []string{"sec major", "perf major", "seo major"}
	if len(buckets.Major) != len(wantMajor) {
		t.Fatalf("expected %d major findings, got %d", len(wantMajor), len(buckets.Major))
	}
	for i, want := range wantMajor {
		if buckets.Major[i].Text != want {
			t.Fatalf("major[%d] = %q, want %q", i, buckets.Major[i].Text, want)
		}
	}
}

func TestPrioritizeDedupCaseInsensitive(t *testing.T) {
	results := map[Category]CategoryResult{
		CategorySecurity: {Category: CategorySecurity, Findings: []Finding{
			{Text: "Missing HSTS header", Severity: SeverityMajor, Category: CategorySecurity},
		}},
		CategoryMobile: {Category: CategoryMobile, Findings: []Finding{
			{Text: "missing hsts header", Severity: SeverityMajor, Category: CategoryMobile},
		}},
	}
	buckets := Prioritize(results)
	if len(buckets.Major) != 1 {
		t.Fatalf("expected case-insensitive dedup to one finding, got %d", len(buckets.Major))
	}
	if buckets.Major[0].Text != "Missing HSTS header" {
		t.Fatalf("first occurrence should win, got %q", buckets.Major[0].Text)
	}
}

func TestPrioritizeDedupPerBucket(t *testing.T) {
	// Same text at different severities lands in both buckets.
	results := map[Category]CategoryResult{
		CategorySecurity: {Category: CategorySecurity, Findings: []Finding{
			{Text: "slow response", Severity: SeverityCritical, Category: CategorySecurity},
		}},
		CategoryPerformance: {Category: CategoryPerformance, Findings: []Finding{
			{Text: "slow response", Severity: SeverityMajor, Category: CategoryPerformance},
		}},
	}
	buckets := Prioritize(results)
	if len(buckets.Critical) != 1 || len(buckets.Major) != 1 {
		t.Fatalf("dedup must be per bucket: critical=%d major=%d", len(buckets.Critical), len(buckets.Major))
	}
}

func TestFlattenImprovementsOmitsEmptyBuckets(t *testing.T) {
	buckets := Buckets{
		Major: []Finding{{Text: "fix the title", Severity: SeverityMajor, Category: CategorySEO}},
	}
	lines := FlattenImprovements(buckets)
	if len(lines) != 2 {
		t.Fatalf("expected header + one finding, got %d lines: %v", len(lines), lines)
	}
	if lines[0] != headerMajor {
		t.Fatalf("expected major header first, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "MAJOR: ") {
		t.Fatalf("finding line should carry the severity label, got %q", lines[1])
	}
	for _, line := range lines {
		if line == headerCritical || line == headerOptimization {
			t.Fatalf("empty bucket header leaked: %q", line)
		}
	}
}

func TestFlattenImprovementsOrdering(t *testing.T) {
	buckets := Buckets{
		Critical:     []Finding{{Text: "c1", Severity: SeverityCritical}},
		Major:        []Finding{{Text: "m1", Severity: SeverityMajor}},
		Optimization: []Finding{{Text: "o1", Severity: SeverityOptimization}},
	}
	lines := FlattenImprovements(buckets)
	want := []string{
		headerCritical, "CRITICAL: c1",
		headerMajor, "MAJOR: m1",
		headerOptimization, "OPTIMIZATION: o1",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
