// Package render turns a finished audit report into human-readable
// output for the CLI and for report exports.
package render

import (
	"fmt"
	"strings"

	"site-audit/internal/audit"
)

// Mode selects which summary variant a rendered report carries.
type Mode string

const (
	ModeClient Mode = "client"
	ModeAdmin  Mode = "admin"
)

// Markdown renders the report as a Markdown document. Empty severity
// buckets are omitted; the summary section follows the selected mode.
func Markdown(report audit.AuditReport, mode Mode) string {
	summary := report.ClientSummary
	if mode == ModeAdmin {
		summary = report.AdminSummary
	}

	var b strings.Builder
	title := summary.BusinessName
	if strings.TrimSpace(title) == "" {
		title = "Website Audit"
	}
	fmt.Fprintf(&b, "# %s — Website Audit Report\n\n", title)
	fmt.Fprintf(&b, "**Overall Score:** %d/100 (%s — %s)\n\n", report.Score, report.Grade, summary.Status)
	if summary.WebsitePlatform != "" {
		fmt.Fprintf(&b, "**Platform:** %s\n\n", summary.WebsitePlatform)
	}
	fmt.Fprintf(&b, "**Risk Level:** %s\n\n", summary.RiskLevel)

	b.WriteString("## Score Breakdown\n\n")
	b.WriteString("| Category | Score | Weight |\n")
	b.WriteString("| --- | ---: | ---: |\n")
	for _, category := range audit.Categories() {
		row, ok := report.Breakdown[category]
		if !ok {
			continue
		}
		note := ""
		if row.Fallback {
			note = " (no data)"
		}
		fmt.Fprintf(&b, "| %s | %d/100%s | %d%% |\n", audit.CategoryLabel(category), row.Score, note, row.Weight)
	}
	b.WriteString("\n")

	if len(report.Strengths) > 0 {
		b.WriteString("## Strengths\n\n")
		for _, strength := range report.Strengths {
			fmt.Fprintf(&b, "- %s\n", strength)
		}
		b.WriteString("\n")
	}

	writeBucket(&b, "Critical Business Risks", report.Findings.Critical)
	writeBucket(&b, "Major Growth Blockers", report.Findings.Major)
	writeBucket(&b, "Optimization Opportunities", report.Findings.Optimization)

	b.WriteString("## Executive Summary\n\n")
	b.WriteString(summary.ExecutiveSummary)
	b.WriteString("\n\n")

	if len(summary.PriorityActions) > 0 {
		b.WriteString("## Priority Actions\n\n")
		for i, action := range summary.PriorityActions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, action)
		}
		b.WriteString("\n")
	}

	if len(summary.BusinessImpact) > 0 {
		b.WriteString("## Business Impact\n\n")
		for _, impact := range summary.BusinessImpact {
			fmt.Fprintf(&b, "- %s\n", impact)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Recommendation\n\n")
	fmt.Fprintf(&b, "**%s** (%s)\n\n%s\n\n", summary.RecommendedPackage, summary.PackagePrice, summary.PackageRationale)
	fmt.Fprintf(&b, "**Estimated ROI:** %s\n\n", summary.ROIProjection)
	fmt.Fprintf(&b, "**Timeline:** %s\n", summary.Timeline)
	return b.String()
}

func writeBucket(b *strings.Builder, heading string, findings []audit.Finding) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, finding := range findings {
		fmt.Fprintf(b, "- %s *(%s)*\n", finding.Text, audit.CategoryLabel(finding.Category))
	}
	b.WriteString("\n")
}
