package audit

import (
	"fmt"
	"sort"
	"strings"
)

// Human-readable category names used in strengths and summary text.
var categoryLabels = map[Category]string{
	CategorySecurity:    "Security",
	CategoryPerformance: "Performance",
	CategorySEO:         "SEO",
	CategoryMobile:      "Mobile Experience",
	CategoryContent:     "Content Quality",
	CategoryUIUX:        "User Experience",
}

// CategoryLabel returns the display name for a category.
func CategoryLabel(c Category) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

var gradeStatus = map[Grade]string{
	GradeAPlus:  "Excellent",
	GradeA:      "Excellent",
	GradeAMinus: "Very Good",
	GradeB:      "Good",
	GradeC:      "Needs Improvement",
	GradeD:      "Poor",
	GradeF:      "Critical Issues",
}

// StatusFor returns the status phrase for a grade.
func StatusFor(grade Grade) string {
	if status, ok := gradeStatus[grade]; ok {
		return status
	}
	return "Unknown"
}

// strengthThreshold is the minimum category score that counts as a strength.
const strengthThreshold = 85

// ComputeStrengths lists categories scoring at or above the strength
// threshold, highest first. Ties break on canonical category order so
// the output is deterministic.
func ComputeStrengths(results map[Category]CategoryResult) []string {
	type entry struct {
		category Category
		score    int
		order    int
	}
	entries := []entry{}
	for i, category := range Categories() {
		result, ok := results[category]
		if !ok || result.Score < strengthThreshold {
			continue
		}
		entries = append(entries, entry{category, result.Score, i})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].order < entries[j].order
	})
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%s (%d/100)", CategoryLabel(e.category), e.score))
	}
	return out
}

type packageTier struct {
	Name      string
	Price     string
	Rationale string
}

var (
	tierFree = packageTier{
		Name:      "Professional Website Audit (FREE)",
		Price:     "$0",
		Rationale: "The site is in strong shape; the audit itself covers the remaining polish items",
	}
	tierConsulting = packageTier{
		Name:      "Audit + Consulting Session",
		Price:     "$250 - $500",
		Rationale: "A focused working session covers the moderate improvements identified",
	}
	tierStarter = packageTier{
		Name:      "Starter Security + SEO",
		Price:     "$500 - $1,500",
		Rationale: "Targeted remediation addresses the urgent security and visibility gaps",
	}
	tierProfessional = packageTier{
		Name:      "Professional Package",
		Price:     "$1,200 - $2,800",
		Rationale: "A comprehensive rebuild of the weak areas is more economical than piecemeal fixes",
	}
)

// recommendPackage picks the service tier. First matching row wins.
// Any critical finding floors the recommendation at the starter tier.
func recommendPackage(overall, criticalCount int) packageTier {
	switch {
	case criticalCount >= 4:
		return tierProfessional
	case overall <= 49:
		return tierProfessional
	case criticalCount >= 1:
		return tierStarter
	case overall <= 69:
		return tierStarter
	case overall <= 84:
		return tierConsulting
	default:
		return tierFree
	}
}

// RiskLevelFor grades business exposure from the finding counts and
// the overall score.
func RiskLevelFor(overall, criticalCount, majorCount int) string {
	switch {
	case criticalCount >= 3:
		return "CRITICAL"
	case criticalCount >= 1 || majorCount >= 3:
		return "HIGH"
	case majorCount >= 1 || overall < 70:
		return "MODERATE"
	default:
		return "LOW"
	}
}

func roiProjection(overall, criticalCount int) string {
	switch {
	case criticalCount >= 1:
		return "Resolving the critical issues typically recovers 15-30% of lost conversions within the first quarter"
	case overall < 70:
		return "Closing the identified gaps typically lifts qualified traffic and conversions by 10-20% over two quarters"
	case overall < 85:
		return "Incremental optimization at this level typically yields a 5-10% improvement in engagement metrics"
	default:
		return "The site already performs well; further gains come from content and campaign work rather than fixes"
	}
}

func timelineEstimate(criticalCount, majorCount int) string {
	switch {
	case criticalCount >= 3:
		return "Critical fixes should begin immediately; expect 3-4 weeks for full remediation"
	case criticalCount >= 1:
		return "Critical fixes within the first week, remaining items over 2-3 weeks"
	case majorCount >= 3:
		return "A focused 2-week sprint covers the major items"
	case majorCount >= 1:
		return "The major items fit in roughly one week of part-time work"
	default:
		return "Remaining optimizations can be batched into routine maintenance"
	}
}

func businessImpact(buckets Buckets, overall int) []string {
	out := []string{}
	if n := buckets.CriticalCount(); n > 0 {
		out = append(out, fmt.Sprintf("%d critical issue(s) are actively costing trust, traffic, or revenue", n))
	}
	if n := buckets.MajorCount(); n > 0 {
		out = append(out, fmt.Sprintf("%d major issue(s) are limiting growth and search visibility", n))
	}
	if n := len(buckets.Optimization); n > 0 {
		out = append(out, fmt.Sprintf("%d optimization opportunity(ies) would sharpen an otherwise working site", n))
	}
	if len(out) == 0 {
		out = append(out, fmt.Sprintf("No outstanding issues; the site scores %d/100 and is competitive as-is", overall))
	}
	return out
}

// summaryAudience controls phrasing, never content selection. Both
// variants are always built; the transport layer picks one.
type summaryAudience int

const (
	audienceClient summaryAudience = iota
	audienceAdmin
)

func executiveSummary(audience summaryAudience, ctx BusinessContext, composite CompositeScore, buckets Buckets) string {
	subject := "your website"
	if ctx.BusinessName != "" {
		subject = ctx.BusinessName
	}
	platformNote := ""
	if ctx.Platform != "" {
		platformNote = fmt.Sprintf(" (built on %s)", ctx.Platform)
	}
	status := StatusFor(composite.Grade)
	if audience == audienceAdmin {
		return fmt.Sprintf(
			"Audit of %s%s: overall %d/100 (%s, %s). %d critical, %d major, %d total findings. Lead with the %s tier.",
			subject, platformNote, composite.Overall, composite.Grade, status,
			buckets.CriticalCount(), buckets.MajorCount(), buckets.TotalIssues(),
			recommendPackage(composite.Overall, buckets.CriticalCount()).Name,
		)
	}
	switch {
	case buckets.CriticalCount() > 0:
		return fmt.Sprintf(
			"We audited %s%s and it scored %d/100 (%s). %d critical issue(s) need attention right away; fixing them protects the visitors and revenue you already have.",
			subject, platformNote, composite.Overall, composite.Grade, buckets.CriticalCount(),
		)
	case composite.Overall < 70:
		return fmt.Sprintf(
			"We audited %s%s and it scored %d/100 (%s). Nothing is on fire, but the gaps we found are holding back traffic and conversions.",
			subject, platformNote, composite.Overall, composite.Grade,
		)
	default:
		return fmt.Sprintf(
			"We audited %s%s and it scored %d/100 (%s). The foundation is solid; the remaining items are refinements, not repairs.",
			subject, platformNote, composite.Overall, composite.Grade,
		)
	}
}

// priorityActions lists the top findings to act on first: all critical
// findings, then majors, capped at five lines.
func priorityActions(buckets Buckets) []string {
	const maxActions = 5
	out := []string{}
	for _, finding := range buckets.Critical {
		if len(out) == maxActions {
			return out
		}
		out = append(out, finding.Text)
	}
	for _, finding := range buckets.Major {
		if len(out) == maxActions {
			return out
		}
		out = append(out, finding.Text)
	}
	if len(out) == 0 && len(buckets.Optimization) > 0 {
		for _, finding := range buckets.Optimization {
			if len(out) == 3 {
				break
			}
			out = append(out, finding.Text)
		}
	}
	return out
}

// BuildSummary assembles one summary variant from the composite score
// and prioritized findings. Pure and deterministic.
func BuildSummary(audience summaryAudience, ctx BusinessContext, composite CompositeScore, buckets Buckets) SummaryPayload {
	tier := recommendPackage(composite.Overall, buckets.CriticalCount())
	platform := ctx.Platform
	if platform == "" {
		platform = "Custom / Unknown"
	}
	name := ctx.BusinessName
	if name == "" {
		name = deriveNameFromURL(ctx.WebsiteURL)
	}
	return SummaryPayload{
		ExecutiveSummary:   executiveSummary(audience, ctx, composite, buckets),
		PriorityActions:    priorityActions(buckets),
		BusinessImpact:     businessImpact(buckets, composite.Overall),
		RiskLevel:          RiskLevelFor(composite.Overall, buckets.CriticalCount(), buckets.MajorCount()),
		ROIProjection:      roiProjection(composite.Overall, buckets.CriticalCount()),
		Timeline:           timelineEstimate(buckets.CriticalCount(), buckets.MajorCount()),
		Grade:              composite.Grade,
		Status:             StatusFor(composite.Grade),
		CriticalCount:      buckets.CriticalCount(),
		MajorCount:         buckets.MajorCount(),
		TotalIssues:        buckets.TotalIssues(),
		BusinessName:       name,
		WebsitePlatform:    platform,
		RecommendedPackage: tier.Name,
		PackagePrice:       tier.Price,
		PackageRationale:   tier.Rationale,
	}
}

func deriveNameFromURL(rawURL string) string {
	host := rawURL
	if idx := strings.Index(host, "://"); idx >= 0 {
		host = host[idx+3:]
	}
	if idx := strings.IndexAny(host, "/?#"); idx >= 0 {
		host = host[:idx]
	}
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "your website"
	}
	return host
}
