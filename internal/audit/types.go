// Package audit implements the scoring engine: it turns raw collector
// signals into per-category scores, a type-weighted composite score, a
// letter grade, and a prioritized list of findings.
package audit

// Category is one of the six audited dimensions.
type Category string

const (
	CategorySecurity    Category = "security"
	CategoryPerformance Category = "performance"
	CategorySEO         Category = "seo"
	CategoryMobile      Category = "mobile"
	CategoryContent     Category = "content"
	CategoryUIUX        Category = "uiux"
)

// Categories returns every category in canonical report order.
func Categories() []Category {
	return []Category{
		CategorySecurity,
		CategoryPerformance,
		CategorySEO,
		CategoryMobile,
		CategoryContent,
		CategoryUIUX,
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategorySecurity, CategoryPerformance, CategorySEO,
		CategoryMobile, CategoryContent, CategoryUIUX:
		return true
	}
	return false
}

// Severity classifies how urgent a finding is.
type Severity string

const (
	SeverityCritical     Severity = "critical"
	SeverityMajor        Severity = "major"
	SeverityOptimization Severity = "optimization"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityMajor, SeverityOptimization:
		return true
	}
	return false
}

// Label returns the marker used when a finding is rendered as text.
// Markers are a presentation concern; the engine carries severity as a
// structured field and only applies labels at the report boundary.
func (s Severity) Label() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMajor:
		return "MAJOR"
	default:
		return "OPTIMIZATION"
	}
}

// Finding is a single discrete observation. Created once by an
// evaluator and never mutated afterward.
type Finding struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
}

// CategoryResult holds one evaluator's output.
type CategoryResult struct {
	Category Category  `json:"category"`
	Score    int       `json:"score"`
	Findings []Finding `json:"findings,omitempty"`
}

// Grade is the letter grade on the fixed academic scale.
type Grade string

const (
	GradeAPlus  Grade = "A+"
	GradeA      Grade = "A"
	GradeAMinus Grade = "A-"
	GradeB      Grade = "B"
	GradeC      Grade = "C"
	GradeD      Grade = "D"
	GradeF      Grade = "F"
)

// CategoryWeight is one row of the composite breakdown.
type CategoryWeight struct {
	Score    int  `json:"score"`
	Weight   int  `json:"weight"`
	Fallback bool `json:"fallback,omitempty"`
}

// CompositeScore is the weighted overall outcome.
// Invariant: Overall == round(sum(score*weight)/100), clamped to [0,100].
type CompositeScore struct {
	Overall   int                         `json:"overall"`
	Grade     Grade                       `json:"grade"`
	Breakdown map[Category]CategoryWeight `json:"breakdown"`
}

// Buckets groups findings by severity, preserving evaluator order
// within each bucket.
type Buckets struct {
	Critical     []Finding `json:"critical,omitempty"`
	Major        []Finding `json:"major,omitempty"`
	Optimization []Finding `json:"optimization,omitempty"`
}

// CriticalCount reports the number of critical findings.
func (b Buckets) CriticalCount() int { return len(b.Critical) }

// MajorCount reports the number of major findings.
func (b Buckets) MajorCount() int { return len(b.Major) }

// TotalIssues reports the number of findings across all buckets.
func (b Buckets) TotalIssues() int {
	return len(b.Critical) + len(b.Major) + len(b.Optimization)
}

// BusinessContext carries collector-detected facts used only for
// summary text interpolation, never for scoring.
type BusinessContext struct {
	BusinessName string `json:"business_name"`
	Platform     string `json:"platform"`
	WebsiteURL   string `json:"website_url"`
}

// SummaryPayload is the executive summary derived from the composite
// score and the prioritized findings. Two variants exist per report:
// one addressed to the client, one briefing the consultant.
type SummaryPayload struct {
	ExecutiveSummary   string   `json:"executive_summary"`
	PriorityActions    []string `json:"priority_actions"`
	BusinessImpact     []string `json:"business_impact"`
	RiskLevel          string   `json:"risk_level"`
	ROIProjection      string   `json:"roi_projection"`
	Timeline           string   `json:"timeline"`
	Grade              Grade    `json:"grade"`
	Status             string   `json:"status"`
	CriticalCount      int      `json:"critical_count"`
	MajorCount         int      `json:"major_count"`
	TotalIssues        int      `json:"total_issues"`
	BusinessName       string   `json:"business_name"`
	WebsitePlatform    string   `json:"website_platform"`
	RecommendedPackage string   `json:"recommended_package"`
	PackagePrice       string   `json:"package_price"`
	PackageRationale   string   `json:"package_rationale"`
}

// AuditReport is the final aggregate returned by EvaluateAudit.
// Immutable after return; the caller owns storage and presentation.
type AuditReport struct {
	Score         int                         `json:"score"`
	Grade         Grade                       `json:"grade"`
	Breakdown     map[Category]CategoryWeight `json:"score_breakdown"`
	WebsiteType   string                      `json:"website_type"`
	Strengths     []string                    `json:"strengths"`
	Improvements  []string                    `json:"improvements"`
	Findings      Buckets                     `json:"findings"`
	CriticalCount int                         `json:"critical_count"`
	MajorCount    int                         `json:"major_count"`
	TotalIssues   int                         `json:"total_issues"`
	ClientSummary SummaryPayload              `json:"client_summary"`
	AdminSummary  SummaryPayload              `json:"admin_summary"`
}
