package audit

import "strings"

// Prioritize partitions findings into severity buckets. The partition
// is stable: within each bucket findings keep the order in which the
// evaluators produced them. Duplicate texts within a bucket are
// dropped case-insensitively, first occurrence wins.
func Prioritize(results map[Category]CategoryResult) Buckets {
	var buckets Buckets
	seenCritical := map[string]bool{}
	seenMajor := map[string]bool{}
	seenOptimization := map[string]bool{}

	for _, category := range Categories() {
		result, ok := results[category]
		if !ok {
			continue
		}
		for _, finding := range result.Findings {
			key := strings.ToLower(strings.TrimSpace(finding.Text))
			switch finding.Severity {
			case SeverityCritical:
				if seenCritical[key] {
					continue
				}
				seenCritical[key] = true
				buckets.Critical = append(buckets.Critical, finding)
			case SeverityMajor:
				if seenMajor[key] {
					continue
				}
				seenMajor[key] = true
				buckets.Major = append(buckets.Major, finding)
			default:
				if seenOptimization[key] {
					continue
				}
				seenOptimization[key] = true
				buckets.Optimization = append(buckets.Optimization, finding)
			}
		}
	}
	return buckets
}

// Bucket headers used when findings are flattened into the improvement
// list shown to clients.
const (
	headerCritical     = "CRITICAL BUSINESS RISKS"
	headerMajor        = "MAJOR GROWTH BLOCKERS"
	headerOptimization = "OPTIMIZATION OPPORTUNITIES"
)

// FlattenImprovements renders the buckets into the ordered improvement
// list: each non-empty bucket contributes a header line followed by
// its labeled findings. Empty buckets are omitted entirely.
func FlattenImprovements(buckets Buckets) []string {
	out := []string{}
	appendBucket := func(header string, findings []Finding) {
		if len(findings) == 0 {
			return
		}
		out = append(out, header)
		for _, finding := range findings {
			out = append(out, finding.Severity.Label()+": "+finding.Text)
		}
	}
	appendBucket(headerCritical, buckets.Critical)
	appendBucket(headerMajor, buckets.Major)
	appendBucket(headerOptimization, buckets.Optimization)
	return out
}
