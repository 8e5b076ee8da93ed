package audit

// EvaluateAudit runs the full pipeline: six category evaluators, the
// type-weighted composite, the prioritizer, strengths, and both
// summary variants. Pure and deterministic; missing signal groups
// degrade to fallbacks, so it never returns an error.
func EvaluateAudit(signals RawSignals, websiteType string, ctx BusinessContext) AuditReport {
	results := map[Category]CategoryResult{
		CategorySecurity:    EvaluateSecurity(signals.Security),
		CategoryPerformance: EvaluatePerformance(signals.Performance),
		CategorySEO:         EvaluateSEO(signals.SEO),
		CategoryMobile:      EvaluateMobile(signals.Mobile),
		CategoryContent:     EvaluateContent(signals.Content),
		CategoryUIUX:        EvaluateUIUX(signals.UIUX),
	}

	resolvedType := NormalizeWebsiteType(websiteType)
	composite := ComputeComposite(results, ResolveWeights(resolvedType))
	buckets := Prioritize(results)

	if ctx.Platform == "" {
		ctx.Platform = signals.Platform
	}

	return AuditReport{
		Score:         composite.Overall,
		Grade:         composite.Grade,
		Breakdown:     composite.Breakdown,
		WebsiteType:   resolvedType,
		Strengths:     ComputeStrengths(results),
		Improvements:  FlattenImprovements(buckets),
		Findings:      buckets,
		CriticalCount: buckets.CriticalCount(),
		MajorCount:    buckets.MajorCount(),
		TotalIssues:   buckets.TotalIssues(),
		ClientSummary: BuildSummary(audienceClient, ctx, composite, buckets),
		AdminSummary:  BuildSummary(audienceAdmin, ctx, composite, buckets),
	}
}
