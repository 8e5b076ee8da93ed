package audit

import "fmt"

// rule is one deduction applied by a category evaluator. Rules are
// evaluated top to bottom from a baseline of 100; the final score is
// clamped to [0,100]. Rules never see each other's output.
type rule[T any] struct {
	Applies  func(T) bool
	Deduct   int
	Severity Severity
	Message  func(T) string
}

func staticMessage[T any](text string) func(T) string {
	return func(T) string { return text }
}

const (
	baselineScore = 100
	// fallbackScore is substituted when a signal group was never collected.
	fallbackScore = 70
)

func applyRules[T any](category Category, signals T, rules []rule[T]) CategoryResult {
	score := baselineScore
	findings := []Finding{}
	for _, r := range rules {
		if !r.Applies(signals) {
			continue
		}
		score -= r.Deduct
		findings = append(findings, Finding{
			Text:     r.Message(signals),
			Severity: r.Severity,
			Category: category,
		})
	}
	return CategoryResult{
		Category: category,
		Score:    clampScore(score),
		Findings: findings,
	}
}

func fallbackResult(category Category, reason string) CategoryResult {
	return CategoryResult{
		Category: category,
		Score:    fallbackScore,
		Findings: []Finding{{
			Text:     reason,
			Severity: SeverityMajor,
			Category: category,
		}},
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

var securityRules = []rule[SecuritySignals]{
	{
		Applies:  func(s SecuritySignals) bool { return !s.HTTPS },
		Deduct:   40,
		Severity: SeverityCritical,
		Message:  staticMessage[SecuritySignals]("Site is served over plain HTTP; visitor data is exposed in transit"),
	},
	{
		Applies:  func(s SecuritySignals) bool { return s.HTTPS && !s.CertValid },
		Deduct:   30,
		Severity: SeverityCritical,
		Message:  staticMessage[SecuritySignals]("TLS certificate is invalid or expired; browsers show a security warning"),
	},
	{
		Applies:  func(s SecuritySignals) bool { return s.HTTPS && s.CertValid && s.CertExpiryDays >= 0 && s.CertExpiryDays <= 14 },
		Deduct:   10,
		Severity: SeverityMajor,
		Message: func(s SecuritySignals) string {
			return fmt.Sprintf("TLS certificate expires in %d days; renew before visitors see warnings", s.CertExpiryDays)
		},
	},
	{
		Applies:  func(s SecuritySignals) bool { return s.HTTPS && !s.RedirectsToHTTPS },
		Deduct:   8,
		Severity: SeverityMajor,
		Message:  staticMessage[SecuritySignals]("HTTP requests are not redirected to HTTPS; insecure entry points remain reachable"),
	},
	{
		Applies:  func(s SecuritySignals) bool { return s.MixedContentCount > 0 },
		Deduct:   10,
		Severity: SeverityMajor,
		Message: func(s SecuritySignals) string {
			return fmt.Sprintf("%d resources load over insecure HTTP on an HTTPS page (mixed content)", s.MixedContentCount)
		},
	},
	{
		Applies:  func(s SecuritySignals) bool { return !s.HSTS },
		Deduct:   10,
		Severity: SeverityMajor,
		Message:  staticMessage[SecuritySignals]("Strict-Transport-Security header is missing; downgrade attacks are possible"),
	},
	{
		Applies:  func(s SecuritySignals) bool { return !s.XFrameOptions },
		Deduct:   8,
		Severity: SeverityMajor,
		Message:  staticMessage[SecuritySignals]("X-Frame-Options header is missing; the site can be embedded for clickjacking"),
	},
	{
		Applies:  func(s SecuritySignals) bool { return !s.CSP },
		Deduct:   8,
		Severity: SeverityMajor,
		Message:  staticMessage[SecuritySignals]("Content-Security-Policy header is missing; injected scripts run unrestricted"),
	},
	{
		Applies:  func(s SecuritySignals) bool { return !s.XContentTypeOptions },
		Deduct:   5,
		Severity: SeverityOptimization,
		Message:  staticMessage[SecuritySignals]("X-Content-Type-Options header is missing; browsers may MIME-sniff responses"),
	},
	{
		Applies:  func(s SecuritySignals) bool { return !s.XXSSProtection },
		Deduct:   4,
		Severity: SeverityOptimization,
		Message:  staticMessage[SecuritySignals]("X-XSS-Protection header is missing on legacy-browser traffic"),
	},
}

var performanceRules = []rule[PerformanceSignals]{
	{
		Applies:  func(s PerformanceSignals) bool { return s.LabScore < 30 },
		Deduct:   45,
		Severity: SeverityCritical,
		Message: func(s PerformanceSignals) string {
			return fmt.Sprintf("Lab performance score is %d/100; most visitors abandon pages this slow", s.LabScore)
		},
	},
	{
		Applies:  func(s PerformanceSignals) bool { return s.LabScore >= 30 && s.LabScore < 50 },
		Deduct:   30,
		Severity: SeverityMajor,
		Message: func(s PerformanceSignals) string {
			return fmt.Sprintf("Lab performance score is %d/100; load speed is costing conversions", s.LabScore)
		},
	},
	{
		Applies:  func(s PerformanceSignals) bool { return s.LabScore >= 50 && s.LabScore < 75 },
		Deduct:   15,
		Severity: SeverityOptimization,
		Message: func(s PerformanceSignals) string {
			return fmt.Sprintf("Lab performance score is %d/100; there is headroom to speed up", s.LabScore)
		},
	},
	{
		Applies:  func(s PerformanceSignals) bool { return s.LargestContentfulMS > 4000 },
		Deduct:   15,
		Severity: SeverityMajor,
		Message: func(s PerformanceSignals) string {
			return fmt.Sprintf("Largest Contentful Paint is %.1fs; main content takes too long to appear", s.LargestContentfulMS/1000)
		},
	},
	{
		Applies:  func(s PerformanceSignals) bool { return s.LargestContentfulMS > 2500 && s.LargestContentfulMS <= 4000 },
		Deduct:   8,
		Severity: SeverityOptimization,
		Message: func(s PerformanceSignals) string {
			return fmt.Sprintf("Largest Contentful Paint is %.1fs; aim for under 2.5s", s.LargestContentfulMS/1000)
		},
	},
	{
		Applies:  func(s PerformanceSignals) bool { return s.FirstContentfulMS > 3000 },
		Deduct:   8,
		Severity: SeverityMajor,
		Message: func(s PerformanceSignals) string {
			return fmt.Sprintf("First Contentful Paint is %.1fs; the page looks blank while loading", s.FirstContentfulMS/1000)
		},
	},
	{
		Applies:  func(s PerformanceSignals) bool { return s.CumulativeShift > 0.25 },
		Deduct:   10,
		Severity: SeverityMajor,
		Message: func(s PerformanceSignals) string {
			return fmt.Sprintf("Cumulative Layout Shift is %.2f; content jumps while loading", s.CumulativeShift)
		},
	},
	{
		Applies:  func(s PerformanceSignals) bool { return s.CumulativeShift > 0.1 && s.CumulativeShift <= 0.25 },
		Deduct:   5,
		Severity: SeverityOptimization,
		Message: func(s PerformanceSignals) string {
			return fmt.Sprintf("Cumulative Layout Shift is %.2f; minor visual instability during load", s.CumulativeShift)
		},
	},
	{
		Applies:  func(s PerformanceSignals) bool { return s.TotalBlockingMS > 600 },
		Deduct:   8,
		Severity: SeverityMajor,
		Message: func(s PerformanceSignals) string {
			return fmt.Sprintf("Total Blocking Time is %.0fms; the page is unresponsive during load", s.TotalBlockingMS)
		},
	},
}

var seoRules = []rule[SEOSignals]{
	{
		Applies:  func(s SEOSignals) bool { return !s.RobotsAllowed },
		Deduct:   35,
		Severity: SeverityCritical,
		Message:  staticMessage[SEOSignals]("Page is blocked from search engine indexing; it cannot rank at all"),
	},
	{
		Applies:  func(s SEOSignals) bool { return s.TitleLength == 0 },
		Deduct:   15,
		Severity: SeverityMajor,
		Message:  staticMessage[SEOSignals]("Page has no title tag; search results show a raw URL instead"),
	},
	{
		Applies:  func(s SEOSignals) bool { return s.TitleLength > 0 && (s.TitleLength < 30 || s.TitleLength > 60) },
		Deduct:   5,
		Severity: SeverityOptimization,
		Message: func(s SEOSignals) string {
			return fmt.Sprintf("Title tag is %d characters; 30-60 characters display best in results", s.TitleLength)
		},
	},
	{
		Applies:  func(s SEOSignals) bool { return s.MetaDescLength == 0 },
		Deduct:   10,
		Severity: SeverityMajor,
		Message:  staticMessage[SEOSignals]("Meta description is missing; search engines improvise the snippet"),
	},
	{
		Applies:  func(s SEOSignals) bool { return s.MetaDescLength > 0 && (s.MetaDescLength < 70 || s.MetaDescLength > 160) },
		Deduct:   4,
		Severity: SeverityOptimization,
		Message: func(s SEOSignals) string {
			return fmt.Sprintf("Meta description is %d characters; 70-160 characters avoids truncation", s.MetaDescLength)
		},
	},
	{
		Applies:  func(s SEOSignals) bool { return s.H1Count == 0 },
		Deduct:   10,
		Severity: SeverityMajor,
		Message:  staticMessage[SEOSignals]("Page has no H1 heading; search engines cannot identify the main topic"),
	},
	{
		Applies:  func(s SEOSignals) bool { return s.H1Count > 1 },
		Deduct:   4,
		Severity: SeverityOptimization,
		Message: func(s SEOSignals) string {
			return fmt.Sprintf("Page has %d H1 headings; a single H1 keeps the topic unambiguous", s.H1Count)
		},
	},
	{
		Applies:  func(s SEOSignals) bool { return !s.HeadingOrderValid },
		Deduct:   4,
		Severity: SeverityOptimization,
		Message:  staticMessage[SEOSignals]("Heading levels skip steps; a clean hierarchy helps crawlers and screen readers"),
	},
	{
		Applies:  func(s SEOSignals) bool { return !s.Canonical },
		Deduct:   5,
		Severity: SeverityOptimization,
		Message:  staticMessage[SEOSignals]("Canonical URL tag is missing; duplicate URLs dilute ranking signals"),
	},
	{
		Applies:  func(s SEOSignals) bool { return !s.SchemaMarkup },
		Deduct:   5,
		Severity: SeverityOptimization,
		Message:  staticMessage[SEOSignals]("Structured data markup is missing; rich search results are unavailable"),
	},
	{
		Applies:  func(s SEOSignals) bool { return !s.OpenGraph },
		Deduct:   4,
		Severity: SeverityOptimization,
		Message:  staticMessage[SEOSignals]("Open Graph tags are missing; shared links render without preview cards"),
	},
	{
		Applies:  func(s SEOSignals) bool { return !s.HTMLLang },
		Deduct:   3,
		Severity: SeverityOptimization,
		Message:  staticMessage[SEOSignals]("html lang attribute is missing; language targeting is undeclared"),
	},
	{
		Applies:  func(s SEOSignals) bool { return s.ImageCount > 0 && s.ImageAltRatio < 0.5 },
		Deduct:   6,
		Severity: SeverityMajor,
		Message: func(s SEOSignals) string {
			return fmt.Sprintf("Only %.0f%% of images have alt text; image search traffic is lost", s.ImageAltRatio*100)
		},
	},
	{
		Applies:  func(s SEOSignals) bool { return s.InternalLinks == 0 },
		Deduct:   4,
		Severity: SeverityOptimization,
		Message:  staticMessage[SEOSignals]("No internal links found; crawlers cannot discover deeper pages from here"),
	},
}

var mobileRules = []rule[MobileSignals]{
	{
		Applies:  func(s MobileSignals) bool { return !s.Viewport },
		Deduct:   35,
		Severity: SeverityCritical,
		Message:  staticMessage[MobileSignals]("Viewport meta tag is missing; the site renders as desktop on every phone"),
	},
	{
		Applies:  func(s MobileSignals) bool { return s.Viewport && !s.ResponsiveHints },
		Deduct:   15,
		Severity: SeverityMajor,
		Message:  staticMessage[MobileSignals]("No responsive design signals detected; layout likely breaks on small screens"),
	},
	{
		Applies:  func(s MobileSignals) bool { return !s.TapTargetsOK },
		Deduct:   10,
		Severity: SeverityMajor,
		Message:  staticMessage[MobileSignals]("Tap targets are too small or too close together for touch input"),
	},
	{
		Applies:  func(s MobileSignals) bool { return !s.FontLegible },
		Deduct:   8,
		Severity: SeverityMajor,
		Message:  staticMessage[MobileSignals]("Base font size is below legible thresholds on mobile"),
	},
	{
		Applies:  func(s MobileSignals) bool { return s.HorizontalScroll },
		Deduct:   8,
		Severity: SeverityMajor,
		Message:  staticMessage[MobileSignals]("Content overflows the viewport and forces horizontal scrolling"),
	},
}

var contentRules = []rule[ContentSignals]{
	{
		Applies:  func(s ContentSignals) bool { return s.WordCount < 100 },
		Deduct:   25,
		Severity: SeverityMajor,
		Message: func(s ContentSignals) string {
			return fmt.Sprintf("Page has only %d words; thin content ranks poorly and converts worse", s.WordCount)
		},
	},
	{
		Applies:  func(s ContentSignals) bool { return s.WordCount >= 100 && s.WordCount < 300 },
		Deduct:   10,
		Severity: SeverityOptimization,
		Message: func(s ContentSignals) string {
			return fmt.Sprintf("Page has %d words; more substantive copy would strengthen rankings", s.WordCount)
		},
	},
	{
		Applies:  func(s ContentSignals) bool { return !s.ContactInfo },
		Deduct:   12,
		Severity: SeverityMajor,
		Message:  staticMessage[ContentSignals]("No contact information found; visitors have no way to reach the business"),
	},
	{
		Applies:  func(s ContentSignals) bool { return !s.Freshness },
		Deduct:   6,
		Severity: SeverityOptimization,
		Message:  staticMessage[ContentSignals]("No freshness signals found; the site may look abandoned to visitors"),
	},
	{
		Applies:  func(s ContentSignals) bool { return !s.Multimedia },
		Deduct:   5,
		Severity: SeverityOptimization,
		Message:  staticMessage[ContentSignals]("Page is text only; images or video would improve engagement"),
	},
}

var uiuxRules = []rule[UIUXSignals]{
	{
		Applies:  func(s UIUXSignals) bool { return !s.NavPresent },
		Deduct:   18,
		Severity: SeverityMajor,
		Message:  staticMessage[UIUXSignals]("No navigation menu detected; visitors cannot find their way around"),
	},
	{
		Applies:  func(s UIUXSignals) bool { return !s.CTAPresent },
		Deduct:   15,
		Severity: SeverityMajor,
		Message:  staticMessage[UIUXSignals]("No call-to-action found; visitors are never asked to take the next step"),
	},
	{
		Applies:  func(s UIUXSignals) bool { return !s.FormPresent },
		Deduct:   8,
		Severity: SeverityOptimization,
		Message:  staticMessage[UIUXSignals]("No contact or signup form found; lead capture depends on off-site channels"),
	},
	{
		Applies:  func(s UIUXSignals) bool { return s.BrokenAnchors > 0 },
		Deduct:   8,
		Severity: SeverityMajor,
		Message: func(s UIUXSignals) string {
			return fmt.Sprintf("%d links point nowhere; dead ends erode visitor trust", s.BrokenAnchors)
		},
	},
	{
		Applies:  func(s UIUXSignals) bool { return !s.FooterPresent },
		Deduct:   5,
		Severity: SeverityOptimization,
		Message:  staticMessage[UIUXSignals]("No footer detected; standard trust and contact placement is missing"),
	},
	{
		Applies:  func(s UIUXSignals) bool { return !s.FaviconPresent },
		Deduct:   3,
		Severity: SeverityOptimization,
		Message:  staticMessage[UIUXSignals]("Favicon is missing; browser tabs show a generic icon"),
	},
	{
		Applies:  func(s UIUXSignals) bool { return s.PopupOverlay },
		Deduct:   6,
		Severity: SeverityOptimization,
		Message:  staticMessage[UIUXSignals]("Popup overlay appears on load; interstitials hurt both UX and rankings"),
	},
}

// EvaluateSecurity scores the security category from its signal group.
// A nil group yields the neutral fallback with a single major finding.
func EvaluateSecurity(signals *SecuritySignals) CategoryResult {
	if signals == nil {
		return fallbackResult(CategorySecurity, "Security data unavailable; connection probe did not complete")
	}
	return applyRules(CategorySecurity, *signals, securityRules)
}

func EvaluatePerformance(signals *PerformanceSignals) CategoryResult {
	if signals == nil {
		return fallbackResult(CategoryPerformance, "Performance data unavailable; speed measurement did not complete")
	}
	return applyRules(CategoryPerformance, *signals, performanceRules)
}

func EvaluateSEO(signals *SEOSignals) CategoryResult {
	if signals == nil {
		return fallbackResult(CategorySEO, "SEO data unavailable; page analysis did not complete")
	}
	return applyRules(CategorySEO, *signals, seoRules)
}

func EvaluateMobile(signals *MobileSignals) CategoryResult {
	if signals == nil {
		return fallbackResult(CategoryMobile, "Mobile data unavailable; responsive analysis did not complete")
	}
	return applyRules(CategoryMobile, *signals, mobileRules)
}

func EvaluateContent(signals *ContentSignals) CategoryResult {
	if signals == nil {
		return fallbackResult(CategoryContent, "Content data unavailable; page analysis did not complete")
	}
	return applyRules(CategoryContent, *signals, contentRules)
}

func EvaluateUIUX(signals *UIUXSignals) CategoryResult {
	if signals == nil {
		return fallbackResult(CategoryUIUX, "User experience data unavailable; page analysis did not complete")
	}
	return applyRules(CategoryUIUX, *signals, uiuxRules)
}
