package audit

// RawSignals is the engine input. Every group is optional: a nil group
// means the corresponding collector did not run or failed, and the
// evaluator substitutes its neutral fallback. Collectors supply or
// omit a group; they never partially fill one.
type RawSignals struct {
	Security    *SecuritySignals    `json:"security,omitempty"`
	Performance *PerformanceSignals `json:"performance,omitempty"`
	SEO         *SEOSignals         `json:"seo,omitempty"`
	Mobile      *MobileSignals      `json:"mobile,omitempty"`
	Content     *ContentSignals     `json:"content,omitempty"`
	UIUX        *UIUXSignals        `json:"uiux,omitempty"`
	Platform    string              `json:"platform,omitempty"`
}

// SecuritySignals comes from the TLS probe and the page response headers.
type SecuritySignals struct {
	HTTPS               bool `json:"https"`
	CertValid           bool `json:"cert_valid"`
	CertExpiryDays      int  `json:"cert_expiry_days"`
	RedirectsToHTTPS    bool `json:"redirects_to_https"`
	HSTS                bool `json:"hsts"`
	XFrameOptions       bool `json:"x_frame_options"`
	XContentTypeOptions bool `json:"x_content_type_options"`
	CSP                 bool `json:"csp"`
	XXSSProtection      bool `json:"x_xss_protection"`
	MixedContentCount   int  `json:"mixed_content_count"`
}

// PerformanceSignals comes from the PageSpeed collector. LabScore is
// the 0-100 lighthouse performance score; timing metrics are
// milliseconds except CLS which is unitless.
type PerformanceSignals struct {
	LabScore            int     `json:"lab_score"`
	FirstContentfulMS   float64 `json:"first_contentful_ms"`
	LargestContentfulMS float64 `json:"largest_contentful_ms"`
	CumulativeShift     float64 `json:"cumulative_shift"`
	TotalBlockingMS     float64 `json:"total_blocking_ms"`
	SpeedIndexMS        float64 `json:"speed_index_ms"`
}

// SEOSignals comes from the page parse.
type SEOSignals struct {
	TitleLength       int     `json:"title_length"`
	MetaDescLength    int     `json:"meta_desc_length"`
	H1Count           int     `json:"h1_count"`
	HeadingOrderValid bool    `json:"heading_order_valid"`
	Canonical         bool    `json:"canonical"`
	RobotsAllowed     bool    `json:"robots_allowed"`
	OpenGraph         bool    `json:"open_graph"`
	TwitterCard       bool    `json:"twitter_card"`
	SchemaMarkup      bool    `json:"schema_markup"`
	HTMLLang          bool    `json:"html_lang"`
	InternalLinks     int     `json:"internal_links"`
	ImageAltRatio     float64 `json:"image_alt_ratio"`
	ImageCount        int     `json:"image_count"`
}

// MobileSignals comes from the page parse plus PageSpeed mobile run.
type MobileSignals struct {
	Viewport         bool `json:"viewport"`
	ResponsiveHints  bool `json:"responsive_hints"`
	TapTargetsOK     bool `json:"tap_targets_ok"`
	FontLegible      bool `json:"font_legible"`
	HorizontalScroll bool `json:"horizontal_scroll"`
}

// ContentSignals comes from the page parse.
type ContentSignals struct {
	WordCount      int  `json:"word_count"`
	ParagraphCount int  `json:"paragraph_count"`
	ContactInfo    bool `json:"contact_info"`
	Freshness      bool `json:"freshness"`
	Multimedia     bool `json:"multimedia"`
}

// UIUXSignals comes from the page parse.
type UIUXSignals struct {
	NavPresent     bool `json:"nav_present"`
	CTAPresent     bool `json:"cta_present"`
	FormPresent    bool `json:"form_present"`
	FaviconPresent bool `json:"favicon_present"`
	FooterPresent  bool `json:"footer_present"`
	BrokenAnchors  int  `json:"broken_anchors"`
	PopupOverlay   bool `json:"popup_overlay"`
}
