// Package collect gathers raw audit signals for a URL. Each collector
// either fills its signal group or leaves it nil; none of them fail
// the audit.
package collect

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"site-audit/internal/audit"
)

const (
	pageUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) SiteAuditBot/1.0"
	maxPageBytes    = 4 << 20
	pageFetchWindow = 15 * time.Second
)

// PageResult carries every signal group derived from a single page
// fetch, plus the response facts the security probe consumes.
type PageResult struct {
	FinalURL   string
	StatusCode int
	Headers    http.Header
	SEO        *audit.SEOSignals
	Mobile     *audit.MobileSignals
	Content    *audit.ContentSignals
	UIUX       *audit.UIUXSignals
	Platform   string
	MixedCount int
}

// PageCollector fetches one page and parses it into signal groups.
type PageCollector struct {
	client *http.Client
}

func NewPageCollector(timeout time.Duration) *PageCollector {
	if timeout <= 0 {
		timeout = pageFetchWindow
	}
	return &PageCollector{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the page and extracts signals. Redirects are
// followed; the final URL is reported so callers can detect an
// HTTP to HTTPS upgrade.
func (c *PageCollector) Fetch(ctx context.Context, rawURL string) (*PageResult, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build page request: %w", err)
	}
	request.Header.Set("User-Agent", pageUserAgent)
	request.Header.Set("Accept", "text/html,application/xhtml+xml")

	response, err := c.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read page body: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 400 {
		return nil, fmt.Errorf("page status %d", response.StatusCode)
	}

	finalURL := rawURL
	if response.Request != nil && response.Request.URL != nil {
		finalURL = response.Request.URL.String()
	}

	result, err := ParsePage(finalURL, string(body))
	if err != nil {
		return nil, err
	}
	result.StatusCode = response.StatusCode
	result.Headers = response.Header.Clone()
	return result, nil
}

// platformMarker matches a hosting platform by substrings in the raw
// HTML. First match wins; markers are ordered most to least specific.
type platformMarker struct {
	Name    string
	Needles []string
}

var platformMarkers = []platformMarker{
	{"GoDaddy Website Builder", []string{"websites.godaddy.com", "godaddy.com/websites", "airo.com"}},
	{"Wix", []string{"wix.com", "wixstatic.com", "wixsite.com"}},
	{"Squarespace", []string{"squarespace.com", "sqsp.net", "squarespace-cdn"}},
	{"Weebly", []string{"weebly.com", "weeblycloud"}},
	{"Shopify", []string{"cdn.shopify.com", "myshopify.com", "shopify.com"}},
	{"Webflow", []string{"webflow.com", "webflow.io", "assets-global.website-files"}},
	{"WordPress", []string{"wp-content", "wp-includes", "wordpress"}},
}

// DetectPlatform identifies the hosting platform from raw HTML.
// Returns the empty string when nothing matches.
func DetectPlatform(rawHTML string) string {
	lower := strings.ToLower(rawHTML)
	for _, marker := range platformMarkers {
		for _, needle := range marker.Needles {
			if strings.Contains(lower, needle) {
				return marker.Name
			}
		}
	}
	return ""
}

type pageScan struct {
	title            string
	metaDesc         string
	h1Count          int
	headingSequence  []int
	canonical        bool
	robotsNoindex    bool
	openGraph        bool
	twitterCard      bool
	schemaMarkup     bool
	htmlLang         bool
	viewport         bool
	viewportContent  string
	favicon          bool
	navCount         int
	footerCount      int
	formCount        int
	ctaCount         int
	imageCount       int
	imageAltCount    int
	internalLinks    int
	emptyAnchors     int
	textWords        int
	paragraphCount   int
	mediaCount       int
	styleBlocks      []string
	insecureResource int
	contactHit       bool
	dateHit          bool
	popupHit         bool
}

var (
	phonePattern = regexp.MustCompile(`(?:\+?\d{1,2}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	yearPattern  = regexp.MustCompile(`20(2[3-9]|[3-9]\d)`)
)

var ctaWords = []string{
	"contact us", "get started", "sign up", "book now", "buy now",
	"subscribe", "request a quote", "schedule", "learn more", "shop now",
	"get a quote", "call now", "free trial", "add to cart",
}

// ParsePage extracts signal groups from an HTML document. Exported so
// tests can drive it with fixtures without a network fetch.
func ParsePage(pageURL, rawHTML string) (*PageResult, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	scan := &pageScan{}
	walk(doc, parsed, scan)

	lowerHTML := strings.ToLower(rawHTML)
	scan.contactHit = scan.contactHit ||
		phonePattern.MatchString(rawHTML) ||
		emailPattern.MatchString(rawHTML) ||
		strings.Contains(lowerHTML, "contact")
	scan.dateHit = scan.dateHit || yearPattern.MatchString(rawHTML)
	scan.popupHit = scan.popupHit ||
		strings.Contains(lowerHTML, "modal-backdrop") ||
		strings.Contains(lowerHTML, "popup-overlay")

	result := &PageResult{
		FinalURL:   pageURL,
		Platform:   DetectPlatform(rawHTML),
		MixedCount: scan.insecureResource,
		SEO: &audit.SEOSignals{
			TitleLength:       len(strings.TrimSpace(scan.title)),
			MetaDescLength:    len(strings.TrimSpace(scan.metaDesc)),
			H1Count:           scan.h1Count,
			HeadingOrderValid: headingOrderValid(scan.headingSequence),
			Canonical:         scan.canonical,
			RobotsAllowed:     !scan.robotsNoindex,
			OpenGraph:         scan.openGraph,
			TwitterCard:       scan.twitterCard,
			SchemaMarkup:      scan.schemaMarkup,
			HTMLLang:          scan.htmlLang,
			InternalLinks:     scan.internalLinks,
			ImageAltRatio:     altRatio(scan.imageAltCount, scan.imageCount),
			ImageCount:        scan.imageCount,
		},
		Mobile: &audit.MobileSignals{
			Viewport:        scan.viewport,
			ResponsiveHints: responsiveHints(scan, lowerHTML),
			// Static HTML cannot measure rendered tap targets or
			// font size; assume acceptable unless a renderer says
			// otherwise.
			TapTargetsOK: true,
			FontLegible:  true,
		},
		Content: &audit.ContentSignals{
			WordCount:      scan.textWords,
			ParagraphCount: scan.paragraphCount,
			ContactInfo:    scan.contactHit,
			Freshness:      scan.dateHit,
			Multimedia:     scan.imageCount > 0 || scan.mediaCount > 0,
		},
		UIUX: &audit.UIUXSignals{
			NavPresent:     scan.navCount > 0,
			CTAPresent:     scan.ctaCount > 0,
			FormPresent:    scan.formCount > 0,
			FaviconPresent: scan.favicon,
			FooterPresent:  scan.footerCount > 0,
			BrokenAnchors:  scan.emptyAnchors,
			PopupOverlay:   scan.popupHit,
		},
	}
	return result, nil
}

func walk(node *html.Node, pageURL *url.URL, scan *pageScan) {
	if node.Type == html.ElementNode {
		inspectElement(node, pageURL, scan)
	}
	if node.Type == html.TextNode {
		words := strings.Fields(node.Data)
		scan.textWords += len(words)
		lower := strings.ToLower(node.Data)
		for _, cta := range ctaWords {
			if strings.Contains(lower, cta) {
				scan.ctaCount++
				break
			}
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		// Script and style text is not page copy.
		if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
			if node.Data == "style" && child.Type == html.TextNode {
				scan.styleBlocks = append(scan.styleBlocks, child.Data)
			}
			if node.Data == "script" && child.Type == html.TextNode &&
				strings.Contains(child.Data, "schema.org") {
				scan.schemaMarkup = true
			}
			continue
		}
		walk(child, pageURL, scan)
	}
}

func inspectElement(node *html.Node, pageURL *url.URL, scan *pageScan) {
	attrs := map[string]string{}
	for _, a := range node.Attr {
		attrs[strings.ToLower(a.Key)] = a.Val
	}
	switch node.Data {
	case "html":
		if strings.TrimSpace(attrs["lang"]) != "" {
			scan.htmlLang = true
		}
	case "title":
		if node.FirstChild != nil && node.FirstChild.Type == html.TextNode {
			scan.title = node.FirstChild.Data
		}
	case "meta":
		name := strings.ToLower(attrs["name"])
		property := strings.ToLower(attrs["property"])
		content := attrs["content"]
		switch {
		case name == "description":
			scan.metaDesc = content
		case name == "viewport":
			scan.viewport = true
			scan.viewportContent = content
		case name == "robots" && strings.Contains(strings.ToLower(content), "noindex"):
			scan.robotsNoindex = true
		case strings.HasPrefix(property, "og:"):
			scan.openGraph = true
		case strings.HasPrefix(name, "twitter:"):
			scan.twitterCard = true
		}
	case "link":
		rel := strings.ToLower(attrs["rel"])
		switch {
		case rel == "canonical":
			scan.canonical = true
		case strings.Contains(rel, "icon"):
			scan.favicon = true
		}
		if pageURL.Scheme == "https" && strings.HasPrefix(attrs["href"], "http://") {
			scan.insecureResource++
		}
	case "h1":
		scan.h1Count++
		scan.headingSequence = append(scan.headingSequence, 1)
	case "h2":
		scan.headingSequence = append(scan.headingSequence, 2)
	case "h3":
		scan.headingSequence = append(scan.headingSequence, 3)
	case "h4":
		scan.headingSequence = append(scan.headingSequence, 4)
	case "h5":
		scan.headingSequence = append(scan.headingSequence, 5)
	case "h6":
		scan.headingSequence = append(scan.headingSequence, 6)
	case "nav":
		scan.navCount++
	case "footer":
		scan.footerCount++
	case "form":
		scan.formCount++
	case "p":
		scan.paragraphCount++
	case "video", "audio", "iframe":
		scan.mediaCount++
		if pageURL.Scheme == "https" && strings.HasPrefix(attrs["src"], "http://") {
			scan.insecureResource++
		}
	case "img":
		scan.imageCount++
		if strings.TrimSpace(attrs["alt"]) != "" {
			scan.imageAltCount++
		}
		if pageURL.Scheme == "https" && strings.HasPrefix(attrs["src"], "http://") {
			scan.insecureResource++
		}
	case "script":
		if pageURL.Scheme == "https" && strings.HasPrefix(attrs["src"], "http://") {
			scan.insecureResource++
		}
		if strings.Contains(strings.ToLower(attrs["type"]), "ld+json") {
			scan.schemaMarkup = true
		}
	case "a":
		href := strings.TrimSpace(attrs["href"])
		switch {
		case href == "" || href == "#":
			scan.emptyAnchors++
		case strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "mailto:"):
			scan.contactHit = true
		default:
			if isInternalLink(href, pageURL) {
				scan.internalLinks++
			}
		}
		if strings.HasPrefix(strings.ToLower(buttonText(node)), "get started") {
			scan.ctaCount++
		}
	case "button":
		lower := strings.ToLower(buttonText(node))
		for _, cta := range ctaWords {
			if strings.Contains(lower, cta) {
				scan.ctaCount++
				break
			}
		}
	}
	if class, ok := attrs["class"]; ok {
		lower := strings.ToLower(class)
		if strings.Contains(lower, "popup") || strings.Contains(lower, "modal") {
			scan.popupHit = true
		}
	}
}

func buttonText(node *html.Node) string {
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			b.WriteString(child.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

func isInternalLink(href string, pageURL *url.URL) bool {
	ref, err := url.Parse(href)
	if err != nil {
		return false
	}
	if ref.Host == "" {
		return ref.Path != ""
	}
	return strings.EqualFold(ref.Host, pageURL.Host)
}

// headingOrderValid reports whether the hierarchy starts at h1 and
// never skips more than one level on the way down.
func headingOrderValid(sequence []int) bool {
	previous := 0
	for _, level := range sequence {
		if level > previous+1 {
			return false
		}
		previous = level
	}
	return true
}

func altRatio(withAlt, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(withAlt) / float64(total)
}

func responsiveHints(scan *pageScan, lowerHTML string) bool {
	if !scan.viewport {
		return false
	}
	if strings.Contains(strings.ToLower(scan.viewportContent), "width=device-width") {
		return true
	}
	for _, block := range scan.styleBlocks {
		if strings.Contains(block, "@media") {
			return true
		}
	}
	return strings.Contains(lowerHTML, "@media")
}
