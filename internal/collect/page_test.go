package collect

import "testing"

const fixtureHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<title>North Pier Cafe - Fresh Coffee on the Waterfront</title>
<meta name="description" content="Family-run waterfront cafe serving fresh roasted coffee, breakfast, and lunch daily. Visit us on the north pier for the best views in town.">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta property="og:title" content="North Pier Cafe">
<link rel="canonical" href="https://northpier.example/">
<link rel="icon" href="/favicon.ico">
<script type="application/ld+json">{"@context":"https://schema.org","@type":"Cafe"}</script>
<style>@media (max-width: 600px) { body { font-size: 14px; } }</style>
</head>
<body>
<nav><a href="/menu">Menu</a><a href="/about">About</a><a href="/contact">Contact</a></nav>
<h1>Welcome to North Pier Cafe</h1>
<h2>Breakfast all day</h2>
<p>We roast our own beans and bake everything in house. Open since 2024,
we serve the waterfront community seven days a week with fresh coffee,
pastries, and a full breakfast and lunch menu.</p>
<img src="/img/storefront.jpg" alt="Cafe storefront">
<img src="/img/coffee.jpg" alt="Fresh espresso">
<form action="/subscribe"><button>Sign up</button></form>
<a href="tel:+15551234567">Call us: (555) 123-4567</a>
<footer><p>Powered by wp-content themes</p></footer>
</body>
</html>`

func TestParsePageExtractsSignals(t *testing.T) {
	result, err := ParsePage("https://northpier.example/", fixtureHTML)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	seo := result.SEO
	if seo.TitleLength < 30 || seo.TitleLength > 60 {
		t.Fatalf("expected title in display range, got %d", seo.TitleLength)
	}
	if seo.MetaDescLength < 70 || seo.MetaDescLength > 160 {
		t.Fatalf("expected meta description in display range, got %d", seo.MetaDescLength)
	}
	if seo.H1Count != 1 {
		t.Fatalf("expected one H1, got %d", seo.H1Count)
	}
	if !seo.HeadingOrderValid {
		t.Fatal("h1 then h2 is a valid heading order")
	}
	if !seo.Canonical || !seo.SchemaMarkup || !seo.OpenGraph || !seo.HTMLLang {
		t.Fatalf("missing head signals: %+v", seo)
	}
	if !seo.RobotsAllowed {
		t.Fatal("no robots meta means indexing is allowed")
	}
	if seo.ImageCount != 2 || seo.ImageAltRatio != 1 {
		t.Fatalf("expected 2 images with full alt coverage, got count=%d ratio=%v", seo.ImageCount, seo.ImageAltRatio)
	}
	if seo.InternalLinks < 3 {
		t.Fatalf("expected at least 3 internal links, got %d", seo.InternalLinks)
	}

	mobile := result.Mobile
	if !mobile.Viewport || !mobile.ResponsiveHints {
		t.Fatalf("expected viewport and responsive hints: %+v", mobile)
	}

	content := result.Content
	if content.WordCount < 30 {
		t.Fatalf("expected meaningful word count, got %d", content.WordCount)
	}
	if !content.ContactInfo {
		t.Fatal("tel: link should mark contact info present")
	}
	if !content.Freshness {
		t.Fatal("a recent year in the copy should mark freshness")
	}
	if !content.Multimedia {
		t.Fatal("images should mark multimedia present")
	}

	uiux := result.UIUX
	if !uiux.NavPresent || !uiux.FormPresent || !uiux.FooterPresent || !uiux.FaviconPresent {
		t.Fatalf("missing structural elements: %+v", uiux)
	}
	if !uiux.CTAPresent {
		t.Fatal("sign up button should count as a call to action")
	}
	if uiux.BrokenAnchors != 0 {
		t.Fatalf("expected no broken anchors, got %d", uiux.BrokenAnchors)
	}

	if result.Platform != "WordPress" {
		t.Fatalf("wp-content marker should detect WordPress, got %q", result.Platform)
	}
	if result.MixedCount != 0 {
		t.Fatalf("expected no mixed content, got %d", result.MixedCount)
	}
}

func TestParsePageBareDocument(t *testing.T) {
	result, err := ParsePage("https://bare.example/", "<html><body><a href='#'>click</a><h3>stray</h3></body></html>")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if result.SEO.TitleLength != 0 || result.SEO.H1Count != 0 {
		t.Fatalf("expected empty SEO signals, got %+v", result.SEO)
	}
	if result.SEO.HeadingOrderValid {
		t.Fatal("jumping straight to h3 skips levels")
	}
	if result.Mobile.Viewport {
		t.Fatal("no viewport meta present")
	}
	if result.UIUX.BrokenAnchors != 1 {
		t.Fatalf("bare # anchor should count as broken, got %d", result.UIUX.BrokenAnchors)
	}
	if result.Platform != "" {
		t.Fatalf("no platform markers present, got %q", result.Platform)
	}
}

func TestParsePageMixedContent(t *testing.T) {
	page := `<html><head><title>t</title></head><body>
<img src="http://cdn.example/pic.jpg" alt="x">
<script src="http://cdn.example/app.js"></script>
</body></html>`
	result, err := ParsePage("https://secure.example/", page)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if result.MixedCount != 2 {
		t.Fatalf("expected 2 insecure resources, got %d", result.MixedCount)
	}
}

func TestDetectPlatformOrder(t *testing.T) {
	cases := []struct {
		html string
		want string
	}{
		{`<script src="https://cdn.shopify.com/s/app.js"></script>`, "Shopify"},
		{`<link href="https://static.wixstatic.com/x.css">`, "Wix"},
		{`<img src="https://images.squarespace-cdn.com/x.jpg">`, "Squarespace"},
		{`<div>plain html</div>`, ""},
	}
	for _, tc := range cases {
		if got := DetectPlatform(tc.html); got != tc.want {
			t.Fatalf("DetectPlatform(%q) = %q, want %q", tc.html, got, tc.want)
		}
	}
}

func TestHeadingOrderValid(t *testing.T) {
	cases := []struct {
		seq  []int
		want bool
	}{
		{[]int{1, 2, 3}, true},
		{[]int{1, 3}, false},
		{[]int{2, 1, 2}, false},
		{nil, true},
	}
	for _, tc := range cases {
		if got := headingOrderValid(tc.seq); got != tc.want {
			t.Fatalf("headingOrderValid(%v) = %v, want %v", tc.seq, got, tc.want)
		}
	}
}
