package audit

import "strings"

// WeightProfile maps each category to its percentage weight.
// Every registered profile sums to exactly 100.
type WeightProfile map[Category]int

// Website types with a dedicated weight profile. Unknown or empty
// types resolve to the default profile.
const (
	TypeLandingPage  = "landing-page"
	TypeWebsite      = "website"
	TypeLargeWebsite = "large-website"
	TypeECommerce    = "e-commerce"
	TypeBlog         = "blog"
	TypePortfolio    = "portfolio"
	TypeSearchEngine = "search-engine"
	TypeWebApp       = "web-app"
	TypeCorporate    = "corporate"
	TypeDefault      = "default"
)

var weightProfiles = map[string]WeightProfile{
	TypeLandingPage: {
		CategorySecurity:    15,
		CategoryPerformance: 20,
		CategorySEO:         25,
		CategoryMobile:      15,
		CategoryContent:     5,
		CategoryUIUX:        20,
	},
	TypeWebsite: {
		CategorySecurity:    15,
		CategoryPerformance: 20,
		CategorySEO:         20,
		CategoryMobile:      20,
		CategoryContent:     10,
		CategoryUIUX:        15,
	},
	TypeLargeWebsite: {
		CategorySecurity:    15,
		CategoryPerformance: 25,
		CategorySEO:         25,
		CategoryMobile:      15,
		CategoryContent:     10,
		CategoryUIUX:        10,
	},
	TypeECommerce: {
		CategorySecurity:    25,
		CategoryPerformance: 20,
		CategorySEO:         15,
		CategoryMobile:      15,
		CategoryContent:     5,
		CategoryUIUX:        20,
	},
	TypeBlog: {
		CategorySecurity:    10,
		CategoryPerformance: 15,
		CategorySEO:         35,
		CategoryMobile:      20,
		CategoryContent:     10,
		CategoryUIUX:        10,
	},
	TypePortfolio: {
		CategorySecurity:    10,
		CategoryPerformance: 20,
		CategorySEO:         10,
		CategoryMobile:      20,
		CategoryContent:     10,
		CategoryUIUX:        30,
	},
	TypeSearchEngine: {
		CategorySecurity:    25,
		CategoryPerformance: 40,
		CategorySEO:         5,
		CategoryMobile:      20,
		CategoryContent:     5,
		CategoryUIUX:        5,
	},
	TypeWebApp: {
		CategorySecurity:    20,
		CategoryPerformance: 35,
		CategorySEO:         5,
		CategoryMobile:      25,
		CategoryContent:     5,
		CategoryUIUX:        10,
	},
	TypeCorporate: {
		CategorySecurity:    20,
		CategoryPerformance: 20,
		CategorySEO:         30,
		CategoryMobile:      15,
		CategoryContent:     10,
		CategoryUIUX:        5,
	},
	TypeDefault: {
		CategorySecurity:    17,
		CategoryPerformance: 17,
		CategorySEO:         17,
		CategoryMobile:      17,
		CategoryContent:     16,
		CategoryUIUX:        16,
	},
}

// ResolveWeights returns the weight profile for a website type. The
// lookup is case-insensitive and tolerates surrounding whitespace;
// unknown types get the default profile. The returned map is a copy.
func ResolveWeights(websiteType string) WeightProfile {
	key := strings.ToLower(strings.TrimSpace(websiteType))
	profile, ok := weightProfiles[key]
	if !ok {
		profile = weightProfiles[TypeDefault]
	}
	out := make(WeightProfile, len(profile))
	for category, weight := range profile {
		out[category] = weight
	}
	return out
}

// NormalizeWebsiteType returns the canonical type key that
// ResolveWeights would use, so stored audits record what was applied.
func NormalizeWebsiteType(websiteType string) string {
	key := strings.ToLower(strings.TrimSpace(websiteType))
	if _, ok := weightProfiles[key]; ok {
		return key
	}
	return TypeDefault
}

// WebsiteTypes lists every type with a dedicated profile, default last.
func WebsiteTypes() []string {
	return []string{
		TypeLandingPage,
		TypeWebsite,
		TypeLargeWebsite,
		TypeECommerce,
		TypeBlog,
		TypePortfolio,
		TypeSearchEngine,
		TypeWebApp,
		TypeCorporate,
		TypeDefault,
	}
}
