package audit

import "testing"

func TestWeightProfilesSumToHundred(t *testing.T) {
	for _, websiteType := range WebsiteTypes() {
		weights := ResolveWeights(websiteType)
		sum := 0
		for _, w := range weights {
			sum += w
		}
		if sum != 100 {
			t.Fatalf("%s: weights sum to %d, want 100", websiteType, sum)
		}
		if len(weights) != len(Categories()) {
			t.Fatalf("%s: profile covers %d categories, want %d", websiteType, len(weights), len(Categories()))
		}
	}
}

func TestResolveWeightsUnknownType(t *testing.T) {
	unknown := ResolveWeights("spaceship")
	fallback := ResolveWeights(TypeDefault)
	for category, weight := range fallback {
		if unknown[category] != weight {
			t.Fatalf("unknown type should resolve to default profile, differs at %s", category)
		}
	}
	if NormalizeWebsiteType("  E-Commerce ") != TypeECommerce {
		t.Fatal("type lookup should be case-insensitive and trimmed")
	}
	if NormalizeWebsiteType("spaceship") != TypeDefault {
		t.Fatal("unknown type should normalize to default")
	}
}

func TestResolveWeightsReturnsCopy(t *testing.T) {
	first := ResolveWeights(TypeBlog)
	first[CategorySEO] = 0
	second := ResolveWeights(TypeBlog)
	if second[CategorySEO] != 35 {
		t.Fatal("mutating a resolved profile must not affect later lookups")
	}
}

func TestGradeThresholds(t *testing.T) {
	cases := []struct {
		score int
		want  Grade
	}{
		{100, GradeAPlus},
		{93, GradeAPlus},
		{92, GradeA},
		{87, GradeA},
		{86, GradeAMinus},
		{80, GradeAMinus},
		{79, GradeB},
		{73, GradeB},
		{72, GradeC},
		{67, GradeC},
		{66, GradeD},
		{60, GradeD},
		{59, GradeF},
		{0, GradeF},
	}
	for _, tc := range cases {
		if got := GradeFor(tc.score); got != tc.want {
			t.Fatalf("GradeFor(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestComputeCompositeRoundsHalfUp(t *testing.T) {
	// e-commerce: security 25 at weight 25, everything else 70.
	// (25*25 + 70*75) / 100 = 58.75 -> 59.
	results := map[Category]CategoryResult{}
	for _, category := range Categories() {
		score := 70
		if category == CategorySecurity {
			score = 25
		}
		results[category] = CategoryResult{Category: category, Score: score}
	}
	composite := ComputeComposite(results, ResolveWeights(TypeECommerce))
	if composite.Overall != 59 {
		t.Fatalf("expected 59, got %d", composite.Overall)
	}
	if composite.Grade != GradeF {
		t.Fatalf("expected grade F, got %s", composite.Grade)
	}
}

func TestComputeCompositeUniformScore(t *testing.T) {
	results := map[Category]CategoryResult{}
	for _, category := range Categories() {
		results[category] = CategoryResult{Category: category, Score: 95}
	}
	composite := ComputeComposite(results, ResolveWeights(TypePortfolio))
	if composite.Overall != 95 {
		t.Fatalf("uniform 95 across categories must compose to 95, got %d", composite.Overall)
	}
	if composite.Grade != GradeAPlus {
		t.Fatalf("expected A+, got %s", composite.Grade)
	}
}

func TestComputeCompositeMissingCategoryNeutral(t *testing.T) {
	results := map[Category]CategoryResult{}
	for _, category := range Categories() {
		if category == CategoryContent {
			continue
		}
		results[category] = CategoryResult{Category: category, Score: 90}
	}
	composite := ComputeComposite(results, ResolveWeights(TypeWebsite))
	entry, ok := composite.Breakdown[CategoryContent]
	if !ok {
		t.Fatal("missing category must still appear in the breakdown")
	}
	if entry.Score != neutralScore || !entry.Fallback {
		t.Fatalf("missing category must contribute neutral %d and be flagged, got %+v", neutralScore, entry)
	}
	// website: content weight 10 -> (90*90 + 50*10)/100 = 86.
	if composite.Overall != 86 {
		t.Fatalf("expected 86, got %d", composite.Overall)
	}
}

func TestComputeCompositeBreakdownCoversAllWeights(t *testing.T) {
	results := map[Category]CategoryResult{
		CategorySecurity: {Category: CategorySecurity, Score: 100},
	}
	composite := ComputeComposite(results, ResolveWeights(TypeDefault))
	if len(composite.Breakdown) != len(Categories()) {
		t.Fatalf("breakdown has %d entries, want %d", len(composite.Breakdown), len(Categories()))
	}
}

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{58.75, 59},
		{58.5, 59},
		{58.49, 58},
		{0.5, 1},
		{0.49, 0},
	}
	for _, tc := range cases {
		if got := roundHalfUp(tc.in); got != tc.want {
			t.Fatalf("roundHalfUp(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
