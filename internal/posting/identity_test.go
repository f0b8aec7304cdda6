package posting

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func decimalFromInt(i int64) decimal.Decimal { return decimal.NewFromInt(i) }

func strptr(s string) *string { return &s }

func f64ptr(f float64) *float64 { return &f }

func TestComputeIdentityDeterministicAndCaseInsensitive(t *testing.T) {
	t.Parallel()

	a := ComputeIdentity("A", "T", "C", "Cty", "US")
	b := ComputeIdentity("a", "t", "c", "cty", "us")
	if a != b {
		t.Fatalf("expected case-folded identities to match: %s != %s", a, b)
	}
	if a != ComputeIdentity("A", "T", "C", "Cty", "US") {
		t.Fatalf("expected identity to be deterministic")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64-char hex digest, got %d chars", len(a))
	}
}

func TestComputeIdentityDistinguishesFields(t *testing.T) {
	t.Parallel()

	base := ComputeIdentity("adzuna", "engineer", "acme", "paris", "fr")
	if base == ComputeIdentity("adzuna", "engineer", "acme", "paris", "de") {
		t.Fatalf("expected country change to alter identity")
	}
	if base == ComputeIdentity("jooble", "engineer", "acme", "paris", "fr") {
		t.Fatalf("expected source change to alter identity")
	}
}

func TestSelectApplyURLPriorityOrder(t *testing.T) {
	t.Parallel()

	got := SelectApplyURL(nil, strptr("https://redirect"), strptr("https://employer"), strptr("https://listing"))
	if got == nil || *got != "https://redirect" {
		t.Fatalf("expected redirect link, got %v", got)
	}

	got = SelectApplyURL(strptr("https://apply"), strptr("https://redirect"), nil, nil)
	if got == nil || *got != "https://apply" {
		t.Fatalf("expected direct apply link to win, got %v", got)
	}

	if got := SelectApplyURL(nil, nil, nil, nil); got != nil {
		t.Fatalf("expected nil when no candidate present, got %v", got)
	}
	if got := SelectApplyURL(strptr("  "), nil); got != nil {
		t.Fatalf("expected blank candidate to be skipped, got %v", got)
	}
}

func TestComputeQualityBounds(t *testing.T) {
	t.Parallel()

	if got := ComputeQuality(nil, nil, nil, nil, nil); got != 0 {
		t.Fatalf("expected empty posting to score 0, got %d", got)
	}
	if got := ComputeQuality(strptr("http://x"), f64ptr(100), nil, strptr("Acme"), strptr("NYC")); got != 100 {
		t.Fatalf("expected full posting to score 100, got %d", got)
	}
}

func TestComputeQualityMonotonic(t *testing.T) {
	t.Parallel()

	base := ComputeQuality(nil, nil, nil, nil, nil)

	cases := []int{
		ComputeQuality(strptr("http://x"), nil, nil, nil, nil),
		ComputeQuality(nil, f64ptr(10), nil, nil, nil),
		ComputeQuality(nil, nil, f64ptr(20), nil, nil),
		ComputeQuality(nil, nil, nil, strptr("Acme"), nil),
		ComputeQuality(nil, nil, nil, nil, strptr("NYC")),
	}
	for i, got := range cases {
		if got <= base {
			t.Fatalf("case %d: expected adding a signal to increase score, got %d", i, got)
		}
	}
}

func TestFromRawDerivation(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	raw := Raw{
		Source:      "adzuna",
		Title:       strptr("Software Engineer"),
		Company:     strptr("Acme"),
		City:        strptr("Paris"),
		Country:     strptr("FR"),
		Description: strptr(strings.Repeat("x", 600)),
		RedirectURL: strptr("https://redirect"),
		SalaryMin:   f64ptr(50000),
	}

	p := FromRaw(raw, now)

	if p.PostingID != ComputeIdentity("adzuna", "Software Engineer", "Acme", "Paris", "FR") {
		t.Fatalf("unexpected posting id: %s", p.PostingID)
	}
	if p.ApplyURL == nil || *p.ApplyURL != "https://redirect" {
		t.Fatalf("expected redirect url to be selected, got %v", p.ApplyURL)
	}
	if len([]rune(p.Description)) != 500 {
		t.Fatalf("expected description truncated to 500 runes, got %d", len([]rune(p.Description)))
	}
	if p.Location != "Paris, FR" {
		t.Fatalf("unexpected location: %q", p.Location)
	}
	if p.QualityScore != 100 {
		t.Fatalf("expected full quality score, got %d", p.QualityScore)
	}
	if p.SalaryMin == nil || !p.SalaryMin.Equal(decimalFromInt(50000)) {
		t.Fatalf("unexpected salary_min: %v", p.SalaryMin)
	}
	if p.SalaryMax != nil {
		t.Fatalf("expected nil salary_max, got %v", p.SalaryMax)
	}
}

func TestFromRawLocationWithoutCity(t *testing.T) {
	t.Parallel()

	p := FromRaw(Raw{Source: "adzuna", Country: strptr("GB")}, time.Now())
	if p.Location != "GB" {
		t.Fatalf("expected bare country location, got %q", p.Location)
	}
}
