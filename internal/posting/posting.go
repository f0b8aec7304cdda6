// Package posting holds the job-posting domain model: the raw record shape
// produced by source fetchers, the persisted Posting entity, and the pure
// identity/quality functions that derive its key and completeness score.
package posting

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const maxDescriptionRunes = 500

// Raw is a posting as delivered by a source fetcher. Any field except Source
// may be absent.
type Raw struct {
	Source      string
	Title       *string
	Company     *string
	City        *string
	Country     *string
	Description *string
	ApplyURL    *string
	RedirectURL *string
	CompanyURL  *string
	URL         *string
	SalaryMin   *float64
	SalaryMax   *float64
	Lat         *float64
	Lng         *float64
}

// Posting is the persisted entity. Immutable once stored.
type Posting struct {
	PostingID    string
	Source       string
	Title        string
	Company      *string
	City         *string
	Country      *string
	Location     string
	Description  string
	ApplyURL     *string
	SalaryMin    *decimal.Decimal
	SalaryMax    *decimal.Decimal
	Lat          *decimal.Decimal
	Lng          *decimal.Decimal
	QualityScore int
	CreatedAt    time.Time
}

// FromRaw derives the persisted entity from a raw source record: identity
// hash, apply-url selection, quality score, location string, truncated
// description.
func FromRaw(raw Raw, now time.Time) Posting {
	applyURL := SelectApplyURL(raw.ApplyURL, raw.RedirectURL, raw.CompanyURL, raw.URL)

	return Posting{
		PostingID:    ComputeIdentity(raw.Source, deref(raw.Title), deref(raw.Company), deref(raw.City), deref(raw.Country)),
		Source:       raw.Source,
		Title:        deref(raw.Title),
		Company:      raw.Company,
		City:         raw.City,
		Country:      raw.Country,
		Location:     formatLocation(raw.City, raw.Country),
		Description:  truncateDescription(deref(raw.Description)),
		ApplyURL:     applyURL,
		SalaryMin:    toDecimal(raw.SalaryMin),
		SalaryMax:    toDecimal(raw.SalaryMax),
		Lat:          toDecimal(raw.Lat),
		Lng:          toDecimal(raw.Lng),
		QualityScore: ComputeQuality(applyURL, raw.SalaryMin, raw.SalaryMax, raw.Company, raw.City),
		CreatedAt:    now.UTC(),
	}
}

func formatLocation(city, country *string) string {
	if city != nil && strings.TrimSpace(*city) != "" {
		return *city + ", " + deref(country)
	}
	return deref(country)
}

func truncateDescription(description string) string {
	runes := []rune(description)
	if len(runes) <= maxDescriptionRunes {
		return description
	}
	return string(runes[:maxDescriptionRunes])
}

func toDecimal(value *float64) *decimal.Decimal {
	if value == nil {
		return nil
	}
	d := decimal.NewFromFloat(*value)
	return &d
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
