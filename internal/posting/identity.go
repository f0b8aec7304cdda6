package posting

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const identityDelimiter = "|"

// ComputeIdentity returns the content-derived posting key: the hex SHA-256
// digest of the five identity fields, lowercased and pipe-joined. Absent
// fields must be passed as empty strings so that "missing" and "empty" hash
// identically.
func ComputeIdentity(source, title, company, city, country string) string {
	raw := strings.ToLower(strings.Join([]string{source, title, company, city, country}, identityDelimiter))
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// SelectApplyURL returns the first usable link in priority order. Callers
// pass candidates as {direct apply, redirect/tracking, employer site,
// provider landing}.
func SelectApplyURL(candidates ...*string) *string {
	for _, candidate := range candidates {
		if candidate != nil && strings.TrimSpace(*candidate) != "" {
			return candidate
		}
	}
	return nil
}

// Quality weights. Additive, no cap beyond their sum.
const (
	qualityApplyURL = 50
	qualitySalary   = 30
	qualityCompany  = 10
	qualityCity     = 10
)

// ComputeQuality scores posting completeness: +50 for a usable apply link,
// +30 when either salary bound is present, +10 for company, +10 for city.
func ComputeQuality(applyURL *string, salaryMin, salaryMax *float64, company, city *string) int {
	score := 0
	if present(applyURL) {
		score += qualityApplyURL
	}
	if salaryMin != nil || salaryMax != nil {
		score += qualitySalary
	}
	if present(company) {
		score += qualityCompany
	}
	if present(city) {
		score += qualityCity
	}
	return score
}

func present(p *string) bool {
	return p != nil && strings.TrimSpace(*p) != ""
}
