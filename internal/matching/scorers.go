package matching

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// CompareCompanies scores two raw company names against each other with the
// same rules used for email evidence.
func (c Config) CompareCompanies(a, b string) FeatureScore {
	return c.compareCompanies(c.NormalizeCompany(a), c.NormalizeCompany(b))
}

func (c Config) compareCompanies(a, b string) FeatureScore {
	if a == "" || b == "" {
		return FeatureScore{}
	}
	if a == b {
		return FeatureScore{Score: c.Company.ExactMatch, Reasons: []string{"company exact match"}}
	}
	ca, cb := c.canonical(a), c.canonical(b)
	if ca == cb {
		return FeatureScore{Score: c.Company.ExactMatch, Reasons: []string{"company alias match"}}
	}

	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) >= 3 && strings.Contains(longer, shorter) {
		return FeatureScore{Score: c.Company.Containment, Reasons: []string{"company containment match"}}
	}

	ratio := Similarity(a, b)
	if r := Similarity(ca, cb); r > ratio {
		ratio = r
	}
	if ratio >= c.Company.FuzzyThreshold && ratio > 0 {
		return FeatureScore{
			Score:   ratio * c.Company.ExactMatch,
			Reasons: []string{fmt.Sprintf("company fuzzy match (%.2f)", ratio)},
		}
	}
	return FeatureScore{}
}

func (c Config) scoreCompany(p preparedEmail, company string) FeatureScore {
	cand := c.NormalizeCompany(company)
	if cand == "" {
		return FeatureScore{}
	}
	var best FeatureScore
	for _, hint := range p.companyHints {
		if fs := c.compareCompanies(hint, cand); fs.Score > best.Score {
			best = fs
		}
	}
	if best.Score < c.Company.Containment &&
		(c.mentionsCompany(p.subjectText, cand) || c.mentionsCompany(p.bodyText, cand)) {
		best = FeatureScore{Score: c.Company.Containment, Reasons: []string{"company mentioned in email"}}
	}
	return best
}

// mentionsCompany reports whether text names the company or one of its aliases.
// Names shorter than three characters are never searched for.
func (c Config) mentionsCompany(text, normalized string) bool {
	for _, name := range c.companyNames(normalized) {
		if len(name) >= 3 && containsPhrase(text, name) {
			return true
		}
	}
	return false
}

func (c Config) companyNames(normalized string) []string {
	if normalized == "" {
		return nil
	}
	canon := c.canonical(normalized)
	names := []string{normalized}
	if canon != normalized {
		names = append(names, canon)
	}
	for _, alias := range c.aliasesByCanon[canon] {
		if alias != normalized {
			names = append(names, alias)
		}
	}
	return names
}

func (c Config) scorePosition(p preparedEmail, position string) FeatureScore {
	candTokens := c.positionTokens(position)
	cand := strings.Join(candTokens, " ")
	if cand == "" {
		return FeatureScore{}
	}

	var fs FeatureScore
	if containsPhrase(p.subjectPosition, cand) || containsPhrase(p.bodyPosition, cand) {
		fs.Score = c.Position.ExactMatch
		fs.Reasons = append(fs.Reasons, "position exact match")
	} else {
		var best float64
		for _, seg := range p.subjectSegments {
			if r := Similarity(seg, cand); r > best {
				best = r
			}
		}
		if best >= c.Position.FuzzyThreshold && best > 0 {
			fs.Score = best * c.Position.ExactMatch
			fs.Reasons = append(fs.Reasons, fmt.Sprintf("position fuzzy match (%.2f)", best))
		}
	}

	var shared []string
	seen := make(map[string]bool)
	for _, tok := range candTokens {
		if len(tok) < 2 || seen[tok] {
			continue
		}
		seen[tok] = true
		if _, ok := p.positionTokens[tok]; ok {
			shared = append(shared, tok)
		}
	}
	if len(shared) > 0 && c.Position.KeywordBonus > 0 {
		bonus := math.Min(float64(len(shared))*c.Position.KeywordBonus, c.Position.KeywordMax)
		if bonus > 0 {
			fs.Score += bonus
			fs.Reasons = append(fs.Reasons, "position keywords: "+strings.Join(shared, ", "))
		}
	}
	return fs
}

func (c Config) scoreDomain(p preparedEmail, company string) FeatureScore {
	if p.domain == "" {
		return FeatureScore{}
	}
	if cand := c.NormalizeCompany(company); cand != "" {
		canon := c.canonical(cand)
		for _, d := range c.companyDomains[canon] {
			if p.domain == d || strings.HasSuffix(p.domain, "."+d) {
				return FeatureScore{Score: c.Domain.ExactMatch, Reasons: []string{"domain exact match (" + p.domain + ")"}}
			}
		}
		if p.domainLabel != "" {
			for _, name := range c.companyNames(cand) {
				compact := strings.ReplaceAll(name, " ", "")
				if len(compact) >= 3 && compact == p.domainLabel {
					return FeatureScore{Score: c.Domain.ExactMatch, Reasons: []string{"domain exact match (" + p.domain + ")"}}
				}
			}
		}
	}
	if p.hrPlatform != "" {
		return FeatureScore{Score: c.Domain.HRPlatform, Reasons: []string{"domain HR platform (" + p.hrPlatform + ")"}}
	}
	return FeatureScore{}
}

func (c Config) scoreSubject(p preparedEmail, company string) FeatureScore {
	var fs FeatureScore
	if c.mentionsCompany(p.subjectText, c.NormalizeCompany(company)) {
		fs.Score += c.Subject.CompanyBonus
		fs.Reasons = append(fs.Reasons, "subject mentions company")
	}
	if n := len(p.subjectCategories); n > 0 {
		names := make([]string, 0, n)
		for _, idx := range p.subjectCategories {
			names = append(names, c.categories[idx].name)
		}
		fs.Score += float64(n) * c.Subject.KeywordBonus
		fs.Reasons = append(fs.Reasons, "subject keywords: "+strings.Join(names, ", "))
	}
	if fs.Score > c.Subject.MaxScore {
		fs.Score = c.Subject.MaxScore
	}
	return fs
}

// scoreRecency returns the recency tier and the whole days between the two
// dates, or -1 days when either date is missing.
func (c Config) scoreRecency(received, reference time.Time) (FeatureScore, int) {
	days, ok := daysBetween(received, reference)
	if !ok {
		return FeatureScore{Score: c.Recency.Older, Reasons: []string{"recency: date unknown"}}, -1
	}
	switch {
	case days <= 7:
		return FeatureScore{Score: c.Recency.OneWeek, Reasons: []string{"recency: within 1 week"}}, days
	case days <= 14:
		return FeatureScore{Score: c.Recency.TwoWeeks, Reasons: []string{"recency: within 2 weeks"}}, days
	case days <= 30:
		return FeatureScore{Score: c.Recency.OneMonth, Reasons: []string{"recency: within 1 month"}}, days
	default:
		return FeatureScore{Score: c.Recency.Older, Reasons: []string{"recency: older than 1 month"}}, days
	}
}

func daysBetween(a, b time.Time) (int, bool) {
	if a.IsZero() || b.IsZero() {
		return 0, false
	}
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24), true
}
