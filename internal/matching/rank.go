package matching

import (
	"math"
	"sort"
	"time"
)

// ScoreCandidate scores a single candidate against an email.
// It does not apply the time window; RankCandidates does.
func ScoreCandidate(cfg Config, email Email, candidate Candidate) MatchResult {
	return cfg.score(cfg.prepare(email), candidate)
}

// RankCandidates scores every candidate inside the time window and returns
// them ordered by confidence (descending), then by the more recent candidate,
// then by lower candidate ID. An empty input yields an empty result.
func RankCandidates(cfg Config, email Email, candidates []Candidate) []MatchResult {
	results := make([]MatchResult, 0, len(candidates))
	if len(candidates) == 0 {
		return results
	}

	p := cfg.prepare(email)
	for _, cand := range candidates {
		if !cfg.InWindow(email.ReceivedAt, cand) {
			continue
		}
		results = append(results, cfg.score(p, cand))
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if !a.ReferenceDate.Equal(b.ReferenceDate) {
			return a.ReferenceDate.After(b.ReferenceDate)
		}
		return a.ApplicationID < b.ApplicationID
	})
	return results
}

// InWindow reports whether candidate is within TimeWindowDays of the email
// date. Candidates with a missing date cannot be excluded and are kept.
func (c Config) InWindow(received time.Time, candidate Candidate) bool {
	days, ok := daysBetween(received, candidate.ReferenceDate())
	if !ok {
		return true
	}
	return days <= c.TimeWindowDays
}

// WindowStart is the earliest reference date a candidate may have to be
// considered for an email received at t.
func (c Config) WindowStart(t time.Time) time.Time {
	return t.AddDate(0, 0, -(c.TimeWindowDays + 1))
}

func (c Config) score(p preparedEmail, cand Candidate) MatchResult {
	company := c.scoreCompany(p, cand.Company)
	position := c.scorePosition(p, cand.Position)
	domain := c.scoreDomain(p, cand.Company)
	subject := c.scoreSubject(p, cand.Company)
	recency, days := c.scoreRecency(p.receivedAt, cand.ReferenceDate())

	result := MatchResult{
		ApplicationID:   cand.ID,
		Company:         cand.Company,
		Position:        cand.Position,
		CandidateStatus: normalizeStatus(cand.Status),
		Breakdown: Breakdown{
			Company:  company.Score,
			Position: position.Score,
			Domain:   domain.Score,
			Subject:  subject.Score,
			Recency:  recency.Score,
		},
		Categories:    c.categoryNames(p),
		ImpliedStatus: c.impliedStatus(p),
		DaysSince:     days,
		ReferenceDate: cand.ReferenceDate(),
		Reasons:       []string{},
	}
	for _, fs := range []FeatureScore{company, position, domain, subject, recency} {
		if fs.Score > c.MaterialityThreshold {
			result.Reasons = append(result.Reasons, fs.Reasons...)
		}
	}

	result.Confidence = clampScore(result.Breakdown.Total())
	result.Level = c.ConfidenceLevel(result.Confidence)
	result.Action = c.decideOne(result, result.CandidateStatus).Action
	return result
}

func clampScore(v float64) float64 {
	v = math.Max(0, math.Min(100, v))
	return math.Round(v*100) / 100
}
