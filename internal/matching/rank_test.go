package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var emailDate = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return emailDate.AddDate(0, 0, -n)
}

func googleInterviewEmail() Email {
	return Email{
		From:       "recruiting@google.com",
		Subject:    "Interview Invitation - Software Engineer",
		Body:       "We'd like to schedule time with you.",
		ReceivedAt: emailDate,
	}
}

func TestRankCandidates_GoogleInterviewAutoUpdates(t *testing.T) {
	cfg := Balanced()
	ranked := RankCandidates(cfg, googleInterviewEmail(), []Candidate{
		{ID: "app-1", Company: "Google", Position: "Software Engineer", Status: "applied", AppliedAt: daysAgo(5)},
	})
	require.Len(t, ranked, 1)

	top := ranked[0]
	assert.GreaterOrEqual(t, top.Confidence, cfg.Thresholds.AutoUpdate)
	assert.Equal(t, ActionAutoUpdate, top.Action)
	assert.Equal(t, ConfidenceHigh, top.Level)
	assert.Equal(t, "interview", top.ImpliedStatus)
	assert.Equal(t, 5, top.DaysSince)
	assert.Equal(t, []string{
		"company exact match",
		"position exact match",
		"position keywords: software, engineer",
		"domain exact match (google.com)",
		"subject keywords: interview",
		"recency: within 1 week",
	}, top.Reasons)

	decision := Decide(cfg, ranked, "applied")
	assert.Equal(t, ActionAutoUpdate, decision.Action)
	assert.Equal(t, "interview", decision.TargetStatus)
	require.NotNil(t, decision.Best)
	assert.Equal(t, "app-1", decision.Best.ApplicationID)
	assert.Empty(t, decision.Anomaly)
}

func TestRankCandidates_UnrelatedCandidateIgnored(t *testing.T) {
	cfg := Balanced()
	ranked := RankCandidates(cfg, googleInterviewEmail(), []Candidate{
		{ID: "app-2", Company: "Unrelated Corp", Position: "Accountant", Status: "applied", AppliedAt: daysAgo(40)},
	})
	require.Len(t, ranked, 1)

	top := ranked[0]
	assert.InDelta(t, 0, top.Breakdown.Company, 0.0001)
	assert.InDelta(t, 0, top.Breakdown.Position, 0.0001)
	assert.InDelta(t, 0, top.Breakdown.Domain, 0.0001)
	assert.InDelta(t, cfg.Recency.Older, top.Breakdown.Recency, 0.0001)
	assert.Less(t, top.Confidence, cfg.Thresholds.ManualReview)
	assert.Equal(t, ActionIgnore, top.Action)
	assert.Equal(t, ActionIgnore, Decide(cfg, ranked, "applied").Action)
}

func TestRankCandidates_TerminalStatusForcesSuggest(t *testing.T) {
	cfg := Balanced()
	email := Email{
		From:       "Meta Careers <careers@meta.com>",
		Subject:    "Interview schedule - Product Designer",
		ReceivedAt: emailDate,
	}
	ranked := RankCandidates(cfg, email, []Candidate{
		{ID: "app-3", Company: "Meta", Position: "Product Designer", Status: "accepted", AppliedAt: daysAgo(20), LastContactAt: daysAgo(3)},
	})
	require.Len(t, ranked, 1)

	top := ranked[0]
	assert.Equal(t, ConfidenceHigh, top.Level)
	assert.Equal(t, ActionSuggest, top.Action)

	decision := Decide(cfg, ranked, "accepted")
	assert.Equal(t, ActionSuggest, decision.Action)
	assert.Equal(t, ConfidenceHigh, decision.Level)
	assert.Contains(t, decision.Reason, "terminal")
}

func TestCompareCompanies(t *testing.T) {
	cfg := Balanced()
	tests := []struct {
		name     string
		a, b     string
		expected float64
		reason   string
	}{
		{"exact after normalization", "Google LLC", "google", 40, "company exact match"},
		{"dotcom suffix", "Amazon.com", "Amazon", 40, "company exact match"},
		{"alias", "Alphabet Inc", "Google", 40, "company alias match"},
		{"alias multi word", "Amazon Web Services", "Amazon", 40, "company alias match"},
		{"containment", "Stripe", "Stripe Payments", 30, "company containment match"},
		{"fuzzy", "Gooogle", "Google", 40 * 6.0 / 7.0, "company fuzzy match (0.86)"},
		{"unrelated", "Apple", "Google", 0, ""},
		{"short name no containment", "AB", "ABC Corp", 0, ""},
		{"empty side", "", "Google", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := cfg.CompareCompanies(tt.a, tt.b)
			assert.InDelta(t, tt.expected, fs.Score, 0.01)
			if tt.reason == "" {
				assert.Empty(t, fs.Reasons)
			} else {
				assert.Equal(t, []string{tt.reason}, fs.Reasons)
			}
		})
	}
}

func TestAmazonDotComScoresAtLeastContainment(t *testing.T) {
	cfg := Balanced()
	email := Email{From: "Amazon.com <no-reply@amazon.jobs>", Subject: "Your application", ReceivedAt: emailDate}
	result := ScoreCandidate(cfg, email, Candidate{ID: "a", Company: "Amazon", Position: "SDE", AppliedAt: daysAgo(2)})
	assert.GreaterOrEqual(t, result.Breakdown.Company, cfg.Company.Containment)
}

func TestScorePosition(t *testing.T) {
	cfg := Balanced()
	tests := []struct {
		name     string
		subject  string
		position string
		expected float64
	}{
		{"exact phrase plus keywords", "Software Engineer application", "Software Engineer", 35},
		{"synonyms make exact", "Sr. SWE opening", "Senior Software Engineer", 40},
		{"keyword only", "Engineer onboarding", "Platform Engineer", 5},
		{"keyword cap", "Senior Staff Platform Engineer Lead", "Lead Senior Staff Platform Engineer", 40},
		{"no overlap", "Hello there", "Accountant", 0},
		{"empty position", "Software Engineer", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := cfg.prepare(Email{Subject: tt.subject})
			assert.InDelta(t, tt.expected, cfg.scorePosition(p, tt.position).Score, 0.01)
		})
	}
}

func TestScorePosition_Fuzzy(t *testing.T) {
	cfg := Balanced()
	p := cfg.prepare(Email{Subject: "Update: Software Enginer"})
	fs := cfg.scorePosition(p, "Software Engineer")
	// Fuzzy base plus the shared "software" keyword.
	assert.Greater(t, fs.Score, cfg.Position.ExactMatch*cfg.Position.FuzzyThreshold)
	assert.Less(t, fs.Score, cfg.Position.ExactMatch+cfg.Position.KeywordBonus)
	require.NotEmpty(t, fs.Reasons)
	assert.Contains(t, fs.Reasons[0], "position fuzzy match")
}

func TestScoreDomain(t *testing.T) {
	cfg := Balanced()
	tests := []struct {
		name     string
		from     string
		company  string
		expected float64
	}{
		{"configured domain", "recruiting@google.com", "Google", 20},
		{"subdomain of configured domain", "jobs@careers.google.com", "Google", 20},
		{"alias domain", "noreply@facebookmail.com", "Meta Platforms", 20},
		{"derived label", "talent@acme.co.uk", "Acme Ltd", 20},
		{"hr platform", "no-reply@greenhouse.io", "Stripe", 10},
		{"hr platform subdomain", "jobs@stripe.greenhouse.io", "Stripe", 10},
		{"unrelated", "friend@gmail.com", "Stripe", 0},
		{"missing domain", "nobody", "Stripe", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := cfg.prepare(Email{From: tt.from})
			assert.InDelta(t, tt.expected, cfg.scoreDomain(p, tt.company).Score, 0.0001)
		})
	}
}

func TestHRSubdomainProvidesCompanyHint(t *testing.T) {
	cfg := Balanced()
	result := ScoreCandidate(cfg, Email{From: "jobs@stripe.greenhouse.io", ReceivedAt: emailDate}, Candidate{ID: "s", Company: "Stripe"})
	assert.InDelta(t, cfg.Company.ExactMatch, result.Breakdown.Company, 0.0001)
	assert.InDelta(t, cfg.Domain.HRPlatform, result.Breakdown.Domain, 0.0001)
}

func TestScoreSubject(t *testing.T) {
	cfg := Balanced()
	tests := []struct {
		name     string
		subject  string
		expected float64
	}{
		{"company only", "Hello from Google", 10},
		{"keyword only", "Your interview is confirmed", 5},
		{"company and keyword", "Google interview", 15},
		{"capped", "Google offer, interview and assessment", 15},
		{"alias in subject", "Alphabet offer", 15},
		{"nothing", "Weekly newsletter", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := cfg.prepare(Email{Subject: tt.subject})
			assert.InDelta(t, tt.expected, cfg.scoreSubject(p, "Google").Score, 0.0001)
		})
	}
}

func TestScoreRecencyTiers(t *testing.T) {
	cfg := Balanced()
	tests := []struct {
		days     int
		expected float64
	}{
		{0, 10}, {7, 10}, {8, 7}, {14, 7}, {15, 4}, {30, 4}, {31, 1}, {400, 1},
	}
	for _, tt := range tests {
		fs, days := cfg.scoreRecency(emailDate, daysAgo(tt.days))
		assert.InDelta(t, tt.expected, fs.Score, 0.0001, "days=%d", tt.days)
		assert.Equal(t, tt.days, days)
	}

	fs, days := cfg.scoreRecency(emailDate, time.Time{})
	assert.InDelta(t, cfg.Recency.Older, fs.Score, 0.0001)
	assert.Equal(t, -1, days)
	assert.Equal(t, []string{"recency: date unknown"}, fs.Reasons)
}

func TestRankCandidates_TimeWindowExclusion(t *testing.T) {
	cfg := Balanced()
	ranked := RankCandidates(cfg, googleInterviewEmail(), []Candidate{
		{ID: "edge", Company: "Google", Position: "Software Engineer", AppliedAt: daysAgo(cfg.TimeWindowDays)},
		{ID: "outside", Company: "Google", Position: "Software Engineer", AppliedAt: daysAgo(cfg.TimeWindowDays + 1)},
		{ID: "undated", Company: "Google", Position: "Software Engineer"},
	})

	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.ApplicationID)
	}
	assert.ElementsMatch(t, []string{"edge", "undated"}, ids)
}

func TestRankCandidates_Ordering(t *testing.T) {
	cfg := Balanced()
	ranked := RankCandidates(cfg, googleInterviewEmail(), []Candidate{
		{ID: "b-older", Company: "Google", Position: "Software Engineer", AppliedAt: daysAgo(3)},
		{ID: "weak", Company: "Initech", Position: "Accountant", AppliedAt: daysAgo(1)},
		{ID: "c-newer", Company: "Google", Position: "Software Engineer", AppliedAt: daysAgo(1)},
		{ID: "a-older", Company: "Google", Position: "Software Engineer", AppliedAt: daysAgo(3)},
	})
	require.Len(t, ranked, 4)

	ids := []string{ranked[0].ApplicationID, ranked[1].ApplicationID, ranked[2].ApplicationID, ranked[3].ApplicationID}
	assert.Equal(t, []string{"c-newer", "a-older", "b-older", "weak"}, ids)
}

func TestRankCandidates_Empty(t *testing.T) {
	ranked := RankCandidates(Balanced(), googleInterviewEmail(), nil)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)

	decision := Decide(Balanced(), ranked, "")
	assert.Equal(t, ActionIgnore, decision.Action)
	assert.Nil(t, decision.Best)
}

func TestRankCandidates_Idempotent(t *testing.T) {
	cfg := Balanced()
	candidates := []Candidate{
		{ID: "1", Company: "Google", Position: "Software Engineer", Status: "applied", AppliedAt: daysAgo(5)},
		{ID: "2", Company: "Googol Labs", Position: "Engineer", Status: "screening", AppliedAt: daysAgo(12)},
		{ID: "3", Company: "Umbrella", Position: "Chemist", Status: "applied", AppliedAt: daysAgo(60)},
	}

	first := RankCandidates(cfg, googleInterviewEmail(), candidates)
	second := RankCandidates(cfg, googleInterviewEmail(), candidates)
	assert.Equal(t, first, second)
	assert.Equal(t, Decide(cfg, first, ""), Decide(cfg, second, ""))
}

func TestScoreCandidate_MalformedInputDegrades(t *testing.T) {
	cfg := Balanced()
	result := ScoreCandidate(cfg, Email{}, Candidate{ID: "x"})
	assert.InDelta(t, cfg.Recency.Older, result.Confidence, 0.0001)
	assert.Equal(t, ActionIgnore, result.Action)
	assert.Equal(t, -1, result.DaysSince)
}

func TestScoreCandidate_MaterialityFiltersReasons(t *testing.T) {
	s := BalancedSettings()
	s.RecencyOlder = 0.25
	cfg, err := s.Build()
	require.NoError(t, err)

	result := ScoreCandidate(cfg, Email{ReceivedAt: emailDate}, Candidate{ID: "x", Company: "Acme", AppliedAt: daysAgo(60)})
	assert.Empty(t, result.Reasons)
	assert.InDelta(t, 0.25, result.Confidence, 0.0001)
}

func TestScoreCandidate_ConfidenceClamped(t *testing.T) {
	cfg := Balanced()
	email := Email{
		From:       "Google Recruiting <recruiting@google.com>",
		Subject:    "Google interview and offer - Software Engineer",
		ReceivedAt: emailDate,
	}
	result := ScoreCandidate(cfg, email, Candidate{ID: "g", Company: "Google", Position: "Software Engineer", AppliedAt: daysAgo(1)})
	assert.Greater(t, result.Breakdown.Total(), 100.0)
	assert.InDelta(t, 100, result.Confidence, 0.0001)
}

func TestScoreCandidate_Monotonic(t *testing.T) {
	bumps := map[string]func(*Settings){
		"company exact":    func(s *Settings) { s.CompanyExactMatchScore += 5 },
		"company contain":  func(s *Settings) { s.CompanyContainmentScore += 5 },
		"position exact":   func(s *Settings) { s.PositionExactMatchScore += 5 },
		"position keyword": func(s *Settings) { s.PositionKeywordBonus += 2 },
		"domain exact":     func(s *Settings) { s.DomainExactMatchScore += 5 },
		"domain hr":        func(s *Settings) { s.DomainHRPlatformsScore += 5 },
		"subject keyword":  func(s *Settings) { s.SubjectKeywordBonus += 2 },
		"recency week":     func(s *Settings) { s.Recency1Week += 3 },
		"recency older":    func(s *Settings) { s.RecencyOlder += 3 },
	}
	emails := []Email{
		googleInterviewEmail(),
		{From: "no-reply@greenhouse.io", Subject: "Stripe: assessment invite", ReceivedAt: emailDate},
		{From: "someone@gmail.com", Subject: "hi", ReceivedAt: emailDate},
	}
	candidates := []Candidate{
		{ID: "1", Company: "Google", Position: "Software Engineer", AppliedAt: daysAgo(2)},
		{ID: "2", Company: "Stripe", Position: "Backend Engineer", AppliedAt: daysAgo(45)},
		{ID: "3", Company: "Gogle", Position: "Engineer", AppliedAt: daysAgo(10)},
	}

	base := Balanced()
	for name, bump := range bumps {
		s := BalancedSettings()
		bump(&s)
		bumped, err := s.Build()
		require.NoError(t, err, name)

		for _, e := range emails {
			for _, c := range candidates {
				before := ScoreCandidate(base, e, c).Confidence
				after := ScoreCandidate(bumped, e, c).Confidence
				assert.GreaterOrEqual(t, after, before, "%s: %s vs %s", name, e.Subject, c.Company)
			}
		}
	}
}

func TestImpliedStatusPrefersSubject(t *testing.T) {
	cfg := Balanced()
	p := cfg.prepare(Email{
		Subject: "Interview availability",
		Body:    "Unfortunately the earlier slot is gone.",
	})
	assert.Equal(t, "interview", cfg.impliedStatus(p))
	assert.Equal(t, []string{"rejection", "interview"}, cfg.categoryNames(p))

	p = cfg.prepare(Email{Subject: "Update", Body: "Unfortunately we will not be moving forward."})
	assert.Equal(t, "rejected", cfg.impliedStatus(p))
}
