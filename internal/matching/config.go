package matching

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Thresholds decide which action a confidence score maps to (0-100 scale).
type Thresholds struct {
	AutoUpdate   float64 `json:"auto_update"`
	ManualReview float64 `json:"manual_review"`
}

// CompanyWeights scores company name evidence.
type CompanyWeights struct {
	ExactMatch     float64 `json:"exact_match"`
	Containment    float64 `json:"containment"`
	FuzzyThreshold float64 `json:"fuzzy_threshold"`
}

// PositionWeights scores position title evidence.
type PositionWeights struct {
	ExactMatch     float64 `json:"exact_match"`
	FuzzyThreshold float64 `json:"fuzzy_threshold"`
	KeywordBonus   float64 `json:"keyword_bonus"`
	KeywordMax     float64 `json:"keyword_max"`
}

// DomainWeights scores the sender domain.
type DomainWeights struct {
	ExactMatch float64 `json:"exact_match"`
	HRPlatform float64 `json:"hr_platform"`
}

// SubjectWeights scores the subject line.
type SubjectWeights struct {
	CompanyBonus float64 `json:"company_bonus"`
	KeywordBonus float64 `json:"keyword_bonus"`
	MaxScore     float64 `json:"max_score"`
}

// RecencyWeights are the tiered recency bonuses.
type RecencyWeights struct {
	OneWeek  float64 `json:"one_week"`
	TwoWeeks float64 `json:"two_weeks"`
	OneMonth float64 `json:"one_month"`
	Older    float64 `json:"older"`
}

// Config is the validated matching configuration. Build it from Settings;
// the lookup tables are private so a Config can be shared freely between
// goroutines once built.
type Config struct {
	TimeWindowDays       int             `json:"time_window_days"`
	Thresholds           Thresholds      `json:"thresholds"`
	MaterialityThreshold float64         `json:"materiality_threshold"`
	Company              CompanyWeights  `json:"company"`
	Position             PositionWeights `json:"position"`
	Domain               DomainWeights   `json:"domain"`
	Subject              SubjectWeights  `json:"subject"`
	Recency              RecencyWeights  `json:"recency"`

	hrDomains        map[string]struct{}
	companySuffixes  map[string]struct{}
	positionNoise    map[string]struct{}
	senderNoise      map[string]struct{}
	companyAliases   map[string]string
	aliasesByCanon   map[string][]string
	companyDomains   map[string][]string
	positionSynonyms map[string]string
	progression      []string
	progressionIndex map[string]int
	terminal         map[string]struct{}
	categories       []keywordCategory
}

type keywordCategory struct {
	name     string
	status   string
	patterns []*regexp.Regexp
}

// ConfigError describes one invalid setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("matching config invalid for %s: %s", e.Field, e.Message)
}

// ConfigErrors collects every invalid setting found by Build.
type ConfigErrors []ConfigError

func (e ConfigErrors) Error() string {
	if len(e) == 0 {
		return "no matching config errors"
	}
	var sb strings.Builder
	sb.WriteString("matching configuration invalid:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  - %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Validate reports every invariant the settings violate.
func (s Settings) Validate() error {
	var errs ConfigErrors

	if s.TimeWindowDays <= 0 {
		errs = append(errs, ConfigError{"time_window_days", fmt.Sprintf("must be positive, got %d", s.TimeWindowDays)})
	}
	if s.ManualReviewThreshold < 0 {
		errs = append(errs, ConfigError{"manual_review_threshold", fmt.Sprintf("must be >= 0, got %v", s.ManualReviewThreshold)})
	}
	if s.AutoUpdateThreshold < s.ManualReviewThreshold {
		errs = append(errs, ConfigError{"auto_update_threshold", fmt.Sprintf("must be >= manual_review_threshold (%v), got %v", s.ManualReviewThreshold, s.AutoUpdateThreshold)})
	}
	if s.AutoUpdateThreshold > 100 {
		errs = append(errs, ConfigError{"auto_update_threshold", fmt.Sprintf("must be <= 100, got %v", s.AutoUpdateThreshold)})
	}

	weights := []struct {
		field string
		value float64
	}{
		{"materiality_threshold", s.MaterialityThreshold},
		{"company_exact_match_score", s.CompanyExactMatchScore},
		{"company_containment_score", s.CompanyContainmentScore},
		{"position_exact_match_score", s.PositionExactMatchScore},
		{"position_keyword_bonus", s.PositionKeywordBonus},
		{"position_keyword_max", s.PositionKeywordMax},
		{"domain_exact_match_score", s.DomainExactMatchScore},
		{"domain_hr_platforms_score", s.DomainHRPlatformsScore},
		{"subject_company_bonus", s.SubjectCompanyBonus},
		{"subject_keyword_bonus", s.SubjectKeywordBonus},
		{"subject_max_score", s.SubjectMaxScore},
		{"recency_1_week", s.Recency1Week},
		{"recency_2_weeks", s.Recency2Weeks},
		{"recency_1_month", s.Recency1Month},
		{"recency_older", s.RecencyOlder},
	}
	for _, w := range weights {
		if w.value < 0 {
			errs = append(errs, ConfigError{w.field, fmt.Sprintf("must be non-negative, got %v", w.value)})
		}
	}

	ratios := []struct {
		field string
		value float64
	}{
		{"company_fuzzy_threshold", s.CompanyFuzzyThreshold},
		{"position_fuzzy_threshold", s.PositionFuzzyThreshold},
	}
	for _, r := range ratios {
		if r.value < 0 || r.value > 1 {
			errs = append(errs, ConfigError{r.field, fmt.Sprintf("must be between 0 and 1, got %v", r.value)})
		}
	}

	if len(s.StatusProgression) == 0 {
		errs = append(errs, ConfigError{"status_progression", "must list at least one status"})
	}
	seen := make(map[string]bool)
	for _, status := range s.StatusProgression {
		key := normalizeStatus(status)
		if key == "" {
			errs = append(errs, ConfigError{"status_progression", "contains an empty status"})
			continue
		}
		if seen[key] {
			errs = append(errs, ConfigError{"status_progression", "duplicate status " + quote(key)})
		}
		seen[key] = true
	}
	terminal := make(map[string]bool)
	for _, status := range s.TerminalStatuses {
		terminal[normalizeStatus(status)] = true
	}

	for _, cat := range s.KeywordCategories {
		field := "keyword_categories." + cat.Name
		if strings.TrimSpace(cat.Name) == "" {
			errs = append(errs, ConfigError{"keyword_categories", "category name is required"})
		}
		if status := normalizeStatus(cat.Status); status != "" && !seen[status] && !terminal[status] {
			errs = append(errs, ConfigError{field, "status " + quote(status) + " is not in status_progression or terminal_statuses"})
		}
		for _, p := range cat.Patterns {
			if _, err := regexp.Compile(p); err != nil {
				errs = append(errs, ConfigError{field, fmt.Sprintf("invalid pattern %q: %v", p, err)})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Build validates the settings and returns an immutable Config.
func (s Settings) Build() (Config, error) {
	if err := s.Validate(); err != nil {
		return Config{}, err
	}

	cfg := Config{
		TimeWindowDays:       s.TimeWindowDays,
		Thresholds:           Thresholds{AutoUpdate: s.AutoUpdateThreshold, ManualReview: s.ManualReviewThreshold},
		MaterialityThreshold: s.MaterialityThreshold,
		Company: CompanyWeights{
			ExactMatch:     s.CompanyExactMatchScore,
			Containment:    s.CompanyContainmentScore,
			FuzzyThreshold: s.CompanyFuzzyThreshold,
		},
		Position: PositionWeights{
			ExactMatch:     s.PositionExactMatchScore,
			FuzzyThreshold: s.PositionFuzzyThreshold,
			KeywordBonus:   s.PositionKeywordBonus,
			KeywordMax:     s.PositionKeywordMax,
		},
		Domain:  DomainWeights{ExactMatch: s.DomainExactMatchScore, HRPlatform: s.DomainHRPlatformsScore},
		Subject: SubjectWeights{CompanyBonus: s.SubjectCompanyBonus, KeywordBonus: s.SubjectKeywordBonus, MaxScore: s.SubjectMaxScore},
		Recency: RecencyWeights{OneWeek: s.Recency1Week, TwoWeeks: s.Recency2Weeks, OneMonth: s.Recency1Month, Older: s.RecencyOlder},

		hrDomains:        toSet(s.HRDomains, strings.ToLower),
		companySuffixes:  toSet(s.CompanySuffixesToRemove, strings.ToLower),
		positionNoise:    toSet(s.PositionNoiseWords, strings.ToLower),
		senderNoise:      toSet(s.SenderNoiseWords, strings.ToLower),
		companyAliases:   make(map[string]string),
		aliasesByCanon:   make(map[string][]string),
		companyDomains:   make(map[string][]string),
		positionSynonyms: make(map[string]string),
		progressionIndex: make(map[string]int),
		terminal:         toSet(s.TerminalStatuses, normalizeStatus),
	}

	for token, expansion := range s.PositionSynonyms {
		cfg.positionSynonyms[strings.ToLower(strings.TrimSpace(token))] = strings.ToLower(strings.TrimSpace(expansion))
	}

	// Aliases are normalized with the suffix table, so they must be resolved
	// after companySuffixes is populated.
	for _, canonical := range sortedKeys(s.CompanyAliases) {
		canon := cfg.NormalizeCompany(canonical)
		if canon == "" {
			continue
		}
		for _, alias := range s.CompanyAliases[canonical] {
			a := cfg.NormalizeCompany(alias)
			if a == "" || a == canon {
				continue
			}
			cfg.companyAliases[a] = canon
			cfg.aliasesByCanon[canon] = append(cfg.aliasesByCanon[canon], a)
		}
	}
	for canonical, domains := range s.CompanyDomains {
		canon := cfg.CanonicalCompany(canonical)
		for _, d := range domains {
			if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
				cfg.companyDomains[canon] = append(cfg.companyDomains[canon], d)
			}
		}
	}

	for _, status := range s.StatusProgression {
		key := normalizeStatus(status)
		cfg.progressionIndex[key] = len(cfg.progression)
		cfg.progression = append(cfg.progression, key)
	}

	for _, cat := range s.KeywordCategories {
		kc := keywordCategory{name: strings.TrimSpace(cat.Name), status: normalizeStatus(cat.Status)}
		for _, p := range cat.Patterns {
			kc.patterns = append(kc.patterns, regexp.MustCompile("(?i)"+p))
		}
		cfg.categories = append(cfg.categories, kc)
	}

	return cfg, nil
}

// ConfidenceLevel labels a score using the configured thresholds.
func (c Config) ConfidenceLevel(score float64) ConfidenceLevel {
	switch {
	case score >= c.Thresholds.AutoUpdate:
		return ConfidenceHigh
	case score >= c.Thresholds.ManualReview:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// IsHRDomain reports whether domain is, or is a subdomain of, a known recruiting platform.
func (c Config) IsHRDomain(domain string) bool {
	_, ok := c.hrPlatform(strings.ToLower(domain))
	return ok
}

func (c Config) hrPlatform(domain string) (string, bool) {
	if domain == "" {
		return "", false
	}
	if _, ok := c.hrDomains[domain]; ok {
		return domain, true
	}
	for d := range c.hrDomains {
		if strings.HasSuffix(domain, "."+d) {
			return d, true
		}
	}
	return "", false
}

// IsTerminal reports whether status is a terminal application state.
func (c Config) IsTerminal(status string) bool {
	_, ok := c.terminal[normalizeStatus(status)]
	return ok
}

// StatusIndex returns the position of status in the progression.
func (c Config) StatusIndex(status string) (int, bool) {
	idx, ok := c.progressionIndex[normalizeStatus(status)]
	return idx, ok
}

// StatusProgression returns a copy of the ordered status list.
func (c Config) StatusProgression() []string {
	return append([]string(nil), c.progression...)
}

// TerminalStatuses returns the terminal statuses in sorted order.
func (c Config) TerminalStatuses() []string {
	out := make([]string, 0, len(c.terminal))
	for s := range c.terminal {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// IsKnownStatus reports whether status appears in the progression or terminal set.
func (c Config) IsKnownStatus(status string) bool {
	_, inProgression := c.StatusIndex(status)
	return inProgression || c.IsTerminal(status)
}

// CanonicalCompany normalizes name and resolves it through the alias table.
func (c Config) CanonicalCompany(name string) string {
	n := c.NormalizeCompany(name)
	return c.canonical(n)
}

func (c Config) canonical(normalized string) string {
	if canon, ok := c.companyAliases[normalized]; ok {
		return canon
	}
	return normalized
}

func toSet(values []string, norm func(string) string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if k := norm(strings.TrimSpace(v)); k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
