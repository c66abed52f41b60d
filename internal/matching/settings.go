package matching

// Settings is the editable description of every matching tunable.
// It is what presets, YAML files and environment overrides produce;
// call Build to turn it into an immutable, validated Config.
type Settings struct {
	TimeWindowDays        int     `yaml:"time_window_days"`
	AutoUpdateThreshold   float64 `yaml:"auto_update_threshold"`
	ManualReviewThreshold float64 `yaml:"manual_review_threshold"`
	MaterialityThreshold  float64 `yaml:"materiality_threshold"`

	CompanyExactMatchScore  float64 `yaml:"company_exact_match_score"`
	CompanyContainmentScore float64 `yaml:"company_containment_score"`
	CompanyFuzzyThreshold   float64 `yaml:"company_fuzzy_threshold"`

	PositionExactMatchScore float64 `yaml:"position_exact_match_score"`
	PositionFuzzyThreshold  float64 `yaml:"position_fuzzy_threshold"`
	PositionKeywordBonus    float64 `yaml:"position_keyword_bonus"`
	PositionKeywordMax      float64 `yaml:"position_keyword_max"`

	DomainExactMatchScore  float64 `yaml:"domain_exact_match_score"`
	DomainHRPlatformsScore float64 `yaml:"domain_hr_platforms_score"`

	SubjectCompanyBonus float64 `yaml:"subject_company_bonus"`
	SubjectKeywordBonus float64 `yaml:"subject_keyword_bonus"`
	SubjectMaxScore     float64 `yaml:"subject_max_score"`

	Recency1Week  float64 `yaml:"recency_1_week"`
	Recency2Weeks float64 `yaml:"recency_2_weeks"`
	Recency1Month float64 `yaml:"recency_1_month"`
	RecencyOlder  float64 `yaml:"recency_older"`

	HRDomains               []string            `yaml:"hr_domains"`
	CompanySuffixesToRemove []string            `yaml:"company_suffixes_to_remove"`
	PositionNoiseWords      []string            `yaml:"position_noise_words"`
	SenderNoiseWords        []string            `yaml:"sender_noise_words"`
	CompanyAliases          map[string][]string `yaml:"company_aliases"`
	CompanyDomains          map[string][]string `yaml:"company_domains"`
	PositionSynonyms        map[string]string   `yaml:"position_synonyms"`
	StatusProgression       []string            `yaml:"status_progression"`
	TerminalStatuses        []string            `yaml:"terminal_statuses"`
	KeywordCategories       []KeywordCategory   `yaml:"keyword_categories"`
}

// KeywordCategory groups job-related subject patterns. Categories earlier in
// the list take priority when deciding which status an email implies.
type KeywordCategory struct {
	Name     string   `yaml:"name"`
	Status   string   `yaml:"status"`
	Patterns []string `yaml:"patterns"`
}

// Preset names accepted by PresetSettings.
const (
	PresetBalanced     = "balanced"
	PresetConservative = "conservative"
	PresetAggressive   = "aggressive"
)

// BalancedSettings returns the default tuning.
func BalancedSettings() Settings {
	return Settings{
		TimeWindowDays:        90,
		AutoUpdateThreshold:   80,
		ManualReviewThreshold: 50,
		MaterialityThreshold:  0.5,

		CompanyExactMatchScore:  40,
		CompanyContainmentScore: 30,
		CompanyFuzzyThreshold:   0.80,

		PositionExactMatchScore: 25,
		PositionFuzzyThreshold:  0.75,
		PositionKeywordBonus:    5,
		PositionKeywordMax:      15,

		DomainExactMatchScore:  20,
		DomainHRPlatformsScore: 10,

		SubjectCompanyBonus: 10,
		SubjectKeywordBonus: 5,
		SubjectMaxScore:     15,

		Recency1Week:  10,
		Recency2Weeks: 7,
		Recency1Month: 4,
		RecencyOlder:  1,

		HRDomains: []string{
			"greenhouse.io", "greenhouse-mail.io", "lever.co", "hire.lever.co",
			"workday.com", "myworkday.com", "myworkdayjobs.com", "smartrecruiters.com",
			"icims.com", "jobvite.com", "ashbyhq.com", "bamboohr.com", "taleo.net",
			"successfactors.com", "breezy.hr", "recruitee.com", "workable.com",
			"jazzhr.com", "linkedin.com", "indeed.com", "indeedemail.com",
		},
		CompanySuffixesToRemove: []string{
			"inc", "incorporated", "llc", "ltd", "limited", "corp", "corporation",
			"co", "company", "plc", "gmbh", "ag", "sa", "bv", "pty", "com",
		},
		PositionNoiseWords: []string{
			"position", "positions", "role", "opening", "opportunity", "job",
			"vacancy", "req", "remote", "hybrid", "onsite", "the", "a", "an",
			"for", "at",
		},
		SenderNoiseWords: []string{
			"recruiting", "recruiter", "recruitment", "careers", "career", "talent",
			"acquisition", "team", "hr", "jobs", "hiring", "people", "noreply",
			"no", "reply", "notifications", "via", "the", "from", "at",
		},
		CompanyAliases: map[string][]string{
			"google":    {"alphabet"},
			"meta":      {"facebook", "meta platforms"},
			"amazon":    {"aws", "amazon web services"},
			"microsoft": {"msft"},
			"ibm":       {"international business machines"},
			"jpmorgan":  {"jp morgan", "jpmorgan chase", "jp morgan chase"},
			"pwc":       {"pricewaterhousecoopers"},
			"ey":        {"ernst young"},
		},
		CompanyDomains: map[string][]string{
			"google":    {"google.com", "alphabet.com"},
			"meta":      {"meta.com", "fb.com", "facebook.com", "facebookmail.com", "metacareers.com"},
			"amazon":    {"amazon.com", "amazon.jobs", "aws.com"},
			"microsoft": {"microsoft.com"},
			"jpmorgan":  {"jpmorgan.com", "jpmchase.com"},
		},
		PositionSynonyms: map[string]string{
			"sr":   "senior",
			"snr":  "senior",
			"jr":   "junior",
			"eng":  "engineer",
			"engr": "engineer",
			"swe":  "software engineer",
			"sde":  "software engineer",
			"dev":  "developer",
			"mgr":  "manager",
			"pm":   "product manager",
			"ml":   "machine learning",
			"sre":  "site reliability engineer",
			"qa":   "quality assurance",
			"vp":   "vice president",
		},
		StatusProgression: []string{"applied", "screening", "assessment", "interview", "offer", "accepted"},
		TerminalStatuses:  []string{"accepted", "rejected", "withdrawn", "declined"},
		KeywordCategories: []KeywordCategory{
			{
				Name:   "rejection",
				Status: "rejected",
				Patterns: []string{
					`\bunfortunately\b`, `\bnot (be )?moving forward\b`, `\bother candidates\b`,
					`\bnot (been )?selected\b`, `\bregret to inform\b`, `\bposition has been filled\b`,
					`\bdecided to (pursue|move forward with) other\b`,
				},
			},
			{
				Name:     "offer",
				Status:   "offer",
				Patterns: []string{`\boffer\b`, `\bcongratulations\b`, `\bpleased to (extend|offer)\b`},
			},
			{
				Name:     "interview",
				Status:   "interview",
				Patterns: []string{`\binterview`, `\bon-?site\b`, `\bfinal round\b`, `\bmeet (with )?the team\b`},
			},
			{
				Name:   "assessment",
				Status: "assessment",
				Patterns: []string{
					`\bassessment\b`, `\bcoding (challenge|test|exercise)\b`, `\btake[- ]home\b`,
					`\bhackerrank\b`, `\bcodesignal\b`, `\bcodility\b`, `\bonline test\b`,
				},
			},
			{
				Name:     "screening",
				Status:   "screening",
				Patterns: []string{`\bphone screen`, `\brecruiter (call|screen)\b`, `\bintro(ductory)? call\b`},
			},
			{
				Name:   "application",
				Status: "applied",
				Patterns: []string{
					`\bapplication (received|submitted|confirmation)\b`,
					`\bthanks? (you )?for (applying|your application|your interest)\b`,
					`\b(we('ve| have)|we) received your application\b`,
				},
			},
		},
	}
}

// ConservativeSettings favours manual review: higher thresholds, stricter fuzzy matching.
func ConservativeSettings() Settings {
	s := BalancedSettings()
	s.AutoUpdateThreshold = 85
	s.ManualReviewThreshold = 60
	s.CompanyFuzzyThreshold = 0.88
	s.PositionFuzzyThreshold = 0.85
	s.TimeWindowDays = 60
	return s
}

// AggressiveSettings automates more updates at the cost of false positives.
func AggressiveSettings() Settings {
	s := BalancedSettings()
	s.AutoUpdateThreshold = 70
	s.ManualReviewThreshold = 40
	s.CompanyFuzzyThreshold = 0.72
	s.PositionFuzzyThreshold = 0.65
	s.TimeWindowDays = 120
	return s
}

// PresetSettings resolves a preset by name. An empty name means balanced.
func PresetSettings(name string) (Settings, error) {
	switch name {
	case "", PresetBalanced:
		return BalancedSettings(), nil
	case PresetConservative:
		return ConservativeSettings(), nil
	case PresetAggressive:
		return AggressiveSettings(), nil
	default:
		return Settings{}, ConfigErrors{{Field: "preset", Message: "unknown preset " + quote(name)}}
	}
}

// Balanced returns the default configuration.
func Balanced() Config { return mustBuild(BalancedSettings()) }

// Conservative returns the conservative preset configuration.
func Conservative() Config { return mustBuild(ConservativeSettings()) }

// Aggressive returns the aggressive preset configuration.
func Aggressive() Config { return mustBuild(AggressiveSettings()) }

func mustBuild(s Settings) Config {
	cfg, err := s.Build()
	if err != nil {
		panic(err)
	}
	return cfg
}
