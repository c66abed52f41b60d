package matching

import "time"

// Email is the incoming message being matched. It is never persisted here.
type Email struct {
	MessageID  string    `json:"message_id,omitempty"`
	From       string    `json:"from"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// Candidate is an existing application that the email may refer to.
type Candidate struct {
	ID            string    `json:"id"`
	Company       string    `json:"company"`
	Position      string    `json:"position"`
	Status        string    `json:"status"`
	AppliedAt     time.Time `json:"applied_at"`
	LastContactAt time.Time `json:"last_contact_at"`
	Notes         string    `json:"notes,omitempty"`
}

// ReferenceDate is the date recency is measured from: the last contact,
// falling back to the application date.
func (c Candidate) ReferenceDate() time.Time {
	if !c.LastContactAt.IsZero() {
		return c.LastContactAt
	}
	return c.AppliedAt
}

// Action is what the caller should do with a match.
type Action string

const (
	ActionAutoUpdate Action = "auto_update"
	ActionSuggest    Action = "suggest"
	ActionIgnore     Action = "ignore"
)

// ConfidenceLevel is the human label for a confidence score.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// FeatureScore is one scorer's contribution.
type FeatureScore struct {
	Score   float64
	Reasons []string
}

// Breakdown holds the per-feature sub-scores behind a confidence value.
type Breakdown struct {
	Company  float64 `json:"company"`
	Position float64 `json:"position"`
	Domain   float64 `json:"domain"`
	Subject  float64 `json:"subject"`
	Recency  float64 `json:"recency"`
}

// Total is the unclamped sum of all sub-scores.
func (b Breakdown) Total() float64 {
	return b.Company + b.Position + b.Domain + b.Subject + b.Recency
}

// MatchResult is the score of one (email, candidate) pair.
type MatchResult struct {
	ApplicationID   string          `json:"application_id"`
	Company         string          `json:"company"`
	Position        string          `json:"position"`
	CandidateStatus string          `json:"candidate_status"`
	Confidence      float64         `json:"confidence"`
	Level           ConfidenceLevel `json:"confidence_level"`
	Action          Action          `json:"action"`
	Reasons         []string        `json:"reasons"`
	Breakdown       Breakdown       `json:"breakdown"`
	Categories      []string        `json:"categories,omitempty"`
	ImpliedStatus   string          `json:"implied_status,omitempty"`
	DaysSince       int             `json:"days_since_contact"`
	ReferenceDate   time.Time       `json:"reference_date"`
}

// Decision is the policy outcome for a ranked list.
type Decision struct {
	Best          *MatchResult    `json:"best,omitempty"`
	Action        Action          `json:"action"`
	Level         ConfidenceLevel `json:"confidence_level"`
	CurrentStatus string          `json:"current_status,omitempty"`
	TargetStatus  string          `json:"target_status,omitempty"`
	Reason        string          `json:"reason"`
	// Anomaly is set when the transition was allowed permissively,
	// for example because the current status is not a known state.
	Anomaly string `json:"anomaly,omitempty"`
}
