package matching

import "strings"

// Transition is the verdict on an automatic status change.
type Transition struct {
	Allowed bool
	// Unusual marks transitions allowed only because a status is unknown.
	Unusual bool
	Reason  string
}

// CheckTransition decides whether moving from one status to another may
// happen automatically. Terminal states are absorbing; moving backwards in
// the progression is refused; unknown states are allowed but flagged.
func (c Config) CheckTransition(from, to string) Transition {
	from, to = normalizeStatus(from), normalizeStatus(to)
	switch {
	case c.IsTerminal(from):
		return Transition{Reason: "current status " + quote(from) + " is terminal"}
	case to == "" || to == from:
		return Transition{Allowed: true, Reason: "no status change"}
	}

	fromIdx, fromKnown := c.StatusIndex(from)
	if !fromKnown {
		return Transition{Allowed: true, Unusual: true, Reason: "current status " + quote(from) + " is not in the status progression"}
	}
	toIdx, toKnown := c.StatusIndex(to)
	switch {
	case toKnown && toIdx >= fromIdx:
		return Transition{Allowed: true, Reason: "forward transition"}
	case toKnown:
		return Transition{Reason: "transition " + quote(from) + " -> " + quote(to) + " moves backwards"}
	case c.IsTerminal(to):
		return Transition{Allowed: true, Reason: "transition to terminal status"}
	default:
		return Transition{Allowed: true, Unusual: true, Reason: "target status " + quote(to) + " is not in the status progression"}
	}
}

// Decide maps the top of a ranked list to an action. currentStatus is the
// status of the best candidate as the caller knows it; when empty the
// candidate status captured in the result is used.
func Decide(cfg Config, ranked []MatchResult, currentStatus string) Decision {
	if len(ranked) == 0 {
		return Decision{Action: ActionIgnore, Level: ConfidenceLow, Reason: "no candidates"}
	}
	best := ranked[0]
	if strings.TrimSpace(currentStatus) == "" {
		currentStatus = best.CandidateStatus
	}
	d := cfg.decideOne(best, currentStatus)
	d.Best = &best
	return d
}

func (c Config) decideOne(best MatchResult, currentStatus string) Decision {
	current := normalizeStatus(currentStatus)
	d := Decision{
		Action:        ActionSuggest,
		Level:         c.ConfidenceLevel(best.Confidence),
		CurrentStatus: current,
	}

	switch {
	case best.Confidence < c.Thresholds.ManualReview:
		d.Action = ActionIgnore
		d.Reason = "confidence below manual review threshold"
		return d
	case best.Confidence < c.Thresholds.AutoUpdate:
		d.Reason = "confidence between manual review and auto update thresholds"
		d.TargetStatus = best.ImpliedStatus
		return d
	}

	if c.IsTerminal(current) {
		d.Reason = "current status " + quote(current) + " is terminal; confirmation required"
		d.TargetStatus = best.ImpliedStatus
		return d
	}

	if best.ImpliedStatus != "" && best.ImpliedStatus != current {
		t := c.CheckTransition(current, best.ImpliedStatus)
		d.TargetStatus = best.ImpliedStatus
		if !t.Allowed {
			d.Reason = t.Reason
			return d
		}
		if t.Unusual {
			d.Anomaly = t.Reason
		}
	}

	d.Action = ActionAutoUpdate
	d.Reason = "confidence at or above auto update threshold"
	return d
}
