package matching

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
)

var subjectSeparators = regexp.MustCompile(`[|:,()\[\]/]|\s[-–—]\s`)

// preparedEmail holds everything the scorers need from an email, computed once
// per ranking call.
type preparedEmail struct {
	domain       string
	domainLabel  string
	hrPlatform   string
	companyHints []string

	subjectText     string
	bodyText        string
	subjectPosition string
	bodyPosition    string
	subjectSegments []string
	positionTokens  map[string]struct{}

	subjectCategories []int
	bodyCategories    []int

	receivedAt time.Time
}

func (c Config) prepare(email Email) preparedEmail {
	name, addr := parseSender(email.From)
	p := preparedEmail{
		domain:          extractDomain(addr),
		subjectText:     NormalizeText(email.Subject),
		bodyText:        NormalizeText(email.Body),
		subjectPosition: c.NormalizePosition(email.Subject),
		bodyPosition:    c.NormalizePosition(email.Body),
		receivedAt:      email.ReceivedAt,
	}

	if hint := c.normalizeSender(name); hint != "" {
		p.companyHints = append(p.companyHints, hint)
	}
	if p.domain != "" {
		if base, ok := c.hrPlatform(p.domain); ok {
			p.hrPlatform = base
			// stripe.greenhouse.io -> "stripe"
			if sub := strings.TrimSuffix(strings.TrimSuffix(p.domain, base), "."); sub != "" {
				labels := strings.Split(sub, ".")
				p.companyHints = append(p.companyHints, labels[len(labels)-1])
			}
		} else {
			p.domainLabel = registrableLabel(p.domain)
			if p.domainLabel != "" {
				p.companyHints = append(p.companyHints, p.domainLabel)
			}
		}
	}

	p.subjectSegments = append(p.subjectSegments, p.subjectPosition)
	for _, seg := range subjectSeparators.Split(email.Subject, -1) {
		if n := c.NormalizePosition(seg); n != "" && n != p.subjectPosition {
			p.subjectSegments = append(p.subjectSegments, n)
		}
	}

	tokens := c.positionTokens(email.Subject)
	tokens = append(tokens, c.positionTokens(email.Body)...)
	p.positionTokens = tokenSet(tokens)

	p.subjectCategories = c.detectCategories(email.Subject)
	p.bodyCategories = c.detectCategories(email.Body)
	return p
}

// detectCategories returns the indexes of every keyword category that matches text.
func (c Config) detectCategories(text string) []int {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var found []int
	for i, cat := range c.categories {
		for _, re := range cat.patterns {
			if re.MatchString(text) {
				found = append(found, i)
				break
			}
		}
	}
	return found
}

// impliedStatus picks the highest-priority category status, preferring the
// subject line over the body.
func (c Config) impliedStatus(p preparedEmail) string {
	for _, group := range [][]int{p.subjectCategories, p.bodyCategories} {
		for _, idx := range group {
			if s := c.categories[idx].status; s != "" {
				return s
			}
		}
	}
	return ""
}

func (c Config) categoryNames(p preparedEmail) []string {
	seen := make(map[int]bool)
	for _, idx := range p.subjectCategories {
		seen[idx] = true
	}
	for _, idx := range p.bodyCategories {
		seen[idx] = true
	}
	var names []string
	for i, cat := range c.categories {
		if seen[i] {
			names = append(names, cat.name)
		}
	}
	return names
}

// parseSender splits a From header into display name and address.
// Unparseable headers are treated as a bare address.
func parseSender(from string) (string, string) {
	from = strings.TrimSpace(from)
	if from == "" {
		return "", ""
	}
	if addr, err := mail.ParseAddress(from); err == nil {
		return addr.Name, strings.ToLower(addr.Address)
	}
	if open := strings.LastIndex(from, "<"); open >= 0 {
		name := strings.Trim(strings.TrimSpace(from[:open]), `"`)
		addr := strings.TrimSuffix(strings.TrimSpace(from[open+1:]), ">")
		return name, strings.ToLower(strings.TrimSpace(addr))
	}
	return "", strings.ToLower(from)
}

// extractDomain returns the lowercase domain of an address, or "" when there is none.
func extractDomain(addr string) string {
	at := strings.LastIndex(addr, "@")
	if at < 0 || at == len(addr)-1 {
		return ""
	}
	domain := strings.ToLower(strings.Trim(addr[at+1:], " <>."))
	if !strings.Contains(domain, ".") {
		return ""
	}
	return domain
}

// ExtractDomain returns the sending domain of a From header.
func ExtractDomain(from string) string {
	_, addr := parseSender(from)
	return extractDomain(addr)
}

var secondLevelLabels = map[string]bool{"co": true, "com": true, "org": true, "net": true, "ac": true, "gov": true, "edu": true}

// registrableLabel returns the organisation label of a domain:
// careers.google.com -> google, amazon.co.uk -> amazon.
func registrableLabel(domain string) string {
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return ""
	}
	last := labels[len(labels)-1]
	if len(labels) >= 3 && len(last) == 2 && secondLevelLabels[labels[len(labels)-2]] {
		return labels[len(labels)-3]
	}
	return labels[len(labels)-2]
}
