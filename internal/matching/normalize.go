// Package matching scores incoming emails against tracked job applications
// and decides whether a status update can be applied automatically.
package matching

import (
	"strings"
	"unicode"
)

// NormalizeCompany lowercases name, replaces punctuation with spaces,
// collapses whitespace and strips configured legal suffixes ("inc", "llc")
// when they are trailing whole words. A name made only of suffixes is kept.
func (c Config) NormalizeCompany(name string) string {
	tokens := strings.Fields(cleanText(name, ""))
	for len(tokens) > 1 {
		if _, ok := c.companySuffixes[tokens[len(tokens)-1]]; !ok {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// NormalizePosition lowercases title, expands abbreviations ("sr" -> "senior")
// and drops noise words ("role", "position") as whole tokens.
// "+" and "#" survive so that "C++" and "C#" stay distinct.
func (c Config) NormalizePosition(title string) string {
	return strings.Join(c.positionTokens(title), " ")
}

func (c Config) positionTokens(title string) []string {
	raw := strings.Fields(cleanText(title, "+#"))
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if expansion, ok := c.positionSynonyms[tok]; ok {
			for _, t := range strings.Fields(expansion) {
				if _, noise := c.positionNoise[t]; !noise {
					tokens = append(tokens, t)
				}
			}
			continue
		}
		if _, noise := c.positionNoise[tok]; noise {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// normalizeSender turns a sender display name into a company hint by
// removing words like "recruiting" or "careers".
func (c Config) normalizeSender(name string) string {
	tokens := strings.Fields(c.NormalizeCompany(name))
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, noise := c.senderNoise[tok]; !noise {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

// NormalizeText lowercases s, maps punctuation to spaces and collapses whitespace.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(cleanText(s, "")), " ")
}

// cleanText lowercases ASCII letters and replaces every rune that is not a
// letter, digit or one of keep with a space.
func cleanText(s, keep string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case keep != "" && strings.ContainsRune(keep, r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// containsPhrase reports whether phrase occurs in text on token boundaries.
// Both arguments must already be normalized.
func containsPhrase(text, phrase string) bool {
	if text == "" || phrase == "" {
		return false
	}
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
