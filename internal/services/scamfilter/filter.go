package scamfilter

import (
	"regexp"
	"strings"
)

type Reason string

const (
	ReasonKeyword Reason = "keyword"
	ReasonDomain  Reason = "domain"
	ReasonPattern Reason = "pattern"
)

// Verdict is the transient classification result for one message.
type Verdict struct {
	Flagged bool
	Reason  Reason
	Match   string
}

// Filter classifies message text against a static scam rule set. It is a
// heuristic with no feedback loop; false positives and negatives are
// expected.
type Filter struct {
	keywords []string
	domains  []string
	patterns []*regexp.Regexp
}

func New(keywords, domains []string, patterns []*regexp.Regexp) *Filter {
	lowered := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, s := range in {
			s = strings.ToLower(strings.TrimSpace(s))
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	}

	return &Filter{
		keywords: lowered(keywords),
		domains:  lowered(domains),
		patterns: patterns,
	}
}

// Classify runs the three ordered checks; the first match wins.
func (f *Filter) Classify(text string) Verdict {
	lowered := strings.ToLower(text)

	for _, keyword := range f.keywords {
		if strings.Contains(lowered, keyword) {
			return Verdict{Flagged: true, Reason: ReasonKeyword, Match: keyword}
		}
	}

	for _, domain := range f.domains {
		if strings.Contains(lowered, domain) {
			return Verdict{Flagged: true, Reason: ReasonDomain, Match: domain}
		}
	}

	for _, pattern := range f.patterns {
		if pattern.MatchString(text) {
			return Verdict{Flagged: true, Reason: ReasonPattern, Match: pattern.String()}
		}
	}

	return Verdict{}
}
