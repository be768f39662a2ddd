package secrets

import (
	"regexp"
	"sort"
	"strings"
)

// Scrubber detects and redacts secrets in text.
type Scrubber interface {
	Scrub(content string) *Result
	IsEnabled() bool
}

// Result is the outcome of one Scrub call. It never holds matched values.
type Result struct {
	Scrubbed      string
	TotalFindings int
	ByRule        map[string]int
}

// HasFindings reports whether anything was redacted.
func (r *Result) HasFindings() bool {
	return r.TotalFindings > 0
}

// RuleIDs returns the matched rule ids, sorted.
func (r *Result) RuleIDs() []string {
	ids := make([]string, 0, len(r.ByRule))
	for id := range r.ByRule {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type scrubber struct {
	enabled     bool
	replacement string
	rules       []compiledRule
	allow       []*regexp.Regexp
}

type span struct{ start, end int }

// New builds a Scrubber. A nil cfg means DefaultConfig.
func New(cfg *Config) (Scrubber, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if !cfg.Enabled {
		return &NoopScrubber{}, nil
	}
	rules, allow, err := compile(cfg)
	if err != nil {
		return nil, err
	}
	replacement := cfg.RedactionString
	if replacement == "" {
		replacement = "[REDACTED]"
	}
	return &scrubber{enabled: true, replacement: replacement, rules: rules, allow: allow}, nil
}

func (s *scrubber) Scrub(content string) *Result {
	res := &Result{Scrubbed: content, ByRule: map[string]int{}}

	var spans []span
	for _, rule := range s.rules {
		if !rule.applies(content) {
			continue
		}
		for _, m := range rule.pattern.FindAllStringIndex(content, -1) {
			if s.allowed(content[m[0]:m[1]]) {
				continue
			}
			spans = append(spans, span{m[0], m[1]})
			res.ByRule[rule.id]++
			res.TotalFindings++
		}
	}
	if len(spans) == 0 {
		return res
	}

	var b strings.Builder
	last := 0
	for _, sp := range merge(spans) {
		b.WriteString(content[last:sp.start])
		b.WriteString(s.replacement)
		last = sp.end
	}
	b.WriteString(content[last:])
	res.Scrubbed = b.String()
	return res
}

func (s *scrubber) IsEnabled() bool { return s.enabled }

func (s *scrubber) allowed(match string) bool {
	for _, re := range s.allow {
		if re.MatchString(match) {
			return true
		}
	}
	return false
}

func (r compiledRule) applies(content string) bool {
	if len(r.keywords) == 0 {
		return true
	}
	for _, kw := range r.keywords {
		if kw.MatchString(content) {
			return true
		}
	}
	return false
}

// merge sorts spans and joins overlapping or touching ones.
func merge(spans []span) []span {
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	out := []span{spans[0]}
	for _, sp := range spans[1:] {
		last := &out[len(out)-1]
		if sp.start <= last.end {
			if sp.end > last.end {
				last.end = sp.end
			}
			continue
		}
		out = append(out, sp)
	}
	return out
}

// NoopScrubber returns content unchanged.
type NoopScrubber struct{}

func (NoopScrubber) Scrub(content string) *Result {
	return &Result{Scrubbed: content, ByRule: map[string]int{}}
}

func (NoopScrubber) IsEnabled() bool { return false }

var (
	_ Scrubber = (*scrubber)(nil)
	_ Scrubber = NoopScrubber{}
)
