package modelname

import (
	"regexp"
	"strings"
)

type Rule struct {
	Regex   *regexp.Regexp
	Replace string
}

// Rules are applied in order to every input.
var Rules = []Rule{
	// Vendor and family words: "Cisco Catalyst C9300" → "C9300"
	{regexp.MustCompile(`(?i)\b(cisco|catalyst|meraki)\b`), ""},
	// Trailing "switch" noise: "MS120-8 switch" → "MS120-8"
	{regexp.MustCompile(`(?i)\bswitch(es)?\b`), ""},
	// Spaces or underscores between segments: "C9300L 48T_4G" → "C9300L-48T-4G"
	{regexp.MustCompile(`[\s_]+`), "-"},
	// Repeated or dangling separators
	{regexp.MustCompile(`-{2,}`), "-"},
}

// Normalize turns a user-typed model into the upper-case, hyphen-separated
// form used by catalog keys.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	for _, rule := range Rules {
		s = rule.Regex.ReplaceAllString(strings.TrimSpace(s), rule.Replace)
	}
	return strings.ToUpper(strings.Trim(s, "-"))
}
