package oracle

import (
	"regexp"
	"strings"
)

var (
	fenceOpenRe   = regexp.MustCompile("(?i)```(?:json)?")
	trailingComma = regexp.MustCompile(`,\s*([\]}])`)
)

// NormalizeResponse is the single place where oracle output repair happens.
// Models occasionally wrap JSON in markdown fences, prepend prose, leave
// trailing commas, or escape quotes around the whole document; everything
// else must parse strictly or fail.
func NormalizeResponse(raw string) string {
	s := strings.TrimSpace(raw)

	// Strip markdown code fences wherever they appear.
	s = fenceOpenRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	// A fully quote-escaped document ("{\"a\":1}" style) gets unescaped.
	// This must run before prose trimming eats the wrapping quotes.
	if strings.HasPrefix(s, `"{`) || strings.HasPrefix(s, `"[`) {
		unquoted := strings.TrimPrefix(strings.TrimSuffix(s, `"`), `"`)
		s = strings.ReplaceAll(unquoted, `\"`, `"`)
	}

	// Drop prose before the first brace/bracket and after the last one.
	start := strings.IndexAny(s, "{[")
	if start > 0 {
		s = s[start:]
	}
	if end := strings.LastIndexAny(s, "}]"); end >= 0 && end < len(s)-1 {
		s = s[:end+1]
	}

	// Remove trailing commas before closing brackets.
	s = trailingComma.ReplaceAllString(s, "$1")

	return strings.TrimSpace(s)
}
