// Package sanitize removes JSON key names that a language model sometimes
// echoes inside short string values, e.g. "highlight_text: 深度思考".
//
// It is meant for titles and cover summary fields only. Long-form bodies use
// colons as ordinary punctuation and must not be passed through it.
package sanitize

import (
	"regexp"
	"strings"
)

// leakedKey matches a leading identifier, optionally quoted, followed by an
// ASCII or full-width colon.
var leakedKey = regexp.MustCompile(
	`^\s*["'“”‘’]?([A-Za-z_][A-Za-z0-9_]*)["'“”‘’]?\s*[:：]\s*`,
)

// knownKeys are field names of the post schema in both snake and camel case.
var knownKeys = map[string]bool{
	"title":          true,
	"content":        true,
	"tags":           true,
	"image_prompt":   true,
	"imageprompt":    true,
	"cover_summary":  true,
	"coversummary":   true,
	"main_title":     true,
	"maintitle":      true,
	"highlight_text": true,
	"highlighttext":  true,
	"body_preview":   true,
	"bodypreview":    true,
}

var quotePairs = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"“", "”"},
	{"‘", "’"},
	{"「", "」"},
	{"『", "』"},
}

// Field strips leaked key prefixes and surrounding quotes until neither
// applies, so Field(Field(s)) == Field(s) for every s. A prefix is only treated
// as a leaked key when it is a known schema field or a snake_case identifier,
// so titles like "Tips: ..." survive.
func Field(value string) string {
	out := strings.TrimSpace(value)
	for {
		next := stripQuotes(stripKey(out))
		if next == out {
			return out
		}
		out = next
	}
}

func stripKey(s string) string {
	m := leakedKey.FindStringSubmatchIndex(s)
	if m == nil || !looksLikeKey(s[m[2]:m[3]]) {
		return s
	}
	return strings.TrimSpace(s[m[1]:])
}

func stripQuotes(s string) string {
	for _, pair := range quotePairs {
		if len(s) >= len(pair[0])+len(pair[1]) &&
			strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) {
			return strings.TrimSpace(s[len(pair[0]) : len(s)-len(pair[1])])
		}
	}
	return s
}

// Fields applies Field to every value in place and returns the slice.
func Fields(values []string) []string {
	for i, v := range values {
		values[i] = Field(v)
	}
	return values
}

func looksLikeKey(key string) bool {
	lower := strings.ToLower(key)
	if knownKeys[lower] {
		return true
	}
	return strings.Contains(key, "_") && strings.Trim(key, "_") != ""
}
