// Package redact removes credentials and other sensitive values from provider
// error text before it is logged or shown to a user. Provider errors often
// echo the request URL, which may carry the API key as a query parameter.
package redact

import (
	"regexp"
	"unicode/utf8"
)

// Constants for redaction placeholders
const (
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedDataPlaceholder       = "[REDACTED_DATA]"
)

type pattern struct {
	re          *regexp.Regexp
	replacement string
}

// Patterns are applied in order. Replacements may reference capture groups so
// that the parameter name stays readable.
var patterns = []pattern{
	// Google API keys.
	{regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`), RedactedKeyPlaceholder},
	// key=..., api_key=..., access_token=... in URLs and query strings.
	{
		regexp.MustCompile(`(?i)([?&](?:key|api[_-]?key|access_token|token)=)[^&\s"']+`),
		"${1}" + RedactedKeyPlaceholder,
	},
	// Header or config style assignments.
	{
		regexp.MustCompile(`(?i)((?:x-goog-api-key|api[_-]?key|\bkey|secret|password|token)["']?\s*[:=]\s*["']?)[A-Za-z0-9_\-.~+/]{8,}`),
		"${1}" + RedactedCredentialPlaceholder,
	},
	// Bearer tokens.
	{regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9_\-.~+/=]{8,}`), "${1}" + RedactedCredentialPlaceholder},
	// Inline base64 payloads, e.g. data URLs of reference images.
	{regexp.MustCompile(`data:[a-z]+/[a-z0-9.+-]+;base64,[A-Za-z0-9+/=]{16,}`), RedactedDataPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},
	// Local file paths, e.g. a prompt template path in a config error.
	{
		regexp.MustCompile(`(^|[\s"'(=])(?:/[\w.-]+){2,}\.(?:tmpl|txt|json|ya?ml|env|png|jpe?g|webp)\b`),
		"${1}" + RedactedPathPlaceholder,
	},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\\s]+(\\[^\\\s]+)+`), RedactedPathPlaceholder},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, p := range patterns {
		result = p.re.ReplaceAllString(result, p.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Truncate redacts input and shortens it to at most maxRunes runes, appending
// an ellipsis when shortened.
func Truncate(input string, maxRunes int) string {
	out := String(input)
	if maxRunes <= 0 || utf8.RuneCountInString(out) <= maxRunes {
		return out
	}
	runes := []rune(out)
	return string(runes[:maxRunes]) + "…"
}
