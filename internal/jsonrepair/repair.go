// Package jsonrepair extracts a JSON value from text returned by a language
// model. The text may be wrapped in a markdown code fence, surrounded by
// prose, or cut off mid-token because the model hit its output limit. A
// truncated value is closed in a single repair pass: an open string gets its
// closing quote, then open objects and arrays are closed innermost first.
package jsonrepair

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/redpost/internal/generation"
)

// Result describes how the JSON text was obtained.
type Result struct {
	// JSON is the extracted, possibly repaired, JSON text.
	JSON string
	// Repaired is true when closers were appended to truncated input.
	Repaired bool
	// Trimmed is true when prose after the closing bracket was discarded.
	Trimmed bool
}

// Extract locates the first JSON object or array in raw and returns it,
// repairing truncation if needed. Every failure is a *generation.ProviderError
// of kind KindMalformedOutput; Extract never panics.
func Extract(raw string) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{}
			err = malformed(fmt.Sprintf("repair aborted: %v", r), nil)
		}
	}()

	text := stripFence(raw)

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return Result{}, malformed("no JSON object or array found", nil)
	}
	text = text[start:]

	s := scan(text)
	if s.mismatch >= 0 {
		return Result{}, malformed(fmt.Sprintf("unbalanced %q at offset %d", text[s.mismatch], start+s.mismatch), nil)
	}

	if s.end >= 0 {
		candidate := text[:s.end+1]
		if !json.Valid([]byte(candidate)) {
			return Result{}, malformed("extracted value is not valid JSON", nil)
		}
		return Result{JSON: candidate, Trimmed: s.end+1 < len(strings.TrimRightFunc(text, isSpace))}, nil
	}

	repaired := s.close(text)
	if !json.Valid([]byte(repaired)) {
		return Result{}, malformed("truncated value could not be repaired", nil)
	}
	return Result{JSON: repaired, Repaired: true}, nil
}

// Unmarshal extracts JSON from raw and decodes it into v.
func Unmarshal(raw string, v any) (Result, error) {
	res, err := Extract(raw)
	if err != nil {
		return res, err
	}
	if err := json.Unmarshal([]byte(res.JSON), v); err != nil {
		return res, malformed(fmt.Sprintf("decode: %v", err), err)
	}
	return res, nil
}

type scanState struct {
	stack    []byte
	inString bool
	escaped  bool
	// end is the index of the closer matching the first opener, or -1.
	end int
	// mismatch is the index of a closer that does not match the stack top, or -1.
	mismatch int
}

// scan walks text from its first byte, which must be '{' or '['. Multi-byte
// UTF-8 sequences never contain ASCII bytes, so scanning bytes is safe.
func scan(text string) scanState {
	s := scanState{end: -1, mismatch: -1}

	for i := 0; i < len(text); i++ {
		c := text[i]

		if s.inString {
			switch {
			case s.escaped:
				s.escaped = false
			case c == '\\':
				s.escaped = true
			case c == '"':
				s.inString = false
			}
			continue
		}

		switch c {
		case '"':
			s.inString = true
		case '{', '[':
			s.stack = append(s.stack, c)
		case '}', ']':
			if len(s.stack) == 0 || s.stack[len(s.stack)-1] != opener(c) {
				s.mismatch = i
				return s
			}
			s.stack = s.stack[:len(s.stack)-1]
			if len(s.stack) == 0 {
				s.end = i
				return s
			}
		}
	}
	return s
}

// close appends what a truncated value needs to become complete.
func (s scanState) close(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(s.stack) + 1)

	if s.inString {
		if s.escaped {
			// A dangling backslash would escape the closing quote.
			text = text[:len(text)-1]
		}
		b.WriteString(text)
		b.WriteByte('"')
	} else {
		b.WriteString(trimDangling(text))
	}

	for i := len(s.stack) - 1; i >= 0; i-- {
		b.WriteByte(closer(s.stack[i]))
	}
	return b.String()
}

// trimDangling drops trailing whitespace and a trailing comma, which would
// otherwise sit directly before the appended closer.
func trimDangling(text string) string {
	text = strings.TrimRightFunc(text, isSpace)
	return strings.TrimSuffix(text, ",")
}

func stripFence(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Drop the info string, e.g. "json".
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			if info := strings.TrimSpace(text[:nl]); !strings.ContainsAny(info, "{[") {
				text = text[nl+1:]
			}
		} else {
			text = strings.TrimPrefix(strings.TrimPrefix(text, "json"), "JSON")
		}
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}

func opener(c byte) byte {
	if c == '}' {
		return '{'
	}
	return '['
}

func closer(c byte) byte {
	if c == '{' {
		return '}'
	}
	return ']'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\r' || r == '\t'
}

func malformed(msg string, cause error) *generation.ProviderError {
	return generation.NewProviderError(generation.KindMalformedOutput, msg, cause)
}
