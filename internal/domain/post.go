package domain

import (
	"strings"
	"unicode/utf8"
)

// previewRunes is how much of the body is used when a template summary has
// no body preview.
const previewRunes = 150

// CoverSummary holds the short text fields rendered by the template cover.
type CoverSummary struct {
	MainTitle     string `json:"main_title"`
	HighlightText string `json:"highlight_text"`
	BodyPreview   string `json:"body_preview"`
}

// GeneratedPost is the text output of a generation request.
// CoverSummary is set if and only if the request used CoverModeTemplate.
type GeneratedPost struct {
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	Tags         []string      `json:"tags"`
	ImagePrompt  string        `json:"image_prompt,omitempty"`
	CoverSummary *CoverSummary `json:"cover_summary,omitempty"`
}

// FillSummary completes missing template fields from the post itself: the
// title stands in for the main title and the start of the body for the preview.
func (p *GeneratedPost) FillSummary() *CoverSummary {
	summary := CoverSummary{}
	if p.CoverSummary != nil {
		summary = *p.CoverSummary
	}
	if strings.TrimSpace(summary.MainTitle) == "" {
		summary.MainTitle = p.Title
	}
	if strings.TrimSpace(summary.BodyPreview) == "" {
		summary.BodyPreview = truncateRunes(p.Content, previewRunes)
	}
	return &summary
}

// ShareText renders the post the way it is pasted into the publishing app:
// title, body and a line of hashtags.
func (p *GeneratedPost) ShareText() string {
	tags := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		tag = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}
		tags = append(tags, "#"+tag)
	}

	var b strings.Builder
	b.WriteString(p.Title)
	b.WriteString("\n\n")
	b.WriteString(p.Content)
	if len(tags) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(tags, " "))
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
