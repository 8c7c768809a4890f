package utils

import (
	"html"
	"strings"
)

// SynthesizeTooltip builds the hover-card HTML fragment for catalog
// rows that have no precomputed tooltip. The client-side tooltip parser
// relies on the exact element order and on every value being escaped,
// so this is a contract, not presentation sugar: title heading, then an
// optional type/year list, then an optional synopsis paragraph, then an
// optional tag list, concatenated with no separators.
func SynthesizeTooltip(title, typeTxt, year, synopsis string, tags []string) string {
	var b strings.Builder
	b.WriteString(`<h5 class="theme-font">`)
	b.WriteString(html.EscapeString(title))
	b.WriteString(`</h5>`)

	if !blank(typeTxt) || !blank(year) {
		b.WriteString(`<ul class="entryBar">`)
		if !blank(typeTxt) {
			b.WriteString(`<li class="type">`)
			b.WriteString(html.EscapeString(typeTxt))
			b.WriteString(`</li>`)
		}
		if !blank(year) {
			b.WriteString(`<li class="iconYear">`)
			b.WriteString(html.EscapeString(year))
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)
	}

	if !blank(synopsis) {
		b.WriteString(`<p>`)
		b.WriteString(html.EscapeString(synopsis))
		b.WriteString(`</p>`)
	}

	if len(tags) > 0 {
		b.WriteString(`<div class="tags"><h4>Tags</h4><ul>`)
		for _, t := range tags {
			b.WriteString(`<li>`)
			b.WriteString(html.EscapeString(t))
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul></div>`)
	}

	return b.String()
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
