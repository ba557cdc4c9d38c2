package highlight

import (
	"strings"

	"densitydesk/internal/density"
	"densitydesk/internal/models"
)

// Style tags a rendered segment. The presentation layer decides what each
// tag looks like.
type Style int

const (
	StylePlain Style = iota
	StyleSpace
	StyleKeyword
)

func (s Style) String() string {
	switch s {
	case StyleSpace:
		return "space"
	case StyleKeyword:
		return "keyword"
	}
	return "plain"
}

// Segment is one piece of rendered text.
type Segment struct {
	Text  string
	Style Style

	// Set for StyleKeyword only.
	Keyword string
	Density float64
	Bucket  density.Bucket
	Hovered bool
}

// Table is the lookup map built from a density table, keyed by lower-cased
// keyword.
type Table map[string]models.SingleKeywordStat

// BuildTable keeps non-stopword stats whose density reaches floor. A later
// entry for the same keyword replaces an earlier one.
func BuildTable(stats []models.SingleKeywordStat, floor float64) Table {
	t := make(Table, len(stats))
	for _, s := range stats {
		if s.Keyword == "" || s.IsStopword || s.Density < floor {
			continue
		}
		t[strings.ToLower(s.Keyword)] = s
	}
	return t
}

// Lookup returns the stat matching a raw token, if any.
func (t Table) Lookup(token string) (models.SingleKeywordStat, bool) {
	if len(t) == 0 {
		return models.SingleKeywordStat{}, false
	}
	s, ok := t[Normalize(token)]
	return s, ok
}

// Render annotates text against stats using the default highlight floor.
// hovered is the keyword currently under the pointer, or "".
func Render(text string, stats []models.SingleKeywordStat, hovered string) []Segment {
	return RenderTable(text, BuildTable(stats, density.HighlightFloor), hovered)
}

// RenderTable annotates text against a prepared lookup table.
func RenderTable(text string, table Table, hovered string) []Segment {
	hovered = strings.ToLower(hovered)
	runs := Tokenize(text)
	segments := make([]Segment, 0, len(runs))

	for _, run := range runs {
		if run.Space {
			segments = append(segments, Segment{Text: run.Text, Style: StyleSpace})
			continue
		}
		stat, ok := table.Lookup(run.Text)
		if !ok {
			segments = append(segments, Segment{Text: run.Text, Style: StylePlain})
			continue
		}
		key := strings.ToLower(stat.Keyword)
		segments = append(segments, Segment{
			Text:    run.Text,
			Style:   StyleKeyword,
			Keyword: key,
			Density: stat.Density,
			Bucket:  density.ForDensity(stat.Density),
			Hovered: hovered != "" && hovered == key,
		})
	}
	return segments
}

// PlainText joins segment texts back into the source text.
func PlainText(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}
