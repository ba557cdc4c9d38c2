package highlight

import (
	"html"
	"html/template"
	"strings"

	"densitydesk/internal/density"
)

// HTMLOptions controls HTML output.
type HTMLOptions struct {
	// LineBreaks turns each newline into <br>. Leave it off when the
	// container preserves whitespace itself.
	LineBreaks bool
}

// HTML renders segments as markup. Token text is escaped; keyword tokens
// become spans carrying their color and a data-keyword attribute.
func HTML(segments []Segment, opts HTMLOptions) template.HTML {
	var b strings.Builder
	for _, s := range segments {
		switch s.Style {
		case StyleSpace:
			if opts.LineBreaks {
				b.WriteString(strings.ReplaceAll(s.Text, "\n", "<br>"))
			} else {
				b.WriteString(s.Text)
			}
		case StyleKeyword:
			palette := density.PaletteFor(s.Bucket)
			bg := "transparent"
			if s.Hovered {
				bg = palette.HighlightColor
			}
			b.WriteString(`<span class="keyword-highlight" data-keyword="`)
			b.WriteString(html.EscapeString(s.Keyword))
			b.WriteString(`" style="color: `)
			b.WriteString(palette.TextColor)
			b.WriteString(`; background-color: `)
			b.WriteString(bg)
			b.WriteString(`; cursor: pointer;">`)
			b.WriteString(html.EscapeString(s.Text))
			b.WriteString(`</span>`)
		default:
			b.WriteString(html.EscapeString(s.Text))
		}
	}
	return template.HTML(b.String())
}
