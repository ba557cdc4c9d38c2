package api

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"densitydesk/internal/config"
	"densitydesk/internal/density"
	"densitydesk/internal/highlight"
	"densitydesk/internal/keywords"
	"densitydesk/internal/models"
)

// TextHandler exposes the local text routines as a stateless JSON API.
type TextHandler struct {
	cfg *config.Config
}

// NewTextHandler creates a new API text handler.
func NewTextHandler(cfg *config.Config) *TextHandler {
	return &TextHandler{cfg: cfg}
}

// ParseCSV parses keyword CSV. The body is either raw CSV (text/csv) or
// JSON of the form {"csv": "..."}.
func (h *TextHandler) ParseCSV(c fiber.Ctx) error {
	var text string
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var body struct {
			CSV string `json:"csv"`
		}
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
		text = body.CSV
	} else {
		text = string(c.Body())
	}

	if limit := h.cfg.Limits.CSVMaxBytes; limit > 0 && int64(len(text)) > limit {
		return jsonError(c, fiber.StatusRequestEntityTooLarge, "CSV exceeds the size limit")
	}

	parsed := keywords.ParseCSV(text)
	if parsed == nil {
		parsed = []keywords.ParsedKeyword{}
	}
	return jsonSuccess(c, parsed)
}

type segmentJSON struct {
	Text    string  `json:"text"`
	Style   string  `json:"style"`
	Keyword string  `json:"keyword,omitempty"`
	Density float64 `json:"density,omitempty"`
	Bucket  string  `json:"bucket,omitempty"`
	Hovered bool    `json:"hovered,omitempty"`
}

// Highlight annotates text against a density table.
func (h *TextHandler) Highlight(c fiber.Ctx) error {
	var body struct {
		Text     string                     `json:"text"`
		Keywords []models.SingleKeywordStat `json:"keywords"`
		Hovered  string                     `json:"hovered"`
		HTML     bool                       `json:"html"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	table := highlight.BuildTable(body.Keywords, h.cfg.Limits.HighlightFloor)
	segments := highlight.RenderTable(body.Text, table, body.Hovered)

	if body.HTML {
		return jsonSuccess(c, fiber.Map{
			"html": string(highlight.HTML(segments, highlight.HTMLOptions{LineBreaks: true})),
		})
	}

	out := make([]segmentJSON, 0, len(segments))
	for _, s := range segments {
		seg := segmentJSON{Text: s.Text, Style: s.Style.String()}
		if s.Style == highlight.StyleKeyword {
			seg.Keyword = s.Keyword
			seg.Density = s.Density
			seg.Bucket = s.Bucket.String()
			seg.Hovered = s.Hovered
		}
		out = append(out, seg)
	}
	return jsonSuccess(c, out)
}

// Stats returns character and word counts.
func (h *TextHandler) Stats(c fiber.Ctx) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	return jsonSuccess(c, keywords.CalculateStats(body.Text))
}

// Occurrences counts literal, case-insensitive matches of each keyword.
func (h *TextHandler) Occurrences(c fiber.Ctx) error {
	var body struct {
		Text     string   `json:"text"`
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	counts := make(map[string]int, len(body.Keywords))
	total := 0
	for _, k := range body.Keywords {
		n := keywords.CountOccurrences(body.Text, k)
		counts[k] = n
		total += n
	}
	return jsonSuccess(c, fiber.Map{
		"counts": counts,
		"total":  total,
	})
}

// Density returns the bucket and palette for a density percentage.
func (h *TextHandler) Density(c fiber.Ctx) error {
	d, err := strconv.ParseFloat(c.Params("value"), 64)
	if err != nil || math.IsNaN(d) || math.IsInf(d, 0) {
		return jsonError(c, fiber.StatusBadRequest, "density must be a number")
	}

	b := density.ForDensity(d)
	p := density.PaletteFor(b)
	return jsonSuccess(c, fiber.Map{
		"density":        d,
		"bucket":         b.String(),
		"rowClass":       p.RowClass,
		"textColor":      p.TextColor,
		"highlightColor": p.HighlightColor,
		"highlighted":    d >= h.cfg.Limits.HighlightFloor,
	})
}
