package handlers

import (
	"html/template"
	"strconv"
	"strings"

	"densitydesk/internal/density"
	"densitydesk/internal/highlight"
	"densitydesk/internal/keywords"
	"densitydesk/internal/models"
)

// Analyzer display modes.
const (
	ModeEdit = "edit"
	ModeView = "view"
)

// densityRow is one row of the single-keyword or stopword table.
type densityRow struct {
	Keyword        string
	Key            string // lower-cased, matches data-keyword on tokens
	Density        string
	TimesUsed      int
	IsOverFrequent bool
	RowClass       string
	Bucket         string
	Hovered        bool
}

// keywordRow is one editable keyword table row.
type keywordRow struct {
	ID         string
	Key        string
	Volume     string
	KD         string
	KDClass    string
	Difficulty string
	TimesUsed  int
}

// keywordTableView is everything the keyword table partial needs.
type keywordTableView struct {
	Name      string
	Title     string
	Rows      []keywordRow
	TotalUsed int
}

func densityRows(stats []models.SingleKeywordStat, hovered string) []densityRow {
	rows := make([]densityRow, 0, len(stats))
	for _, s := range stats {
		key := normalizeHover(s.Keyword)
		rows = append(rows, densityRow{
			Keyword:        s.Keyword,
			Key:            key,
			Density:        strconv.FormatFloat(s.Density, 'f', 2, 64) + "%",
			TimesUsed:      s.TimesUsed,
			IsOverFrequent: s.IsOverFrequent,
			RowClass:       density.RowClass(s.Density),
			Bucket:         density.ForDensity(s.Density).String(),
			Hovered:        hovered != "" && key == hovered,
		})
	}
	return rows
}

func keywordTable(name string, records []models.KeywordRecord) keywordTableView {
	title := "Main keywords"
	if name == models.TableExtra {
		title = "Extra keywords"
	}
	rows := make([]keywordRow, 0, len(records))
	for _, r := range records {
		d := keywords.DifficultyFor(r.KD)
		rows = append(rows, keywordRow{
			ID:         r.ID.String(),
			Key:        r.Key,
			Volume:     r.Volume,
			KD:         r.KD,
			KDClass:    d.Class(),
			Difficulty: d.String(),
			TimesUsed:  r.TimesUsed,
		})
	}
	return keywordTableView{
		Name:      name,
		Title:     title,
		Rows:      rows,
		TotalUsed: keywords.TotalUsed(records),
	}
}

// highlightedText renders the annotated analyzer text.
func highlightedText(text string, result *models.AnalysisResult, floor float64, hovered string) template.HTML {
	table := highlight.BuildTable(result.AllKeywords(), floor)
	return highlight.HTML(highlight.RenderTable(text, table, hovered), highlight.HTMLOptions{LineBreaks: true})
}

func normalizeMode(mode string) string {
	if mode == ModeView {
		return ModeView
	}
	return ModeEdit
}

// normalizeHover lower-cases a keyword the way rendered tokens carry it.
func normalizeHover(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
