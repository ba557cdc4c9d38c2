package keywords

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"densitydesk/internal/models"
)

// ExportAnalysisCSV writes single keywords, stopwords and phrases as one
// CSV document.
func ExportAnalysisCSV(result *models.AnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{{"Type", "Keyword/Phrase", "Density", "Times Used", "Is Stopword"}}
	if result != nil {
		for _, k := range result.SingleKeywords {
			rows = append(rows, []string{"Single Keyword", k.Keyword, formatDensity(k.Density), strconv.Itoa(k.TimesUsed), "No"})
		}
		for _, k := range result.Stopwords {
			rows = append(rows, []string{"Stopword", k.Keyword, formatDensity(k.Density), strconv.Itoa(k.TimesUsed), "Yes"})
		}
		for _, p := range result.Phrases {
			rows = append(rows, []string{"Phrase", p.Phrase, "", strconv.Itoa(p.TimesUsed), "N/A"})
		}
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDensity(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64) + "%"
}
