package keywords

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"densitydesk/internal/models"
)

// CountOccurrences returns the number of case-insensitive, non-overlapping
// matches of keyword in text. The keyword is matched literally.
func CountOccurrences(text, keyword string) int {
	if text == "" || keyword == "" {
		return 0
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(keyword))
	return len(re.FindAllStringIndex(text, -1))
}

// CountUsage returns a copy of records with TimesUsed recomputed against text.
func CountUsage(text string, records []models.KeywordRecord) []models.KeywordRecord {
	if records == nil {
		return nil
	}
	out := make([]models.KeywordRecord, len(records))
	for i, r := range records {
		r.TimesUsed = CountOccurrences(text, r.Key)
		out[i] = r
	}
	return out
}

// TotalUsed sums TimesUsed across a table.
func TotalUsed(records []models.KeywordRecord) int {
	total := 0
	for _, r := range records {
		total += r.TimesUsed
	}
	return total
}

// CalculateStats counts characters, non-whitespace characters and
// whitespace-separated words.
func CalculateStats(text string) models.TextStats {
	nonSpace := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			nonSpace++
		}
	}
	return models.TextStats{
		Total:         utf8.RuneCountInString(text),
		WithoutSpaces: nonSpace,
		Words:         len(strings.Fields(text)),
	}
}
