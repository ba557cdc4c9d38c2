// Package keywords holds the client-side text routines around keyword
// tables: CSV import, literal occurrence counting, text statistics and
// keyword-difficulty bucketing.
package keywords

import (
	"strings"

	"github.com/google/uuid"

	"densitydesk/internal/models"
)

// Recognized CSV header names. Matching is exact and case-sensitive.
const (
	HeaderKeyword    = "Keyword"
	HeaderVolume     = "Volume"
	HeaderDifficulty = "Keyword Difficulty"
)

// ParsedKeyword is a keyword row as read from CSV, before it gets an ID.
type ParsedKeyword struct {
	Key    string `json:"key"`
	Volume string `json:"volume"`
	KD     string `json:"kd"`
}

// ParseCSV reads a header row plus data rows. Missing columns yield empty
// values, blank lines are skipped and rows without a keyword are dropped.
// A leading byte-order mark is ignored. Input with fewer than two non-blank
// lines returns nil.
func ParseCSV(text string) []ParsedKeyword {
	// Spreadsheet exports often start with a byte-order mark.
	text = strings.TrimPrefix(text, "\ufeff")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil
	}

	header := splitCSVLine(lines[0])
	keyIdx := indexOf(header, HeaderKeyword)
	volumeIdx := indexOf(header, HeaderVolume)
	kdIdx := indexOf(header, HeaderDifficulty)

	var out []ParsedKeyword
	for _, line := range lines[1:] {
		fields := splitCSVLine(line)
		row := ParsedKeyword{
			Key:    field(fields, keyIdx),
			Volume: field(fields, volumeIdx),
			KD:     field(fields, kdIdx),
		}
		if row.Key == "" {
			continue
		}
		out = append(out, row)
	}
	return out
}

// splitCSVLine splits one line on commas outside double quotes. Quote
// characters only toggle the quoted state and are not kept.
func splitCSVLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func field(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return fields[idx]
}

// NewRecord creates a keyword table row with a fresh ID.
func NewRecord(key, volume, kd string) models.KeywordRecord {
	return models.KeywordRecord{
		ID:     uuid.New(),
		Key:    key,
		Volume: volume,
		KD:     kd,
	}
}

// ToRecords assigns IDs to parsed rows, preserving order.
func ToRecords(parsed []ParsedKeyword) []models.KeywordRecord {
	records := make([]models.KeywordRecord, 0, len(parsed))
	for _, p := range parsed {
		records = append(records, NewRecord(p.Key, p.Volume, p.KD))
	}
	return records
}
