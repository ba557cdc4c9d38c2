package keywords

import (
	"strings"
	"testing"

	"densitydesk/internal/models"
)

func TestExportAnalysisCSV(t *testing.T) {
	result := &models.AnalysisResult{
		SingleKeywords: []models.SingleKeywordStat{{Keyword: "tab, manager", Density: 2.5, TimesUsed: 3}},
		Stopwords:      []models.SingleKeywordStat{{Keyword: "the", Density: 4, TimesUsed: 5, IsStopword: true}},
		Phrases:        []models.PhraseStat{{Phrase: "extract table", TimesUsed: 3}},
	}

	out, err := ExportAnalysisCSV(result)
	if err != nil {
		t.Fatalf("ExportAnalysisCSV() error = %v", err)
	}

	want := strings.Join([]string{
		"Type,Keyword/Phrase,Density,Times Used,Is Stopword",
		`Single Keyword,"tab, manager",2.5%,3,No`,
		"Stopword,the,4%,5,Yes",
		"Phrase,extract table,,3,N/A",
		"",
	}, "\n")
	if string(out) != want {
		t.Errorf("ExportAnalysisCSV() =\n%s\nwant\n%s", out, want)
	}
}

func TestExportAnalysisCSV_Nil(t *testing.T) {
	out, err := ExportAnalysisCSV(nil)
	if err != nil {
		t.Fatalf("ExportAnalysisCSV(nil) error = %v", err)
	}
	if string(out) != "Type,Keyword/Phrase,Density,Times Used,Is Stopword\n" {
		t.Errorf("ExportAnalysisCSV(nil) = %q", out)
	}
}
