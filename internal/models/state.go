package models

import "time"

// AppState is everything a browser session works on. It is persisted after
// every transition and reloaded when the session returns.
type AppState struct {
	Text     string          `json:"text"`
	Analysis *AnalysisResult `json:"analysis,omitempty"`
	SpamRisk *SpamRiskResult `json:"spamRisk,omitempty"`

	MainKeywords     []KeywordRecord `json:"mainKeywords"`
	ExtraKeywords    []KeywordRecord `json:"extraKeywords"`
	ExtensionName    string          `json:"extensionName"`
	ShortDescription string          `json:"shortDescription"`
	UserPrompt       string          `json:"userPrompt"`
	GeneratedText    string          `json:"generatedText"`
}

// Table returns the keyword table with the given name.
func (s AppState) Table(name string) []KeywordRecord {
	switch name {
	case TableMain:
		return s.MainKeywords
	case TableExtra:
		return s.ExtraKeywords
	}
	return nil
}

// TextStats holds character and word counts for a piece of text.
type TextStats struct {
	Total         int `json:"total"`
	WithoutSpaces int `json:"withoutSpaces"`
	Words         int `json:"words"`
}

// StateExport is the downloadable JSON document for a workspace.
type StateExport struct {
	AppState
	Stats      TextStats `json:"stats"`
	ExportDate time.Time `json:"exportDate"`
}

// SavedAnalysis is the bundle stored by the share endpoint.
type SavedAnalysis struct {
	ID             string          `json:"id,omitempty"`
	Text           string          `json:"text"`
	AnalysisResult *AnalysisResult `json:"analysisResult"`
	SpamRiskResult *SpamRiskResult `json:"spamRiskResult"`
	CreatedAt      *time.Time      `json:"createdAt,omitempty"`
}
