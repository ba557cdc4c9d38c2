// Package state holds the per-session application state and the single
// update function every change goes through. Persistence is a collaborator
// invoked by the Dispatcher after each transition.
package state

import "densitydesk/internal/models"

// Action describes one state transition.
type Action interface {
	actionName() string
}

// SetText replaces the analyzer text.
type SetText struct{ Text string }

// SetAnalysis stores the latest analysis result.
type SetAnalysis struct{ Result *models.AnalysisResult }

// SetSpamRisk stores the latest spam-risk result.
type SetSpamRisk struct{ Result *models.SpamRiskResult }

// LoadShared replaces the analyzer state with a saved bundle.
type LoadShared struct{ Bundle models.SavedAnalysis }

// ImportKeywords appends parsed records to a keyword table.
type ImportKeywords struct {
	Table   string
	Records []models.KeywordRecord
}

// AddRow appends a single record to a keyword table.
type AddRow struct {
	Table  string
	Record models.KeywordRecord
}

// UpdateRow changes one field of a keyword row.
type UpdateRow struct {
	Table string
	ID    string
	Field string
	Value string
}

// DeleteRow removes a keyword row.
type DeleteRow struct {
	Table string
	ID    string
}

// ClearTable empties a keyword table.
type ClearTable struct{ Table string }

// SetFields updates the generator form fields.
type SetFields struct {
	ExtensionName    string
	ShortDescription string
	UserPrompt       string
}

// SetGeneratedText replaces the generated description.
type SetGeneratedText struct{ Text string }

// Reset returns the whole state to its initial value.
type Reset struct{}

func (SetText) actionName() string          { return "set_text" }
func (SetAnalysis) actionName() string      { return "set_analysis" }
func (SetSpamRisk) actionName() string      { return "set_spam_risk" }
func (LoadShared) actionName() string       { return "load_shared" }
func (ImportKeywords) actionName() string   { return "import_keywords" }
func (AddRow) actionName() string           { return "add_row" }
func (UpdateRow) actionName() string        { return "update_row" }
func (DeleteRow) actionName() string        { return "delete_row" }
func (ClearTable) actionName() string       { return "clear_table" }
func (SetFields) actionName() string        { return "set_fields" }
func (SetGeneratedText) actionName() string { return "set_generated_text" }
func (Reset) actionName() string            { return "reset" }

// Name returns the action's short name, used in logs.
func Name(a Action) string {
	if a == nil {
		return ""
	}
	return a.actionName()
}
