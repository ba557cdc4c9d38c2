package state

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"densitydesk/internal/models"
)

func withRows(keys ...string) models.AppState {
	s := Initial()
	for _, k := range keys {
		s.MainKeywords = append(s.MainKeywords, models.KeywordRecord{ID: uuid.New(), Key: k})
	}
	return s
}

func TestReduce_TextAndResults(t *testing.T) {
	s := Initial()

	s, err := Reduce(s, SetText{Text: "hello world"})
	if err != nil {
		t.Fatalf("SetText error = %v", err)
	}
	if s.Text != "hello world" {
		t.Errorf("Text = %q", s.Text)
	}

	result := &models.AnalysisResult{TotalWords: 2}
	s, _ = Reduce(s, SetAnalysis{Result: result})
	if s.Analysis != result {
		t.Error("SetAnalysis did not store result")
	}

	spam := &models.SpamRiskResult{Success: true, Level: "low"}
	s, _ = Reduce(s, SetSpamRisk{Result: spam})
	if s.SpamRisk != spam {
		t.Error("SetSpamRisk did not store result")
	}

	// a later result overwrites the earlier one
	later := &models.AnalysisResult{TotalWords: 5}
	s, _ = Reduce(s, SetAnalysis{Result: later})
	if s.Analysis.TotalWords != 5 {
		t.Errorf("Analysis.TotalWords = %d, want 5", s.Analysis.TotalWords)
	}
}

func TestReduce_LoadShared(t *testing.T) {
	s := withRows("tabs")
	s.Text = "old"
	s.GeneratedText = "keep me"

	bundle := models.SavedAnalysis{
		Text:           "shared text",
		AnalysisResult: &models.AnalysisResult{TotalWords: 2},
		SpamRiskResult: &models.SpamRiskResult{Success: true},
	}
	got, err := Reduce(s, LoadShared{Bundle: bundle})
	if err != nil {
		t.Fatalf("LoadShared error = %v", err)
	}
	if got.Text != "shared text" || got.Analysis == nil || got.SpamRisk == nil {
		t.Errorf("LoadShared state = %+v", got)
	}
	if got.GeneratedText != "keep me" || len(got.MainKeywords) != 1 {
		t.Error("LoadShared should leave the generator workspace alone")
	}
}

func TestReduce_KeywordTables(t *testing.T) {
	s := Initial()
	s.GeneratedText = "Tabs and more tabs. Sessions too."

	s, err := Reduce(s, ImportKeywords{
		Table: models.TableMain,
		Records: []models.KeywordRecord{
			{ID: uuid.New(), Key: "tabs", Volume: "100"},
			{ID: uuid.New(), Key: "windows"},
		},
	})
	if err != nil {
		t.Fatalf("ImportKeywords error = %v", err)
	}
	if len(s.MainKeywords) != 2 {
		t.Fatalf("MainKeywords len = %d, want 2", len(s.MainKeywords))
	}
	if s.MainKeywords[0].TimesUsed != 2 || s.MainKeywords[1].TimesUsed != 0 {
		t.Errorf("TimesUsed = %d/%d, want 2/0", s.MainKeywords[0].TimesUsed, s.MainKeywords[1].TimesUsed)
	}

	s, err = Reduce(s, AddRow{Table: models.TableExtra, Record: models.KeywordRecord{Key: "sessions"}})
	if err != nil {
		t.Fatalf("AddRow error = %v", err)
	}
	if len(s.ExtraKeywords) != 1 || s.ExtraKeywords[0].ID == uuid.Nil {
		t.Fatalf("AddRow should assign an ID: %+v", s.ExtraKeywords)
	}
	if s.ExtraKeywords[0].TimesUsed != 1 {
		t.Errorf("AddRow TimesUsed = %d, want 1", s.ExtraKeywords[0].TimesUsed)
	}

	id := s.MainKeywords[1].ID.String()
	s, err = Reduce(s, UpdateRow{Table: models.TableMain, ID: id, Field: models.FieldKey, Value: "more"})
	if err != nil {
		t.Fatalf("UpdateRow error = %v", err)
	}
	if s.MainKeywords[1].Key != "more" || s.MainKeywords[1].TimesUsed != 1 {
		t.Errorf("UpdateRow key = %+v", s.MainKeywords[1])
	}

	s, _ = Reduce(s, UpdateRow{Table: models.TableMain, ID: id, Field: models.FieldKD, Value: "42"})
	if s.MainKeywords[1].KD != "42" {
		t.Errorf("UpdateRow kd = %q", s.MainKeywords[1].KD)
	}

	s, err = Reduce(s, DeleteRow{Table: models.TableMain, ID: id})
	if err != nil {
		t.Fatalf("DeleteRow error = %v", err)
	}
	if len(s.MainKeywords) != 1 || s.MainKeywords[0].Key != "tabs" {
		t.Errorf("DeleteRow left %+v", s.MainKeywords)
	}

	s, _ = Reduce(s, ClearTable{Table: models.TableMain})
	if s.MainKeywords == nil || len(s.MainKeywords) != 0 {
		t.Errorf("ClearTable left %+v", s.MainKeywords)
	}
	if len(s.ExtraKeywords) != 1 {
		t.Error("ClearTable touched the other table")
	}
}

func TestReduce_Errors(t *testing.T) {
	s := withRows("tabs")
	id := s.MainKeywords[0].ID.String()

	tests := []struct {
		name   string
		action Action
		want   error
	}{
		{"unknown table on import", ImportKeywords{Table: "other"}, ErrUnknownTable},
		{"unknown table on clear", ClearTable{Table: ""}, ErrUnknownTable},
		{"non-editable field", UpdateRow{Table: models.TableMain, ID: id, Field: "timesUsed", Value: "9"}, ErrUnknownField},
		{"missing row", DeleteRow{Table: models.TableMain, ID: uuid.NewString()}, ErrRowNotFound},
		{"malformed row id", UpdateRow{Table: models.TableMain, ID: "nope", Field: models.FieldKey}, ErrRowNotFound},
		{"row in other table", DeleteRow{Table: models.TableExtra, ID: id}, ErrRowNotFound},
		{"nil action", nil, ErrUnknownAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reduce(s, tt.action)
			if !errors.Is(err, tt.want) {
				t.Errorf("Reduce() error = %v, want %v", err, tt.want)
			}
			if len(got.MainKeywords) != 1 || got.MainKeywords[0].Key != "tabs" {
				t.Errorf("Reduce() changed state on error: %+v", got.MainKeywords)
			}
		})
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := withRows("a", "b")
	id := s.MainKeywords[0].ID.String()

	if _, err := Reduce(s, UpdateRow{Table: models.TableMain, ID: id, Field: models.FieldKey, Value: "changed"}); err != nil {
		t.Fatal(err)
	}
	if s.MainKeywords[0].Key != "a" {
		t.Errorf("input row mutated: %q", s.MainKeywords[0].Key)
	}

	if _, err := Reduce(s, DeleteRow{Table: models.TableMain, ID: id}); err != nil {
		t.Fatal(err)
	}
	if len(s.MainKeywords) != 2 || s.MainKeywords[1].Key != "b" {
		t.Errorf("input table mutated: %+v", s.MainKeywords)
	}
}

func TestReduce_GeneratedTextRecountsBothTables(t *testing.T) {
	s := withRows("tab", "window")
	s.ExtraKeywords = []models.KeywordRecord{{ID: uuid.New(), Key: "Tab"}}

	s, err := Reduce(s, SetGeneratedText{Text: "Tab tab TAB window"})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.MainKeywords[0].TimesUsed; got != 3 {
		t.Errorf("main tab TimesUsed = %d, want 3", got)
	}
	if got := s.MainKeywords[1].TimesUsed; got != 1 {
		t.Errorf("main window TimesUsed = %d, want 1", got)
	}
	if got := s.ExtraKeywords[0].TimesUsed; got != 3 {
		t.Errorf("extra Tab TimesUsed = %d, want 3", got)
	}

	s, _ = Reduce(s, SetGeneratedText{Text: ""})
	if s.MainKeywords[0].TimesUsed != 0 {
		t.Errorf("TimesUsed after clearing text = %d, want 0", s.MainKeywords[0].TimesUsed)
	}
}

func TestReduce_FieldsAndReset(t *testing.T) {
	s := withRows("tabs")
	s, _ = Reduce(s, SetFields{ExtensionName: "Tab Saver", ShortDescription: "Saves tabs quickly", UserPrompt: "friendly"})
	if s.ExtensionName != "Tab Saver" || s.ShortDescription != "Saves tabs quickly" || s.UserPrompt != "friendly" {
		t.Errorf("SetFields state = %+v", s)
	}

	s, _ = Reduce(s, Reset{})
	if s.ExtensionName != "" || len(s.MainKeywords) != 0 || s.MainKeywords == nil {
		t.Errorf("Reset state = %+v", s)
	}
}
