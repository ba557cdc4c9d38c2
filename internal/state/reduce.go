package state

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"densitydesk/internal/keywords"
	"densitydesk/internal/models"
)

var (
	ErrUnknownTable  = errors.New("unknown keyword table")
	ErrUnknownField  = errors.New("field cannot be edited")
	ErrRowNotFound   = errors.New("keyword row not found")
	ErrUnknownAction = errors.New("unknown action")
)

// Initial returns the empty application state.
func Initial() models.AppState {
	return models.AppState{
		MainKeywords:  []models.KeywordRecord{},
		ExtraKeywords: []models.KeywordRecord{},
	}
}

// Reduce applies a to s and returns the new state. The input is never
// modified; on error s is returned unchanged.
func Reduce(s models.AppState, a Action) (models.AppState, error) {
	next := s
	next.MainKeywords = slices.Clone(s.MainKeywords)
	next.ExtraKeywords = slices.Clone(s.ExtraKeywords)

	switch a := a.(type) {
	case SetText:
		next.Text = a.Text

	case SetAnalysis:
		next.Analysis = a.Result

	case SetSpamRisk:
		next.SpamRisk = a.Result

	case LoadShared:
		next.Text = a.Bundle.Text
		next.Analysis = a.Bundle.AnalysisResult
		next.SpamRisk = a.Bundle.SpamRiskResult

	case ImportKeywords:
		table, err := tableOf(&next, a.Table)
		if err != nil {
			return s, err
		}
		*table = append(*table, keywords.CountUsage(next.GeneratedText, a.Records)...)

	case AddRow:
		table, err := tableOf(&next, a.Table)
		if err != nil {
			return s, err
		}
		rec := a.Record
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		rec.TimesUsed = keywords.CountOccurrences(next.GeneratedText, rec.Key)
		*table = append(*table, rec)

	case UpdateRow:
		table, err := tableOf(&next, a.Table)
		if err != nil {
			return s, err
		}
		if !models.IsEditableField(a.Field) {
			return s, fmt.Errorf("%w: %q", ErrUnknownField, a.Field)
		}
		i, err := rowIndex(*table, a.ID)
		if err != nil {
			return s, err
		}
		rec := &(*table)[i]
		switch a.Field {
		case models.FieldKey:
			rec.Key = a.Value
			rec.TimesUsed = keywords.CountOccurrences(next.GeneratedText, rec.Key)
		case models.FieldVolume:
			rec.Volume = a.Value
		case models.FieldKD:
			rec.KD = a.Value
		}

	case DeleteRow:
		table, err := tableOf(&next, a.Table)
		if err != nil {
			return s, err
		}
		i, err := rowIndex(*table, a.ID)
		if err != nil {
			return s, err
		}
		*table = slices.Delete(*table, i, i+1)

	case ClearTable:
		table, err := tableOf(&next, a.Table)
		if err != nil {
			return s, err
		}
		*table = []models.KeywordRecord{}

	case SetFields:
		next.ExtensionName = a.ExtensionName
		next.ShortDescription = a.ShortDescription
		next.UserPrompt = a.UserPrompt

	case SetGeneratedText:
		next.GeneratedText = a.Text
		next.MainKeywords = keywords.CountUsage(a.Text, next.MainKeywords)
		next.ExtraKeywords = keywords.CountUsage(a.Text, next.ExtraKeywords)

	case Reset:
		return Initial(), nil

	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}

	if next.MainKeywords == nil {
		next.MainKeywords = []models.KeywordRecord{}
	}
	if next.ExtraKeywords == nil {
		next.ExtraKeywords = []models.KeywordRecord{}
	}
	return next, nil
}

func tableOf(s *models.AppState, name string) (*[]models.KeywordRecord, error) {
	switch name {
	case models.TableMain:
		return &s.MainKeywords, nil
	case models.TableExtra:
		return &s.ExtraKeywords, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
}

func rowIndex(table []models.KeywordRecord, id string) (int, error) {
	rowID, err := uuid.Parse(id)
	if err != nil {
		return -1, fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	i := slices.IndexFunc(table, func(r models.KeywordRecord) bool { return r.ID == rowID })
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	return i, nil
}
