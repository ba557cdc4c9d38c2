package models

import "github.com/google/uuid"

// Keyword table names.
const (
	TableMain  = "main"
	TableExtra = "extra"
)

// KeywordRecord is one row of a keyword table. Volume and KD stay strings
// as imported; consumers interpret them numerically when they need to.
type KeywordRecord struct {
	ID        uuid.UUID `json:"id"`
	Key       string    `json:"key"`
	Volume    string    `json:"volume"`
	KD        string    `json:"kd"`
	TimesUsed int       `json:"timesUsed"`
}

// Keyword record fields that can be edited in place.
const (
	FieldKey    = "key"
	FieldVolume = "volume"
	FieldKD     = "kd"
)

// IsValidTable reports whether name refers to a known keyword table.
func IsValidTable(name string) bool {
	return name == TableMain || name == TableExtra
}

// IsEditableField reports whether field can be changed through a row update.
func IsEditableField(field string) bool {
	switch field {
	case FieldKey, FieldVolume, FieldKD:
		return true
	}
	return false
}
