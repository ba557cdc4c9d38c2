package validation

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"densitydesk/internal/config"
)

// Field names as the remote generator reports them.
const (
	FieldExtensionName    = "extension_name"
	FieldShortDescription = "short_description"
)

// ValidateLength checks a required text field against inclusive bounds.
// Length is counted in runes.
func ValidateLength(field, value string, min, max int) (bool, string) {
	if strings.TrimSpace(value) == "" {
		return false, field + " cannot be empty"
	}
	n := utf8.RuneCountInString(value)
	if n < min {
		return false, fmt.Sprintf("%s must be at least %d characters", field, min)
	}
	if n > max {
		return false, fmt.Sprintf("%s must not exceed %d characters", field, max)
	}
	return true, ""
}

// ValidateExtensionName checks the extension name bounds.
func ValidateExtensionName(name string, limits config.Limits) (bool, string) {
	return ValidateLength(FieldExtensionName, name, limits.ExtensionNameMin, limits.ExtensionNameMax)
}

// ValidateShortDescription checks the short description bounds.
func ValidateShortDescription(desc string, limits config.Limits) (bool, string) {
	return ValidateLength(FieldShortDescription, desc, limits.ShortDescriptionMin, limits.ShortDescriptionMax)
}

// CanGenerate reports whether both generator fields are valid. The first
// failing message is returned.
func CanGenerate(name, desc string, limits config.Limits) (bool, string) {
	if ok, msg := ValidateExtensionName(name, limits); !ok {
		return false, msg
	}
	return ValidateShortDescription(desc, limits)
}

// ValidateCSVUpload checks the name and size of an uploaded keyword file.
func ValidateCSVUpload(filename string, size int64, limits config.Limits) (bool, string) {
	if filename == "" {
		return false, "CSV file is required"
	}
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return false, "File must have a .csv extension"
	}
	if limits.CSVMaxBytes > 0 && size > limits.CSVMaxBytes {
		return false, fmt.Sprintf("CSV file must not exceed %d bytes", limits.CSVMaxBytes)
	}
	return true, ""
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}
