package sheets

import (
	"regexp"
	"strings"

	"sheetcraft/internal/apperr"
)

var (
	urlIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	rawIDPattern = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)
)

// SpreadsheetID resolves a locator to a spreadsheet ID. Both raw IDs and
// docs.google.com URLs are accepted.
func SpreadsheetID(locator string) (string, error) {
	trimmed := strings.TrimSpace(locator)
	if trimmed == "" {
		return "", apperr.Validationf("spreadsheet locator must not be blank")
	}
	if strings.Contains(trimmed, "://") || strings.HasPrefix(trimmed, "docs.google.com") {
		match := urlIDPattern.FindStringSubmatch(trimmed)
		if match == nil {
			return "", apperr.Validationf("cannot extract a spreadsheet id from %q", locator)
		}
		return match[1], nil
	}
	if !rawIDPattern.MatchString(trimmed) {
		return "", apperr.Validationf("%q is not a spreadsheet id or URL", locator)
	}
	return trimmed, nil
}
