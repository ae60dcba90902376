package utils

import (
	"fmt"
	"strings"
	"time"

	"experiencehub/models"
)

// acceptedDateLayouts are tried in order. Time-of-day is discarded; the calendar
// date is taken in the offset the caller wrote it in.
var acceptedDateLayouts = []string{
	models.DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizeDate converts any accepted date form to YYYY-MM-DD.
func NormalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("date is required")
	}
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(models.DateLayout), nil
		}
	}
	return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
}
