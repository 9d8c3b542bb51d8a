package fitbit

import (
	"fmt"
	"strings"
	"time"
)

// isoDate is the canonical date layout used in resource paths and responses.
const isoDate = "2006-01-02"

// Accepted input layouts, tried in order: ISO, then the two US forms.
var dateLayouts = []string{isoDate, "01/02/06", "01/02/2006"}

// ResolveDate canonicalizes a caller-supplied date to ISO YYYY-MM-DD.
// Empty input defaults to today in the server's local date. Unparseable
// input also falls back to today, so an invalid date is indistinguishable
// from an omitted one; callers wanting strict parsing do not exist yet.
func ResolveDate(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Now().Format(isoDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t.Format(isoDate)
		}
	}
	return time.Now().Format(isoDate)
}

// StepsPath returns the daily steps resource path for an ISO date.
func StepsPath(date string) string {
	return fmt.Sprintf("/1/user/-/activities/steps/date/%s/1d.json", date)
}

// SleepPath returns the daily sleep summary resource path for an ISO date.
func SleepPath(date string) string {
	return fmt.Sprintf("/1.2/user/-/sleep/date/%s.json", date)
}

// HeartRatePath returns the daily heart rate resource path for an ISO date.
func HeartRatePath(date string) string {
	return fmt.Sprintf("/1/user/-/activities/heart/date/%s/1d.json", date)
}
