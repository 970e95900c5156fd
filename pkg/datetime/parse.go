// Package datetime provides the season calendar used to place work plan
// weeks on real dates.
package datetime

import (
	"fmt"
	"strconv"
	"time"

	"github.com/iwvelando/maize-roi/pkg/constants"
)

const (
	// DateLayout is the format expected for season start dates in config
	// files and is also the output date format.
	DateLayout = constants.SeasonDateLayout

	daysPerWeek = 7
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// WeekLabel returns the display label for a 1-based season week.
func WeekLabel(week int) string {
	return "Week " + strconv.Itoa(week)
}

// WeekStart returns the date on which the given 1-based season week begins,
// where week 1 begins on seasonStart.
func WeekStart(seasonStart string, week int) (string, error) {
	start, err := time.Parse(DateLayout, seasonStart)
	if err != nil {
		return "", err
	}
	if week < 1 {
		return "", fmt.Errorf("season week must be at least 1, got %d", week)
	}
	return start.AddDate(0, 0, (week-1)*daysPerWeek).Format(DateLayout), nil
}

// ValidSeasonStart reports whether a season start date parses.
func ValidSeasonStart(seasonStart string) bool {
	_, err := time.Parse(DateLayout, seasonStart)
	return err == nil
}
