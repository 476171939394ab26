package model

import (
	"strings"
	"time"
)

// ParseNaturalDate resolves quick-add date words (today, tomorrow, weekday
// names, nextweek) and a handful of literal formats into an end-of-day
// timestamp. Returns nil if s doesn't parse.
func ParseNaturalDate(s string, now time.Time) *time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	switch strings.ToLower(s) {
	case "today":
		return &today
	case "tomorrow", "tom":
		t := today.AddDate(0, 0, 1)
		return &t
	case "monday", "mon":
		return nextWeekday(today, time.Monday)
	case "tuesday", "tue":
		return nextWeekday(today, time.Tuesday)
	case "wednesday", "wed":
		return nextWeekday(today, time.Wednesday)
	case "thursday", "thu":
		return nextWeekday(today, time.Thursday)
	case "friday", "fri":
		return nextWeekday(today, time.Friday)
	case "saturday", "sat":
		return nextWeekday(today, time.Saturday)
	case "sunday", "sun":
		return nextWeekday(today, time.Sunday)
	case "nextweek":
		t := today.AddDate(0, 0, 7)
		return &t
	}

	formats := []string{
		"2006-01-02",
		"01/02/2006",
		"01-02-2006",
		"Jan 2",
		"Jan 2, 2006",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			// If no year, use current year
			if t.Year() == 0 {
				t = time.Date(now.Year(), t.Month(), t.Day(), 23, 59, 59, 0, now.Location())
			}
			return &t
		}
	}

	return nil
}

func nextWeekday(today time.Time, day time.Weekday) *time.Time {
	daysUntil := int(day - today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	t := today.AddDate(0, 0, daysUntil)
	return &t
}

// FormatDueDate renders a due date the way the task list shows it.
func FormatDueDate(t, now time.Time) string {
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return "today"
	}

	tomorrow := now.AddDate(0, 0, 1)
	if t.Year() == tomorrow.Year() && t.YearDay() == tomorrow.YearDay() {
		return "tomorrow"
	}

	if t.Year() == now.Year() {
		return t.Format("Mon, Jan 2")
	}

	return t.Format("Jan 2, 2006")
}
