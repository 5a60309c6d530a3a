package utils

import "time"

func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// FirstOfMonth devolve o primeiro dia do mês, em UTC
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func PreviousMonth(t time.Time) time.Time {
	return FirstOfMonth(t).AddDate(0, -1, 0)
}

// MonthsBetween lista o primeiro dia de cada mês de from até to, inclusive
func MonthsBetween(from, to time.Time) []time.Time {
	start, end := FirstOfMonth(from), FirstOfMonth(to)
	if start.After(end) {
		return nil
	}

	var months []time.Time
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}
