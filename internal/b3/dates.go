package b3

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/workbook"
)

// serialEpoch is day zero of spreadsheet serial dates. Anchoring on 1899-12-30 rather than
// 1900-01-01 absorbs the 1900 leap-year bug for every date after February 1900.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// FromSerial converts a spreadsheet serial day count to a calendar date.
func FromSerial(serial float64) time.Time {
	seconds := math.Round(serial * 86400)
	return truncateToDate(serialEpoch.Add(time.Duration(seconds) * time.Second))
}

// ParseDayMonthYear parses "DD/MM/YYYY", optionally followed by a time of day which is
// discarded ("15/03/2024 00:00:00"). Out-of-range days and months roll over the way
// time.Date normalizes them.
func ParseDayMonthYear(s string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	if date, _, found := strings.Cut(parts[2], " "); found {
		parts[2] = date
	}

	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, false
		}
		fields[i] = n
	}

	day, month, year := fields[0], fields[1], fields[2]
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// NormalizeDate converts a payment date cell in either serial or DD/MM/YYYY form.
// The boolean is false when the cell matches neither encoding.
func NormalizeDate(c workbook.Cell) (time.Time, bool) {
	switch c.Kind {
	case workbook.Number:
		return FromSerial(c.Num), true
	case workbook.Text:
		text := strings.TrimSpace(c.Text)
		if serial, err := strconv.ParseFloat(text, 64); err == nil {
			return FromSerial(serial), true
		}
		return ParseDayMonthYear(text)
	}
	return time.Time{}, false
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
