package scrape

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reMonthsAgo    = regexp.MustCompile(`(\d+)\s*[ヶかカケ]月前`)
	reDaysAgo      = regexp.MustCompile(`(\d+)\s*日前`)
	reHoursAgo     = regexp.MustCompile(`(\d+)\s*時間前`)
	reYearMonthDay = regexp.MustCompile(`(\d{4})年\s*(\d{1,2})月`)
	reSlashFull    = regexp.MustCompile(`(\d{4})[/.-](\d{1,2})(?:[/.-](\d{1,2}))?`)
	reMonthDay     = regexp.MustCompile(`(\d{1,2})月\s*(\d{1,2})日`)
	reSlashShort   = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})\b`)
)

// MonthsAgo normalizes a heterogeneous date fragment into whole months before
// now. The aggregator renders sold dates as absolute Japanese dates, slashed
// dates with or without a year, or relative forms. ok is false when no
// pattern matches; callers treat that as "date unknown", never as an error.
func MonthsAgo(text string, now time.Time) (int, bool) {
	folded := foldDigits(strings.TrimSpace(text))
	if folded == "" {
		return 0, false
	}

	if m := reMonthsAgo.FindStringSubmatch(folded); m != nil {
		months, _ := strconv.Atoi(m[1])
		return months, true
	}
	if reHoursAgo.MatchString(folded) {
		return 0, true
	}
	if m := reDaysAgo.FindStringSubmatch(folded); m != nil {
		days, _ := strconv.Atoi(m[1])
		return days / 30, true
	}
	if m := reYearMonthDay.FindStringSubmatch(folded); m != nil {
		return absoluteMonths(now, atoi(m[1]), atoi(m[2]))
	}
	if m := reSlashFull.FindStringSubmatch(folded); m != nil {
		return absoluteMonths(now, atoi(m[1]), atoi(m[2]))
	}
	if m := reMonthDay.FindStringSubmatch(folded); m != nil {
		return yearlessMonths(now, atoi(m[1]))
	}
	if m := reSlashShort.FindStringSubmatch(folded); m != nil {
		return yearlessMonths(now, atoi(m[1]))
	}
	return 0, false
}

func absoluteMonths(now time.Time, year, month int) (int, bool) {
	if month < 1 || month > 12 {
		return 0, false
	}
	months := (now.Year()-year)*12 + int(now.Month()) - month
	if months < 0 {
		// Listing dated in the future; treat as current.
		months = 0
	}
	return months, true
}

// yearlessMonths handles fragments like 3月15日: the year is assumed to be the
// most recent one in which that month has already occurred.
func yearlessMonths(now time.Time, month int) (int, bool) {
	if month < 1 || month > 12 {
		return 0, false
	}
	months := int(now.Month()) - month
	if months < 0 {
		months += 12
	}
	return months, true
}

func atoi(value string) int {
	parsed, _ := strconv.Atoi(value)
	return parsed
}
