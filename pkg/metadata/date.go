package metadata

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date patterns commonly embedded in snippets, tried in order of
// decreasing specificity. Only confidently parseable dates are kept.
var (
	isoDatePattern   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	longDatePattern  = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?,?\s+(\d{4})\b`)
	monthDayPattern  = regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+(\d{1,2}),?\s+(\d{4})\b`)
	monthYearPattern = regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+(\d{4})\b`)
)

var monthNumbers = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// extractDate pulls a publication date out of free text. Returns nil
// when nothing parses within a plausible year range.
func extractDate(text string) *time.Time {
	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		if d := buildDate(m[1], monthFromNumber(m[2]), m[3]); d != nil {
			return d
		}
	}
	if m := longDatePattern.FindStringSubmatch(text); m != nil {
		if d := buildDate(m[3], monthFromName(m[2]), m[1]); d != nil {
			return d
		}
	}
	if m := monthDayPattern.FindStringSubmatch(text); m != nil {
		if d := buildDate(m[3], monthFromName(m[1]), m[2]); d != nil {
			return d
		}
	}
	if m := monthYearPattern.FindStringSubmatch(text); m != nil {
		if d := buildDate(m[2], monthFromName(m[1]), "1"); d != nil {
			return d
		}
	}
	return nil
}

func monthFromName(name string) time.Month {
	return monthNumbers[strings.ToLower(name[:3])]
}

func monthFromNumber(s string) time.Month {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 12 {
		return 0
	}
	return time.Month(n)
}

func buildDate(yearStr string, month time.Month, dayStr string) *time.Time {
	if month == 0 {
		return nil
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return nil
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return nil
	}
	if year < 1900 || year > time.Now().Year()+1 {
		return nil
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// Reject rollovers like Feb 31.
	if d.Month() != month || d.Day() != day {
		return nil
	}
	return &d
}
