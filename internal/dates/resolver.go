// README: Deterministic natural-language date resolution. Every phrase is
// resolved against an explicit reference instant and time zone, so the same
// (phrase, instant) pair always produces the same set of calendar dates.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnparsable = errors.New("dates: unparsable date expression")
	ErrInPast     = errors.New("dates: date expression is entirely in the past")
)

// Kind classifies how a phrase was interpreted.
type Kind int

const (
	KindExact Kind = iota
	KindRange
	KindMonth
)

// Set is an ordered, de-duplicated list of candidate departure dates.
// Dates are normalized to midnight in the resolver's time zone.
type Set struct {
	Kind  Kind
	Dates []time.Time
}

// First returns the earliest date in the set.
func (s Set) First() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}
	return s.Dates[0]
}

// Strings renders the set in ISO form, earliest first.
func (s Set) Strings() []string {
	out := make([]string, len(s.Dates))
	for i, d := range s.Dates {
		out[i] = d.Format("2006-01-02")
	}
	return out
}

// Resolver turns date phrases into calendar dates in a fixed time zone.
type Resolver struct {
	loc *time.Location
}

func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{loc: loc}
}

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

var (
	ordinalSuffix = regexp.MustCompile(`(\d+)(st|nd|rd|th)\b`)
	inAmountExpr  = regexp.MustCompile(`^in (\d+) (day|days|week|weeks|month|months)$`)
	// "12-16 august [2026]" or "12 to 16 august"
	dayRangeMonthExpr = regexp.MustCompile(`^(\d{1,2})\s*(?:-|–|to|until)\s*(\d{1,2})\s+([a-z]+)(?:\s+(\d{4}))?$`)
	// "august 12-16 [2026]"
	monthDayRangeExpr = regexp.MustCompile(`^([a-z]+)\s+(\d{1,2})\s*(?:-|–|to|until)\s*(\d{1,2})(?:\s+(\d{4}))?$`)
	// "24 august [2026]"
	dayMonthExpr = regexp.MustCompile(`^(\d{1,2})\s+([a-z]+)(?:\s+(\d{4}))?$`)
	// "august 24 [2026]"
	monthDayExpr = regexp.MustCompile(`^([a-z]+)\s+(\d{1,2})(?:\s+(\d{4}))?$`)
	// "august [2026]"
	bareMonthExpr = regexp.MustCompile(`^([a-z]+)(?:\s+(\d{4}))?$`)
	isoExpr       = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	numericExpr   = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})(?:[/.-](\d{2,4}))?$`)
)

// Resolve parses a natural-language date phrase relative to now. The
// returned dates are all on or after the calendar date of now; a phrase
// that lands entirely in the past fails with ErrInPast.
func (r *Resolver) Resolve(phrase string, now time.Time) (Set, error) {
	today := r.midnight(now)
	normalized := normalizePhrase(phrase)
	if normalized == "" {
		return Set{}, ErrUnparsable
	}

	if set, ok, err := r.resolveRelative(normalized, today); ok {
		return set, err
	}
	if set, ok, err := r.resolveRange(normalized, today); ok {
		return set, err
	}
	if set, ok, err := r.resolveMonth(normalized, today); ok {
		return set, err
	}
	if set, ok, err := r.resolveExact(normalized, today); ok {
		return set, err
	}
	return Set{}, fmt.Errorf("%w: %q", ErrUnparsable, phrase)
}

func normalizePhrase(phrase string) string {
	s := strings.ToLower(strings.TrimSpace(phrase))
	s = ordinalSuffix.ReplaceAllString(s, "$1")
	for _, q := range []string{"cheapest ", "sometime ", "anytime ", "during "} {
		s = strings.TrimPrefix(s, q)
	}
	// "in september" means the month, but "in 3 days" is an offset
	if rest, ok := strings.CutPrefix(s, "in "); ok && rest != "" && (rest[0] < '0' || rest[0] > '9') {
		s = rest
	}
	s = strings.TrimPrefix(s, "on ")
	s = strings.TrimPrefix(s, "the ")
	s = strings.TrimSuffix(s, " of")
	s = strings.ReplaceAll(s, " of ", " ")
	return strings.Join(strings.Fields(s), " ")
}

func (r *Resolver) resolveRelative(s string, today time.Time) (Set, bool, error) {
	switch s {
	case "today", "tonight":
		return exact(today), true, nil
	case "tomorrow":
		return exact(today.AddDate(0, 0, 1)), true, nil
	case "day after tomorrow":
		return exact(today.AddDate(0, 0, 2)), true, nil
	case "yesterday":
		return Set{}, true, fmt.Errorf("%w: %q", ErrInPast, s)
	case "next week":
		return exact(today.AddDate(0, 0, 7)), true, nil
	case "next month":
		return exact(today.AddDate(0, 1, 0)), true, nil
	}

	if m := inAmountExpr.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch {
		case strings.HasPrefix(m[2], "day"):
			return exact(today.AddDate(0, 0, n)), true, nil
		case strings.HasPrefix(m[2], "week"):
			return exact(today.AddDate(0, 0, n*7)), true, nil
		default:
			return exact(today.AddDate(0, n, 0)), true, nil
		}
	}

	if name, ok := strings.CutPrefix(s, "next "); ok {
		if wd, known := weekdayNames[name]; known {
			return exact(nextWeekday(today, wd)), true, nil
		}
	}
	if name, ok := strings.CutPrefix(s, "this "); ok {
		if wd, known := weekdayNames[name]; known {
			return exact(nextWeekday(today, wd)), true, nil
		}
	}
	if wd, known := weekdayNames[s]; known {
		return exact(nextWeekday(today, wd)), true, nil
	}
	return Set{}, false, nil
}

// nextWeekday finds the next strictly-future occurrence of the weekday;
// asking for the current weekday means a week from now.
func nextWeekday(today time.Time, wd time.Weekday) time.Time {
	delta := (int(wd) - int(today.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return today.AddDate(0, 0, delta)
}

func (r *Resolver) resolveRange(s string, today time.Time) (Set, bool, error) {
	var fromDay, toDay int
	var monthName, yearStr string

	if m := dayRangeMonthExpr.FindStringSubmatch(s); m != nil {
		fromDay, _ = strconv.Atoi(m[1])
		toDay, _ = strconv.Atoi(m[2])
		monthName, yearStr = m[3], m[4]
	} else if m := monthDayRangeExpr.FindStringSubmatch(s); m != nil {
		monthName = m[1]
		fromDay, _ = strconv.Atoi(m[2])
		toDay, _ = strconv.Atoi(m[3])
		yearStr = m[4]
	} else {
		return Set{}, false, nil
	}

	month, known := monthNames[monthName]
	if !known {
		return Set{}, false, nil
	}
	if fromDay < 1 || toDay < fromDay || toDay > 31 {
		return Set{}, true, fmt.Errorf("%w: %q", ErrUnparsable, s)
	}

	year := today.Year()
	yearGiven := yearStr != ""
	if yearGiven {
		year, _ = strconv.Atoi(yearStr)
	}
	end := r.date(year, month, toDay)
	if end.Before(today) {
		if yearGiven {
			return Set{}, true, fmt.Errorf("%w: %q", ErrInPast, s)
		}
		year++
	}

	var out []time.Time
	for day := fromDay; day <= toDay; day++ {
		d := r.date(year, month, day)
		if d.Month() != month {
			return Set{}, true, fmt.Errorf("%w: day %d does not exist in %s", ErrUnparsable, day, monthName)
		}
		if d.Before(today) {
			continue
		}
		out = append(out, d)
	}
	if len(out) == 0 {
		return Set{}, true, fmt.Errorf("%w: %q", ErrInPast, s)
	}
	return Set{Kind: KindRange, Dates: out}, true, nil
}

func (r *Resolver) resolveMonth(s string, today time.Time) (Set, bool, error) {
	m := bareMonthExpr.FindStringSubmatch(s)
	if m == nil {
		return Set{}, false, nil
	}
	month, known := monthNames[m[1]]
	if !known {
		return Set{}, false, nil
	}

	year := today.Year()
	yearGiven := m[2] != ""
	if yearGiven {
		year, _ = strconv.Atoi(m[2])
	}
	lastDay := r.date(year, month+1, 0)
	if lastDay.Before(today) {
		if yearGiven {
			return Set{}, true, fmt.Errorf("%w: %q", ErrInPast, s)
		}
		year++
		lastDay = r.date(year, month+1, 0)
	}

	var out []time.Time
	for d := r.date(year, month, 1); !d.After(lastDay); d = d.AddDate(0, 0, 1) {
		if d.Before(today) {
			continue
		}
		out = append(out, d)
	}
	if len(out) == 0 {
		return Set{}, true, fmt.Errorf("%w: %q", ErrInPast, s)
	}
	return Set{Kind: KindMonth, Dates: out}, true, nil
}

func (r *Resolver) resolveExact(s string, today time.Time) (Set, bool, error) {
	if m := isoExpr.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return r.checkedExact(year, time.Month(month), day, today, s)
	}

	var day int
	var monthName, yearStr string
	if m := dayMonthExpr.FindStringSubmatch(s); m != nil {
		day, _ = strconv.Atoi(m[1])
		monthName, yearStr = m[2], m[3]
	} else if m := monthDayExpr.FindStringSubmatch(s); m != nil {
		monthName = m[1]
		day, _ = strconv.Atoi(m[2])
		yearStr = m[3]
	}
	if monthName != "" {
		month, known := monthNames[monthName]
		if !known {
			return Set{}, false, nil
		}
		year := today.Year()
		yearGiven := yearStr != ""
		if yearGiven {
			year, _ = strconv.Atoi(yearStr)
		}
		if !yearGiven && r.date(year, month, day).Before(today) {
			year++
		}
		return r.checkedExact(year, month, day, today, s)
	}

	if m := numericExpr.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		// Day-first unless that would make an impossible month.
		day, month := a, b
		if month > 12 && day <= 12 {
			day, month = b, a
		}
		if month > 12 {
			return Set{}, true, fmt.Errorf("%w: %q", ErrUnparsable, s)
		}
		year := today.Year()
		yearGiven := m[3] != ""
		if yearGiven {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		} else if r.date(year, time.Month(month), day).Before(today) {
			year++
		}
		return r.checkedExact(year, time.Month(month), day, today, s)
	}
	return Set{}, false, nil
}

func (r *Resolver) checkedExact(year int, month time.Month, day int, today time.Time, phrase string) (Set, bool, error) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return Set{}, true, fmt.Errorf("%w: %q", ErrUnparsable, phrase)
	}
	d := r.date(year, month, day)
	if d.Day() != day || d.Month() != month {
		return Set{}, true, fmt.Errorf("%w: day %d does not exist in %s %d", ErrUnparsable, day, month, year)
	}
	if d.Before(today) {
		return Set{}, true, fmt.Errorf("%w: %q", ErrInPast, phrase)
	}
	return exact(d), true, nil
}

func (r *Resolver) midnight(t time.Time) time.Time {
	t = t.In(r.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, r.loc)
}

func (r *Resolver) date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, r.loc)
}

func exact(d time.Time) Set {
	return Set{Kind: KindExact, Dates: []time.Time{d}}
}
