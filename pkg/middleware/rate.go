package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rate is a request budget per period, written like "100/hour" or "40 per day"
type Rate struct {
	Limit  int
	Period time.Duration
}

var rateUnits = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
}

// ParseRate parses "N/unit", "N per unit" or "N/M units", where unit is
// second, minute, hour or day (plural allowed)
func ParseRate(s string) (Rate, error) {
	text := strings.ToLower(strings.TrimSpace(s))

	countPart, periodPart, ok := strings.Cut(text, "/")
	if !ok {
		countPart, periodPart, ok = strings.Cut(text, " per ")
	}
	if !ok {
		return Rate{}, fmt.Errorf("invalid rate %q: expected N/unit", s)
	}

	limit, err := strconv.Atoi(strings.TrimSpace(countPart))
	if err != nil || limit <= 0 {
		return Rate{}, fmt.Errorf("invalid rate %q: count must be a positive integer", s)
	}

	fields := strings.Fields(periodPart)
	multiplier := 1
	switch len(fields) {
	case 1:
	case 2:
		multiplier, err = strconv.Atoi(fields[0])
		if err != nil || multiplier <= 0 {
			return Rate{}, fmt.Errorf("invalid rate %q: bad period multiplier", s)
		}
		fields = fields[1:]
	default:
		return Rate{}, fmt.Errorf("invalid rate %q: expected N/unit", s)
	}

	unit, ok := rateUnits[strings.TrimSuffix(fields[0], "s")]
	if !ok {
		return Rate{}, fmt.Errorf("invalid rate %q: unknown unit %q", s, fields[0])
	}

	return Rate{Limit: limit, Period: time.Duration(multiplier) * unit}, nil
}

// MustParseRate is ParseRate for constants; it panics on error
func MustParseRate(s string) Rate {
	r, err := ParseRate(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rate) String() string {
	return fmt.Sprintf("%d/%s", r.Limit, r.Period)
}
