// Package dates normalizes the due-date strings found in task exports.
package dates

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	anydate "github.com/araddon/dateparse"
)

// ErrEmpty is returned by ParseStrict for blank input.
var ErrEmpty = errors.New("empty date string")

// kanjiDate matches dates such as "2024年3月5日".
var kanjiDate = regexp.MustCompile(`^\s*(\d{4})年(\d{1,2})月(\d{1,2})日\s*$`)

// layouts are tried in order before falling back to dateparse.ParseAny.
var layouts = []string{
	"2006-01-02",
	"2006/01/02",
	time.RFC3339,
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2, 2006 3:04 PM",
}

// Parser converts date strings into calendar dates and never fails.
type Parser struct {
	// Now supplies the fallback date. Defaults to time.Now.
	Now func() time.Time
	// Logger receives fallback diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

var defaultParser = &Parser{}

// Parse parses s with the default Parser.
func Parse(s string) time.Time {
	return defaultParser.Parse(s)
}

// Parse returns the calendar date s names. When s cannot be parsed it logs a
// warning and returns today's date instead.
func (p *Parser) Parse(s string) time.Time {
	t, err := ParseStrict(s)
	if err != nil {
		p.logger().Warn("could not parse date, using today", "value", s, "error", err)
		return Day(p.now())
	}
	return t
}

func (p *Parser) now() time.Time {
	if p == nil || p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Parser) logger() *slog.Logger {
	if p == nil || p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

// ParseStrict is Parse without the fallback: failures are returned.
func ParseStrict(s string) (time.Time, error) {
	if m := kanjiDate.FindStringSubmatch(s); m != nil {
		return fromParts(m[1], m[2], m[3])
	}

	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, ErrEmpty
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return Day(t), nil
		}
	}

	t, err := anydate.ParseIn(trimmed, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q: %w", s, err)
	}
	return Day(t), nil
}

// fromParts builds a date from year/month/day numerals, rejecting values
// time.Date would silently roll over.
func fromParts(y, m, d string) (time.Time, error) {
	year, err := strconv.Atoi(y)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year %q: %w", y, err)
	}
	month, err := strconv.Atoi(m)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", m, err)
	}
	day, err := strconv.Atoi(d)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", d, err)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range", month)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if day < 1 || t.Day() != day {
		return time.Time{}, fmt.Errorf("day %d out of range for %04d-%02d", day, year, month)
	}
	return t, nil
}

// Day truncates t to midnight UTC of its own calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Format renders a normalized date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format("2006-01-02")
}
