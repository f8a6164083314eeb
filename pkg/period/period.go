package period

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbook/pocketbook/internal/utils"
)

type Mode string

const (
	Day   Mode = "day"
	Week  Mode = "week"
	Month Mode = "month"
	Year  Mode = "year"
)

var ErrInvalidSelector = errors.New("invalid period selector")

// Selector picks a calendar window. Year and Month are only read in Month and
// Year modes; Day and Week always refer to the clock's today.
type Selector struct {
	Mode  Mode
	Year  int
	Month time.Month
}

func Today() Selector { return Selector{Mode: Day} }

func ThisWeek() Selector { return Selector{Mode: Week} }

func CurrentMonth(now time.Time) Selector {
	return Selector{Mode: Month, Year: now.Year(), Month: now.Month()}
}

func CurrentYear(now time.Time) Selector {
	return Selector{Mode: Year, Year: now.Year()}
}

func MonthOf(year int, month time.Month) Selector {
	return Selector{Mode: Month, Year: year, Month: month}
}

func YearOf(year int) Selector {
	return Selector{Mode: Year, Year: year}
}

func (s Selector) Validate() error {
	switch s.Mode {
	case Day, Week:
		return nil
	case Month:
		if s.Month < time.January || s.Month > time.December {
			return fmt.Errorf("%w: month %d out of range", ErrInvalidSelector, s.Month)
		}
		return nil
	case Year:
		return nil
	}
	return fmt.Errorf("%w: unknown mode %q", ErrInvalidSelector, s.Mode)
}

// Range returns the half-open window [from, to) selected by s, in now's location.
func (s Selector) Range(now time.Time) (from time.Time, to time.Time) {
	loc := now.Location()
	today := utils.StartOfDay(now)
	switch s.Mode {
	case Day:
		return today, today.AddDate(0, 0, 1)
	case Week:
		sinceMonday := (int(today.Weekday()) + 6) % 7
		from = today.AddDate(0, 0, -sinceMonday)
		return from, from.AddDate(0, 0, 7)
	case Month:
		year, month := s.Year, s.Month
		if year == 0 {
			year = now.Year()
		}
		if month == 0 {
			month = now.Month()
		}
		from = time.Date(year, month, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 1, 0)
	case Year:
		year := s.Year
		if year == 0 {
			year = now.Year()
		}
		from = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(1, 0, 0)
	}
	return today, today
}

// Contains reports whether the calendar day of date falls into the window.
// Time of day is ignored and a zero date is never contained.
func (s Selector) Contains(date time.Time, now time.Time) bool {
	if date.IsZero() {
		return false
	}
	from, to := s.Range(now)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	return !day.Before(from) && day.Before(to)
}

func (s Selector) String() string {
	switch s.Mode {
	case Month:
		return fmt.Sprintf("%04d-%02d", s.Year, int(s.Month))
	case Year:
		return fmt.Sprintf("%04d", s.Year)
	}
	return string(s.Mode)
}

// ParseSelector builds a selector from query-string style values. Missing year
// and month default to now's.
func ParseSelector(mode, year, month string, now time.Time) (Selector, error) {
	s := Selector{Mode: Mode(strings.ToLower(strings.TrimSpace(mode)))}
	if s.Mode == "" {
		s.Mode = Month
	}
	s.Year = now.Year()
	s.Month = now.Month()
	if year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			return Selector{}, fmt.Errorf("%w: invalid year %q", ErrInvalidSelector, year)
		}
		s.Year = y
	}
	if month != "" {
		m, err := strconv.Atoi(month)
		if err != nil {
			return Selector{}, fmt.Errorf("%w: invalid month %q", ErrInvalidSelector, month)
		}
		s.Month = time.Month(m)
	}
	switch s.Mode {
	case Day, Week:
		s.Year, s.Month = 0, 0
	case Year:
		s.Month = 0
	}
	if err := s.Validate(); err != nil {
		return Selector{}, err
	}
	return s, nil
}
