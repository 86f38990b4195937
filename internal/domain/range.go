package domain

import (
	"fmt"
	"time"
)

// PublishedRange is an inclusive filter on the publication date.
// Zero bounds (HasFrom/HasTo false) mean the side is unbounded.
type PublishedRange struct {
	From    time.Time
	To      time.Time
	HasFrom bool
	HasTo   bool
}

// IsEmpty reports whether no bound is set.
func (r PublishedRange) IsEmpty() bool { return !r.HasFrom && !r.HasTo }

// NewPublishedRange derives an inclusive date range from year filter
// parameters. Precedence mirrors the listing endpoint contract: a single
// year covers that whole calendar year; otherwise start_year sets the lower
// bound (with end_year optionally closing the range); end_year alone sets
// only the upper bound.
func NewPublishedRange(year, startYear, endYear *int) (PublishedRange, error) {
	switch {
	case year != nil:
		if err := validateYear(*year); err != nil {
			return PublishedRange{}, err
		}
		return PublishedRange{
			From:    yearStart(*year),
			To:      yearEnd(*year),
			HasFrom: true,
			HasTo:   true,
		}, nil

	case startYear != nil:
		if err := validateYear(*startYear); err != nil {
			return PublishedRange{}, err
		}
		r := PublishedRange{From: yearStart(*startYear), HasFrom: true}
		if endYear != nil {
			if err := validateYear(*endYear); err != nil {
				return PublishedRange{}, err
			}
			r.To = yearEnd(*endYear)
			r.HasTo = true
		}
		return r, nil

	case endYear != nil:
		if err := validateYear(*endYear); err != nil {
			return PublishedRange{}, err
		}
		return PublishedRange{To: yearEnd(*endYear), HasTo: true}, nil
	}

	return PublishedRange{}, nil
}

func validateYear(y int) error {
	if y < 1 || y > 9999 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidYear, y)
	}
	return nil
}

func yearStart(y int) time.Time {
	return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func yearEnd(y int) time.Time {
	return time.Date(y, time.December, 31, 23, 59, 59, 0, time.UTC)
}
