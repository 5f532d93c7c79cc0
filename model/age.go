package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidReleaseDate is returned when a release date is not YYYY-MM-DD.
var ErrInvalidReleaseDate = errors.New("invalid release date")

const releaseDateLayout = "2006-01-02"

// ParseReleaseDate parses a YYYY-MM-DD release date.
func ParseReleaseDate(releaseDate string) (time.Time, error) {
	t, err := time.Parse(releaseDateLayout, releaseDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidReleaseDate, releaseDate)
	}
	return t, nil
}

// Age returns the whole years between releaseDate and now.
//
// The anniversary is counted by month only: a model released in June is one
// year older from the first of June onwards. The result is never negative.
func Age(releaseDate string, now time.Time) (int, error) {
	released, err := ParseReleaseDate(releaseDate)
	if err != nil {
		return 0, err
	}

	years := now.Year() - released.Year()
	if now.Month() < released.Month() {
		years--
	}
	return max(years, 0), nil
}
