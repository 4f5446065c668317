package model

import (
	"fmt"
	"strings"
	"time"
)

const DateFormat = "2006-01-02"

// ParseDate reads the date part of an xsd:date or xsd:dateTime value as a UTC midnight
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) < len(DateFormat) {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrMalformedValue, value)
	}

	date, err := time.Parse(DateFormat, value[:len(DateFormat)])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrMalformedValue, value)
	}

	return date, nil
}

func FormatDate(date time.Time) string {
	return date.Format(DateFormat)
}
