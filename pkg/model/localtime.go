package model

import (
	"fmt"
	"strings"
)

const SecondsPerDay = 24 * 60 * 60

// LocalTime is a time of day in whole seconds after midnight, as written in timetables (HH:MM:SS)
type LocalTime int

func NewLocalTime(hour int, minute int, second int) LocalTime {
	return LocalTime(hour*3600 + minute*60 + second)
}

func ParseLocalTime(value string) (LocalTime, error) {
	var hour, minute, second int

	value = strings.TrimSpace(value)
	// fractional seconds are not used in timetables and are dropped
	if dot := strings.IndexByte(value, '.'); dot >= 0 {
		value = value[:dot]
	}

	if _, err := fmt.Sscanf(value, "%d:%d:%d", &hour, &minute, &second); err != nil {
		return 0, fmt.Errorf("%w: time %q", ErrMalformedValue, value)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, fmt.Errorf("%w: time %q out of range", ErrMalformedValue, value)
	}

	return NewLocalTime(hour, minute, second), nil
}

func (t LocalTime) Hour() int {
	return int(t) / 3600
}

func (t LocalTime) Minute() int {
	return int(t) % 3600 / 60
}

func (t LocalTime) Second() int {
	return int(t) % 60
}

func (t LocalTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// Normalized is the offset in seconds from midnight of the journey's first day
func (t LocalTime) Normalized(dayOffset int) int {
	return int(t) + dayOffset*SecondsPerDay
}

func (t *LocalTime) UnmarshalText(text []byte) error {
	parsed, err := ParseLocalTime(string(text))
	if err != nil {
		return err
	}

	*t = parsed
	return nil
}

func (t LocalTime) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
