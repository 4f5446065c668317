package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ServiceJourneyStop summarises one passing time of a service journey for cross-file lookups.
// Area stops are summarised with their latest arrival as arrival and earliest departure as departure.
type ServiceJourneyStop struct {
	ScheduledStopPointID ScheduledStopPointID
	ArrivalTime          *LocalTime
	ArrivalDayOffset     int
	DepartureTime        *LocalTime
	DepartureDayOffset   int
}

// ArrivalOrDeparture falls back to the departure when no arrival is given
func (s ServiceJourneyStop) ArrivalOrDeparture() (LocalTime, int, bool) {
	if s.ArrivalTime != nil {
		return *s.ArrivalTime, s.ArrivalDayOffset, true
	}
	if s.DepartureTime != nil {
		return *s.DepartureTime, s.DepartureDayOffset, true
	}

	return 0, 0, false
}

// DepartureOrArrival falls back to the arrival when no departure is given
func (s ServiceJourneyStop) DepartureOrArrival() (LocalTime, int, bool) {
	if s.DepartureTime != nil {
		return *s.DepartureTime, s.DepartureDayOffset, true
	}
	if s.ArrivalTime != nil {
		return *s.ArrivalTime, s.ArrivalDayOffset, true
	}

	return 0, 0, false
}

func (s ServiceJourneyStop) String() string {
	var builder strings.Builder

	builder.WriteString("scheduledStopPointId(")
	builder.WriteString(string(s.ScheduledStopPointID))
	builder.WriteString(")")

	if s.ArrivalTime != nil {
		fmt.Fprintf(&builder, ",arrival(%s%s%d)", s.ArrivalTime, Separator, s.ArrivalDayOffset)
	}
	if s.DepartureTime != nil {
		fmt.Fprintf(&builder, ",departure(%s%s%d)", s.DepartureTime, Separator, s.DepartureDayOffset)
	}

	return builder.String()
}

func ParseServiceJourneyStop(value string) (ServiceJourneyStop, error) {
	var stop ServiceJourneyStop

	parts := strings.Split(value, ",")

	id, ok := unwrap(parts[0], "scheduledStopPointId")
	if !ok || id == "" {
		return ServiceJourneyStop{}, fmt.Errorf("%w: service journey stop %q", ErrMalformedValue, value)
	}
	stop.ScheduledStopPointID = ScheduledStopPointID(id)

	for _, part := range parts[1:] {
		if field, ok := unwrap(part, "arrival"); ok {
			localTime, offset, err := parseTimeWithOffset(field)
			if err != nil {
				return ServiceJourneyStop{}, err
			}
			stop.ArrivalTime = &localTime
			stop.ArrivalDayOffset = offset
		} else if field, ok := unwrap(part, "departure"); ok {
			localTime, offset, err := parseTimeWithOffset(field)
			if err != nil {
				return ServiceJourneyStop{}, err
			}
			stop.DepartureTime = &localTime
			stop.DepartureDayOffset = offset
		} else {
			return ServiceJourneyStop{}, fmt.Errorf("%w: service journey stop field %q", ErrMalformedValue, part)
		}
	}

	return stop, nil
}

func unwrap(value string, name string) (string, bool) {
	if !strings.HasPrefix(value, name+"(") || !strings.HasSuffix(value, ")") {
		return "", false
	}

	return value[len(name)+1 : len(value)-1], true
}

func parseTimeWithOffset(value string) (LocalTime, int, error) {
	parts := strings.Split(value, Separator)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: time with offset %q", ErrMalformedValue, value)
	}

	localTime, err := ParseLocalTime(parts[0])
	if err != nil {
		return 0, 0, err
	}
	offset, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: day offset %q", ErrMalformedValue, parts[1])
	}

	return localTime, offset, nil
}

func EncodeServiceJourneyStops(stops []ServiceJourneyStop) string {
	encoded := make([]string, len(stops))
	for i, stop := range stops {
		encoded[i] = stop.String()
	}

	return strings.Join(encoded, ListSeparator)
}

func DecodeServiceJourneyStops(value string) ([]ServiceJourneyStop, error) {
	if value == "" {
		return nil, nil
	}

	var stops []ServiceJourneyStop
	for _, encoded := range strings.Split(value, ListSeparator) {
		stop, err := ParseServiceJourneyStop(encoded)
		if err != nil {
			return nil, err
		}
		stops = append(stops, stop)
	}

	return stops, nil
}
