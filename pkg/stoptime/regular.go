package stoptime

import (
	"github.com/travigo/netex-validator/pkg/model"
)

type RegularStopTime struct {
	scheduledStopPointID model.ScheduledStopPointID
	passingTimeID        string

	Arrival      *model.LocalTime
	ArrivalDay   int
	Departure    *model.LocalTime
	DepartureDay int
}

func (s *RegularStopTime) ScheduledStopPointID() model.ScheduledStopPointID {
	return s.scheduledStopPointID
}

func (s *RegularStopTime) PassingTimeID() string {
	return s.passingTimeID
}

func (s *RegularStopTime) IsArea() bool {
	return false
}

func (s *RegularStopTime) IsComplete() bool {
	return s.Arrival != nil || s.Departure != nil
}

func (s *RegularStopTime) IsConsistent() bool {
	if s.ArrivalDay < 0 || s.DepartureDay < 0 {
		return false
	}
	if s.Arrival == nil || s.Departure == nil {
		return true
	}

	return s.Departure.Normalized(s.DepartureDay) >= s.Arrival.Normalized(s.ArrivalDay)
}

func (s *RegularStopTime) IsArrivalInMinutesResolution() bool {
	if s.Arrival != nil {
		return inMinutes(s.Arrival)
	}
	return inMinutes(s.Departure)
}

func (s *RegularStopTime) IsDepartureInMinutesResolution() bool {
	if s.Departure != nil {
		return inMinutes(s.Departure)
	}
	return inMinutes(s.Arrival)
}

func (s *RegularStopTime) NormalizedArrivalOrDeparture() (int, error) {
	if s.Arrival != nil {
		return s.Arrival.Normalized(s.ArrivalDay), nil
	}
	if s.Departure != nil {
		return s.Departure.Normalized(s.DepartureDay), nil
	}

	return 0, ErrIncomplete
}

func (s *RegularStopTime) NormalizedDepartureOrArrival() (int, error) {
	if s.Departure != nil {
		return s.Departure.Normalized(s.DepartureDay), nil
	}
	if s.Arrival != nil {
		return s.Arrival.Normalized(s.ArrivalDay), nil
	}

	return 0, ErrIncomplete
}

func (s *RegularStopTime) NormalizedEarliestDeparture() (int, error) {
	return 0, unsupported("NormalizedEarliestDeparture", s)
}

func (s *RegularStopTime) NormalizedLatestArrival() (int, error) {
	return 0, unsupported("NormalizedLatestArrival", s)
}

func (s *RegularStopTime) IsOrderedBefore(next StopTime) (bool, error) {
	return isOrderedBefore(s, next)
}
