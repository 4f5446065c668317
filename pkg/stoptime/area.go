package stoptime

import (
	"github.com/travigo/netex-validator/pkg/model"
)

// AreaStopTime is served within a window at a flexible stop place
type AreaStopTime struct {
	scheduledStopPointID model.ScheduledStopPointID
	passingTimeID        string

	EarliestDeparture    *model.LocalTime
	EarliestDepartureDay int
	LatestArrival        *model.LocalTime
	LatestArrivalDay     int
}

func (s *AreaStopTime) ScheduledStopPointID() model.ScheduledStopPointID {
	return s.scheduledStopPointID
}

func (s *AreaStopTime) PassingTimeID() string {
	return s.passingTimeID
}

func (s *AreaStopTime) IsArea() bool {
	return true
}

func (s *AreaStopTime) IsComplete() bool {
	return s.EarliestDeparture != nil && s.LatestArrival != nil
}

func (s *AreaStopTime) IsConsistent() bool {
	if s.EarliestDepartureDay < 0 || s.LatestArrivalDay < 0 {
		return false
	}
	if !s.IsComplete() {
		return true
	}

	return s.LatestArrival.Normalized(s.LatestArrivalDay) >= s.EarliestDeparture.Normalized(s.EarliestDepartureDay)
}

func (s *AreaStopTime) IsArrivalInMinutesResolution() bool {
	return inMinutes(s.LatestArrival)
}

func (s *AreaStopTime) IsDepartureInMinutesResolution() bool {
	return inMinutes(s.EarliestDeparture)
}

func (s *AreaStopTime) NormalizedArrivalOrDeparture() (int, error) {
	return 0, unsupported("NormalizedArrivalOrDeparture", s)
}

func (s *AreaStopTime) NormalizedDepartureOrArrival() (int, error) {
	return 0, unsupported("NormalizedDepartureOrArrival", s)
}

func (s *AreaStopTime) NormalizedEarliestDeparture() (int, error) {
	if s.EarliestDeparture == nil {
		return 0, ErrIncomplete
	}

	return s.EarliestDeparture.Normalized(s.EarliestDepartureDay), nil
}

func (s *AreaStopTime) NormalizedLatestArrival() (int, error) {
	if s.LatestArrival == nil {
		return 0, ErrIncomplete
	}

	return s.LatestArrival.Normalized(s.LatestArrivalDay), nil
}

func (s *AreaStopTime) IsOrderedBefore(next StopTime) (bool, error) {
	return isOrderedBefore(s, next)
}
