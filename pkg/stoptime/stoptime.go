package stoptime

import (
	"errors"
	"fmt"

	"github.com/travigo/netex-validator/pkg/model"
	"github.com/travigo/netex-validator/pkg/netex"
)

var (
	ErrUnsupportedOperation = errors.New("unsupported stop time operation")
	ErrIncomplete           = errors.New("incomplete stop time")
)

// StopTime is a passing time placed on the journey's timeline. It is either a RegularStopTime or an AreaStopTime.
type StopTime interface {
	ScheduledStopPointID() model.ScheduledStopPointID
	PassingTimeID() string
	IsArea() bool

	IsComplete() bool
	IsConsistent() bool
	IsArrivalInMinutesResolution() bool
	IsDepartureInMinutesResolution() bool

	// Regular only
	NormalizedArrivalOrDeparture() (int, error)
	NormalizedDepartureOrArrival() (int, error)

	// Area only
	NormalizedEarliestDeparture() (int, error)
	NormalizedLatestArrival() (int, error)

	IsOrderedBefore(next StopTime) (bool, error)
}

func Of(scheduledStopPointID model.ScheduledStopPointID, passingTime *netex.TimetabledPassingTime, isAreaStop bool) StopTime {
	if isAreaStop {
		return &AreaStopTime{
			scheduledStopPointID: scheduledStopPointID,
			passingTimeID:        passingTime.ID,
			EarliestDeparture:    copyTime(passingTime.EarliestDepartureTime),
			EarliestDepartureDay: passingTime.EarliestDepartureDayOffset,
			LatestArrival:        copyTime(passingTime.LatestArrivalTime),
			LatestArrivalDay:     passingTime.LatestArrivalDayOffset,
		}
	}

	return &RegularStopTime{
		scheduledStopPointID: scheduledStopPointID,
		passingTimeID:        passingTime.ID,
		Arrival:              copyTime(passingTime.ArrivalTime),
		ArrivalDay:           passingTime.ArrivalDayOffset,
		Departure:            copyTime(passingTime.DepartureTime),
		DepartureDay:         passingTime.DepartureDayOffset,
	}
}

func copyTime(value *model.LocalTime) *model.LocalTime {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func inMinutes(value *model.LocalTime) bool {
	return value != nil && value.Second() == 0
}

func unsupported(operation string, stopTime StopTime) error {
	return fmt.Errorf("%w: %s on stop time at %s", ErrUnsupportedOperation, operation, stopTime.ScheduledStopPointID())
}

// isOrderedBefore compares two consecutive stop times, using the fields each variant pair has in common
func isOrderedBefore(current StopTime, next StopTime) (bool, error) {
	switch current.(type) {
	case *RegularStopTime:
		left, err := current.NormalizedDepartureOrArrival()
		if err != nil {
			return false, err
		}

		var right int
		if next.IsArea() {
			right, err = next.NormalizedEarliestDeparture()
		} else {
			right, err = next.NormalizedArrivalOrDeparture()
		}
		if err != nil {
			return false, err
		}

		return left <= right, nil
	case *AreaStopTime:
		latestArrival, err := current.NormalizedLatestArrival()
		if err != nil {
			return false, err
		}

		if !next.IsArea() {
			right, err := next.NormalizedArrivalOrDeparture()
			if err != nil {
				return false, err
			}
			return latestArrival <= right, nil
		}

		earliestDeparture, err := current.NormalizedEarliestDeparture()
		if err != nil {
			return false, err
		}
		nextEarliestDeparture, err := next.NormalizedEarliestDeparture()
		if err != nil {
			return false, err
		}
		nextLatestArrival, err := next.NormalizedLatestArrival()
		if err != nil {
			return false, err
		}

		return earliestDeparture <= nextEarliestDeparture && latestArrival <= nextLatestArrival, nil
	default:
		return false, unsupported("IsOrderedBefore", current)
	}
}
