package passingtimes

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/travigo/netex-validator/pkg/model"
	"github.com/travigo/netex-validator/pkg/netex"
	"github.com/travigo/netex-validator/pkg/stoptime"
	"github.com/travigo/netex-validator/pkg/validation"
	"golang.org/x/exp/slices"
)

// StopTimes returns a journey's passing times in journey pattern order.
// Returns false when the journey pattern is not defined in the file.
func StopTimes(validationContext *validation.Context, journey *netex.ServiceJourney) ([]stoptime.StopTime, bool) {
	pattern, exists := validationContext.Index.JourneyPatterns[journey.JourneyPatternID()]
	if !exists {
		return nil, false
	}

	// duplicated stop points in a pattern keep their last order
	orders := map[string]int{}
	stopPoints := map[string]model.ScheduledStopPointID{}
	for _, point := range pattern.PointsInSequence {
		orders[point.ID] = point.Order
		stopPoints[point.ID] = model.ScheduledStopPointID(point.ScheduledStopPointRef.Ref)
	}

	type orderedStopTime struct {
		order    int
		stopTime stoptime.StopTime
	}

	var ordered []orderedStopTime
	for i := range journey.PassingTimes {
		passingTime := &journey.PassingTimes[i]
		pointID := passingTime.StopPointInJourneyPatternRef.Ref

		order, exists := orders[pointID]
		if !exists {
			log.Debug().
				Str("file", validationContext.FileName).
				Str("journey", journey.ID).
				Str("stoppoint", pointID).
				Msg("Passing time refers to a stop point outside its journey pattern")
			continue
		}

		stopPoint := stopPoints[pointID]
		isArea := validationContext.StopPoints != nil && validationContext.StopPoints.IsArea(stopPoint)
		ordered = append(ordered, orderedStopTime{order: order, stopTime: stoptime.Of(stopPoint, passingTime, isArea)})
	}

	slices.SortStableFunc(ordered, func(a, b orderedStopTime) int {
		return a.order - b.order
	})

	stopTimes := make([]stoptime.StopTime, len(ordered))
	for i, item := range ordered {
		stopTimes[i] = item.stopTime
	}

	return stopTimes, true
}

// Check walks consecutive stop times and returns the rule broken by the first invalid one
// together with its position, or nil when the sequence is valid
func Check(stopTimes []stoptime.StopTime) (*validation.Rule, int, error) {
	for i, stopTime := range stopTimes {
		if !stopTime.IsComplete() {
			return &validation.PassingTimeIncomplete, i, nil
		}
		if !stopTime.IsConsistent() {
			return &validation.PassingTimeInconsistent, i, nil
		}
		if i == 0 {
			continue
		}

		ordered, err := stopTimes[i-1].IsOrderedBefore(stopTime)
		if err != nil {
			return nil, i, err
		}
		if !ordered {
			return &validation.PassingTimeNonIncreasing, i, nil
		}
	}

	return nil, len(stopTimes), nil
}

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Name() string {
	return "passingtimes"
}

func (v *Validator) Validate(_ context.Context, validationContext *validation.Context) ([]validation.Entry, error) {
	var entries []validation.Entry

	for _, journey := range validationContext.Index.ServiceJourneys {
		stopTimes, exists := StopTimes(validationContext, journey)
		if !exists {
			log.Debug().Str("file", validationContext.FileName).Str("journey", journey.ID).Msg("Journey pattern not found")
			continue
		}

		rule, position, err := Check(stopTimes)
		if err != nil {
			return nil, err
		}
		if rule != nil {
			entries = append(entries, validationContext.Entry(*rule, journey.ID, stopTimes[position].ScheduledStopPointID()))
		}
	}

	return entries, nil
}
