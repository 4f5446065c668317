package speed

import (
	"context"

	"github.com/travigo/netex-validator/pkg/model"
	"github.com/travigo/netex-validator/pkg/netex"
	"github.com/travigo/netex-validator/pkg/validation"
	"golang.org/x/exp/slices"
)

// DistanceValidator checks the distance between consecutive stop points of every journey pattern
type DistanceValidator struct{}

func NewDistanceValidator() *DistanceValidator {
	return &DistanceValidator{}
}

func (v *DistanceValidator) Name() string {
	return "distance"
}

func (v *DistanceValidator) Validate(_ context.Context, validationContext *validation.Context) ([]validation.Entry, error) {
	var entries []validation.Entry

	index := validationContext.Index
	for _, id := range patternIDs(index) {
		pattern := index.JourneyPatterns[id]

		mode := model.TransportModeUnknown
		if line, exists := index.LineForJourneyPattern(id); exists {
			mode = line.Mode().Mode
		}
		bounds := DistanceBoundsFor(mode)

		points := append([]netex.StopPointInJourneyPattern(nil), pattern.PointsInSequence...)
		slices.SortStableFunc(points, func(a, b netex.StopPointInJourneyPattern) int {
			return a.Order - b.Order
		})

		for i := 1; i < len(points); i++ {
			from := model.ScheduledStopPointID(points[i-1].ScheduledStopPointRef.Ref)
			to := model.ScheduledStopPointID(points[i].ScheduledStopPointRef.Ref)

			fromCoordinates, fromExists := validationContext.StopPoints.Coordinates(from)
			toCoordinates, toExists := validationContext.StopPoints.Coordinates(to)
			if !fromExists || !toExists {
				continue
			}

			distance := fromCoordinates.Distance(toCoordinates)
			if distance < bounds.Min {
				entries = append(entries, validationContext.Entry(validation.StopPointsTooClose, id, from, to, distance, bounds.Min, mode))
			} else if distance > bounds.Max {
				entries = append(entries, validationContext.Entry(validation.StopPointsTooFar, id, from, to, distance, bounds.Max, mode))
			}
		}
	}

	return entries, nil
}

func patternIDs(index *netex.Index) []string {
	ids := make([]string, 0, len(index.JourneyPatterns))
	for id := range index.JourneyPatterns {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}
