package transportmode

import (
	"context"

	"github.com/travigo/netex-validator/pkg/model"
	"github.com/travigo/netex-validator/pkg/validation"
	"golang.org/x/exp/slices"
)

// modeGroups are modes that serve each other's stop places
var modeGroups = map[model.TransportMode]string{
	model.TransportModeBus:        "road",
	model.TransportModeCoach:      "road",
	model.TransportModeTrolleyBus: "road",
	model.TransportModeTaxi:       "road",
	model.TransportModeWater:      "water",
	model.TransportModeFerry:      "water",
}

var unspecifiedModes = []model.TransportMode{
	model.TransportModeUnknown,
	model.TransportModeAll,
	model.TransportModeOther,
}

// Compatible reports whether a line of lineMode may call at a stop place of stopPlaceMode
func Compatible(lineMode model.TransportMode, stopPlaceMode model.TransportMode) bool {
	if lineMode == stopPlaceMode {
		return true
	}
	if slices.Contains(unspecifiedModes, lineMode) || slices.Contains(unspecifiedModes, stopPlaceMode) {
		return true
	}

	lineGroup, lineGrouped := modeGroups[lineMode]
	stopPlaceGroup, stopPlaceGrouped := modeGroups[stopPlaceMode]
	return lineGrouped && stopPlaceGrouped && lineGroup == stopPlaceGroup
}

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Name() string {
	return "transportmode"
}

func (v *Validator) Validate(_ context.Context, validationContext *validation.Context) ([]validation.Entry, error) {
	index := validationContext.Index

	ids := make([]string, 0, len(index.JourneyPatterns))
	for id := range index.JourneyPatterns {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var entries []validation.Entry
	for _, id := range ids {
		line, exists := index.LineForJourneyPattern(id)
		if !exists || line.TransportMode == "" {
			continue
		}
		lineMode := line.Mode().Mode

		seen := map[model.ScheduledStopPointID]bool{}
		for _, point := range index.JourneyPatterns[id].PointsInSequence {
			stopPoint := model.ScheduledStopPointID(point.ScheduledStopPointRef.Ref)
			if seen[stopPoint] {
				continue
			}
			seen[stopPoint] = true

			stopPlaceMode, exists := validationContext.StopPoints.StopPlaceMode(stopPoint)
			if !exists || Compatible(lineMode, stopPlaceMode.Mode) {
				continue
			}

			entries = append(entries, validationContext.Entry(validation.TransportModeMismatch, id, lineMode, stopPlaceMode.Mode, stopPoint))
		}
	}

	return entries, nil
}
