package transportmode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/netex-validator/pkg/model"
	"github.com/travigo/netex-validator/pkg/netex"
	"github.com/travigo/netex-validator/pkg/validation"
)

func TestCompatible(t *testing.T) {
	tests := []struct {
		line      model.TransportMode
		stopPlace model.TransportMode
		expected  bool
	}{
		{line: model.TransportModeBus, stopPlace: model.TransportModeBus, expected: true},
		{line: model.TransportModeBus, stopPlace: model.TransportModeCoach, expected: true},
		{line: model.TransportModeTaxi, stopPlace: model.TransportModeTrolleyBus, expected: true},
		{line: model.TransportModeFerry, stopPlace: model.TransportModeWater, expected: true},
		{line: model.TransportModeRail, stopPlace: model.TransportModeUnknown, expected: true},
		{line: model.TransportModeBus, stopPlace: model.TransportModeRail, expected: false},
		{line: model.TransportModeWater, stopPlace: model.TransportModeBus, expected: false},
		{line: model.TransportModeTram, stopPlace: model.TransportModeMetro, expected: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.line)+"-"+string(tt.stopPlace), func(t *testing.T) {
			assert.Equal(t, tt.expected, Compatible(tt.line, tt.stopPlace))
		})
	}
}

type stopPlaceModes map[model.ScheduledStopPointID]model.TransportMode

func (s stopPlaceModes) HasSharedStopData() bool { return true }
func (s stopPlaceModes) QuayID(model.ScheduledStopPointID) (model.QuayID, bool) {
	return "", false
}
func (s stopPlaceModes) Coordinates(model.ScheduledStopPointID) (model.QuayCoordinates, bool) {
	return model.QuayCoordinates{}, false
}
func (s stopPlaceModes) StopPlaceMode(stopPoint model.ScheduledStopPointID) (model.TransportModeAndSubMode, bool) {
	mode, exists := s[stopPoint]
	return model.TransportModeAndSubMode{Mode: mode}, exists
}
func (s stopPlaceModes) IsArea(model.ScheduledStopPointID) bool { return false }

func TestValidator(t *testing.T) {
	index := netex.NewIndex("RUT_Line_1.xml")
	index.AddLine(&netex.Line{ID: "RUT:Line:1", TransportMode: "bus"}, 1)
	index.AddRoute(&netex.Route{ID: "RUT:Route:1", LineRef: netex.Ref{Ref: "RUT:Line:1"}}, 2)
	index.AddJourneyPattern(&netex.JourneyPattern{
		ID:       "RUT:JourneyPattern:1",
		RouteRef: netex.Ref{Ref: "RUT:Route:1"},
		PointsInSequence: []netex.StopPointInJourneyPattern{
			{ID: "p1", ScheduledStopPointRef: netex.Ref{Ref: "RUT:ScheduledStopPoint:1"}},
			{ID: "p2", ScheduledStopPointRef: netex.Ref{Ref: "RUT:ScheduledStopPoint:2"}},
			{ID: "p3", ScheduledStopPointRef: netex.Ref{Ref: "RUT:ScheduledStopPoint:3"}},
			{ID: "p4", ScheduledStopPointRef: netex.Ref{Ref: "RUT:ScheduledStopPoint:2"}},
		},
	}, 3)

	validationContext := validation.NewContext("report-1", "RUT", index)
	validationContext.StopPoints = stopPlaceModes{
		"RUT:ScheduledStopPoint:1": model.TransportModeCoach,
		"RUT:ScheduledStopPoint:2": model.TransportModeRail,
	}

	entries, err := NewValidator().Validate(context.Background(), validationContext)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, validation.TransportModeMismatch.Code, entries[0].RuleCode)
	assert.Equal(t, "Line mode bus does not match stop place mode rail at stop point RUT:ScheduledStopPoint:2", entries[0].Message)
}
