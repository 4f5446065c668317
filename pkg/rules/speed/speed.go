package speed

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/travigo/netex-validator/pkg/model"
	"github.com/travigo/netex-validator/pkg/rules/passingtimes"
	"github.com/travigo/netex-validator/pkg/stoptime"
	"github.com/travigo/netex-validator/pkg/validation"
)

// MinutesTolerance widens the elapsed time between two passing times only given to the minute
const MinutesTolerance = 120

// minimumDistance below which two stops are treated as the same place
const minimumDistance = 1.0

// Classification is the outcome of judging one pair of stops
type Classification struct {
	Rule  *validation.Rule
	Speed float64
	Bound float64
}

// KilometersPerHour converts meters over seconds
func KilometersPerHour(distance float64, seconds int) float64 {
	return distance * 3600 / (float64(seconds) * 1000)
}

// Classify judges the speed of travelling distance meters in elapsed seconds. When both ends are only
// given to the minute the elapsed time may be off by up to MinutesTolerance either way.
func Classify(distance float64, elapsed int, minutesResolution bool, bounds SpeedBounds) Classification {
	if elapsed == 0 {
		return Classification{Rule: &validation.SameDepartureArrivalTime}
	}

	optimistic, pessimistic := elapsed, elapsed
	if minutesResolution {
		optimistic = int(math.Max(float64(elapsed-MinutesTolerance), 1))
		pessimistic = elapsed + MinutesTolerance
	}

	if speed := KilometersPerHour(distance, optimistic); speed < bounds.Min {
		return Classification{Rule: &validation.LowSpeed, Speed: speed, Bound: bounds.Min}
	}

	speed := KilometersPerHour(distance, pessimistic)
	if speed > bounds.Max {
		return Classification{Rule: &validation.HighSpeed, Speed: speed, Bound: bounds.Max}
	}
	if speed > bounds.Warning {
		return Classification{Rule: &validation.HighSpeedWarning, Speed: speed, Bound: bounds.Warning}
	}

	return Classification{Speed: speed}
}

type stopPair struct {
	a model.ScheduledStopPointID
	b model.ScheduledStopPointID
}

func newStopPair(a model.ScheduledStopPointID, b model.ScheduledStopPointID) stopPair {
	if b < a {
		a, b = b, a
	}
	return stopPair{a: a, b: b}
}

// Validator checks the speed between consecutive passing times of every service journey
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Name() string {
	return "speed"
}

func (v *Validator) Validate(_ context.Context, validationContext *validation.Context) ([]validation.Entry, error) {
	var entries []validation.Entry

	for _, journey := range validationContext.Index.ServiceJourneys {
		mode, exists := validationContext.Index.TransportMode(journey)
		if !exists {
			mode = model.TransportModeAndSubMode{Mode: model.TransportModeUnknown}
		}
		bounds, exists := SpeedBoundsFor(mode.Mode)
		if !exists {
			continue
		}

		stopTimes, exists := passingtimes.StopTimes(validationContext, journey)
		if !exists {
			continue
		}

		// pairs past the first invalid stop time are left to the passing time rule
		_, valid, err := passingtimes.Check(stopTimes)
		if err != nil {
			return nil, err
		}

		distances := map[stopPair]float64{}
		for i := 1; i < valid; i++ {
			previous, current := stopTimes[i-1], stopTimes[i]
			if previous.IsArea() || current.IsArea() {
				continue
			}

			entry, err := v.validatePair(validationContext, journey.ID, previous, current, bounds, distances)
			if err != nil {
				return nil, err
			}
			if entry != nil {
				entries = append(entries, *entry)
			}
		}
	}

	return entries, nil
}

func (v *Validator) validatePair(
	validationContext *validation.Context,
	journeyID string,
	previous stoptime.StopTime,
	current stoptime.StopTime,
	bounds SpeedBounds,
	distances map[stopPair]float64,
) (*validation.Entry, error) {
	from, to := previous.ScheduledStopPointID(), current.ScheduledStopPointID()

	pair := newStopPair(from, to)
	distance, exists := distances[pair]
	if !exists {
		fromCoordinates, fromExists := validationContext.StopPoints.Coordinates(from)
		toCoordinates, toExists := validationContext.StopPoints.Coordinates(to)
		if !fromExists || !toExists {
			log.Debug().
				Str("file", validationContext.FileName).
				Str("journey", journeyID).
				Str("from", string(from)).
				Str("to", string(to)).
				Msg("Stop point coordinates not found")
			return nil, nil
		}

		distance = fromCoordinates.Distance(toCoordinates)
		distances[pair] = distance
	}
	if distance < minimumDistance {
		return nil, nil
	}

	departure, err := previous.NormalizedDepartureOrArrival()
	if err != nil {
		return nil, err
	}
	arrival, err := current.NormalizedArrivalOrDeparture()
	if err != nil {
		return nil, err
	}

	minutesResolution := previous.IsDepartureInMinutesResolution() && current.IsArrivalInMinutesResolution()
	classification := Classify(distance, arrival-departure, minutesResolution, bounds)
	if classification.Rule == nil {
		return nil, nil
	}

	var entry validation.Entry
	if classification.Rule.Code == validation.SameDepartureArrivalTime.Code {
		entry = validationContext.Entry(*classification.Rule, journeyID, from, to)
	} else {
		entry = validationContext.Entry(*classification.Rule, journeyID, classification.Speed, from, to, classification.Bound)
	}

	return &entry, nil
}
