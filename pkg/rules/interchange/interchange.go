package interchange

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/netex-validator/pkg/commondata"
	"github.com/travigo/netex-validator/pkg/config"
	"github.com/travigo/netex-validator/pkg/model"
	"github.com/travigo/netex-validator/pkg/netex"
	"github.com/travigo/netex-validator/pkg/validation"
)

// JourneyData is the report wide view of service journeys
type JourneyData interface {
	ServiceJourneyStops(ctx context.Context, reportID string) (map[model.ServiceJourneyID][]model.ServiceJourneyStop, error)
	CalendarRefs(ctx context.Context, reportID string) (map[model.ServiceJourneyID][]string, error)
	ActiveDates(ctx context.Context, reportID string) (map[string][]string, error)
}

type Validator struct {
	data       JourneyData
	thresholds config.WaitTimeThresholds
}

func NewValidator(data JourneyData, thresholds config.WaitTimeThresholds) *Validator {
	return &Validator{data: data, thresholds: thresholds}
}

func (v *Validator) Name() string {
	return "interchange"
}

type journeys struct {
	stops     map[model.ServiceJourneyID][]model.ServiceJourneyStop
	calendars map[model.ServiceJourneyID][]string
	dates     map[string][]string
}

func (v *Validator) Validate(ctx context.Context, validationContext *validation.Context) ([]validation.Entry, error) {
	if len(validationContext.Index.Interchanges) == 0 {
		return nil, nil
	}

	data, err := v.load(ctx, validationContext.ReportID)
	if commondata.IsNotFound(err) {
		log.Debug().Str("report", validationContext.ReportID).Str("file", validationContext.FileName).Msg("No service journeys known yet, skipping interchanges")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []validation.Entry
	for _, interchange := range validationContext.Index.Interchanges {
		entries = append(entries, v.validateInterchange(validationContext, data, interchange)...)
	}

	return entries, nil
}

func (v *Validator) load(ctx context.Context, reportID string) (*journeys, error) {
	stops, err := v.data.ServiceJourneyStops(ctx, reportID)
	if err != nil {
		return nil, err
	}

	calendars, err := v.data.CalendarRefs(ctx, reportID)
	if commondata.IsNotFound(err) {
		calendars = map[model.ServiceJourneyID][]string{}
	} else if err != nil {
		return nil, err
	}

	dates, err := v.data.ActiveDates(ctx, reportID)
	if commondata.IsNotFound(err) {
		dates = map[string][]string{}
	} else if err != nil {
		return nil, err
	}

	return &journeys{stops: stops, calendars: calendars, dates: dates}, nil
}

func findStop(stops []model.ServiceJourneyStop, stopPoint string) (model.ServiceJourneyStop, bool) {
	for _, stop := range stops {
		if string(stop.ScheduledStopPointID) == stopPoint {
			return stop, true
		}
	}

	return model.ServiceJourneyStop{}, false
}

// WaitTime returns the seconds between arriving and departing, with the day offset difference between
// the two journeys' operating days. A departure earlier in the day than the arrival is taken to be on the
// following day.
func WaitTime(from model.ServiceJourneyStop, to model.ServiceJourneyStop) (int, int, bool) {
	arrival, arrivalDayOffset, arrivalExists := from.ArrivalOrDeparture()
	departure, departureDayOffset, departureExists := to.DepartureOrArrival()
	if !arrivalExists || !departureExists {
		return 0, 0, false
	}

	dayOffsetDiff := departureDayOffset - arrivalDayOffset
	wait := int(departure) - int(arrival)
	if wait < 0 {
		wait += model.SecondsPerDay
		dayOffsetDiff--
	}

	return wait, dayOffsetDiff, true
}

func (v *Validator) validateInterchange(validationContext *validation.Context, data *journeys, interchange *netex.ServiceJourneyInterchange) []validation.Entry {
	from, fromExists := findStop(data.stops[model.ServiceJourneyID(interchange.FromJourneyRef.Ref)], interchange.FromPointRef.Ref)
	to, toExists := findStop(data.stops[model.ServiceJourneyID(interchange.ToJourneyRef.Ref)], interchange.ToPointRef.Ref)
	if !fromExists || !toExists {
		log.Debug().
			Str("file", validationContext.FileName).
			Str("interchange", interchange.ID).
			Msg("Interchange journeys not found")
		return nil
	}

	wait, dayOffsetDiff, exists := WaitTime(from, to)
	if !exists {
		return nil
	}

	var entries []validation.Entry

	waitTime := time.Duration(wait) * time.Second
	if waitTime > v.thresholds.Max {
		entries = append(entries, validationContext.Entry(validation.InterchangeWaitTimeMax, interchange.ID, waitTime, v.thresholds.Max))
	} else if waitTime > v.thresholds.Warning {
		entries = append(entries, validationContext.Entry(validation.InterchangeWaitTimeWarning, interchange.ID, waitTime, v.thresholds.Warning))
	}

	fromDates := data.activeDates(model.ServiceJourneyID(interchange.FromJourneyRef.Ref))
	toDates := data.activeDates(model.ServiceJourneyID(interchange.ToJourneyRef.Ref))
	if len(fromDates) == 0 || len(toDates) == 0 {
		return entries
	}

	if !SharesActiveDate(fromDates, toDates, dayOffsetDiff) {
		entries = append(entries, validationContext.Entry(validation.InterchangeNoSharedActiveDate, interchange.ID, interchange.FromJourneyRef.Ref, interchange.ToJourneyRef.Ref))
	}

	return entries
}

func (j *journeys) activeDates(journey model.ServiceJourneyID) map[string]bool {
	dates := map[string]bool{}
	for _, ref := range j.calendars[journey] {
		for _, date := range j.dates[ref] {
			dates[date] = true
		}
	}

	return dates
}

// SharesActiveDate shifts each operating date of the to journey by dayOffsetDiff and looks for it
// among the operating dates of the from journey
func SharesActiveDate(fromDates map[string]bool, toDates map[string]bool, dayOffsetDiff int) bool {
	for value := range toDates {
		date, err := model.ParseDate(value)
		if err != nil {
			continue
		}
		if fromDates[model.FormatDate(date.AddDate(0, 0, dayOffsetDiff))] {
			return true
		}
	}

	return false
}
