package commondata

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/netex-validator/pkg/model"
	"github.com/travigo/netex-validator/pkg/netex"
	"golang.org/x/exp/slices"
)

type scraped map[Kind]map[string]string

func (s scraped) set(kind Kind, field string, value string) {
	if s[kind] == nil {
		s[kind] = map[string]string{}
	}
	s[kind][field] = value
}

// scrapeStopData extracts the stop and link mappings only common files share
func scrapeStopData(index *netex.Index, values scraped) {
	for _, assignment := range index.PassengerStopAssignments {
		stopPoint, err := model.NewScheduledStopPointID(assignment.ScheduledStopPointRef.Ref)
		if err != nil {
			log.Debug().Str("file", index.FileName).Str("id", assignment.ID).Err(err).Msg("Skipping stop assignment")
			continue
		}
		quay, err := model.NewQuayID(assignment.QuayRef.Ref)
		if err != nil {
			log.Debug().Str("file", index.FileName).Str("id", assignment.ID).Err(err).Msg("Skipping stop assignment")
			continue
		}
		values.set(KindQuayIDs, string(stopPoint), string(quay))
	}

	for _, assignment := range index.FlexibleStopAssignments {
		if assignment.ScheduledStopPointRef.Ref == "" || assignment.FlexibleStopPlaceRef.Ref == "" {
			continue
		}
		values.set(KindFlexibleStopAssignments, assignment.ScheduledStopPointRef.Ref, assignment.FlexibleStopPlaceRef.Ref)
	}

	for id, link := range index.ServiceLinks {
		if link.FromPointRef.Ref == "" || link.ToPointRef.Ref == "" {
			continue
		}
		values.set(KindServiceLinks, id, ServiceLinkEndpoints{
			From: model.ScheduledStopPointID(link.FromPointRef.Ref),
			To:   model.ScheduledStopPointID(link.ToPointRef.Ref),
		}.String())
	}

	for _, quay := range index.QuayIDs() {
		if coordinates, exists := index.QuayCoordinates(quay); exists {
			values.set(KindQuayCoordinates, string(quay), coordinates.String())
		}
		if mode, exists := index.StopPlaceModeForQuay(quay); exists {
			values.set(KindTransportModes, string(quay), mode.String())
		}
	}
}

// scrapeTimetableData extracts calendars, journey stops and line descriptors, which any file may define
func scrapeTimetableData(index *netex.Index, values scraped) {
	for id, dates := range index.ActiveDates() {
		values.set(KindActiveDates, id, model.EncodeList(dates))
	}

	for journey, refs := range index.CalendarRefs() {
		values.set(KindServiceJourneyCalendars, journey, model.EncodeList(refs))
	}

	for _, journey := range index.ServiceJourneys {
		stops := ServiceJourneyStops(index, journey)
		if len(stops) == 0 {
			continue
		}
		values.set(KindServiceJourneyStops, journey.ID, model.EncodeServiceJourneyStops(stops))
	}

	for id, line := range index.Lines {
		values.set(KindLineNames, id, model.SimpleLine{LineID: id, LineName: line.Name, FileName: index.FileName}.String())
	}
}

// ServiceJourneyStops summarises a journey's passing times in journey pattern order.
// Passing times whose stop point cannot be resolved in the file are left out.
func ServiceJourneyStops(index *netex.Index, journey *netex.ServiceJourney) []model.ServiceJourneyStop {
	type orderedStop struct {
		order int
		stop  model.ServiceJourneyStop
	}

	var ordered []orderedStop
	for _, passingTime := range journey.PassingTimes {
		point, exists := index.StopPointInJourneyPattern(passingTime.StopPointInJourneyPatternRef.Ref)
		if !exists || point.ScheduledStopPointRef.Ref == "" {
			continue
		}

		stop := model.ServiceJourneyStop{ScheduledStopPointID: model.ScheduledStopPointID(point.ScheduledStopPointRef.Ref)}
		if passingTime.ArrivalTime != nil || passingTime.DepartureTime != nil {
			stop.ArrivalTime, stop.ArrivalDayOffset = passingTime.ArrivalTime, passingTime.ArrivalDayOffset
			stop.DepartureTime, stop.DepartureDayOffset = passingTime.DepartureTime, passingTime.DepartureDayOffset
		} else {
			stop.ArrivalTime, stop.ArrivalDayOffset = passingTime.LatestArrivalTime, passingTime.LatestArrivalDayOffset
			stop.DepartureTime, stop.DepartureDayOffset = passingTime.EarliestDepartureTime, passingTime.EarliestDepartureDayOffset
		}

		ordered = append(ordered, orderedStop{order: point.Order, stop: stop})
	}

	slices.SortStableFunc(ordered, func(a, b orderedStop) int {
		return a.order - b.order
	})

	stops := make([]model.ServiceJourneyStop, len(ordered))
	for i, item := range ordered {
		stops[i] = item.stop
	}

	return stops
}
