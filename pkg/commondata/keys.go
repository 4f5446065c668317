package commondata

import "fmt"

// Kind names one of the report scoped mappings. It is also the cache key prefix.
type Kind string

const (
	KindQuayIDs                 Kind = "QUAY_ID"
	KindServiceLinks            Kind = "SERVICE_LINKS"
	KindServiceJourneyStops     Kind = "SERVICE_JOURNEY_STOPS"
	KindServiceJourneyCalendars Kind = "SERVICE_JOURNEY_CALENDARS"
	KindActiveDates             Kind = "ACTIVE_DATES"
	KindLineNames               Kind = "LINE_NAMES"
	KindQuayCoordinates         Kind = "QUAY_COORDINATES"
	KindTransportModes          Kind = "TRANSPORT_MODES"
	KindFlexibleStopAssignments Kind = "FLEXIBLE_STOP_ASSIGNMENTS"
)

var allKinds = []Kind{
	KindQuayIDs,
	KindServiceLinks,
	KindServiceJourneyStops,
	KindServiceJourneyCalendars,
	KindActiveDates,
	KindLineNames,
	KindQuayCoordinates,
	KindTransportModes,
	KindFlexibleStopAssignments,
}

func cacheKey(kind Kind, reportID string) string {
	return fmt.Sprintf("%s_%s", kind, reportID)
}

// NotFoundError is returned by bulk reads when a report has no data of a kind yet
type NotFoundError struct {
	ReportID string
	Kind     Kind
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s data found for report %s", e.Kind, e.ReportID)
}
