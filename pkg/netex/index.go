package netex

import (
	"github.com/travigo/netex-validator/pkg/model"
	"github.com/travigo/netex-validator/pkg/util"
)

// Index is the read-only entity view of one parsed NeTEx document
type Index struct {
	FileName string

	Lines                    map[string]*Line
	Routes                   map[string]*Route
	ScheduledStopPoints      map[string]*ScheduledStopPoint
	PassengerStopAssignments []*PassengerStopAssignment
	FlexibleStopAssignments  []*FlexibleStopAssignment
	ServiceLinks             map[string]*ServiceLink
	JourneyPatterns          map[string]*JourneyPattern
	ServiceJourneys          []*ServiceJourney
	DatedServiceJourneys     []*DatedServiceJourney
	DayTypes                 map[string]*DayType
	DayTypeAssignments       []*DayTypeAssignment
	OperatingDays            map[string]*OperatingDay
	OperatingPeriods         map[string]*OperatingPeriod
	Interchanges             []*ServiceJourneyInterchange
	StopPlaces               map[string]*StopPlace
	FlexibleStopPlaces       map[string]*FlexibleStopPlace

	lineOrder       []string
	serviceJourneys map[string]*ServiceJourney
	stopPoints      map[string]*StopPointInJourneyPattern
	quays           map[string]*Quay
	quayStopPlace   map[string]*StopPlace
	locations       map[string]int
	ids             []string
}

func NewIndex(fileName string) *Index {
	return &Index{
		FileName:            fileName,
		Lines:               map[string]*Line{},
		Routes:              map[string]*Route{},
		ScheduledStopPoints: map[string]*ScheduledStopPoint{},
		ServiceLinks:        map[string]*ServiceLink{},
		JourneyPatterns:     map[string]*JourneyPattern{},
		DayTypes:            map[string]*DayType{},
		OperatingDays:       map[string]*OperatingDay{},
		OperatingPeriods:    map[string]*OperatingPeriod{},
		StopPlaces:          map[string]*StopPlace{},
		FlexibleStopPlaces:  map[string]*FlexibleStopPlace{},
		serviceJourneys:     map[string]*ServiceJourney{},
		stopPoints:          map[string]*StopPointInJourneyPattern{},
		quays:               map[string]*Quay{},
		quayStopPlace:       map[string]*StopPlace{},
		locations:           map[string]int{},
	}
}

func (i *Index) record(id string, line int) {
	if id == "" {
		return
	}
	if _, exists := i.locations[id]; !exists {
		i.ids = append(i.ids, id)
		i.locations[id] = line
	}
}

func (i *Index) AddLine(l *Line, line int) {
	if _, exists := i.Lines[l.ID]; !exists {
		i.lineOrder = append(i.lineOrder, l.ID)
	}
	i.Lines[l.ID] = l
	i.record(l.ID, line)
}

func (i *Index) AddRoute(r *Route, line int) {
	i.Routes[r.ID] = r
	i.record(r.ID, line)
}

func (i *Index) AddScheduledStopPoint(s *ScheduledStopPoint, line int) {
	i.ScheduledStopPoints[s.ID] = s
	i.record(s.ID, line)
}

func (i *Index) AddPassengerStopAssignment(a *PassengerStopAssignment, line int) {
	i.PassengerStopAssignments = append(i.PassengerStopAssignments, a)
	i.record(a.ID, line)
}

func (i *Index) AddFlexibleStopAssignment(a *FlexibleStopAssignment, line int) {
	i.FlexibleStopAssignments = append(i.FlexibleStopAssignments, a)
	i.record(a.ID, line)
}

func (i *Index) AddServiceLink(s *ServiceLink, line int) {
	i.ServiceLinks[s.ID] = s
	i.record(s.ID, line)
}

func (i *Index) AddJourneyPattern(j *JourneyPattern, line int) {
	i.JourneyPatterns[j.ID] = j
	i.record(j.ID, line)
	for n := range j.PointsInSequence {
		point := &j.PointsInSequence[n]
		i.stopPoints[point.ID] = point
		i.record(point.ID, line)
	}
}

func (i *Index) AddServiceJourney(j *ServiceJourney, line int) {
	i.ServiceJourneys = append(i.ServiceJourneys, j)
	i.serviceJourneys[j.ID] = j
	i.record(j.ID, line)
	for _, passingTime := range j.PassingTimes {
		i.record(passingTime.ID, line)
	}
}

func (i *Index) AddDatedServiceJourney(j *DatedServiceJourney, line int) {
	i.DatedServiceJourneys = append(i.DatedServiceJourneys, j)
	i.record(j.ID, line)
}

func (i *Index) AddDayType(d *DayType, line int) {
	i.DayTypes[d.ID] = d
	i.record(d.ID, line)
}

func (i *Index) AddDayTypeAssignment(a *DayTypeAssignment, line int) {
	i.DayTypeAssignments = append(i.DayTypeAssignments, a)
	i.record(a.ID, line)
}

func (i *Index) AddOperatingDay(d *OperatingDay, line int) {
	i.OperatingDays[d.ID] = d
	i.record(d.ID, line)
}

func (i *Index) AddOperatingPeriod(p *OperatingPeriod, line int) {
	i.OperatingPeriods[p.ID] = p
	i.record(p.ID, line)
}

func (i *Index) AddInterchange(c *ServiceJourneyInterchange, line int) {
	i.Interchanges = append(i.Interchanges, c)
	i.record(c.ID, line)
}

func (i *Index) AddStopPlace(s *StopPlace, line int) {
	i.StopPlaces[s.ID] = s
	i.record(s.ID, line)
	for n := range s.Quays {
		quay := &s.Quays[n]
		i.quays[quay.ID] = quay
		i.quayStopPlace[quay.ID] = s
		i.record(quay.ID, line)
	}
}

func (i *Index) AddFlexibleStopPlace(s *FlexibleStopPlace, line int) {
	i.FlexibleStopPlaces[s.ID] = s
	i.record(s.ID, line)
}

// Location returns the source line an entity was defined on, or 0 when unknown
func (i *Index) Location(id string) int {
	return i.locations[id]
}

// LocalIDs lists every id defined in the document in document order
func (i *Index) LocalIDs() []string {
	return append([]string(nil), i.ids...)
}

func (i *Index) Defines(id string) bool {
	_, exists := i.locations[id]
	return exists
}

func (i *Index) StopPointInJourneyPattern(id string) (*StopPointInJourneyPattern, bool) {
	point, exists := i.stopPoints[id]
	return point, exists
}

func (i *Index) ServiceJourney(id string) (*ServiceJourney, bool) {
	journey, exists := i.serviceJourneys[id]
	return journey, exists
}

// QuayForScheduledStopPoint follows the last passenger stop assignment of a stop point
func (i *Index) QuayForScheduledStopPoint(id model.ScheduledStopPointID) (model.QuayID, bool) {
	var quay string
	for _, assignment := range i.PassengerStopAssignments {
		if assignment.ScheduledStopPointRef.Ref == string(id) && assignment.QuayRef.Ref != "" {
			quay = assignment.QuayRef.Ref
		}
	}

	return model.QuayID(quay), quay != ""
}

func (i *Index) FlexibleStopPlaceForScheduledStopPoint(id model.ScheduledStopPointID) (string, bool) {
	var area string
	for _, assignment := range i.FlexibleStopAssignments {
		if assignment.ScheduledStopPointRef.Ref == string(id) && assignment.FlexibleStopPlaceRef.Ref != "" {
			area = assignment.FlexibleStopPlaceRef.Ref
		}
	}

	return area, area != ""
}

func (i *Index) QuayCoordinates(id model.QuayID) (model.QuayCoordinates, bool) {
	quay, exists := i.quays[string(id)]
	if !exists {
		return model.QuayCoordinates{}, false
	}

	return quay.Coordinates()
}

func (i *Index) StopPlaceModeForQuay(id model.QuayID) (model.TransportModeAndSubMode, bool) {
	stopPlace, exists := i.quayStopPlace[string(id)]
	if !exists || stopPlace.TransportMode == "" {
		return model.TransportModeAndSubMode{}, false
	}

	return stopPlace.Mode(), true
}

// QuayIDs lists the quays defined by the document's stop places
func (i *Index) QuayIDs() []model.QuayID {
	quays := make([]model.QuayID, 0, len(i.quays))
	for _, id := range util.SortedStrings(mapKeys(i.quays)) {
		quays = append(quays, model.QuayID(id))
	}

	return quays
}

// FirstLine is the first line or flexible line in document order
func (i *Index) FirstLine() (*Line, bool) {
	if len(i.lineOrder) == 0 {
		return nil, false
	}

	return i.Lines[i.lineOrder[0]], true
}

// LineForJourneyPattern follows journey pattern -> route -> line, falling back to the file's first line
func (i *Index) LineForJourneyPattern(id string) (*Line, bool) {
	if pattern, exists := i.JourneyPatterns[id]; exists {
		if route, exists := i.Routes[pattern.RouteRef.Ref]; exists {
			if line, exists := i.Lines[route.LineID()]; exists {
				return line, true
			}
		}
	}

	return i.FirstLine()
}

func (i *Index) LineForServiceJourney(journey *ServiceJourney) (*Line, bool) {
	if line, exists := i.Lines[journey.LineID()]; exists {
		return line, true
	}

	return i.LineForJourneyPattern(journey.JourneyPatternID())
}

// TransportMode resolves a journey's mode: its own override first, then its line
func (i *Index) TransportMode(journey *ServiceJourney) (model.TransportModeAndSubMode, bool) {
	if journey.TransportMode != "" {
		return model.NewTransportModeAndSubMode(model.ParseTransportMode(journey.TransportMode), journey.TransportSubmode), true
	}

	line, exists := i.LineForServiceJourney(journey)
	if !exists || line.TransportMode == "" {
		return model.TransportModeAndSubMode{}, false
	}

	return line.Mode(), true
}

// CalendarRefs maps each service journey to its day types and the operating days of its dated journeys
func (i *Index) CalendarRefs() map[string][]string {
	refs := map[string][]string{}
	for _, journey := range i.ServiceJourneys {
		for _, dayType := range journey.DayTypeRefs {
			refs[journey.ID] = append(refs[journey.ID], dayType.Ref)
		}
	}
	for _, dated := range i.DatedServiceJourneys {
		if dated.ServiceJourneyRef.Ref == "" || dated.OperatingDayRef.Ref == "" {
			continue
		}
		refs[dated.ServiceJourneyRef.Ref] = append(refs[dated.ServiceJourneyRef.Ref], dated.OperatingDayRef.Ref)
	}

	for journey, values := range refs {
		refs[journey] = util.RemoveDuplicateStrings(values, nil)
	}

	return refs
}

func mapKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	return keys
}
