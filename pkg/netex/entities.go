package netex

import (
	"github.com/travigo/netex-validator/pkg/model"
)

type Ref struct {
	Ref string `xml:"ref,attr"`
}

type Line struct {
	ID      string `xml:"id,attr"`
	Version string `xml:"version,attr"`

	Name             string
	PublicCode       string
	TransportMode    string
	TransportSubmode model.TransportSubmode

	Flexible bool `xml:"-"`
}

func (l *Line) Mode() model.TransportModeAndSubMode {
	return model.NewTransportModeAndSubMode(model.ParseTransportMode(l.TransportMode), l.TransportSubmode)
}

type Route struct {
	ID string `xml:"id,attr"`

	Name            string
	LineRef         Ref
	FlexibleLineRef Ref
}

func (r *Route) LineID() string {
	if r.LineRef.Ref != "" {
		return r.LineRef.Ref
	}

	return r.FlexibleLineRef.Ref
}

type ScheduledStopPoint struct {
	ID string `xml:"id,attr"`

	Name string
}

type PassengerStopAssignment struct {
	ID    string `xml:"id,attr"`
	Order int    `xml:"order,attr"`

	ScheduledStopPointRef Ref
	StopPlaceRef          Ref
	QuayRef               Ref
}

type FlexibleStopAssignment struct {
	ID    string `xml:"id,attr"`
	Order int    `xml:"order,attr"`

	ScheduledStopPointRef Ref
	FlexibleStopPlaceRef  Ref
}

type ServiceLink struct {
	ID string `xml:"id,attr"`

	FromPointRef Ref
	ToPointRef   Ref
}

type JourneyPattern struct {
	ID string `xml:"id,attr"`

	Name             string
	RouteRef         Ref
	PointsInSequence []StopPointInJourneyPattern `xml:"pointsInSequence>StopPointInJourneyPattern"`
}

type StopPointInJourneyPattern struct {
	ID    string `xml:"id,attr"`
	Order int    `xml:"order,attr"`

	ScheduledStopPointRef Ref
	ForAlighting          *bool
	ForBoarding           *bool
}

type ServiceJourney struct {
	ID string `xml:"id,attr"`

	Name                     string
	TransportMode            string
	TransportSubmode         model.TransportSubmode
	DayTypeRefs              []Ref `xml:"dayTypes>DayTypeRef"`
	JourneyPatternRef        Ref
	ServiceJourneyPatternRef Ref
	LineRef                  Ref
	FlexibleLineRef          Ref
	PassingTimes             []TimetabledPassingTime `xml:"passingTimes>TimetabledPassingTime"`
}

func (j *ServiceJourney) JourneyPatternID() string {
	if j.JourneyPatternRef.Ref != "" {
		return j.JourneyPatternRef.Ref
	}

	return j.ServiceJourneyPatternRef.Ref
}

func (j *ServiceJourney) LineID() string {
	if j.LineRef.Ref != "" {
		return j.LineRef.Ref
	}

	return j.FlexibleLineRef.Ref
}

type TimetabledPassingTime struct {
	ID string `xml:"id,attr"`

	StopPointInJourneyPatternRef Ref

	ArrivalTime                *model.LocalTime
	ArrivalDayOffset           int
	DepartureTime              *model.LocalTime
	DepartureDayOffset         int
	EarliestDepartureTime      *model.LocalTime
	EarliestDepartureDayOffset int
	LatestArrivalTime          *model.LocalTime
	LatestArrivalDayOffset     int
}

type DatedServiceJourney struct {
	ID string `xml:"id,attr"`

	ServiceJourneyRef Ref
	OperatingDayRef   Ref
}

type DayType struct {
	ID string `xml:"id,attr"`

	Name       string
	Properties []PropertyOfDay `xml:"properties>PropertyOfDay"`
}

type PropertyOfDay struct {
	DaysOfWeek string
}

type DayTypeAssignment struct {
	ID    string `xml:"id,attr"`
	Order int    `xml:"order,attr"`

	OperatingPeriodRef Ref
	OperatingDayRef    Ref
	Date               string
	DayTypeRef         Ref
	IsAvailable        *bool `xml:"isAvailable"`
}

func (a *DayTypeAssignment) Available() bool {
	return a.IsAvailable == nil || *a.IsAvailable
}

type OperatingDay struct {
	ID string `xml:"id,attr"`

	CalendarDate string
}

type OperatingPeriod struct {
	ID string `xml:"id,attr"`

	FromDate string
	ToDate   string
}

type ServiceJourneyInterchange struct {
	ID string `xml:"id,attr"`

	FromPointRef    Ref
	ToPointRef      Ref
	FromJourneyRef  Ref
	ToJourneyRef    Ref
	MaximumWaitTime string
}

type StopPlace struct {
	ID string `xml:"id,attr"`

	Name          string
	TransportMode string
	model.TransportSubmode

	Quays []Quay `xml:"quays>Quay"`
}

func (s *StopPlace) Mode() model.TransportModeAndSubMode {
	return model.NewTransportModeAndSubMode(model.ParseTransportMode(s.TransportMode), s.TransportSubmode)
}

type Quay struct {
	ID string `xml:"id,attr"`

	Name      string
	Longitude *float64 `xml:"Centroid>Location>Longitude"`
	Latitude  *float64 `xml:"Centroid>Location>Latitude"`
}

func (q *Quay) Coordinates() (model.QuayCoordinates, bool) {
	if q.Longitude == nil || q.Latitude == nil {
		return model.QuayCoordinates{}, false
	}

	return model.QuayCoordinates{Longitude: *q.Longitude, Latitude: *q.Latitude}, true
}

type FlexibleStopPlace struct {
	ID string `xml:"id,attr"`

	Name          string
	TransportMode string
}
