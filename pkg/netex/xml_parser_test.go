package netex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/netex-validator/pkg/model"
)

const commonDocument = `<?xml version="1.0" encoding="UTF-8"?>
<PublicationDelivery xmlns="http://www.netex.org.uk/netex" version="1.15">
  <dataObjects>
    <CompositeFrame id="RUT:CompositeFrame:1" version="1">
      <frames>
        <SiteFrame id="RUT:SiteFrame:1" version="1">
          <stopPlaces>
            <StopPlace id="NSR:StopPlace:1" version="1">
              <Name>Voss</Name>
              <TransportMode>bus</TransportMode>
              <BusSubmode>regionalBus</BusSubmode>
              <quays>
                <Quay id="NSR:Quay:1" version="1">
                  <Centroid><Location><Longitude>6.621791</Longitude><Latitude>60.424023</Latitude></Location></Centroid>
                </Quay>
                <Quay id="NSR:Quay:2" version="1"/>
              </quays>
            </StopPlace>
          </stopPlaces>
        </SiteFrame>
        <ServiceFrame id="RUT:ServiceFrame:1" version="1">
          <scheduledStopPoints>
            <ScheduledStopPoint id="RUT:ScheduledStopPoint:1" version="1"><Name>A</Name></ScheduledStopPoint>
            <ScheduledStopPoint id="RUT:ScheduledStopPoint:2" version="1"><Name>B</Name></ScheduledStopPoint>
          </scheduledStopPoints>
          <serviceLinks>
            <ServiceLink id="RUT:ServiceLink:1" version="1">
              <FromPointRef ref="RUT:ScheduledStopPoint:1"/>
              <ToPointRef ref="RUT:ScheduledStopPoint:2"/>
            </ServiceLink>
          </serviceLinks>
          <stopAssignments>
            <PassengerStopAssignment id="RUT:PassengerStopAssignment:1" order="1" version="1">
              <ScheduledStopPointRef ref="RUT:ScheduledStopPoint:1"/>
              <QuayRef ref="NSR:Quay:1"/>
            </PassengerStopAssignment>
            <FlexibleStopAssignment id="RUT:FlexibleStopAssignment:1" order="1" version="1">
              <ScheduledStopPointRef ref="RUT:ScheduledStopPoint:2"/>
              <FlexibleStopPlaceRef ref="RUT:FlexibleStopPlace:1"/>
            </FlexibleStopAssignment>
          </stopAssignments>
        </ServiceFrame>
        <ServiceCalendarFrame id="RUT:ServiceCalendarFrame:1" version="1">
          <dayTypes>
            <DayType id="RUT:DayType:weekdays" version="1">
              <properties><PropertyOfDay><DaysOfWeek>Weekdays</DaysOfWeek></PropertyOfDay></properties>
            </DayType>
          </dayTypes>
          <operatingDays>
            <OperatingDay id="RUT:OperatingDay:1" version="1"><CalendarDate>2024-05-17</CalendarDate></OperatingDay>
          </operatingDays>
          <operatingPeriods>
            <OperatingPeriod id="RUT:OperatingPeriod:1" version="1">
              <FromDate>2024-05-13T00:00:00</FromDate>
              <ToDate>2024-05-19T00:00:00</ToDate>
            </OperatingPeriod>
          </operatingPeriods>
          <dayTypeAssignments>
            <DayTypeAssignment id="RUT:DayTypeAssignment:1" order="1" version="1">
              <OperatingPeriodRef ref="RUT:OperatingPeriod:1"/>
              <DayTypeRef ref="RUT:DayType:weekdays"/>
            </DayTypeAssignment>
            <DayTypeAssignment id="RUT:DayTypeAssignment:2" order="2" version="1">
              <OperatingDayRef ref="RUT:OperatingDay:1"/>
              <DayTypeRef ref="RUT:DayType:weekdays"/>
              <isAvailable>false</isAvailable>
            </DayTypeAssignment>
            <DayTypeAssignment id="RUT:DayTypeAssignment:3" order="3" version="1">
              <Date>2024-05-18</Date>
              <DayTypeRef ref="RUT:DayType:weekdays"/>
            </DayTypeAssignment>
          </dayTypeAssignments>
        </ServiceCalendarFrame>
      </frames>
    </CompositeFrame>
  </dataObjects>
</PublicationDelivery>`

const lineDocument = `<?xml version="1.0" encoding="UTF-8"?>
<PublicationDelivery xmlns="http://www.netex.org.uk/netex" version="1.15">
  <dataObjects>
    <CompositeFrame id="RUT:CompositeFrame:2" version="1">
      <frames>
        <ServiceFrame id="RUT:ServiceFrame:2" version="1">
          <routes>
            <Route id="RUT:Route:1" version="1"><LineRef ref="RUT:Line:1"/></Route>
          </routes>
          <lines>
            <Line id="RUT:Line:1" version="1">
              <Name>Voss - Bergen</Name>
              <TransportMode>bus</TransportMode>
              <TransportSubmode><BusSubmode>expressBus</BusSubmode></TransportSubmode>
            </Line>
          </lines>
          <journeyPatterns>
            <JourneyPattern id="RUT:JourneyPattern:1" version="1">
              <RouteRef ref="RUT:Route:1"/>
              <pointsInSequence>
                <StopPointInJourneyPattern id="RUT:StopPointInJourneyPattern:1" order="1" version="1">
                  <ScheduledStopPointRef ref="RUT:ScheduledStopPoint:1"/>
                </StopPointInJourneyPattern>
                <StopPointInJourneyPattern id="RUT:StopPointInJourneyPattern:2" order="2" version="1">
                  <ScheduledStopPointRef ref="RUT:ScheduledStopPoint:2"/>
                </StopPointInJourneyPattern>
              </pointsInSequence>
            </JourneyPattern>
          </journeyPatterns>
        </ServiceFrame>
        <TimetableFrame id="RUT:TimetableFrame:1" version="1">
          <vehicleJourneys>
            <ServiceJourney id="RUT:ServiceJourney:1" version="1">
              <dayTypes><DayTypeRef ref="RUT:DayType:weekdays"/></dayTypes>
              <JourneyPatternRef ref="RUT:JourneyPattern:1"/>
              <passingTimes>
                <TimetabledPassingTime id="RUT:TimetabledPassingTime:1" version="1">
                  <StopPointInJourneyPatternRef ref="RUT:StopPointInJourneyPattern:1"/>
                  <DepartureTime>23:55:00</DepartureTime>
                </TimetabledPassingTime>
                <TimetabledPassingTime id="RUT:TimetabledPassingTime:2" version="1">
                  <StopPointInJourneyPatternRef ref="RUT:StopPointInJourneyPattern:2"/>
                  <EarliestDepartureTime>00:05:00</EarliestDepartureTime>
                  <EarliestDepartureDayOffset>1</EarliestDepartureDayOffset>
                  <LatestArrivalTime>00:10:00</LatestArrivalTime>
                  <LatestArrivalDayOffset>1</LatestArrivalDayOffset>
                </TimetabledPassingTime>
              </passingTimes>
            </ServiceJourney>
            <DatedServiceJourney id="RUT:DatedServiceJourney:1" version="1">
              <ServiceJourneyRef ref="RUT:ServiceJourney:1"/>
              <OperatingDayRef ref="RUT:OperatingDay:1"/>
            </DatedServiceJourney>
          </vehicleJourneys>
          <journeyInterchanges>
            <ServiceJourneyInterchange id="RUT:ServiceJourneyInterchange:1" version="1">
              <FromPointRef ref="RUT:ScheduledStopPoint:1"/>
              <ToPointRef ref="RUT:ScheduledStopPoint:2"/>
              <FromJourneyRef ref="RUT:ServiceJourney:1"/>
              <ToJourneyRef ref="RUT:ServiceJourney:2"/>
            </ServiceJourneyInterchange>
          </journeyInterchanges>
        </TimetableFrame>
      </frames>
    </CompositeFrame>
  </dataObjects>
</PublicationDelivery>`

func TestParseCommonDocument(t *testing.T) {
	index, err := Parse(strings.NewReader(commonDocument), "_RUT_shared_data.xml")
	require.NoError(t, err)

	assert.Equal(t, "_RUT_shared_data.xml", index.FileName)
	assert.Len(t, index.ScheduledStopPoints, 2)
	assert.Len(t, index.ServiceLinks, 1)
	assert.Equal(t, "RUT:ScheduledStopPoint:2", index.ServiceLinks["RUT:ServiceLink:1"].ToPointRef.Ref)

	quay, exists := index.QuayForScheduledStopPoint("RUT:ScheduledStopPoint:1")
	assert.True(t, exists)
	assert.Equal(t, model.QuayID("NSR:Quay:1"), quay)

	_, exists = index.QuayForScheduledStopPoint("RUT:ScheduledStopPoint:2")
	assert.False(t, exists)

	area, exists := index.FlexibleStopPlaceForScheduledStopPoint("RUT:ScheduledStopPoint:2")
	assert.True(t, exists)
	assert.Equal(t, "RUT:FlexibleStopPlace:1", area)

	coordinates, exists := index.QuayCoordinates("NSR:Quay:1")
	assert.True(t, exists)
	assert.Equal(t, model.QuayCoordinates{Longitude: 6.621791, Latitude: 60.424023}, coordinates)

	_, exists = index.QuayCoordinates("NSR:Quay:2")
	assert.False(t, exists)

	mode, exists := index.StopPlaceModeForQuay("NSR:Quay:2")
	assert.True(t, exists)
	assert.Equal(t, model.TransportModeAndSubMode{Mode: model.TransportModeBus, SubMode: "regionalBus"}, mode)

	assert.Equal(t, []model.QuayID{"NSR:Quay:1", "NSR:Quay:2"}, index.QuayIDs())
}

func TestActiveDates(t *testing.T) {
	index, err := Parse(strings.NewReader(commonDocument), "_RUT_shared_data.xml")
	require.NoError(t, err)

	dates := index.ActiveDates()

	// weekdays of the period, minus the unavailable friday, plus the explicit saturday
	assert.Equal(t, []string{"2024-05-13", "2024-05-14", "2024-05-15", "2024-05-16", "2024-05-18"}, dates["RUT:DayType:weekdays"])
	assert.Equal(t, []string{"2024-05-17"}, dates["RUT:OperatingDay:1"])
}

func TestParseLineDocument(t *testing.T) {
	index, err := Parse(strings.NewReader(lineDocument), "RUT_Line_1.xml")
	require.NoError(t, err)

	require.Len(t, index.ServiceJourneys, 1)
	journey, exists := index.ServiceJourney("RUT:ServiceJourney:1")
	require.True(t, exists)
	require.Len(t, journey.PassingTimes, 2)

	first := journey.PassingTimes[0]
	require.NotNil(t, first.DepartureTime)
	assert.Nil(t, first.ArrivalTime)
	assert.Equal(t, model.NewLocalTime(23, 55, 0), *first.DepartureTime)

	second := journey.PassingTimes[1]
	require.NotNil(t, second.EarliestDepartureTime)
	require.NotNil(t, second.LatestArrivalTime)
	assert.Equal(t, 1, second.EarliestDepartureDayOffset)
	assert.Equal(t, model.NewLocalTime(0, 10, 0), *second.LatestArrivalTime)

	pattern := index.JourneyPatterns["RUT:JourneyPattern:1"]
	require.NotNil(t, pattern)
	assert.Equal(t, 2, pattern.PointsInSequence[1].Order)

	line, exists := index.LineForServiceJourney(journey)
	require.True(t, exists)
	assert.Equal(t, "Voss - Bergen", line.Name)

	mode, exists := index.TransportMode(journey)
	assert.True(t, exists)
	assert.Equal(t, model.TransportModeAndSubMode{Mode: model.TransportModeBus, SubMode: "expressBus"}, mode)

	assert.Equal(t, map[string][]string{
		"RUT:ServiceJourney:1": {"RUT:DayType:weekdays", "RUT:OperatingDay:1"},
	}, index.CalendarRefs())

	require.Len(t, index.Interchanges, 1)
	assert.Equal(t, "RUT:ServiceJourney:2", index.Interchanges[0].ToJourneyRef.Ref)
}

func TestLocalIDsAndLocations(t *testing.T) {
	index, err := Parse(strings.NewReader(lineDocument), "RUT_Line_1.xml")
	require.NoError(t, err)

	ids := index.LocalIDs()
	assert.Contains(t, ids, "RUT:Line:1")
	assert.Contains(t, ids, "RUT:StopPointInJourneyPattern:2")
	assert.Contains(t, ids, "RUT:TimetabledPassingTime:1")
	assert.NotContains(t, ids, "RUT:ScheduledStopPoint:1")

	assert.True(t, index.Defines("RUT:Route:1"))
	assert.Less(t, index.Location("RUT:Route:1"), index.Location("RUT:Line:1"))
	assert.Greater(t, index.Location("RUT:ServiceJourney:1"), index.Location("RUT:JourneyPattern:1"))
	assert.Equal(t, 0, index.Location("RUT:Unknown:1"))
}

func TestParseInvalidDocument(t *testing.T) {
	_, err := Parse(strings.NewReader(`<PublicationDelivery><Line id="x"><Name>unterminated</Line>`), "broken.xml")
	assert.Error(t, err)
}

func TestParseRejectsMalformedTime(t *testing.T) {
	document := `<ServiceJourney id="RUT:ServiceJourney:9"><passingTimes><TimetabledPassingTime id="p">
<DepartureTime>25:00:00</DepartureTime></TimetabledPassingTime></passingTimes></ServiceJourney>`

	_, err := Parse(strings.NewReader(document), "times.xml")
	assert.ErrorIs(t, err, model.ErrMalformedValue)
}
