package netex

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

// ParseFile reads one NeTEx document into an Index named after the file
func ParseFile(path string) (*Index, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file, filepath.Base(path))
}

func Parse(reader io.Reader, fileName string) (*Index, error) {
	index := NewIndex(fileName)

	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := d.Token()
		if tok == nil || err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decoding token in %s: %w", fileName, err)
		}

		ty, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		line, _ := d.InputPos()

		switch ty.Name.Local {
		case "Line", "FlexibleLine":
			var item Line
			if err = d.DecodeElement(&item, &ty); err != nil {
				return nil, decodeError(fileName, ty, line, err)
			}
			item.Flexible = ty.Name.Local == "FlexibleLine"
			index.AddLine(&item, line)
		case "Route":
			var item Route
			if err = d.DecodeElement(&item, &ty); err != nil {
				return nil, decodeError(fileName, ty, line, err)
			}
			index.AddRoute(&item, line)
		case "ScheduledStopPoint":
			var item ScheduledStopPoint
			if err = d.DecodeElement(&item, &ty); err != nil {
				return nil, decodeError(fileName, ty, line, err)
			}
			index.AddScheduledStopPoint(&item, line)
		case "PassengerStopAssignment":
			var item PassengerStopAssignment
			if err = d.DecodeElement(&item, &ty); err != nil {
				return nil, decodeError(fileName, ty, line, err)
			}
			index.AddPassengerStopAssignment(&item, line)
		case "FlexibleStopAssignment":
			var item FlexibleStopAssignment
			if err = d.DecodeElement(&item, &ty); err != nil {
				return nil, decodeError(fileName, ty, line, err)
			}
			index.AddFlexibleStopAssignment(&item, line)
		case "ServiceLink":
			var item ServiceLink
			if err = d.DecodeElement(&item, &ty); err != nil {
				return nil, decodeError(fileName, ty, line, err)
			}
			index.AddServiceLink(&item, line)
		case "JourneyPattern", "ServiceJourneyPattern":
			var item JourneyPattern
			if err = d.DecodeElement(&item, &ty); err != nil {
				return nil, decodeError(fileName, ty, line, err)
			}
			index.AddJourneyPattern(&item, line)
		case "ServiceJourney":
			var item ServiceJourney
			if err = d.DecodeElement(&item, &ty); err != nil {
				return nil, decodeError(fileName, ty, line, err)
			}
			index.AddServiceJourney(&item, line)
		case "DatedServiceJourney":
			var item DatedServiceJourney
			if err = d.DecodeElement(&item, &ty); err != nil {
				return nil, decodeError(fileName, ty, line, err)
			}
			index.AddDatedServiceJourney(&item, line)
		case "DayType":
			var item DayType
			if err = d.DecodeElement(&item, &ty); err != nil {
				return nil, decodeError(fileName, ty, line, err)
			}
			index.AddDayType(&item, line)
		case "DayTypeAssignment":
			var item DayTypeAssignment
			if err = d.DecodeElement(&item, &ty); err != nil {
				return nil, decodeError(fileName, ty, line, err)
			}
			index.AddDayTypeAssignment(&item, line)
		case "OperatingDay":
			var item OperatingDay
			if err = d.DecodeElement(&item, &ty); err != nil {
				return nil, decodeError(fileName, ty, line, err)
			}
			index.AddOperatingDay(&item, line)
		case "OperatingPeriod", "UicOperatingPeriod":
			var item OperatingPeriod
			if err = d.DecodeElement(&item, &ty); err != nil {
				return nil, decodeError(fileName, ty, line, err)
			}
			index.AddOperatingPeriod(&item, line)
		case "ServiceJourneyInterchange":
			var item ServiceJourneyInterchange
			if err = d.DecodeElement(&item, &ty); err != nil {
				return nil, decodeError(fileName, ty, line, err)
			}
			index.AddInterchange(&item, line)
		case "StopPlace":
			var item StopPlace
			if err = d.DecodeElement(&item, &ty); err != nil {
				return nil, decodeError(fileName, ty, line, err)
			}
			index.AddStopPlace(&item, line)
		case "FlexibleStopPlace":
			var item FlexibleStopPlace
			if err = d.DecodeElement(&item, &ty); err != nil {
				return nil, decodeError(fileName, ty, line, err)
			}
			index.AddFlexibleStopPlace(&item, line)
		}
	}

	log.Debug().
		Str("file", fileName).
		Int("lines", len(index.Lines)).
		Int("journeypatterns", len(index.JourneyPatterns)).
		Int("servicejourneys", len(index.ServiceJourneys)).
		Int("stopassignments", len(index.PassengerStopAssignments)).
		Msg("Parsed document")

	return index, nil
}

func decodeError(fileName string, element xml.StartElement, line int, err error) error {
	return fmt.Errorf("decoding %s at %s:%d: %w", element.Name.Local, fileName, line, err)
}
