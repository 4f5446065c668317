package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidID = errors.New("invalid identifier")

const (
	scheduledStopPointMarker = ":ScheduledStopPoint:"
	quayMarker               = ":Quay:"
	stopPlaceMarker          = ":StopPlace:"
	serviceLinkMarker        = ":ServiceLink:"
	serviceJourneyMarker     = ":ServiceJourney:"
)

type ScheduledStopPointID string
type QuayID string
type StopPlaceID string
type ServiceLinkID string
type ServiceJourneyID string

func validateID(value string, marker string) error {
	if !strings.Contains(value, marker) {
		return fmt.Errorf("%w: %q does not contain %q", ErrInvalidID, value, marker)
	}

	return nil
}

func NewScheduledStopPointID(value string) (ScheduledStopPointID, error) {
	if err := validateID(value, scheduledStopPointMarker); err != nil {
		return "", err
	}
	return ScheduledStopPointID(value), nil
}

func NewQuayID(value string) (QuayID, error) {
	if err := validateID(value, quayMarker); err != nil {
		return "", err
	}
	return QuayID(value), nil
}

func NewStopPlaceID(value string) (StopPlaceID, error) {
	if err := validateID(value, stopPlaceMarker); err != nil {
		return "", err
	}
	return StopPlaceID(value), nil
}

func NewServiceLinkID(value string) (ServiceLinkID, error) {
	if err := validateID(value, serviceLinkMarker); err != nil {
		return "", err
	}
	return ServiceLinkID(value), nil
}

func NewServiceJourneyID(value string) (ServiceJourneyID, error) {
	if err := validateID(value, serviceJourneyMarker); err != nil {
		return "", err
	}
	return ServiceJourneyID(value), nil
}
