package model

import (
	"fmt"
	"strings"
)

type TransportMode string

const (
	TransportModeAir        TransportMode = "air"
	TransportModeBus        TransportMode = "bus"
	TransportModeCableway   TransportMode = "cableway"
	TransportModeCoach      TransportMode = "coach"
	TransportModeFerry      TransportMode = "ferry"
	TransportModeFunicular  TransportMode = "funicular"
	TransportModeLift       TransportMode = "lift"
	TransportModeMetro      TransportMode = "metro"
	TransportModeRail       TransportMode = "rail"
	TransportModeSnowAndIce TransportMode = "snowAndIce"
	TransportModeTaxi       TransportMode = "taxi"
	TransportModeTram       TransportMode = "tram"
	TransportModeTrolleyBus TransportMode = "trolleyBus"
	TransportModeWater      TransportMode = "water"
	TransportModeSelfDrive  TransportMode = "selfDrive"
	TransportModeOther      TransportMode = "other"
	TransportModeAll        TransportMode = "all"
	TransportModeUnknown    TransportMode = "unknown"
)

var transportModes = map[TransportMode]bool{
	TransportModeAir:        true,
	TransportModeBus:        true,
	TransportModeCableway:   true,
	TransportModeCoach:      true,
	TransportModeFerry:      true,
	TransportModeFunicular:  true,
	TransportModeLift:       true,
	TransportModeMetro:      true,
	TransportModeRail:       true,
	TransportModeSnowAndIce: true,
	TransportModeTaxi:       true,
	TransportModeTram:       true,
	TransportModeTrolleyBus: true,
	TransportModeWater:      true,
	TransportModeSelfDrive:  true,
	TransportModeOther:      true,
	TransportModeAll:        true,
	TransportModeUnknown:    true,
}

// ParseTransportMode maps unrecognised values to TransportModeUnknown
func ParseTransportMode(value string) TransportMode {
	mode := TransportMode(strings.TrimSpace(value))
	if transportModes[mode] {
		return mode
	}

	return TransportModeUnknown
}

// TransportSubmode holds every mode-specific submode element of a NeTEx TransportSubmode
type TransportSubmode struct {
	AirSubmode        string
	BusSubmode        string
	CoachSubmode      string
	FunicularSubmode  string
	MetroSubmode      string
	RailSubmode       string
	SnowAndIceSubmode string
	TelecabinSubmode  string
	TramSubmode       string
	WaterSubmode      string
}

// submodeForMode says which submode element is meaningful for a mode
var submodeForMode = map[TransportMode]func(TransportSubmode) string{
	TransportModeAir:        func(s TransportSubmode) string { return s.AirSubmode },
	TransportModeBus:        func(s TransportSubmode) string { return s.BusSubmode },
	TransportModeTrolleyBus: func(s TransportSubmode) string { return s.BusSubmode },
	TransportModeCoach:      func(s TransportSubmode) string { return s.CoachSubmode },
	TransportModeFunicular:  func(s TransportSubmode) string { return s.FunicularSubmode },
	TransportModeMetro:      func(s TransportSubmode) string { return s.MetroSubmode },
	TransportModeRail:       func(s TransportSubmode) string { return s.RailSubmode },
	TransportModeSnowAndIce: func(s TransportSubmode) string { return s.SnowAndIceSubmode },
	TransportModeCableway:   func(s TransportSubmode) string { return s.TelecabinSubmode },
	TransportModeTram:       func(s TransportSubmode) string { return s.TramSubmode },
	TransportModeWater:      func(s TransportSubmode) string { return s.WaterSubmode },
	TransportModeFerry:      func(s TransportSubmode) string { return s.WaterSubmode },
}

// Resolve returns the submode value that belongs to mode, or "" when the mode has no submodes
func (s TransportSubmode) Resolve(mode TransportMode) string {
	resolve, exists := submodeForMode[mode]
	if !exists {
		return ""
	}

	return strings.TrimSpace(resolve(s))
}

type TransportModeAndSubMode struct {
	Mode    TransportMode
	SubMode string
}

func NewTransportModeAndSubMode(mode TransportMode, submode TransportSubmode) TransportModeAndSubMode {
	return TransportModeAndSubMode{Mode: mode, SubMode: submode.Resolve(mode)}
}

func (m TransportModeAndSubMode) String() string {
	if m.SubMode == "" {
		return string(m.Mode)
	}

	return string(m.Mode) + Separator + m.SubMode
}

func ParseTransportModeAndSubMode(value string) (TransportModeAndSubMode, error) {
	parts := strings.Split(value, Separator)

	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return TransportModeAndSubMode{}, fmt.Errorf("%w: empty transport mode", ErrMalformedValue)
		}
		return TransportModeAndSubMode{Mode: ParseTransportMode(parts[0])}, nil
	case 2:
		return TransportModeAndSubMode{Mode: ParseTransportMode(parts[0]), SubMode: parts[1]}, nil
	default:
		return TransportModeAndSubMode{}, fmt.Errorf("%w: transport mode %q", ErrMalformedValue, value)
	}
}
