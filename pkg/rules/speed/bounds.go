package speed

import (
	"github.com/travigo/netex-validator/pkg/model"
)

// SpeedBounds are in km/h
type SpeedBounds struct {
	Min     float64
	Warning float64
	Max     float64
}

// DistanceBounds are in meters
type DistanceBounds struct {
	Min float64
	Max float64
}

var speedBounds = map[model.TransportMode]SpeedBounds{
	model.TransportModeAir:        {Min: 100, Warning: 800, Max: 1000},
	model.TransportModeBus:        {Min: 5, Warning: 70, Max: 120},
	model.TransportModeCoach:      {Min: 5, Warning: 100, Max: 140},
	model.TransportModeCableway:   {Min: 1, Warning: 20, Max: 50},
	model.TransportModeFunicular:  {Min: 1, Warning: 20, Max: 50},
	model.TransportModeMetro:      {Min: 10, Warning: 80, Max: 120},
	model.TransportModeRail:       {Min: 10, Warning: 160, Max: 250},
	model.TransportModeTram:       {Min: 5, Warning: 60, Max: 100},
	model.TransportModeWater:      {Min: 5, Warning: 60, Max: 100},
	model.TransportModeFerry:      {Min: 5, Warning: 60, Max: 100},
	model.TransportModeTaxi:       {Min: 5, Warning: 100, Max: 140},
	model.TransportModeTrolleyBus: {Min: 5, Warning: 70, Max: 120},
}

var distanceBounds = map[model.TransportMode]DistanceBounds{
	model.TransportModeBus:       {Min: 20, Max: 25000},
	model.TransportModeCoach:     {Min: 100, Max: 200000},
	model.TransportModeRail:      {Min: 200, Max: 300000},
	model.TransportModeMetro:     {Min: 100, Max: 10000},
	model.TransportModeTram:      {Min: 30, Max: 10000},
	model.TransportModeWater:     {Min: 20, Max: 200000},
	model.TransportModeFerry:     {Min: 20, Max: 200000},
	model.TransportModeCableway:  {Min: 10, Max: 20000},
	model.TransportModeFunicular: {Min: 10, Max: 5000},
	model.TransportModeAir:       {Min: 5000, Max: 3000000},
	model.TransportModeTaxi:      {Min: 20, Max: 50000},
}

var defaultDistanceBounds = DistanceBounds{Min: 10, Max: 100000}

// SpeedBoundsFor returns false for modes without meaningful speeds (unknown, all, other, lift, selfDrive, snowAndIce)
func SpeedBoundsFor(mode model.TransportMode) (SpeedBounds, bool) {
	bounds, exists := speedBounds[mode]
	return bounds, exists
}

func DistanceBoundsFor(mode model.TransportMode) DistanceBounds {
	if bounds, exists := distanceBounds[mode]; exists {
		return bounds
	}

	return defaultDistanceBounds
}
