package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EarthRadiusInMeters is the mean Earth radius used for great-circle distances
const EarthRadiusInMeters = 6371008.8

type QuayCoordinates struct {
	Longitude float64
	Latitude  float64
}

func (c QuayCoordinates) String() string {
	return strconv.FormatFloat(c.Longitude, 'f', -1, 64) + Separator + strconv.FormatFloat(c.Latitude, 'f', -1, 64)
}

func ParseQuayCoordinates(value string) (QuayCoordinates, error) {
	parts := strings.Split(value, Separator)
	if len(parts) != 2 {
		return QuayCoordinates{}, fmt.Errorf("%w: coordinates %q", ErrMalformedValue, value)
	}

	longitude, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return QuayCoordinates{}, fmt.Errorf("%w: longitude %q", ErrMalformedValue, parts[0])
	}
	latitude, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return QuayCoordinates{}, fmt.Errorf("%w: latitude %q", ErrMalformedValue, parts[1])
	}

	return QuayCoordinates{Longitude: longitude, Latitude: latitude}, nil
}

// Distance is the haversine great-circle distance in meters
func (c QuayCoordinates) Distance(other QuayCoordinates) float64 {
	lat1 := c.Latitude * (math.Pi / 180)
	lat2 := other.Latitude * (math.Pi / 180)
	deltaLat := (other.Latitude - c.Latitude) * (math.Pi / 180)
	deltaLon := (other.Longitude - c.Longitude) * (math.Pi / 180)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	return 2 * EarthRadiusInMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
