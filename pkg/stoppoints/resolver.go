package stoppoints

import (
	"context"

	"github.com/travigo/netex-validator/pkg/commondata"
	"github.com/travigo/netex-validator/pkg/model"
	"github.com/travigo/netex-validator/pkg/netex"
)

type SharedStopData interface {
	HasSharedStopData(ctx context.Context, reportID string) (bool, error)
	QuayIDs(ctx context.Context, reportID string) (map[model.ScheduledStopPointID]model.QuayID, error)
	QuayCoordinates(ctx context.Context, reportID string) (map[model.QuayID]model.QuayCoordinates, error)
	TransportModes(ctx context.Context, reportID string) (map[model.QuayID]model.TransportModeAndSubMode, error)
	FlexibleStopAssignments(ctx context.Context, reportID string) (map[model.ScheduledStopPointID]string, error)
}

// Resolver answers stop point lookups for one validation pass. Shared report data is read once up front
// and the file's own stop data is used for anything the report does not know.
type Resolver struct {
	index *netex.Index

	shared      bool
	quays       map[model.ScheduledStopPointID]model.QuayID
	coordinates map[model.QuayID]model.QuayCoordinates
	modes       map[model.QuayID]model.TransportModeAndSubMode
	flexible    map[model.ScheduledStopPointID]string
}

func NewResolver(ctx context.Context, data SharedStopData, reportID string, index *netex.Index) (*Resolver, error) {
	resolver := &Resolver{index: index}

	shared, err := data.HasSharedStopData(ctx, reportID)
	if err != nil {
		return nil, err
	}
	resolver.shared = shared

	if resolver.quays, err = orEmpty(data.QuayIDs(ctx, reportID)); err != nil {
		return nil, err
	}
	if resolver.coordinates, err = orEmpty(data.QuayCoordinates(ctx, reportID)); err != nil {
		return nil, err
	}
	if resolver.modes, err = orEmpty(data.TransportModes(ctx, reportID)); err != nil {
		return nil, err
	}
	if resolver.flexible, err = orEmpty(data.FlexibleStopAssignments(ctx, reportID)); err != nil {
		return nil, err
	}

	return resolver, nil
}

func orEmpty[K comparable, V any](values map[K]V, err error) (map[K]V, error) {
	if commondata.IsNotFound(err) {
		return map[K]V{}, nil
	}

	return values, err
}

// HasSharedStopData is true when a common file of the report has assigned quays
func (r *Resolver) HasSharedStopData() bool {
	return r.shared
}

func (r *Resolver) QuayID(stopPoint model.ScheduledStopPointID) (model.QuayID, bool) {
	if quay, exists := r.quays[stopPoint]; exists {
		return quay, true
	}

	return r.index.QuayForScheduledStopPoint(stopPoint)
}

func (r *Resolver) Coordinates(stopPoint model.ScheduledStopPointID) (model.QuayCoordinates, bool) {
	quay, exists := r.QuayID(stopPoint)
	if !exists {
		return model.QuayCoordinates{}, false
	}

	if coordinates, exists := r.coordinates[quay]; exists {
		return coordinates, true
	}

	return r.index.QuayCoordinates(quay)
}

func (r *Resolver) StopPlaceMode(stopPoint model.ScheduledStopPointID) (model.TransportModeAndSubMode, bool) {
	quay, exists := r.QuayID(stopPoint)
	if !exists {
		return model.TransportModeAndSubMode{}, false
	}

	if mode, exists := r.modes[quay]; exists {
		return mode, true
	}

	return r.index.StopPlaceModeForQuay(quay)
}

// IsArea reports whether the stop point is served by a flexible stop place
func (r *Resolver) IsArea(stopPoint model.ScheduledStopPointID) bool {
	if _, exists := r.flexible[stopPoint]; exists {
		return true
	}

	_, exists := r.index.FlexibleStopPlaceForScheduledStopPoint(stopPoint)
	return exists
}
