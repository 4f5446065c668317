// Package commondata keeps the reference data of a validation report in the shared cache so that every
// worker validating a file of the report sees what the report's other files defined.
package commondata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/netex-validator/pkg/model"
	"github.com/travigo/netex-validator/pkg/netex"
	"github.com/travigo/netex-validator/pkg/sharedcache"
)

type Repository struct {
	store sharedcache.Store
	ttl   time.Duration
}

func NewRepository(store sharedcache.Store, ttl time.Duration) *Repository {
	return &Repository{store: store, ttl: ttl}
}

// LoadCommonData merges the reference data of a common file into the report's mappings
func (r *Repository) LoadCommonData(ctx context.Context, reportID string, index *netex.Index) error {
	values := scraped{}
	scrapeStopData(index, values)
	scrapeTimetableData(index, values)

	return r.merge(ctx, reportID, index.FileName, values)
}

// LoadLineData merges the journeys, calendars and line descriptors of a line file into the report's mappings
func (r *Repository) LoadLineData(ctx context.Context, reportID string, index *netex.Index) error {
	values := scraped{}
	scrapeTimetableData(index, values)

	return r.merge(ctx, reportID, index.FileName, values)
}

func (r *Repository) merge(ctx context.Context, reportID string, fileName string, values scraped) error {
	for _, kind := range allKinds {
		if len(values[kind]) == 0 {
			continue
		}
		if err := r.store.Merge(ctx, cacheKey(kind, reportID), values[kind], r.ttl); err != nil {
			return fmt.Errorf("merging %s for report %s: %w", kind, reportID, err)
		}
	}

	log.Debug().
		Str("report", reportID).
		Str("file", fileName).
		Int("quays", len(values[KindQuayIDs])).
		Int("servicelinks", len(values[KindServiceLinks])).
		Int("servicejourneys", len(values[KindServiceJourneyStops])).
		Int("lines", len(values[KindLineNames])).
		Msg("Loaded report data")

	return nil
}

func (r *Repository) hash(ctx context.Context, kind Kind, reportID string) (map[string]string, error) {
	values, err := r.store.HashGetAll(ctx, cacheKey(kind, reportID))
	if errors.Is(err, sharedcache.ErrNotFound) {
		return nil, &NotFoundError{ReportID: reportID, Kind: kind}
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s for report %s: %w", kind, reportID, err)
	}

	return values, nil
}

func (r *Repository) field(ctx context.Context, kind Kind, reportID string, field string) (string, bool, error) {
	value, err := r.store.HashGet(ctx, cacheKey(kind, reportID), field)
	if errors.Is(err, sharedcache.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s for report %s: %w", kind, reportID, err)
	}

	return value, true, nil
}

// QuayIDFor returns false when the report has no data or the stop point is not assigned
func (r *Repository) QuayIDFor(ctx context.Context, stopPoint model.ScheduledStopPointID, reportID string) (model.QuayID, bool, error) {
	value, exists, err := r.field(ctx, KindQuayIDs, reportID, string(stopPoint))
	if err != nil || !exists {
		return "", false, err
	}

	return model.QuayID(value), true, nil
}

func (r *Repository) HasSharedStopData(ctx context.Context, reportID string) (bool, error) {
	return r.store.Exists(ctx, cacheKey(KindQuayIDs, reportID))
}

func (r *Repository) QuayIDs(ctx context.Context, reportID string) (map[model.ScheduledStopPointID]model.QuayID, error) {
	values, err := r.hash(ctx, KindQuayIDs, reportID)
	if err != nil {
		return nil, err
	}

	quays := make(map[model.ScheduledStopPointID]model.QuayID, len(values))
	for stopPoint, quay := range values {
		quays[model.ScheduledStopPointID(stopPoint)] = model.QuayID(quay)
	}

	return quays, nil
}

func (r *Repository) ServiceLinks(ctx context.Context, reportID string) (map[model.ServiceLinkID]ServiceLinkEndpoints, error) {
	values, err := r.hash(ctx, KindServiceLinks, reportID)
	if err != nil {
		return nil, err
	}

	links := make(map[model.ServiceLinkID]ServiceLinkEndpoints, len(values))
	for id, value := range values {
		endpoints, err := ParseServiceLinkEndpoints(value)
		if err != nil {
			return nil, err
		}
		links[model.ServiceLinkID(id)] = endpoints
	}

	return links, nil
}

func (r *Repository) ServiceJourneyStops(ctx context.Context, reportID string) (map[model.ServiceJourneyID][]model.ServiceJourneyStop, error) {
	values, err := r.hash(ctx, KindServiceJourneyStops, reportID)
	if err != nil {
		return nil, err
	}

	journeys := make(map[model.ServiceJourneyID][]model.ServiceJourneyStop, len(values))
	for id, value := range values {
		stops, err := model.DecodeServiceJourneyStops(value)
		if err != nil {
			log.Error().Err(err).Str("report", reportID).Str("journey", id).Msg("Skipping service journey with malformed cached stops")
			continue
		}
		journeys[model.ServiceJourneyID(id)] = stops
	}

	return journeys, nil
}

func (r *Repository) CalendarRefs(ctx context.Context, reportID string) (map[model.ServiceJourneyID][]string, error) {
	values, err := r.hash(ctx, KindServiceJourneyCalendars, reportID)
	if err != nil {
		return nil, err
	}

	refs := make(map[model.ServiceJourneyID][]string, len(values))
	for id, value := range values {
		refs[model.ServiceJourneyID(id)] = model.DecodeList(value)
	}

	return refs, nil
}

// ActiveDates maps day type and operating day ids to their dates
func (r *Repository) ActiveDates(ctx context.Context, reportID string) (map[string][]string, error) {
	values, err := r.hash(ctx, KindActiveDates, reportID)
	if err != nil {
		return nil, err
	}

	dates := make(map[string][]string, len(values))
	for id, value := range values {
		dates[id] = model.DecodeList(value)
	}

	return dates, nil
}

// LineNames returns the report's lines ordered by id
func (r *Repository) LineNames(ctx context.Context, reportID string) ([]model.SimpleLine, error) {
	values, err := r.hash(ctx, KindLineNames, reportID)
	if err != nil {
		return nil, err
	}

	lines := make([]model.SimpleLine, 0, len(values))
	for _, value := range values {
		line, err := model.ParseSimpleLine(value)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].LineID < lines[j].LineID
	})

	return lines, nil
}

func (r *Repository) QuayCoordinates(ctx context.Context, reportID string) (map[model.QuayID]model.QuayCoordinates, error) {
	values, err := r.hash(ctx, KindQuayCoordinates, reportID)
	if err != nil {
		return nil, err
	}

	coordinates := make(map[model.QuayID]model.QuayCoordinates, len(values))
	for quay, value := range values {
		parsed, err := model.ParseQuayCoordinates(value)
		if err != nil {
			return nil, fmt.Errorf("quay %s: %w", quay, err)
		}
		coordinates[model.QuayID(quay)] = parsed
	}

	return coordinates, nil
}

func (r *Repository) QuayCoordinatesFor(ctx context.Context, quay model.QuayID, reportID string) (model.QuayCoordinates, bool, error) {
	value, exists, err := r.field(ctx, KindQuayCoordinates, reportID, string(quay))
	if err != nil || !exists {
		return model.QuayCoordinates{}, false, err
	}

	coordinates, err := model.ParseQuayCoordinates(value)
	if err != nil {
		return model.QuayCoordinates{}, false, fmt.Errorf("quay %s: %w", quay, err)
	}

	return coordinates, true, nil
}

// TransportModes maps quays to the transport mode of their stop place
func (r *Repository) TransportModes(ctx context.Context, reportID string) (map[model.QuayID]model.TransportModeAndSubMode, error) {
	values, err := r.hash(ctx, KindTransportModes, reportID)
	if err != nil {
		return nil, err
	}

	modes := make(map[model.QuayID]model.TransportModeAndSubMode, len(values))
	for quay, value := range values {
		mode, err := model.ParseTransportModeAndSubMode(value)
		if err != nil {
			return nil, fmt.Errorf("quay %s: %w", quay, err)
		}
		modes[model.QuayID(quay)] = mode
	}

	return modes, nil
}

// FlexibleStopAssignments maps scheduled stop points to the flexible stop place serving them
func (r *Repository) FlexibleStopAssignments(ctx context.Context, reportID string) (map[model.ScheduledStopPointID]string, error) {
	values, err := r.hash(ctx, KindFlexibleStopAssignments, reportID)
	if err != nil {
		return nil, err
	}

	assignments := make(map[model.ScheduledStopPointID]string, len(values))
	for stopPoint, area := range values {
		assignments[model.ScheduledStopPointID(stopPoint)] = area
	}

	return assignments, nil
}

// CleanUp removes every mapping of the report. Cleaning a report without data is not an error.
func (r *Repository) CleanUp(ctx context.Context, reportID string) error {
	keys := make([]string, len(allKinds))
	for i, kind := range allKinds {
		keys[i] = cacheKey(kind, reportID)
	}

	if err := r.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("cleaning up report %s: %w", reportID, err)
	}

	log.Debug().Str("report", reportID).Msg("Cleaned up report data")
	return nil
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
