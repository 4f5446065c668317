package references

import (
	"context"
	"fmt"

	"github.com/travigo/netex-validator/pkg/util"
	"github.com/travigo/netex-validator/pkg/validation"
)

type SharedIDSource interface {
	SharedIDs(ctx context.Context, reportID string) ([]string, error)
}

// Validator flags references of a line file to ids neither the file nor a common file defines.
// Nothing is checked until a common file of the report has shared its ids.
type Validator struct {
	source SharedIDSource
}

func NewValidator(source SharedIDSource) *Validator {
	return &Validator{source: source}
}

func (v *Validator) Name() string {
	return "references"
}

type reference struct {
	entityID string
	kind     string
	ref      string
}

func (v *Validator) Validate(ctx context.Context, validationContext *validation.Context) ([]validation.Entry, error) {
	if validationContext.IsCommonFile() {
		return nil, nil
	}

	ids, err := v.source.SharedIDs(ctx, validationContext.ReportID)
	if err != nil {
		return nil, fmt.Errorf("reading shared ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	shared := make(map[string]bool, len(ids))
	for _, id := range ids {
		shared[id] = true
	}

	var entries []validation.Entry
	seen := map[reference]bool{}
	for _, ref := range collect(validationContext) {
		if ref.ref == "" || seen[ref] || shared[ref.ref] || validationContext.Index.Defines(ref.ref) {
			continue
		}
		seen[ref] = true
		entries = append(entries, validationContext.Entry(validation.NetexReferenceUnresolved, ref.entityID, ref.kind, ref.ref))
	}

	return entries, nil
}

func collect(validationContext *validation.Context) []reference {
	index := validationContext.Index

	var refs []reference
	for _, id := range sortedKeys(index.Routes) {
		route := index.Routes[id]
		refs = append(refs, reference{entityID: route.ID, kind: "Line", ref: route.LineID()})
	}

	for _, id := range sortedKeys(index.JourneyPatterns) {
		pattern := index.JourneyPatterns[id]
		for _, point := range pattern.PointsInSequence {
			refs = append(refs, reference{entityID: pattern.ID, kind: "ScheduledStopPoint", ref: point.ScheduledStopPointRef.Ref})
		}
	}

	for _, journey := range index.ServiceJourneys {
		for _, dayType := range journey.DayTypeRefs {
			refs = append(refs, reference{entityID: journey.ID, kind: "DayType", ref: dayType.Ref})
		}
		refs = append(refs, reference{entityID: journey.ID, kind: "Line", ref: journey.LineID()})
	}

	return refs
}

func sortedKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	return util.SortedStrings(keys)
}
