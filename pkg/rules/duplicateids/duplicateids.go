package duplicateids

import (
	"context"

	"github.com/travigo/netex-validator/pkg/validation"
)

type DuplicateFinder interface {
	FindDuplicates(ctx context.Context, reportID string, fileName string, localIDs []string) ([]string, error)
}

// Validator flags ids of the file that an earlier file of the report already defined
type Validator struct {
	finder DuplicateFinder
}

func NewValidator(finder DuplicateFinder) *Validator {
	return &Validator{finder: finder}
}

func (v *Validator) Name() string {
	return "duplicateids"
}

func (v *Validator) Validate(ctx context.Context, validationContext *validation.Context) ([]validation.Entry, error) {
	duplicates, err := v.finder.FindDuplicates(ctx, validationContext.ReportID, validationContext.FileName, validationContext.Index.LocalIDs())
	if err != nil {
		return nil, err
	}

	entries := make([]validation.Entry, 0, len(duplicates))
	for _, id := range duplicates {
		entries = append(entries, validationContext.Entry(validation.NetexIDDuplicated, id, id))
	}

	return entries, nil
}
