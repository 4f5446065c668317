package duplicateids

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/netex-validator/pkg/duplicates"
	"github.com/travigo/netex-validator/pkg/netex"
	"github.com/travigo/netex-validator/pkg/sharedcache"
	"github.com/travigo/netex-validator/pkg/validation"
)

func fileWithStopPoints(fileName string, ids ...string) *validation.Context {
	index := netex.NewIndex(fileName)
	for i, id := range ids {
		index.AddScheduledStopPoint(&netex.ScheduledStopPoint{ID: id}, i+1)
	}
	return validation.NewContext("report-1", "RUT", index)
}

func TestDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	tracker := duplicates.NewTracker(sharedcache.NewMemoryStore(), sharedcache.NewMemoryLocker(time.Second), time.Hour)
	validator := NewValidator(tracker)

	entries, err := validator.Validate(ctx, fileWithStopPoints("_RUT_shared_data.xml", "RUT:ScheduledStopPoint:1", "RUT:ScheduledStopPoint:2"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = validator.Validate(ctx, fileWithStopPoints("RUT_Line_1.xml", "RUT:ScheduledStopPoint:3", "RUT:ScheduledStopPoint:2"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, validation.NetexIDDuplicated.Code, entries[0].RuleCode)
	assert.Equal(t, "RUT:ScheduledStopPoint:2", entries[0].EntityID)
	assert.Equal(t, "RUT_Line_1.xml", entries[0].FileName)
	assert.Equal(t, 2, entries[0].Line)
}

type failingFinder struct{}

func (failingFinder) FindDuplicates(context.Context, string, string, []string) ([]string, error) {
	return nil, sharedcache.ErrLockTimeout
}

func TestDuplicateIDsLockFailure(t *testing.T) {
	_, err := NewValidator(failingFinder{}).Validate(context.Background(), fileWithStopPoints("RUT_Line_1.xml", "RUT:ScheduledStopPoint:1"))
	assert.True(t, errors.Is(err, sharedcache.ErrLockTimeout))
}
