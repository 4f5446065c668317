// Package duplicates detects ids defined by more than one file of a validation report.
package duplicates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/netex-validator/pkg/sharedcache"
	"github.com/travigo/netex-validator/pkg/util"
)

const (
	accumulatedIDsPrefix = "ACCUMULATED_IDS_"
	localIDsPrefix       = "LOCAL_IDS_"
	duplicateIDsPrefix   = "DUPLICATE_IDS_"
	processedFilePrefix  = "PROCESSED_FILE_"
	sharedIDsPrefix      = "SHARED_IDS_"
)

func accumulatedIDsKey(reportID string) string {
	return accumulatedIDsPrefix + reportID
}

func sharedIDsKey(reportID string) string {
	return sharedIDsPrefix + reportID
}

func fileKey(prefix string, reportID string, fileName string) string {
	return prefix + reportID + "_" + fileName
}

type Tracker struct {
	store  sharedcache.Store
	locker sharedcache.Locker
	ttl    time.Duration
}

func NewTracker(store sharedcache.Store, locker sharedcache.Locker, ttl time.Duration) *Tracker {
	return &Tracker{store: store, locker: locker, ttl: ttl}
}

// FindDuplicates returns the ids of localIDs already defined by files of the report processed earlier.
// A repeated call for the same file returns the first result and leaves the accumulated ids untouched.
func (t *Tracker) FindDuplicates(ctx context.Context, reportID string, fileName string, localIDs []string) ([]string, error) {
	var duplicates []string

	err := sharedcache.WithLock(ctx, t.locker, accumulatedIDsKey(reportID), func(ctx context.Context) error {
		processedKey := fileKey(processedFilePrefix, reportID, fileName)
		duplicatesKey := fileKey(duplicateIDsPrefix, reportID, fileName)

		alreadyProcessed, err := t.store.Exists(ctx, processedKey)
		if err != nil {
			return err
		}
		if alreadyProcessed {
			duplicates, err = t.store.SetMembers(ctx, duplicatesKey)
			if err != nil {
				return err
			}
			log.Debug().Str("report", reportID).Str("file", fileName).Msg("Returning stored duplicate ids for redelivered file")
			return nil
		}

		localKey := fileKey(localIDsPrefix, reportID, fileName)
		ids := util.RemoveDuplicateStrings(localIDs, nil)
		if err := t.store.SetAdd(ctx, localKey, ids, t.ttl); err != nil {
			return err
		}

		duplicates, err = t.store.SetIntersect(ctx, localKey, accumulatedIDsKey(reportID))
		if err != nil {
			return err
		}

		// a failed write leaves no marker, so the retry computes the same duplicates again
		return t.store.Apply(ctx, []sharedcache.Write{
			sharedcache.SetWrite(duplicatesKey, duplicates),
			sharedcache.SetWrite(accumulatedIDsKey(reportID), ids),
			sharedcache.ValueWrite(processedKey, time.Now().UTC().Format(time.RFC3339)),
		}, t.ttl)
	})
	if err != nil {
		return nil, fmt.Errorf("finding duplicate ids of %s: %w", fileName, err)
	}

	return util.SortedStrings(duplicates), nil
}

// AddSharedIDs records ids that files of the report may reference across files
func (t *Tracker) AddSharedIDs(ctx context.Context, reportID string, ids []string) error {
	return sharedcache.WithLock(ctx, t.locker, sharedIDsKey(reportID), func(ctx context.Context) error {
		return t.store.SetAdd(ctx, sharedIDsKey(reportID), util.RemoveDuplicateStrings(ids, nil), t.ttl)
	})
}

func (t *Tracker) SharedIDs(ctx context.Context, reportID string) ([]string, error) {
	ids, err := t.store.SetMembers(ctx, sharedIDsKey(reportID))
	if err != nil && !errors.Is(err, sharedcache.ErrNotFound) {
		return nil, err
	}

	return util.SortedStrings(ids), nil
}

// CleanUp removes every per report and per file key of the report
func (t *Tracker) CleanUp(ctx context.Context, reportID string) error {
	if err := t.store.Delete(ctx, accumulatedIDsKey(reportID), sharedIDsKey(reportID)); err != nil {
		return fmt.Errorf("cleaning up ids of report %s: %w", reportID, err)
	}

	for _, prefix := range []string{localIDsPrefix, duplicateIDsPrefix, processedFilePrefix} {
		if err := t.store.DeletePrefix(ctx, prefix+reportID+"_"); err != nil {
			return fmt.Errorf("cleaning up ids of report %s: %w", reportID, err)
		}
	}

	return nil
}
