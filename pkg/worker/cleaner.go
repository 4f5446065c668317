package worker

import (
	"context"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
)

// StartCleaner returns the unacked deliveries of dead connections to their queues until ctx is done
func StartCleaner(ctx context.Context, connection rmq.Connection, interval time.Duration) {
	cleaner := rmq.NewCleaner(connection)

	log.Info().Msg("Starting queue cleaner process")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			returned, err := cleaner.Clean()
			if err != nil {
				log.Error().Err(err).Msg("Failed to clean")
				continue
			}

			if returned != 0 {
				log.Info().Msgf("Cleaned %d records", returned)
			}
		}
	}
}
