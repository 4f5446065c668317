package validator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/netex-validator/pkg/commondata"
	"github.com/travigo/netex-validator/pkg/config"
	"github.com/travigo/netex-validator/pkg/database"
	"github.com/travigo/netex-validator/pkg/duplicates"
	"github.com/travigo/netex-validator/pkg/metrics"
	"github.com/travigo/netex-validator/pkg/netex"
	"github.com/travigo/netex-validator/pkg/redis_client"
	"github.com/travigo/netex-validator/pkg/sharedcache"
	"github.com/travigo/netex-validator/pkg/util"
	"github.com/travigo/netex-validator/pkg/validation"
	"github.com/urfave/cli/v2"
)

// Connected builds a validator against the configured Redis and MongoDB
func Connected(cfg config.Config, m *metrics.Metrics) (*Validator, error) {
	if err := redis_client.Connect(cfg.Redis); err != nil {
		return nil, err
	}
	if err := database.Connect(cfg.Mongo); err != nil {
		return nil, err
	}

	thresholds, err := cfg.Interchange.Thresholds()
	if err != nil {
		return nil, err
	}

	store := sharedcache.NewRedisStore(redis_client.Client)
	locker := sharedcache.NewRedisLocker(redis_client.Client, cfg.Cache.LockLease, cfg.Cache.LockWait)

	return New(
		commondata.NewRepository(store, cfg.Cache.TTL),
		duplicates.NewTracker(store, locker, cfg.Cache.TTL),
		database.NewMongoSink(database.Instance),
		thresholds,
		m,
	), nil
}

func RegisterCLI() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "validate",
			Usage:     "validate a dataset of local files without a queue",
			ArgsUsage: "FILE...",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "report", Usage: "report id, generated when empty"},
				&cli.StringFlag{Name: "codespace", Value: "RUT"},
				&cli.IntFlag{Name: "concurrency", Value: 4, Usage: "line files validated at once"},
				&cli.BoolFlag{Name: "redis", Usage: "share data through the configured Redis instead of memory"},
				&cli.BoolFlag{Name: "pretty", Usage: "print the findings with kr/pretty"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() == 0 {
					return cli.Exit("no files given", 1)
				}

				cfg, err := config.Load()
				if err != nil {
					return err
				}

				reportID := c.String("report")
				if reportID == "" {
					reportID = uuid.NewString()
				}

				v, sink, err := localValidator(cfg, c.Bool("redis"))
				if err != nil {
					return err
				}

				ctx := context.Background()
				reports, err := v.ValidateDataset(ctx, reportID, c.String("codespace"), c.Args().Slice(), c.Int("concurrency"))
				if err != nil {
					return err
				}
				if err := v.CompleteReport(ctx, reportID); err != nil {
					log.Error().Err(err).Str("report", reportID).Msg("Failed to clean up report")
				}

				entries := sink.Entries(reportID)
				if c.Bool("pretty") {
					pretty.Println(entries)
				} else {
					for _, entry := range entries {
						fmt.Printf("%s:%d %s %s %s\n", entry.FileName, entry.Line, entry.Severity, entry.RuleCode, entry.Message)
					}
				}

				for _, report := range reports {
					if report.HasErrors() {
						return cli.Exit("validation found errors", 2)
					}
				}

				return nil
			},
		},
		{
			Name:      "inspect",
			Usage:     "print what the reader finds in one file",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return cli.Exit("expected one file", 1)
				}

				index, err := netex.ParseFile(c.Args().First())
				if err != nil {
					return err
				}

				pretty.Println(Inspect(index))

				return nil
			},
		},
	}
}

func localValidator(cfg config.Config, useRedis bool) (*Validator, *validation.MemorySink, error) {
	thresholds, err := cfg.Interchange.Thresholds()
	if err != nil {
		return nil, nil, err
	}

	var store sharedcache.Store
	var locker sharedcache.Locker
	if useRedis {
		if err := redis_client.Connect(cfg.Redis); err != nil {
			return nil, nil, err
		}
		store = sharedcache.NewRedisStore(redis_client.Client)
		locker = sharedcache.NewRedisLocker(redis_client.Client, cfg.Cache.LockLease, cfg.Cache.LockWait)
	} else {
		store = sharedcache.NewMemoryStore()
		locker = sharedcache.NewMemoryLocker(cfg.Cache.LockWait)
	}

	sink := validation.NewMemorySink()
	v := New(
		commondata.NewRepository(store, cfg.Cache.TTL),
		duplicates.NewTracker(store, locker, cfg.Cache.TTL),
		sink,
		thresholds,
		nil,
	)

	return v, sink, nil
}

// Summary is what inspect prints for one file
type Summary struct {
	FileName    string
	Common      bool
	Entities    map[string]int
	ActiveDates map[string][]string
	Lines       []string
}

func Inspect(index *netex.Index) Summary {
	summary := Summary{
		FileName: index.FileName,
		Common:   validation.IsCommonFile(index.FileName),
		Entities: map[string]int{
			"Line":                      len(index.Lines),
			"Route":                     len(index.Routes),
			"ScheduledStopPoint":        len(index.ScheduledStopPoints),
			"PassengerStopAssignment":   len(index.PassengerStopAssignments),
			"FlexibleStopAssignment":    len(index.FlexibleStopAssignments),
			"ServiceLink":               len(index.ServiceLinks),
			"JourneyPattern":            len(index.JourneyPatterns),
			"ServiceJourney":            len(index.ServiceJourneys),
			"DatedServiceJourney":       len(index.DatedServiceJourneys),
			"DayType":                   len(index.DayTypes),
			"DayTypeAssignment":         len(index.DayTypeAssignments),
			"OperatingDay":              len(index.OperatingDays),
			"OperatingPeriod":           len(index.OperatingPeriods),
			"ServiceJourneyInterchange": len(index.Interchanges),
			"StopPlace":                 len(index.StopPlaces),
			"FlexibleStopPlace":         len(index.FlexibleStopPlaces),
		},
		ActiveDates: index.ActiveDates(),
	}

	for _, id := range util.SortedStrings(mapKeys(index.Lines)) {
		line := index.Lines[id]
		summary.Lines = append(summary.Lines, fmt.Sprintf("%s %s (%s)", line.ID, line.Name, line.Mode().Mode))
	}

	return summary
}

func mapKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	return keys
}
