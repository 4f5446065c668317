package worker

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/netex-validator/pkg/config"
	"github.com/travigo/netex-validator/pkg/database"
	"github.com/travigo/netex-validator/pkg/metrics"
	"github.com/travigo/netex-validator/pkg/redis_client"
	"github.com/travigo/netex-validator/pkg/validator"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "worker",
		Usage: "Consume validation jobs from the queues",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run an instance of the validation worker",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					m := metrics.New()
					v, err := validator.Connected(cfg, m)
					if err != nil {
						return err
					}

					w := New(cfg.Worker, redis_client.QueueConnection, v, v)
					if err := w.Start(); err != nil {
						return err
					}

					server := StartStatsServer(cfg.Worker.StatsAddress, NewStatsMux(redis_client.QueueConnection, m,
						func(ctx context.Context) error { return redis_client.Client.Ping(ctx).Err() },
						func(ctx context.Context) error { return database.Instance.Client.Ping(ctx, nil) },
					))

					waitForSignal()

					w.Stop() // wait for all Consume() calls to finish

					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := server.Shutdown(ctx); err != nil {
						log.Error().Err(err).Msg("Failed to stop stats server")
					}

					return database.Disconnect(ctx)
				},
			},
			{
				Name:  "cleaner",
				Usage: "run the queue cleaner for the validation queues",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "interval", Value: 5 * time.Minute},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					if err := redis_client.Connect(cfg.Redis); err != nil {
						return err
					}

					ctx, cancel := context.WithCancel(context.Background())
					go StartCleaner(ctx, redis_client.QueueConnection, c.Duration("interval"))

					waitForSignal()
					cancel()

					<-redis_client.QueueConnection.StopAllConsuming()

					return nil
				},
			},
		},
	}
}

// RegisterPublishCLI holds the commands feeding the queues
func RegisterPublishCLI() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "publish",
			Usage:     "queue files of a report for validation",
			ArgsUsage: "FILE...",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "report", Required: true},
				&cli.StringFlag{Name: "codespace", Value: "RUT"},
			},
			Action: func(c *cli.Context) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				if err := redis_client.Connect(cfg.Redis); err != nil {
					return err
				}

				queue, err := redis_client.QueueConnection.OpenQueue(cfg.Worker.FileQueue)
				if err != nil {
					return err
				}

				for _, path := range c.Args().Slice() {
					absolute, err := filepath.Abs(path)
					if err != nil {
						return err
					}

					file := validator.File{
						ReportID:  c.String("report"),
						Codespace: c.String("codespace"),
						FileName:  filepath.Base(path),
						Path:      absolute,
					}
					if err := PublishFile(queue, file); err != nil {
						return err
					}
					log.Info().Str("report", file.ReportID).Str("file", file.FileName).Msg("Queued file")
				}

				return nil
			},
		},
		{
			Name:  "complete",
			Usage: "mark a report as finished so its shared data is removed",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "report", Required: true},
			},
			Action: func(c *cli.Context) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				if err := redis_client.Connect(cfg.Redis); err != nil {
					return err
				}

				queue, err := redis_client.QueueConnection.OpenQueue(cfg.Worker.ReportQueue)
				if err != nil {
					return err
				}

				return PublishReportCompleted(queue, c.String("report"))
			},
		},
	}
}

func waitForSignal() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	<-signals // wait for signal
	go func() {
		<-signals // hard exit on second signal (in case shutdown gets stuck)
		os.Exit(1)
	}()
}
