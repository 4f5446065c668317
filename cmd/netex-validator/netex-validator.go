package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/netex-validator/pkg/validator"
	"github.com/travigo/netex-validator/pkg/worker"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("TRAVIGO_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("TRAVIGO_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	commands := []*cli.Command{
		worker.RegisterCLI(),
	}
	commands = append(commands, worker.RegisterPublishCLI()...)
	commands = append(commands, validator.RegisterCLI()...)

	app := &cli.App{
		Name:        "netex-validator",
		Description: "Validates NeTEx timetable datasets, one file per job, with shared data kept in Redis",

		Commands: commands,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
