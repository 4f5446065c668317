// Package worker consumes validation jobs from rmq queues.
package worker

import (
	"fmt"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/netex-validator/pkg/config"
)

const jobTimeout = 10 * time.Minute

type Worker struct {
	config     config.WorkerConfig
	connection rmq.Connection

	files   FileValidator
	reports ReportCompleter
}

func New(cfg config.WorkerConfig, connection rmq.Connection, files FileValidator, reports ReportCompleter) *Worker {
	return &Worker{
		config:     cfg,
		connection: connection,
		files:      files,
		reports:    reports,
	}
}

func (w *Worker) Start() error {
	log.Info().Str("queue", w.config.FileQueue).Int("consumers", w.config.Consumers).Msg("Starting consumers")

	fileQueue, err := w.openQueue(w.config.FileQueue, w.config.Consumers)
	if err != nil {
		return err
	}
	for i := 0; i < w.config.Consumers; i++ {
		if _, err := fileQueue.AddConsumer(fmt.Sprintf("%s-%d", w.config.FileQueue, i), NewFileConsumer(i, w.files, jobTimeout)); err != nil {
			return err
		}
	}

	reportQueue, err := w.openQueue(w.config.ReportQueue, 1)
	if err != nil {
		return err
	}
	if _, err := reportQueue.AddConsumer(fmt.Sprintf("%s-0", w.config.ReportQueue), NewReportConsumer(w.reports, jobTimeout)); err != nil {
		return err
	}

	return nil
}

func (w *Worker) openQueue(name string, prefetch int) (rmq.Queue, error) {
	queue, err := w.connection.OpenQueue(name)
	if err != nil {
		return nil, err
	}
	if err := queue.StartConsuming(int64(prefetch), w.config.PollingInterval); err != nil {
		return nil, err
	}

	return queue, nil
}

// Stop waits for the running deliveries to finish
func (w *Worker) Stop() {
	<-w.connection.StopAllConsuming()
}
