package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/netex-validator/pkg/validation"
	"github.com/travigo/netex-validator/pkg/validator"
)

var errMissingReportID = errors.New("job has no report id")

type FileValidator interface {
	ValidateFile(ctx context.Context, file validator.File) (*validation.Report, error)
}

type ReportCompleter interface {
	CompleteReport(ctx context.Context, reportID string) error
}

// FileConsumer validates one file per delivery. Deliveries whose file could not be validated are rejected.
type FileConsumer struct {
	id        int
	validator FileValidator
	timeout   time.Duration
}

func NewFileConsumer(id int, fileValidator FileValidator, timeout time.Duration) *FileConsumer {
	return &FileConsumer{id: id, validator: fileValidator, timeout: timeout}
}

func (consumer *FileConsumer) Consume(delivery rmq.Delivery) {
	var file validator.File
	if err := json.Unmarshal([]byte(delivery.Payload()), &file); err != nil {
		reject(delivery, err, "Failed to decode file job")
		return
	}
	if file.ReportID == "" {
		reject(delivery, errMissingReportID, "Invalid file job")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), consumer.timeout)
	defer cancel()

	if _, err := consumer.validator.ValidateFile(ctx, file); err != nil {
		log.Error().Err(err).Int("consumer", consumer.id).Str("report", file.ReportID).Str("file", file.FileName).Msg("Failed to validate file")
		reject(delivery, nil, "")
		return
	}

	ack(delivery)
}

type ReportConsumer struct {
	completer ReportCompleter
	timeout   time.Duration
}

func NewReportConsumer(completer ReportCompleter, timeout time.Duration) *ReportConsumer {
	return &ReportConsumer{completer: completer, timeout: timeout}
}

func (consumer *ReportConsumer) Consume(delivery rmq.Delivery) {
	var job ReportJob
	if err := json.Unmarshal([]byte(delivery.Payload()), &job); err != nil {
		reject(delivery, err, "Failed to decode report job")
		return
	}
	if job.ReportID == "" {
		reject(delivery, errMissingReportID, "Invalid report job")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), consumer.timeout)
	defer cancel()

	if err := consumer.completer.CompleteReport(ctx, job.ReportID); err != nil {
		log.Error().Err(err).Str("report", job.ReportID).Msg("Failed to clean up report")
		reject(delivery, nil, "")
		return
	}

	ack(delivery)
}

func reject(delivery rmq.Delivery, cause error, message string) {
	if cause != nil {
		log.Error().Err(cause).Str("payload", delivery.Payload()).Msg(message)
	}

	if err := delivery.Reject(); err != nil {
		log.Error().Err(err).Msg("Failed to reject delivery")
	}
}

func ack(delivery rmq.Delivery) {
	if err := delivery.Ack(); err != nil {
		log.Error().Err(err).Msg("Failed to ack delivery")
	}
}
