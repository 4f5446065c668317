package worker

import (
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/travigo/netex-validator/pkg/validator"
)

// ReportJob announces that every file of a report has been validated
type ReportJob struct {
	ReportID string `json:"report_id"`
}

func PublishFile(queue rmq.Queue, file validator.File) error {
	payload, err := json.Marshal(file)
	if err != nil {
		return err
	}

	return queue.PublishBytes(payload)
}

func PublishReportCompleted(queue rmq.Queue, reportID string) error {
	payload, err := json.Marshal(ReportJob{ReportID: reportID})
	if err != nil {
		return err
	}

	return queue.PublishBytes(payload)
}
