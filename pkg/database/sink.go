package database

import (
	"context"
	"time"

	"github.com/travigo/netex-validator/pkg/validation"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FileSummary is stored once per validated file
type FileSummary struct {
	ReportID    string                      `bson:"report_id"`
	FileName    string                      `bson:"file_name"`
	Findings    map[validation.Severity]int `bson:"findings"`
	FailedRules []string                    `bson:"failed_rules"`
	ValidatedAt time.Time                   `bson:"validated_at"`
}

// MongoSink stores findings in the entries collection. A file validated again replaces its previous findings.
type MongoSink struct {
	entries *mongo.Collection
	files   *mongo.Collection
}

func NewMongoSink(instance *MongoInstance) *MongoSink {
	return &MongoSink{
		entries: instance.Database.Collection(EntriesCollection),
		files:   instance.Database.Collection(FilesCollection),
	}
}

func (s *MongoSink) Publish(ctx context.Context, report *validation.Report) error {
	operations := entryOperations(report)

	if _, err := s.entries.BulkWrite(ctx, operations, options.BulkWrite().SetOrdered(true)); err != nil {
		return err
	}

	summary := Summarise(report, time.Now())
	_, err := s.files.ReplaceOne(ctx, fileFilter(report), summary, options.Replace().SetUpsert(true))
	return err
}

func fileFilter(report *validation.Report) bson.M {
	return bson.M{"report_id": report.ReportID, "file_name": report.FileName}
}

func entryOperations(report *validation.Report) []mongo.WriteModel {
	operations := []mongo.WriteModel{
		mongo.NewDeleteManyModel().SetFilter(fileFilter(report)),
	}
	for _, entry := range report.Entries {
		operations = append(operations, mongo.NewInsertOneModel().SetDocument(entry))
	}

	return operations
}

func Summarise(report *validation.Report, now time.Time) FileSummary {
	failed := report.FailedRules
	if failed == nil {
		failed = []string{}
	}

	return FileSummary{
		ReportID:    report.ReportID,
		FileName:    report.FileName,
		Findings:    report.CountBySeverity(),
		FailedRules: failed,
		ValidatedAt: now,
	}
}
