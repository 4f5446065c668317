// Package validator runs every rule against one file of a validation report and records the shared
// data the report's other files depend on.
package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/netex-validator/pkg/commondata"
	"github.com/travigo/netex-validator/pkg/config"
	"github.com/travigo/netex-validator/pkg/duplicates"
	"github.com/travigo/netex-validator/pkg/metrics"
	"github.com/travigo/netex-validator/pkg/netex"
	"github.com/travigo/netex-validator/pkg/rules/duplicateids"
	"github.com/travigo/netex-validator/pkg/rules/interchange"
	"github.com/travigo/netex-validator/pkg/rules/passingtimes"
	"github.com/travigo/netex-validator/pkg/rules/references"
	"github.com/travigo/netex-validator/pkg/rules/speed"
	"github.com/travigo/netex-validator/pkg/rules/transportmode"
	"github.com/travigo/netex-validator/pkg/stoppoints"
	"github.com/travigo/netex-validator/pkg/validation"
)

// File identifies one file of a validation report
type File struct {
	ReportID  string `json:"report_id"`
	Codespace string `json:"codespace"`
	FileName  string `json:"file_name"`
	Path      string `json:"path"`
}

type Validator struct {
	repository *commondata.Repository
	tracker    *duplicates.Tracker
	sink       validation.Sink
	metrics    *metrics.Metrics

	duplicates validation.Validator
	rules      []validation.Validator
}

func New(
	repository *commondata.Repository,
	tracker *duplicates.Tracker,
	sink validation.Sink,
	thresholds config.WaitTimeThresholds,
	m *metrics.Metrics,
) *Validator {
	return &Validator{
		repository: repository,
		tracker:    tracker,
		sink:       sink,
		metrics:    m,
		duplicates: duplicateids.NewValidator(tracker),
		rules: []validation.Validator{
			passingtimes.NewValidator(),
			speed.NewDistanceValidator(),
			speed.NewValidator(),
			interchange.NewValidator(repository, thresholds),
			transportmode.NewValidator(),
			references.NewValidator(tracker),
		},
	}
}

// ValidateFile parses and validates one file. An error means the file should be delivered again.
func (v *Validator) ValidateFile(ctx context.Context, file File) (*validation.Report, error) {
	start := time.Now()

	index, err := netex.ParseFile(file.Path)
	if err != nil {
		v.observe(file.FileName, nil, start)
		return nil, fmt.Errorf("parsing %s: %w", file.FileName, err)
	}
	if file.FileName != "" {
		index.FileName = file.FileName
	}

	return v.Validate(ctx, file.ReportID, file.Codespace, index)
}

func (v *Validator) Validate(ctx context.Context, reportID string, codespace string, index *netex.Index) (*validation.Report, error) {
	start := time.Now()

	report, err := v.validate(ctx, reportID, codespace, index)
	v.observe(index.FileName, report, start)
	if err != nil {
		return nil, err
	}

	if err := v.sink.Publish(ctx, report); err != nil {
		return nil, fmt.Errorf("publishing report of %s: %w", index.FileName, err)
	}

	counts := report.CountBySeverity()
	log.Info().
		Str("report", reportID).
		Str("file", index.FileName).
		Int("errors", counts[validation.SeverityError]).
		Int("warnings", counts[validation.SeverityWarning]).
		Strs("failed", report.FailedRules).
		Dur("duration", time.Since(start)).
		Msg("Validated file")

	return report, nil
}

func (v *Validator) validate(ctx context.Context, reportID string, codespace string, index *netex.Index) (*validation.Report, error) {
	validationContext := validation.NewContext(reportID, codespace, index)

	if validationContext.IsCommonFile() {
		if err := v.repository.LoadCommonData(ctx, reportID, index); err != nil {
			return nil, err
		}
		if err := v.tracker.AddSharedIDs(ctx, reportID, index.LocalIDs()); err != nil {
			return nil, err
		}
	} else {
		if err := v.repository.LoadLineData(ctx, reportID, index); err != nil {
			return nil, err
		}
	}

	resolver, err := stoppoints.NewResolver(ctx, v.repository, reportID, index)
	if err != nil {
		return nil, err
	}
	validationContext.StopPoints = resolver

	report := validation.NewReport(reportID, index.FileName)

	entries, err := v.duplicates.Validate(ctx, validationContext)
	if err != nil {
		return nil, err
	}
	report.Add(entries...)

	for _, rule := range v.rules {
		entries, err := rule.Validate(ctx, validationContext)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}

			log.Error().Err(err).Str("report", reportID).Str("file", index.FileName).Str("rule", rule.Name()).Msg("Rule failed")
			report.FailedRules = append(report.FailedRules, rule.Name())
			continue
		}
		report.Add(entries...)
	}

	return report, nil
}

// CompleteReport removes the shared data of a finished report
func (v *Validator) CompleteReport(ctx context.Context, reportID string) error {
	if err := v.repository.CleanUp(ctx, reportID); err != nil {
		return err
	}
	if err := v.tracker.CleanUp(ctx, reportID); err != nil {
		return err
	}

	if v.metrics != nil {
		v.metrics.ReportsCleanedTotal.Inc()
	}
	log.Info().Str("report", reportID).Msg("Cleaned up report")

	return nil
}

func (v *Validator) observe(fileName string, report *validation.Report, start time.Time) {
	if v.metrics != nil {
		v.metrics.ObserveFile(fileName, report, time.Since(start))
	}
}
