package validator

import (
	"context"
	"path/filepath"

	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/netex-validator/pkg/validation"
)

// ValidateDataset validates the common files of a dataset one by one and then its line files concurrently,
// the way a set of workers consuming one report would.
func (v *Validator) ValidateDataset(ctx context.Context, reportID string, codespace string, paths []string, concurrency int) ([]*validation.Report, error) {
	var common, lines []File
	for _, path := range paths {
		file := File{ReportID: reportID, Codespace: codespace, FileName: filepath.Base(path), Path: path}
		if validation.IsCommonFile(file.FileName) {
			common = append(common, file)
		} else {
			lines = append(lines, file)
		}
	}

	var reports []*validation.Report
	for _, file := range common {
		report, err := v.ValidateFile(ctx, file)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	if concurrency < 1 {
		concurrency = 1
	}
	p := pool.NewWithResults[*validation.Report]().WithContext(ctx).WithMaxGoroutines(concurrency)
	for _, file := range lines {
		p.Go(func(ctx context.Context) (*validation.Report, error) {
			return v.ValidateFile(ctx, file)
		})
	}

	lineReports, err := p.Wait()
	if err != nil {
		return nil, err
	}

	return append(reports, lineReports...), nil
}
