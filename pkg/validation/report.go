package validation

import (
	"context"
	"sort"
	"sync"
)

// Report collects the findings of one file
type Report struct {
	ReportID string
	FileName string
	Entries  []Entry

	// FailedRules names the validators that could not finish on this file
	FailedRules []string
}

func NewReport(reportID string, fileName string) *Report {
	return &Report{ReportID: reportID, FileName: fileName}
}

func (r *Report) Add(entries ...Entry) {
	r.Entries = append(r.Entries, entries...)
}

func (r *Report) CountBySeverity() map[Severity]int {
	counts := map[Severity]int{}
	for _, entry := range r.Entries {
		counts[entry.Severity]++
	}

	return counts
}

func (r *Report) HasErrors() bool {
	return r.CountBySeverity()[SeverityError] > 0
}

// Sink receives the findings of each validated file
type Sink interface {
	Publish(ctx context.Context, report *Report) error
}

type MemorySink struct {
	mutex   sync.Mutex
	entries map[string][]Entry
}

func NewMemorySink() *MemorySink {
	return &MemorySink{entries: map[string][]Entry{}}
}

func (s *MemorySink) Publish(_ context.Context, report *Report) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.entries[report.ReportID] = append(s.entries[report.ReportID], report.Entries...)
	return nil
}

// Entries returns a report's findings ordered by file, line and rule
func (s *MemorySink) Entries(reportID string) []Entry {
	s.mutex.Lock()
	entries := append([]Entry(nil), s.entries[reportID]...)
	s.mutex.Unlock()

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].FileName != entries[j].FileName {
			return entries[i].FileName < entries[j].FileName
		}
		if entries[i].Line != entries[j].Line {
			return entries[i].Line < entries[j].Line
		}
		return entries[i].RuleCode < entries[j].RuleCode
	})

	return entries
}
