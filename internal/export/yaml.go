package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Agrid-Dev/rcdemand/internal/report"
	"github.com/Agrid-Dev/rcdemand/internal/simulation"
)

// Report is the YAML document written at the end of a run.
type Report struct {
	RunID     string           `yaml:"run_id"`
	Buildings int              `yaml:"buildings"`
	Failed    int              `yaml:"failed"`
	Totals    Totals           `yaml:"totals"`
	Summaries []report.Summary `yaml:"summaries"`
}

// Totals sums the energies of every building [kWh].
type Totals struct {
	HeatingKWh   float64 `yaml:"heating_kwh"`
	CoolingKWh   float64 `yaml:"cooling_kwh"`
	AuxiliaryKWh float64 `yaml:"auxiliary_kwh"`
}

func NewReport(runID string, sums []report.Summary) Report {
	sorted := append([]report.Summary(nil), sums...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].BuildingID < sorted[j].BuildingID })

	r := Report{RunID: runID, Buildings: len(sorted), Summaries: sorted}
	for _, s := range sorted {
		if s.Failure != nil {
			r.Failed++
		}
		r.Totals.HeatingKWh += s.HeatingKWh
		r.Totals.CoolingKWh += s.CoolingKWh
		r.Totals.AuxiliaryKWh += s.AuxiliaryKWh
	}
	return r
}

func WriteYAML(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}

func ReadYAML(r io.Reader) (Report, error) {
	var out Report
	if err := yaml.NewDecoder(r).Decode(&out); err != nil {
		return Report{}, fmt.Errorf("failed to decode report: %w", err)
	}
	return out, nil
}

// YAMLSink collects summaries while the run progresses and writes the report
// on Flush.
type YAMLSink struct {
	path string

	mu    sync.Mutex
	runID string
	sums  []report.Summary
}

func NewYAMLSink(path string) *YAMLSink {
	return &YAMLSink{path: path}
}

func (s *YAMLSink) Publish(_ context.Context, res simulation.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runID = res.RunID
	s.sums = append(s.sums, res.Summary)
	return nil
}

func (s *YAMLSink) Report() Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewReport(s.runID, s.sums)
}

func (s *YAMLSink) Flush() error {
	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := WriteYAML(file, s.Report()); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
