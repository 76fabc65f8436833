// Package export writes simulation results to files: one hourly CSV per
// building and a YAML summary report for the whole run.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Agrid-Dev/rcdemand/internal/record"
	"github.com/Agrid-Dev/rcdemand/internal/simulation"
)

// WriteCSV writes the first `hours` hours of rec, one row per hour. Undefined
// values (inactive setpoints, unresolved outputs) are written as empty cells.
func WriteCSV(w io.Writer, rec *record.Record, hours int) error {
	if hours < 0 || hours > rec.Hours {
		return fmt.Errorf("%w: %d hours of %d", record.ErrHourOutOfRange, hours, rec.Hours)
	}
	series := append(rec.Inputs(), rec.Outputs()...)

	writer := csv.NewWriter(w)

	header := make([]string, 0, len(series)+4)
	header = append(header, "hour", "heating_season", "cooling_season")
	for _, s := range series {
		header = append(header, s.Name)
	}
	header = append(header, "status")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	row := make([]string, len(header))
	for t := 0; t < hours; t++ {
		row[0] = strconv.Itoa(t)
		row[1] = strconv.FormatBool(rec.HeatingSeason[t])
		row[2] = strconv.FormatBool(rec.CoolingSeason[t])
		for i, s := range series {
			row[3+i] = formatValue(s.Values[t])
		}
		row[len(row)-1] = rec.Status[t].String()
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV record %d: %w", t, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CSVSink writes <Dir>/<building id>.csv for every result it receives.
type CSVSink struct {
	Dir string
}

func NewCSVSink(dir string) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &CSVSink{Dir: dir}, nil
}

func (s *CSVSink) Publish(_ context.Context, res simulation.Result) error {
	if res.Record == nil {
		return ErrNoRecord
	}
	path, err := s.path(res.Record.BuildingID)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	if err := WriteCSV(file, res.Record, min(res.Summary.Hours, res.Record.Hours)); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func (s *CSVSink) path(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidBuildingID, id)
	}
	return filepath.Join(s.Dir, id+".csv"), nil
}
