package ports

import (
	"github.com/Agrid-Dev/rcdemand/internal/record"
	"github.com/Agrid-Dev/rcdemand/internal/report"
)

// ResultsService is the read-only port used by controllers (HTTP/Modbus).
type ResultsService interface {
	Summaries() []report.Summary
	Summary(buildingID string) (report.Summary, bool)
	Record(buildingID string) (*record.Record, bool)
}
