package testutil

import (
	"sort"

	"github.com/Agrid-Dev/rcdemand/internal/record"
	"github.com/Agrid-Dev/rcdemand/internal/report"
)

// FakeResults is an in-memory ports.ResultsService.
type FakeResults struct {
	Records map[string]*record.Record
	Sums    map[string]report.Summary
}

func NewFakeResults() *FakeResults {
	return &FakeResults{
		Records: make(map[string]*record.Record),
		Sums:    make(map[string]report.Summary),
	}
}

// Add stores rec and its summary over the first `resolved` hours.
func (f *FakeResults) Add(rec *record.Record, resolved int) report.Summary {
	sum := report.Summarize(rec, resolved)
	f.Records[rec.BuildingID] = rec
	f.Sums[rec.BuildingID] = sum
	return sum
}

func (f *FakeResults) Summaries() []report.Summary {
	out := make([]report.Summary, 0, len(f.Sums))
	for _, s := range f.Sums {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BuildingID < out[j].BuildingID })
	return out
}

func (f *FakeResults) Summary(id string) (report.Summary, bool) {
	s, ok := f.Sums[id]
	return s, ok
}

func (f *FakeResults) Record(id string) (*record.Record, bool) {
	r, ok := f.Records[id]
	return r, ok
}

// HeatedRecord returns a record whose first `resolved` hours are complete: a
// radiator delivering heatingW with TInt rising by 0.1 K per hour from 20.
func HeatedRecord(id string, hours, resolved int, heatingW float64) *record.Record {
	rec, err := record.New(id, hours)
	if err != nil {
		panic(err)
	}
	for t := 0; t < resolved; t++ {
		for _, s := range rec.Outputs() {
			s.Values[t] = 0
		}
		rec.TExt[t] = 0
		rec.HeatingSetpoint[t] = 21
		rec.HeatingSeason[t] = true
		rec.TInt[t] = 20 + 0.1*float64(t)
		rec.TMass[t] = rec.TInt[t]
		rec.TCore[t] = rec.TInt[t]
		rec.TEnvelope[t] = rec.TInt[t]
		rec.QhsSen[t] = heatingW
		rec.QhsSenSys[t] = heatingW
		rec.QhsSys[t] = heatingW
		rec.Status[t] = record.StatusHeatingRadiator
	}
	return rec
}
