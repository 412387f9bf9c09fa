package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/covanalysis/propcov-go/absolutedate"
	"github.com/covanalysis/propcov-go/coverage"
)

func sampleIntervals() []coverage.IntervalEventReport {
	return []coverage.IntervalEventReport{
		{
			PointIndex: 3,
			Start:      absolutedate.NewFromJulian(2457000.5),
			End:        absolutedate.NewFromJulian(2457000.52),
			SubSamples: []coverage.VisiblePOIReport{
				{PointIndex: 3, JulianDate: 2457000.5, Range: 850.123, Azimuth: 1.1, Zenith: 0.4},
			},
		},
	}
}

func TestWriteIntervalsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteIntervalsCSV(&buf, sampleIntervals()); err != nil {
		t.Fatalf("WriteIntervalsCSV: %v", err)
	}
	r := csv.NewReader(strings.NewReader(buf.String()))
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parsing written CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if rows[1][0] != "3" {
		t.Errorf("expected point_index 3, got %q", rows[1][0])
	}
}

func TestWritePOICSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePOICSV(&buf, sampleIntervals()); err != nil {
		t.Fatalf("WritePOICSV: %v", err)
	}
	r := csv.NewReader(strings.NewReader(buf.String()))
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parsing written CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 sub-sample row, got %d rows", len(rows))
	}
}

func TestWriteIntervalsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteIntervalsJSON(&buf, sampleIntervals()); err != nil {
		t.Fatalf("WriteIntervalsJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"point_index": 3`) {
		t.Errorf("expected point_index field in JSON output, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"start_jd"`) {
		t.Errorf("expected start_jd field in JSON output, got: %s", buf.String())
	}
}
