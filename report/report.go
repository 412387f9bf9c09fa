// Package report writes coverage analysis output, IntervalEventReport and
// VisiblePOIReport slices, to CSV and JSON: a plain row-at-a-time writer
// over encoding/csv, and the standard library's encoding/json for the
// JSON sink.
package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/covanalysis/propcov-go/coverage"
)

// intervalCSVHeader lists the columns WriteIntervalsCSV writes.
var intervalCSVHeader = []string{
	"point_index", "start_jd", "end_jd", "num_sub_samples",
}

// WriteIntervalsCSV writes one row per IntervalEventReport: point index,
// start/end Julian date, and the sub-sample count.
func WriteIntervalsCSV(w io.Writer, intervals []coverage.IntervalEventReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(intervalCSVHeader); err != nil {
		return err
	}
	for _, iv := range intervals {
		row := []string{
			strconv.Itoa(iv.PointIndex),
			formatJD(iv.Start.JulianDate()),
			formatJD(iv.End.JulianDate()),
			strconv.Itoa(len(iv.SubSamples)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// poiCSVHeader lists the columns WritePOICSV writes.
var poiCSVHeader = []string{
	"point_index", "jd", "range_km", "azimuth_rad", "zenith_rad",
	"solar_azimuth_rad", "solar_zenith_rad",
}

// WritePOICSV writes one row per VisiblePOIReport across all the given
// intervals' sub-samples.
func WritePOICSV(w io.Writer, intervals []coverage.IntervalEventReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(poiCSVHeader); err != nil {
		return err
	}
	for _, iv := range intervals {
		for _, s := range iv.SubSamples {
			row := []string{
				strconv.Itoa(s.PointIndex),
				formatJD(s.JulianDate),
				strconv.FormatFloat(s.Range, 'f', 6, 64),
				strconv.FormatFloat(s.Azimuth, 'f', 9, 64),
				strconv.FormatFloat(s.Zenith, 'f', 9, 64),
				strconv.FormatFloat(s.SolarAzimuth, 'f', 9, 64),
				strconv.FormatFloat(s.SolarZenith, 'f', 9, 64),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// jsonInterval mirrors coverage.IntervalEventReport with the Start/End
// dates flattened to plain Julian-date floats, matching the km/s/radian/
// Julian-date unit conventions used everywhere else at this boundary.
type jsonInterval struct {
	PointIndex int                         `json:"point_index"`
	StartJD    float64                     `json:"start_jd"`
	EndJD      float64                     `json:"end_jd"`
	SubSamples []coverage.VisiblePOIReport `json:"sub_samples"`
}

// WriteIntervalsJSON writes the given intervals as a JSON array, indented
// for readability (this is a batch analysis tool's output, not a
// high-frequency wire format).
func WriteIntervalsJSON(w io.Writer, intervals []coverage.IntervalEventReport) error {
	out := make([]jsonInterval, len(intervals))
	for i, iv := range intervals {
		out[i] = jsonInterval{
			PointIndex: iv.PointIndex,
			StartJD:    iv.Start.JulianDate(),
			EndJD:      iv.End.JulianDate(),
			SubSamples: iv.SubSamples,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func formatJD(jd float64) string {
	return strconv.FormatFloat(jd, 'f', 9, 64)
}
