// Command covanalysis runs a coverage sweep over a mission file and
// writes interval/POI reports to disk: stdlib flag for arguments, one
// goroutine per spacecraft fanned out with a sync.WaitGroup, and
// fmt.Fprintf(os.Stderr, ...) plus os.Exit(1) on fatal setup errors.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/covanalysis/propcov-go/absolutedate"
	"github.com/covanalysis/propcov-go/coverage"
	"github.com/covanalysis/propcov-go/interpolator"
	"github.com/covanalysis/propcov-go/mission"
	"github.com/covanalysis/propcov-go/orbitstate"
	"github.com/covanalysis/propcov-go/pointgroup"
	"github.com/covanalysis/propcov-go/propagator"
	"github.com/covanalysis/propcov-go/report"
	"github.com/covanalysis/propcov-go/spacecraft"
	"github.com/covanalysis/propcov-go/units"
)

func main() {
	missionPath := flag.String("mission", "", "path to a mission JSON file")
	outDir := flag.String("out", ".", "directory to write report files into")
	geometry := flag.Bool("geometry", true, "compute per-sample observer/solar geometry")
	flag.Parse()

	if *missionPath == "" {
		fmt.Fprintln(os.Stderr, "covanalysis: -mission is required")
		os.Exit(1)
	}

	if err := run(*missionPath, *outDir, *geometry); err != nil {
		fmt.Fprintf(os.Stderr, "covanalysis: %v\n", err)
		os.Exit(1)
	}
}

func run(missionPath, outDir string, geometry bool) error {
	m, err := mission.Load(missionPath)
	if err != nil {
		return err
	}

	points := pointgroup.New()
	points.AddUserDefinedPoints(m.Points.LatDeg, m.Points.LonDeg)

	var wg sync.WaitGroup
	results := make([][]coverage.IntervalEventReport, len(m.Spacecraft))
	errs := make([]error, len(m.Spacecraft))

	for i, scSpec := range m.Spacecraft {
		wg.Add(1)
		go func(i int, scSpec mission.SpacecraftSpec) {
			defer wg.Done()
			intervals, err := runSpacecraft(scSpec, points, m.Sampling, geometry)
			if err != nil {
				errs[i] = errors.Wrapf(err, "spacecraft %q", scSpec.Name)
				return
			}
			results[i] = intervals
		}(i, scSpec)
	}
	wg.Wait()

	for i, scSpec := range m.Spacecraft {
		if errs[i] != nil {
			return errs[i]
		}
		if err := writeReports(outDir, scSpec.Name, results[i]); err != nil {
			return errors.Wrapf(err, "spacecraft %q", scSpec.Name)
		}
	}
	return nil
}

// runSpacecraft propagates one spacecraft across the mission's sampling
// schedule and sweeps it against the shared point group, returning the
// resulting coverage intervals.
func runSpacecraft(scSpec mission.SpacecraftSpec, points *pointgroup.Group, sampling mission.SamplingSpec, geometry bool) ([]coverage.IntervalEventReport, error) {
	body := mission.DefaultEarth()
	e := scSpec.Epoch
	epoch := absolutedate.NewFromGregorian(e.Year, e.Month, e.Day, e.Hour, e.Minute, e.Second)

	k := scSpec.Elements.Build()
	state := orbitstate.NewFromKeplerian(k, body.Mu)

	interp := interpolator.NewDefault()
	drag := scSpec.Drag.Build()
	prop := propagator.New(state, epoch.JulianDate(), body, drag, interp)

	sc := spacecraft.New(epoch, state, body, interp)
	for _, sensSpec := range scSpec.Sensors {
		sens, offset, err := sensSpec.Build()
		if err != nil {
			return nil, err
		}
		sc.AddSensor(sens, offset)
	}

	checker := coverage.New(points, sc, body)
	checker.SetComputePOIGeometry(geometry)

	stepDays := units.DaysFromSeconds(sampling.StepSeconds)
	numSteps := int(sampling.DurationDays/stepDays) + 1
	for step := 0; step < numSteps; step++ {
		toJD := epoch.JulianDate() + float64(step)*stepDays
		newState, err := prop.Propagate(toJD)
		if err != nil {
			return nil, errors.Wrapf(err, "propagating to JD %.9f", toJD)
		}
		sc.SetState(absolutedate.NewFromJulian(toJD), newState)
		checker.AccumulateCoverageData()
	}

	return checker.ProcessCoverageData(), nil
}

func writeReports(outDir, name string, intervals []coverage.IntervalEventReport) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	intervalsPath := filepath.Join(outDir, name+"_intervals.csv")
	if err := writeFile(intervalsPath, func(f *os.File) error {
		return report.WriteIntervalsCSV(f, intervals)
	}); err != nil {
		return err
	}

	poiPath := filepath.Join(outDir, name+"_poi.csv")
	if err := writeFile(poiPath, func(f *os.File) error {
		return report.WritePOICSV(f, intervals)
	}); err != nil {
		return err
	}

	jsonPath := filepath.Join(outDir, name+"_intervals.json")
	return writeFile(jsonPath, func(f *os.File) error {
		return report.WriteIntervalsJSON(f, intervals)
	})
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	return write(f)
}
