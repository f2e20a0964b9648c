package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/treestat/allometry/pkg/errors"
)

// Expected CSV header columns, in order.
var csvColumns = []string{"species", "lon", "lat", "height_m", "crown_radius_m"}

// Load reads an allometry dataset from CSV. The file must carry the header
// "species,lon,lat,height_m,crown_radius_m". Height and crown radius are
// natural-log transformed into the predictor and response: models in this
// library work on log-log allometry throughout.
//
// Rows with non-positive or non-finite measurements are rejected, not
// skipped: a malformed survey file should fail loudly at load time.
func Load(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "dataset.Load: reading header")
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var obs []Observation
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "dataset.Load: line %d", line+1)
		}
		line++

		o, err := parseRow(record, line)
		if err != nil {
			return nil, err
		}
		obs = append(obs, o)
	}

	if len(obs) == 0 {
		return nil, errors.NewModelError("dataset.Load", "no data rows", errors.ErrEmptyData)
	}

	return &Dataset{obs: obs}, nil
}

// LoadFile reads an allometry dataset from a CSV file on disk.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "dataset.LoadFile")
	}
	defer f.Close()

	return Load(f)
}

func checkHeader(header []string) error {
	if len(header) != len(csvColumns) {
		return errors.NewDimensionError("dataset.Load", len(csvColumns), len(header), 1)
	}
	for i, want := range csvColumns {
		if header[i] != want {
			return errors.NewValueError("dataset.Load",
				"unexpected header column "+strconv.Quote(header[i])+", want "+strconv.Quote(want))
		}
	}
	return nil
}

func parseRow(record []string, line int) (Observation, error) {
	if len(record) != len(csvColumns) {
		return Observation{}, errors.NewDimensionError("dataset.Load", len(csvColumns), len(record), 1)
	}

	species := record[0]
	if species == "" {
		return Observation{}, errors.NewValueError("dataset.Load",
			"empty species on line "+strconv.Itoa(line))
	}

	vals := make([]float64, 4)
	for i := 1; i < len(record); i++ {
		v, err := strconv.ParseFloat(record[i], 64)
		if err != nil {
			return Observation{}, errors.Wrapf(err, "dataset.Load: line %d column %s", line, csvColumns[i])
		}
		vals[i-1] = v
	}
	if err := errors.CheckFinite("dataset.Load", vals); err != nil {
		return Observation{}, errors.Wrapf(err, "line %d", line)
	}

	lon, lat, height, crown := vals[0], vals[1], vals[2], vals[3]
	if height <= 0 {
		return Observation{}, errors.NewValueError("dataset.Load",
			"height_m must be positive on line "+strconv.Itoa(line))
	}
	if crown <= 0 {
		return Observation{}, errors.NewValueError("dataset.Load",
			"crown_radius_m must be positive on line "+strconv.Itoa(line))
	}

	return Observation{
		Species:    species,
		Site:       Location{Lon: lon, Lat: lat},
		Response:   math.Log(crown),
		Predictors: []float64{math.Log(height)},
	}, nil
}
