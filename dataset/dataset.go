// Package dataset provides the typed tree-allometry data model used by the
// validation and model packages: single observations, immutable ordered
// collections, and the group keys (species, geographic cell) that holdout
// validation partitions by.
package dataset

import (
	"fmt"
	"math"
)

// Location is a geographic position in decimal degrees.
type Location struct {
	Lon float64
	Lat float64
}

// CellKey returns the integer-degree grid cell this location falls in,
// formatted as "<lon>_<lat>" with both coordinates rounded to the nearest
// degree. Negative zero is normalized so that -0.4° and 0.4° map to the
// same cell key component.
func (l Location) CellKey() string {
	lon := math.Round(l.Lon)
	lat := math.Round(l.Lat)
	if lon == 0 {
		lon = 0
	}
	if lat == 0 {
		lat = 0
	}
	return fmt.Sprintf("%.0f_%.0f", lon, lat)
}

// Observation is a single measured tree. Response is the value models are
// trained to predict (log crown radius in the reference workflow) and
// Predictors are the numeric inputs (log height). Fields are explicit so
// group keys and measurements can never be confused by position.
type Observation struct {
	Species    string
	Site       Location
	Response   float64
	Predictors []float64
}

// GroupFunc extracts the holdout group key from an observation.
type GroupFunc func(Observation) string

// BySpecies groups observations by species identity.
func BySpecies(o Observation) string {
	return o.Species
}

// ByCell groups observations by integer-degree geographic cell.
func ByCell(o Observation) string {
	return o.Site.CellKey()
}

// Dataset is an ordered collection of observations. It is immutable after
// construction: every derived view (Subset, Filter, Within) is a new
// Dataset and the validation loop never mutates the one it was given.
type Dataset struct {
	obs []Observation
}

// New creates a dataset from observations. The slice is copied so later
// mutations by the caller do not leak into the dataset.
func New(obs []Observation) *Dataset {
	cp := make([]Observation, len(obs))
	copy(cp, obs)
	return &Dataset{obs: cp}
}

// Len returns the number of observations.
func (d *Dataset) Len() int {
	return len(d.obs)
}

// At returns the observation at index i.
func (d *Dataset) At(i int) Observation {
	return d.obs[i]
}

// NumPredictors returns the number of predictor variables per observation,
// or 0 for an empty dataset.
func (d *Dataset) NumPredictors() int {
	if len(d.obs) == 0 {
		return 0
	}
	return len(d.obs[0].Predictors)
}

// Subset returns a new dataset holding the observations at the given
// indices, in the given order.
func (d *Dataset) Subset(indices []int) *Dataset {
	obs := make([]Observation, 0, len(indices))
	for _, idx := range indices {
		obs = append(obs, d.obs[idx])
	}
	return &Dataset{obs: obs}
}

// Filter returns a new dataset holding the observations for which keep
// returns true, preserving order.
func (d *Dataset) Filter(keep func(Observation) bool) *Dataset {
	obs := make([]Observation, 0, len(d.obs))
	for _, o := range d.obs {
		if keep(o) {
			obs = append(obs, o)
		}
	}
	return &Dataset{obs: obs}
}

// Groups returns the distinct group keys present in the dataset, in
// first-seen order.
func (d *Dataset) Groups(group GroupFunc) []string {
	seen := make(map[string]bool)
	keys := make([]string, 0)
	for _, o := range d.obs {
		k := group(o)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

// Split partitions the dataset around one group key: test holds every
// observation whose key equals key, train holds the rest. Order within each
// side follows dataset order.
func (d *Dataset) Split(group GroupFunc, key string) (train, test *Dataset) {
	trainObs := make([]Observation, 0, len(d.obs))
	testObs := make([]Observation, 0)
	for _, o := range d.obs {
		if group(o) == key {
			testObs = append(testObs, o)
		} else {
			trainObs = append(trainObs, o)
		}
	}
	return &Dataset{obs: trainObs}, &Dataset{obs: testObs}
}

// BoundingBox is a lon/lat rectangle used to subset a dataset to a study
// area. It stands in for full geographic intersection, which belongs to a
// GIS collaborator outside this library.
type BoundingBox struct {
	MinLon, MaxLon float64
	MinLat, MaxLat float64
}

// Contains reports whether the location falls inside the box (inclusive).
func (b BoundingBox) Contains(l Location) bool {
	return l.Lon >= b.MinLon && l.Lon <= b.MaxLon &&
		l.Lat >= b.MinLat && l.Lat <= b.MaxLat
}

// Within returns the observations located inside the bounding box.
func (d *Dataset) Within(b BoundingBox) *Dataset {
	return d.Filter(func(o Observation) bool {
		return b.Contains(o.Site)
	})
}
