package dataset

import (
	"reflect"
	"testing"
)

func obsAt(species string, lon, lat float64) Observation {
	return Observation{
		Species:    species,
		Site:       Location{Lon: lon, Lat: lat},
		Response:   1.0,
		Predictors: []float64{2.0},
	}
}

func TestCellKey(t *testing.T) {
	tests := []struct {
		name string
		loc  Location
		want string
	}{
		{"rounds down", Location{Lon: 8.3, Lat: 48.2}, "8_48"},
		{"rounds up", Location{Lon: 8.7, Lat: 48.6}, "9_49"},
		{"negative coordinates", Location{Lon: -72.6, Lat: -13.2}, "-73_-13"},
		{"negative zero normalized", Location{Lon: -0.4, Lat: 0.4}, "0_0"},
		{"exact integers", Location{Lon: 10.0, Lat: 47.0}, "10_47"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.CellKey(); got != tt.want {
				t.Errorf("CellKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGroupsFirstSeenOrder(t *testing.T) {
	ds := New([]Observation{
		obsAt("Picea abies", 8.1, 48.1),
		obsAt("Fagus sylvatica", 8.2, 48.2),
		obsAt("Picea abies", 8.3, 48.3),
		obsAt("Quercus robur", 8.4, 48.4),
	})

	got := ds.Groups(BySpecies)
	want := []string{"Picea abies", "Fagus sylvatica", "Quercus robur"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Groups() = %v, want %v", got, want)
	}
}

func TestSplit(t *testing.T) {
	ds := New([]Observation{
		obsAt("A", 8, 48),
		obsAt("B", 8, 48),
		obsAt("A", 9, 48),
		obsAt("B", 9, 48),
	})

	train, test := ds.Split(BySpecies, "A")
	if train.Len() != 2 || test.Len() != 2 {
		t.Fatalf("Split() sizes = %d,%d want 2,2", train.Len(), test.Len())
	}
	for i := 0; i < test.Len(); i++ {
		if test.At(i).Species != "A" {
			t.Errorf("test observation %d has species %q", i, test.At(i).Species)
		}
	}
	for i := 0; i < train.Len(); i++ {
		if train.At(i).Species == "A" {
			t.Errorf("train observation %d leaked from held-out group", i)
		}
	}
}

func TestSubsetPreservesOrder(t *testing.T) {
	ds := New([]Observation{
		obsAt("A", 1, 1),
		obsAt("B", 2, 2),
		obsAt("C", 3, 3),
	})

	sub := ds.Subset([]int{2, 0})
	if sub.Len() != 2 {
		t.Fatalf("Subset() len = %d, want 2", sub.Len())
	}
	if sub.At(0).Species != "C" || sub.At(1).Species != "A" {
		t.Errorf("Subset() order = %q,%q want C,A", sub.At(0).Species, sub.At(1).Species)
	}
}

func TestNewCopiesInput(t *testing.T) {
	obs := []Observation{obsAt("A", 1, 1)}
	ds := New(obs)

	obs[0].Species = "mutated"
	if ds.At(0).Species != "A" {
		t.Error("New() should copy the input slice")
	}
}

func TestWithin(t *testing.T) {
	ds := New([]Observation{
		obsAt("A", 8.5, 48.5),
		obsAt("B", 12.0, 48.5),
		obsAt("C", 8.5, 55.0),
	})

	box := BoundingBox{MinLon: 8, MaxLon: 10, MinLat: 47, MaxLat: 50}
	got := ds.Within(box)
	if got.Len() != 1 || got.At(0).Species != "A" {
		t.Errorf("Within() kept %d observations, want only species A", got.Len())
	}
}

func TestByCell(t *testing.T) {
	o := obsAt("A", 8.7, 48.2)
	if got := ByCell(o); got != "9_48" {
		t.Errorf("ByCell() = %q, want %q", got, "9_48")
	}
}
