package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/treestat/allometry/validation"
)

func testRecords() []validation.PredictionRecord {
	return []validation.PredictionRecord{
		{Group: "Fagus sylvatica", Actual: 1.5, Predicted: 1.4},
		{Group: "Picea abies", Actual: 1.2, Predicted: math.NaN()},
		{Group: "Fagus sylvatica", Actual: 1.8, Predicted: 1.9},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(testRecords(), &buf); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("WriteCSV() wrote %d lines, want 4", len(lines))
	}
	if lines[0] != "group,actual,predicted" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "Fagus sylvatica,1.5,1.4" {
		t.Errorf("row 1 = %q", lines[1])
	}
	// Missing prediction becomes an empty field.
	if lines[2] != "Picea abies,1.2," {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions.csv")
	if err := WriteCSVFile(testRecords(), path); err != nil {
		t.Fatalf("WriteCSVFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.HasPrefix(string(data), "group,actual,predicted\n") {
		t.Errorf("file starts with %q", string(data[:min(len(data), 30)]))
	}
}

func TestScatterPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holdout.png")
	if err := ScatterPlot(testRecords(), "Holdout", path); err != nil {
		t.Fatalf("ScatterPlot() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("plot file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}
}

func TestScatterPlotAllMissing(t *testing.T) {
	records := []validation.PredictionRecord{
		{Group: "A", Actual: 1.0, Predicted: math.NaN()},
	}
	path := filepath.Join(t.TempDir(), "holdout.png")
	if err := ScatterPlot(records, "Holdout", path); err == nil {
		t.Error("ScatterPlot() expected error with no complete pairs")
	}
}
