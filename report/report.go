// Package report turns validation results into artifacts a downstream
// plotting or analysis layer can consume: a CSV of (group, actual,
// predicted) triples and an actual-vs-predicted scatter plot colored by
// group.
package report

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/treestat/allometry/pkg/errors"
	"github.com/treestat/allometry/validation"
)

// WriteCSV writes one row per prediction record with the header
// "group,actual,predicted". A missing prediction becomes an empty field,
// the usual convention for tools that read the file back with
// pairwise-complete handling.
func WriteCSV(records []validation.PredictionRecord, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"group", "actual", "predicted"}); err != nil {
		return errors.Wrap(err, "report.WriteCSV")
	}
	for _, rec := range records {
		predicted := ""
		if !rec.Missing() {
			predicted = strconv.FormatFloat(rec.Predicted, 'g', -1, 64)
		}
		row := []string{
			rec.Group,
			strconv.FormatFloat(rec.Actual, 'g', -1, 64),
			predicted,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "report.WriteCSV")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "report.WriteCSV")
}

// WriteCSVFile writes the prediction records to a CSV file on disk.
func WriteCSVFile(records []validation.PredictionRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "report.WriteCSVFile")
	}
	defer f.Close()

	return WriteCSV(records, f)
}

// ScatterPlot renders actual vs predicted values, one color per group, with
// the identity line for reference. Records with missing predictions are
// left out of the plot. The output format follows the file extension
// (png, svg, pdf).
func ScatterPlot(records []validation.PredictionRecord, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Actual"
	p.Y.Label.Text = "Predicted"

	byGroup := make(map[string]plotter.XYs)
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, rec := range records {
		if rec.Missing() {
			continue
		}
		byGroup[rec.Group] = append(byGroup[rec.Group], plotter.XY{X: rec.Actual, Y: rec.Predicted})
		minV = math.Min(minV, math.Min(rec.Actual, rec.Predicted))
		maxV = math.Max(maxV, math.Max(rec.Actual, rec.Predicted))
	}
	if len(byGroup) == 0 {
		return errors.NewModelError("report.ScatterPlot", "no complete prediction pairs", errors.ErrEmptyData)
	}

	groups := make([]string, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	// Identity line first so the scatter glyphs draw over it.
	identity, err := plotter.NewLine(plotter.XYs{{X: minV, Y: minV}, {X: maxV, Y: maxV}})
	if err != nil {
		return errors.Wrap(err, "report.ScatterPlot")
	}
	identity.Width = vg.Points(0.5)
	p.Add(identity)

	for i, g := range groups {
		sc, err := plotter.NewScatter(byGroup[g])
		if err != nil {
			return errors.Wrapf(err, "report.ScatterPlot: group %q", g)
		}
		sc.GlyphStyle.Color = plotutil.Color(i)
		sc.GlyphStyle.Radius = vg.Points(2)
		p.Add(sc)
		p.Legend.Add(g, sc)
	}

	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrap(err, "report.ScatterPlot")
	}
	return nil
}
