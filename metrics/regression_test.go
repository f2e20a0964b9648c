package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/treestat/allometry/pkg/errors"
)

func TestPairwiseComplete(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name      string
		actual    []float64
		predicted []float64
		wantA     []float64
		wantP     []float64
		wantErr   bool
	}{
		{
			name:      "no missing values",
			actual:    []float64{1.0, 2.0, 3.0},
			predicted: []float64{1.1, 2.1, 3.1},
			wantA:     []float64{1.0, 2.0, 3.0},
			wantP:     []float64{1.1, 2.1, 3.1},
		},
		{
			name:      "missing prediction dropped",
			actual:    []float64{1.0, 2.0, 3.0},
			predicted: []float64{1.1, nan, 2.9},
			wantA:     []float64{1.0, 3.0},
			wantP:     []float64{1.1, 2.9},
		},
		{
			name:      "missing actual dropped",
			actual:    []float64{1.0, nan, 3.0},
			predicted: []float64{1.1, 2.1, 2.9},
			wantA:     []float64{1.0, 3.0},
			wantP:     []float64{1.1, 2.9},
		},
		{
			name:      "all missing",
			actual:    []float64{nan, nan},
			predicted: []float64{1.0, 2.0},
			wantA:     []float64{},
			wantP:     []float64{},
		},
		{
			name:      "length mismatch",
			actual:    []float64{1.0, 2.0},
			predicted: []float64{1.0},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, p, err := PairwiseComplete(tt.actual, tt.predicted)

			if (err != nil) != tt.wantErr {
				t.Fatalf("PairwiseComplete() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if len(a) != len(tt.wantA) || len(p) != len(tt.wantP) {
				t.Fatalf("PairwiseComplete() lengths = %d,%d want %d,%d", len(a), len(p), len(tt.wantA), len(tt.wantP))
			}
			for i := range a {
				if a[i] != tt.wantA[i] || p[i] != tt.wantP[i] {
					t.Errorf("pair %d = (%v,%v), want (%v,%v)", i, a[i], p[i], tt.wantA[i], tt.wantP[i])
				}
			}
		})
	}
}

func TestRMSE(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name      string
		actual    []float64
		predicted []float64
		want      float64
		tolerance float64
		wantErr   bool
	}{
		{
			name:      "perfect prediction",
			actual:    []float64{1.0, 2.0, 3.0},
			predicted: []float64{1.0, 2.0, 3.0},
			want:      0.0,
			tolerance: 1e-12,
		},
		{
			// Only the complete 1st and 3rd pairs contribute:
			// sqrt(((1.0-1.1)^2 + (3.0-2.9)^2)/2) = 0.1
			name:      "pairwise-complete exclusion",
			actual:    []float64{1.0, 2.0, 3.0},
			predicted: []float64{1.1, nan, 2.9},
			want:      0.1,
			tolerance: 1e-12,
		},
		{
			name:      "one complete pair is insufficient",
			actual:    []float64{1.0, 2.0},
			predicted: []float64{1.1, nan},
			wantErr:   true,
		},
		{
			name:      "empty input",
			actual:    []float64{},
			predicted: []float64{},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RMSE(tt.actual, tt.predicted)

			if (err != nil) != tt.wantErr {
				t.Fatalf("RMSE() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("RMSE() = %v, want %v (tolerance: %v)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestRMSEInsufficientDataError(t *testing.T) {
	_, err := RMSE([]float64{1.0}, []float64{1.1})
	if err == nil {
		t.Fatal("RMSE() expected error for a single pair")
	}
	var insufficient *errors.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("RMSE() error = %v, want InsufficientDataError", err)
	}
	if insufficient.Complete != 1 || insufficient.Required != 2 {
		t.Errorf("InsufficientDataError = %+v, want Complete=1 Required=2", insufficient)
	}
}

func TestR2(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name      string
		actual    []float64
		predicted []float64
		want      float64
		tolerance float64
		wantErr   bool
	}{
		{
			name:      "perfect linear association",
			actual:    []float64{1.0, 2.0, 3.0, 4.0},
			predicted: []float64{2.0, 4.0, 6.0, 8.0},
			want:      1.0,
			tolerance: 1e-12,
		},
		{
			name:      "perfect negative association",
			actual:    []float64{1.0, 2.0, 3.0},
			predicted: []float64{3.0, 2.0, 1.0},
			want:      1.0, // squared correlation ignores the sign
			tolerance: 1e-12,
		},
		{
			name:      "pairwise-complete exclusion keeps exact fit",
			actual:    []float64{1.0, 2.0, 3.0},
			predicted: []float64{1.0, nan, 3.0},
			want:      1.0,
			tolerance: 1e-12,
		},
		{
			name:      "zero variance in predictions",
			actual:    []float64{1.0, 2.0, 3.0},
			predicted: []float64{2.0, 2.0, 2.0},
			wantErr:   true,
		},
		{
			name:      "zero variance in actuals",
			actual:    []float64{2.0, 2.0, 2.0},
			predicted: []float64{1.0, 2.0, 3.0},
			wantErr:   true,
		},
		{
			name:      "fewer than two complete pairs",
			actual:    []float64{1.0, 2.0},
			predicted: []float64{nan, 2.1},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2(tt.actual, tt.predicted)

			if (err != nil) != tt.wantErr {
				t.Fatalf("R2() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("R2() = %v, want %v (tolerance: %v)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestMSE(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     *mat.VecDense
		yPred     *mat.VecDense
		want      float64
		tolerance float64
		wantErr   bool
	}{
		{
			name:      "perfect prediction",
			yTrue:     mat.NewVecDense(5, []float64{1.0, 2.0, 3.0, 4.0, 5.0}),
			yPred:     mat.NewVecDense(5, []float64{1.0, 2.0, 3.0, 4.0, 5.0}),
			want:      0.0,
			tolerance: 1e-10,
		},
		{
			name:      "simple case",
			yTrue:     mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0}),
			yPred:     mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5}),
			want:      0.25, // ((0.5)^2 + (0.5)^2 + (-0.5)^2 + (-0.5)^2) / 4
			tolerance: 1e-10,
		},
		{
			name:    "dimension mismatch",
			yTrue:   mat.NewVecDense(3, []float64{1.0, 2.0, 3.0}),
			yPred:   mat.NewVecDense(2, []float64{1.0, 2.0}),
			wantErr: true,
		},
		{
			name:    "empty vectors",
			yTrue:   &mat.VecDense{},
			yPred:   &mat.VecDense{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)

			if (err != nil) != tt.wantErr {
				t.Fatalf("MSE() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("MSE() = %v, want %v (tolerance: %v)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestMAE(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{10.0, 20.0, 30.0})
	yPred := mat.NewVecDense(3, []float64{12.0, 18.0, 33.0})

	got, err := MAE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MAE() error = %v", err)
	}
	want := 7.0 / 3.0
	if math.Abs(got-want) > 1e-10 {
		t.Errorf("MAE() = %v, want %v", got, want)
	}
}

func TestR2Score(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     *mat.VecDense
		yPred     *mat.VecDense
		want      float64
		tolerance float64
		wantErr   bool
	}{
		{
			name:      "perfect prediction",
			yTrue:     mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0}),
			yPred:     mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0}),
			want:      1.0,
			tolerance: 1e-10,
		},
		{
			name:      "mean prediction scores zero",
			yTrue:     mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0}),
			yPred:     mat.NewVecDense(4, []float64{2.5, 2.5, 2.5, 2.5}),
			want:      0.0,
			tolerance: 1e-10,
		},
		{
			name:    "no variance in yTrue",
			yTrue:   mat.NewVecDense(3, []float64{2.0, 2.0, 2.0}),
			yPred:   mat.NewVecDense(3, []float64{1.0, 2.0, 3.0}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2Score(tt.yTrue, tt.yPred)

			if (err != nil) != tt.wantErr {
				t.Fatalf("R2Score() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("R2Score() = %v, want %v (tolerance: %v)", got, tt.want, tt.tolerance)
			}
		})
	}
}
