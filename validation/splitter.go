package validation

import (
	"sort"

	"github.com/treestat/allometry/dataset"
	"github.com/treestat/allometry/pkg/errors"
)

// Fold is a single leave-one-group-out split: the observations of one group
// as the test partition and everything else as training.
type Fold struct {
	Group        string
	TrainIndices []int
	TestIndices  []int
}

// LeaveOneGroupOut generates one fold per distinct group key. Groups are
// visited in sorted key order; the aggregate statistics do not depend on
// the order, but a deterministic order keeps runs and logs reproducible.
type LeaveOneGroupOut struct{}

// Split enumerates the folds for the dataset under the given group key.
// A dataset with fewer than two distinct groups cannot be split: every
// holdout would leave an empty training partition.
func (LeaveOneGroupOut) Split(ds *dataset.Dataset, group dataset.GroupFunc) ([]Fold, error) {
	n := ds.Len()
	keyOf := make([]string, n)
	seen := make(map[string]bool)
	keys := make([]string, 0)
	for i := 0; i < n; i++ {
		k := group(ds.At(i))
		keyOf[i] = k
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	if len(keys) < 2 {
		return nil, errors.NewDegenerateSplitError("", len(keys), 0)
	}
	sort.Strings(keys)

	folds := make([]Fold, 0, len(keys))
	for _, k := range keys {
		fold := Fold{Group: k}
		for i := 0; i < n; i++ {
			if keyOf[i] == k {
				fold.TestIndices = append(fold.TestIndices, i)
			} else {
				fold.TrainIndices = append(fold.TrainIndices, i)
			}
		}
		folds = append(folds, fold)
	}

	return folds, nil
}
