// Package allometry provides leave-one-group-out holdout validation for
// tree allometry regression models.
//
// The library estimates how well a crown-radius model generalizes to
// species or regions it has never seen: each distinct group is held out in
// turn, a model is fitted to the rest of the data, and the held-out
// predictions are pooled into pairwise-complete R² and RMSE statistics.
//
// # Packages
//
//   - dataset: typed observations, CSV loading, species and grid-cell group keys
//   - linear: pooled and varying-intercept OLS models
//   - validation: the group-holdout validator and its summary statistics
//   - metrics: pairwise-complete regression metrics
//   - report: CSV export and actual-vs-predicted scatter plots
//
// # Quick start
//
//	ds, err := dataset.LoadFile("trees.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fit := func(train *dataset.Dataset) (validation.Model, error) {
//	    m := linear.NewRegression()
//	    if err := m.FitDataset(train); err != nil {
//	        return nil, err
//	    }
//	    return m, nil
//	}
//
//	result, err := validation.Validate(ds, dataset.BySpecies, fit)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("R²=%.3f RMSE=%.3f\n", result.Summary.R2, result.Summary.RMSE)
package allometry
