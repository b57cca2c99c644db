// Package spreg builds spatial weights over geographic observations and uses
// them to pick and fit a spatial regression model.
//
// Everything is organized in subpackages:
//
//	registry/    master id ↔ dense order id mapping for the active observations
//	swm/         reader and writer for the binary spatial weights (.swm) format
//	geometry/    contiguity and proximity search contracts, CRS/metric checks,
//	             reference lattice and point searchers
//	weights/     SpatialWeights and its file, contiguity and distance builders,
//	             msgpack snapshots
//	matrix/      dense row-major matrices for designs and materialized weights
//	regress/     estimator contracts (Request, Fit, Estimators)
//	diagnostics/ LM / Koenker-Bassett p-values to significance flags
//	selection/   the LM decision procedure (OLS, LAG, ERROR, MIXED)
//	autospace/   base fit, selection and terminal fit in one call
//	config/      YAML / TOML run configuration and zap logger setup
//
// Quick example (rook contiguity on a 2×2 lattice):
//
//	 1───2
//	 │   │
//	 3───4
//
//	lat := geometry.Lattice{Rows: 2, Cols: 2, Base: 1}
//	reg, _ := registry.New("CELL", lat.Masters())
//	w, _ := weights.Build(weights.ContiguityStrategy{Finder: lat, Mode: geometry.Rook}, reg)
//	fmt.Println(w.Row(0)) // [{1 0.5} {2 0.5}]
//
// Every builder validates its parameters before doing work and reports
// failures through package-level sentinel errors matched with errors.Is.
package spreg
