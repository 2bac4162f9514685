// Package timeseries provides the ordered (time, value) series contract
// consumed and produced by the sequencing core, together with the file
// formats hydrographers actually exchange: Aquarius CSV exports and NWIS
// RDB field-measurement files.
//
// A Series is immutable: transformations (Fill, SubsetTime, Resample)
// return new Series. Missing observations are NaN values, never dropped
// rows, so a series at a fixed frequency stays aligned.
//
// Goodness-of-fit helpers (MeanError, RelativeError, RMSE) compare a
// computed series against a reference by exact timestamp intersection,
// skipping pairs with non-finite values.
package timeseries
