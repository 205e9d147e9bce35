// Package report renders the results of an analysis run.
//
//   - WriteTable / SaveTable: the per-quality summary, printed to the console
//     and persisted as a timestamped text file.
//   - WriteHistograms: text histograms of each quality level's pooled corner
//     distances, console only.
//   - SavePlot: a scatter chart of per-image mean drift with min/max error
//     bars, written as a self-contained HTML page with an inline SVG.
//
// Output files are named with the run's start time (YYYYMMDD_HHMMSS) so
// repeated runs never overwrite each other.
package report
