// Package analytics turns fetched respondent and follow-up rows into
// chart-ready summaries.
//
// Every function here is pure: it takes in-memory slices and returns new
// values. Fetching and filtering happen upstream (the store query already
// applied the dashboard filters); if a fetch fails, nothing in this package is
// called.
package analytics
