// Package export writes respondent and follow-up lists as CSV and renders
// the dashboard's text reports.
package export
