// Package surveyimport loads baseline survey exports (CSV) into the
// respondent store.
//
// Headers are matched case-insensitively against the form's question text,
// the dashboard's own export headers and the storage column names. Rows
// without a respondent name or district are skipped and reported with their
// line number. Sources are local files, uploaded streams, or s3:// objects.
package surveyimport
