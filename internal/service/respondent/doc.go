// Package respondent implements the baseline respondent service.
//
// Category fields are stored in normalized form (trimmed, lowercased) so
// analytics buckets and filters are case-insensitive. Deleting a respondent
// does not touch its follow-ups; see the followup package for orphan counts.
//
// The service depends only on the Repository interface in repository.go.
package respondent
