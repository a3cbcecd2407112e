// Package dashboard runs the fetch-then-aggregate cycle behind the analytics
// endpoints.
//
// Respondents and follow-ups are fetched concurrently. A failed fetch aborts
// the whole cycle with one *OperationError; nothing is aggregated from partial
// data. Results are cached per view and filter until the next write.
package dashboard
