// Package questionnaire drives the follow-up visit questionnaire.
//
// The step list is a pure function of the "attended training" answer
// (BuildSteps). A Machine is an index cursor over that list plus the answers
// collected so far; it never mutates a shared step slice. When the last step
// is confirmed the Machine reports OutcomeSubmit and Record builds the
// composite domain.Followup for a single insert.
//
// Sessions persist a Machine between HTTP requests (SessionStore), in Redis
// when available and in process memory otherwise.
package questionnaire
