// Package followup implements the follow-up visit service.
//
// Follow-ups are immutable: they are inserted once, from a completed
// questionnaire session, and only read afterwards. They are not deleted with
// their respondent; CountOrphans reports how many lost their parent.
package followup
