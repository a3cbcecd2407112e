// Package domain holds the survey tracker's records: baseline respondents,
// follow-up visits, reference lookups and the answer scales used to label
// follow-up scores. It imports nothing from the rest of the module.
package domain
