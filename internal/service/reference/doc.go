// Package reference manages the lookup tables behind the respondent form:
// districts, groups, industries and locations.
//
// Names are stored normalized and are unique per table. The service rejects
// duplicates up front (ErrDuplicate); the database unique index catches races.
package reference
