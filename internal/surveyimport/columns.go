package surveyimport

import (
	"strings"

	"golang.org/x/text/cases"
)

// Field is a respondent column an import header can map to.
type Field string

const (
	FieldTimestamp           Field = "timestamp"
	FieldName                Field = "respondent_name"
	FieldDistrict            Field = "district"
	FieldSubCounty           Field = "sub_county"
	FieldParish              Field = "parish"
	FieldAge                 Field = "age"
	FieldGender              Field = "gender"
	FieldEducation           Field = "education_level"
	FieldMaritalStatus       Field = "marital_status"
	FieldOccupation          Field = "occupation"
	FieldHouseholdSize       Field = "household_size"
	FieldDisability          Field = "has_disability"
	FieldIndustry            Field = "industry_involvement"
	FieldValueChainRole      Field = "value_chain_role"
	FieldValueChainStage     Field = "value_chain_stage"
	FieldOtherActivities     Field = "other_economic_activities"
	FieldBusinessTraining    Field = "has_business_training"
	FieldBusinessRegistered  Field = "is_business_registered"
	FieldFinancialAccess     Field = "has_financial_access"
	FieldUsesTechnology      Field = "uses_technology"
	FieldBusinessChallenges  Field = "business_challenges"
	FieldFinancialChallenges Field = "financial_challenges"
	FieldMarketChallenges    Field = "market_challenges"
	FieldTechnologyBarriers  Field = "technology_barriers"
	FieldFuturePlans         Field = "business_future_plans"
	FieldSupportNeeded       Field = "support_needed"
	FieldGroupName           Field = "group_name"
)

// columnAliases maps folded header names to fields. Every field also
// matches its own column name.
var columnAliases = map[string]Field{
	// Export headers and form questions
	"survey date": FieldTimestamp,
	"date":        FieldTimestamp,

	"name":               FieldName,
	"respondent name":    FieldName,
	"full name":          FieldName,
	"name of respondent": FieldName,

	"sub-county": FieldSubCounty,
	"sub county": FieldSubCounty,
	"subcounty":  FieldSubCounty,

	"age group":                     FieldAge,
	"age (years)":                   FieldAge,
	"sex":                           FieldGender,
	"education":                     FieldEducation,
	"level of education":            FieldEducation,
	"marital status":                FieldMaritalStatus,
	"main occupation":               FieldOccupation,
	"household size":                FieldHouseholdSize,
	"number of people in household": FieldHouseholdSize,
	"disability":                    FieldDisability,
	"do you have a disability":      FieldDisability,

	"industry":                           FieldIndustry,
	"which industry are you involved in": FieldIndustry,
	"value chain role":                   FieldValueChainRole,
	"role in the value chain":            FieldValueChainRole,
	"value chain stage":                  FieldValueChainStage,
	"other economic activities":          FieldOtherActivities,

	"business training":                      FieldBusinessTraining,
	"have you received business training":    FieldBusinessTraining,
	"business registered":                    FieldBusinessRegistered,
	"is your business registered":            FieldBusinessRegistered,
	"financial access":                       FieldFinancialAccess,
	"uses technology":                        FieldUsesTechnology,
	"do you use technology in your business": FieldUsesTechnology,

	"do you have access to financial services": FieldFinancialAccess,

	"business challenges":      FieldBusinessChallenges,
	"financial challenges":     FieldFinancialChallenges,
	"market challenges":        FieldMarketChallenges,
	"technology barriers":      FieldTechnologyBarriers,
	"business future plans":    FieldFuturePlans,
	"future plans":             FieldFuturePlans,
	"support needed":           FieldSupportNeeded,
	"what support do you need": FieldSupportNeeded,

	"group":      FieldGroupName,
	"group name": FieldGroupName,
}

var allFields = []Field{
	FieldTimestamp, FieldName, FieldDistrict, FieldSubCounty, FieldParish,
	FieldAge, FieldGender, FieldEducation, FieldMaritalStatus, FieldOccupation,
	FieldHouseholdSize, FieldDisability, FieldIndustry, FieldValueChainRole,
	FieldValueChainStage, FieldOtherActivities, FieldBusinessTraining,
	FieldBusinessRegistered, FieldFinancialAccess, FieldUsesTechnology,
	FieldBusinessChallenges, FieldFinancialChallenges, FieldMarketChallenges,
	FieldTechnologyBarriers, FieldFuturePlans, FieldSupportNeeded, FieldGroupName,
}

func init() {
	for _, f := range allFields {
		columnAliases[string(f)] = f
	}
}

var folder = cases.Fold()

// foldHeader lowercases (case folds) a header and strips quotes, a trailing
// question mark or colon, and surrounding whitespace.
func foldHeader(h string) string {
	h = strings.TrimSpace(h)
	h = strings.Trim(h, "\"'")
	h = strings.TrimRight(h, "?: ")
	return folder.String(strings.Join(strings.Fields(h), " "))
}

// ColumnMapping holds the resolved mapping from CSV column indices to fields.
type ColumnMapping struct {
	FieldMap map[int]Field // column index -> field
	RawNames []string      // original header names
	Unmapped []string
}

// Has reports whether any column maps to f.
func (m *ColumnMapping) Has(f Field) bool {
	for _, v := range m.FieldMap {
		if v == f {
			return true
		}
	}
	return false
}

// MapColumns resolves a CSV header row. Returns nil if the header has no
// respondent name or no district column. The first column mapping to a
// field wins.
func MapColumns(header []string) *ColumnMapping {
	m := &ColumnMapping{
		FieldMap: make(map[int]Field, len(header)),
		RawNames: header,
	}

	seen := make(map[Field]bool)
	for i, h := range header {
		field, ok := columnAliases[foldHeader(h)]
		if !ok || seen[field] {
			if strings.TrimSpace(h) != "" && !ok {
				m.Unmapped = append(m.Unmapped, strings.TrimSpace(h))
			}
			continue
		}
		seen[field] = true
		m.FieldMap[i] = field
	}

	if !seen[FieldName] || !seen[FieldDistrict] {
		return nil
	}
	return m
}
