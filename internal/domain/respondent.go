package domain

import (
	"strings"
	"time"
)

// Respondent is one baseline survey record.
//
// Free-text category fields (District, SubCounty, Parish, Gender, GroupName,
// ...) are stored normalized (trimmed, lowercased). IndustryInvolvement is kept
// verbatim because the analytics parser needs the original comma layout.
type Respondent struct {
	ID             string     `json:"id" db:"id"`
	Timestamp      *time.Time `json:"timestamp" db:"timestamp"`
	RespondentName string     `json:"respondent_name" db:"respondent_name"`

	District  string `json:"district" db:"district"`
	SubCounty string `json:"sub_county" db:"sub_county"`
	Parish    string `json:"parish" db:"parish"`

	Age            string `json:"age" db:"age"`
	Gender         string `json:"gender" db:"gender"`
	EducationLevel string `json:"education_level" db:"education_level"`
	MaritalStatus  string `json:"marital_status" db:"marital_status"`
	Occupation     string `json:"occupation" db:"occupation"`
	HouseholdSize  string `json:"household_size" db:"household_size"`
	HasDisability  bool   `json:"has_disability" db:"has_disability"`

	IndustryInvolvement     string `json:"industry_involvement" db:"industry_involvement"`
	ValueChainRole          string `json:"value_chain_role" db:"value_chain_role"`
	ValueChainStage         string `json:"value_chain_stage" db:"value_chain_stage"`
	OtherEconomicActivities string `json:"other_economic_activities" db:"other_economic_activities"`

	HasBusinessTraining  bool `json:"has_business_training" db:"has_business_training"`
	IsBusinessRegistered bool `json:"is_business_registered" db:"is_business_registered"`
	HasFinancialAccess   bool `json:"has_financial_access" db:"has_financial_access"`
	UsesTechnology       bool `json:"uses_technology" db:"uses_technology"`

	BusinessChallenges  []string `json:"business_challenges" db:"business_challenges"`
	FinancialChallenges []string `json:"financial_challenges" db:"financial_challenges"`
	MarketChallenges    []string `json:"market_challenges" db:"market_challenges"`
	TechnologyBarriers  []string `json:"technology_barriers" db:"technology_barriers"`
	BusinessFuturePlans []string `json:"business_future_plans" db:"business_future_plans"`
	SupportNeeded       string   `json:"support_needed" db:"support_needed"`

	GroupName  string  `json:"group_name" db:"group_name"`
	GroupID    *string `json:"group_id" db:"group_id"`
	DistrictID *string `json:"district_id" db:"district_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AllChallenges returns business, financial and market challenges in that order.
func (r *Respondent) AllChallenges() []string {
	out := make([]string, 0, len(r.BusinessChallenges)+len(r.FinancialChallenges)+len(r.MarketChallenges))
	out = append(out, r.BusinessChallenges...)
	out = append(out, r.FinancialChallenges...)
	out = append(out, r.MarketChallenges...)
	return out
}

// IsFarmer reports whether the value-chain role mentions farming.
func (r *Respondent) IsFarmer() bool {
	return strings.Contains(strings.ToLower(r.ValueChainRole), "farmer")
}

// IsNew reports whether the respondent was entered without the full baseline
// (household size is only collected by the baseline questionnaire).
func (r *Respondent) IsNew() bool {
	return strings.TrimSpace(r.HouseholdSize) == ""
}

// RespondentRef is the slice of the parent respondent joined onto follow-ups.
type RespondentRef struct {
	RespondentName string `json:"respondent_name" db:"respondent_name"`
	District       string `json:"district" db:"district"`
	Gender         string `json:"gender" db:"gender"`
	GroupName      string `json:"group_name" db:"group_name"`
}

// RespondentFilter narrows respondent queries. District, Gender, Group and
// SubCounty match the normalized column exactly; Search is a case-insensitive
// substring of name, district or sub-county. Empty means "all".
type RespondentFilter struct {
	District  string `json:"district,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Group     string `json:"group,omitempty"`
	SubCounty string `json:"sub_county,omitempty"`
	Search    string `json:"search,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// IsAll reports whether the filter has no text criteria.
func (f RespondentFilter) IsAll() bool {
	return f.District == "" && f.Gender == "" && f.Group == "" && f.SubCounty == "" && f.Search == ""
}
