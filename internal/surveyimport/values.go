package surveyimport

import (
	"fmt"
	"strings"
	"time"

	"github.com/ignite/survey-tracker/internal/domain"
)

// timestampLayouts are the formats seen in form exports, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"2006-01-02",
	"1/2/2006",
	"02/01/2006",
}

func parseTimestamp(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognised date %q", raw)
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "y", "t":
		return true
	default:
		return false
	}
}

// splitList splits a multi-answer cell on commas or semicolons.
func splitList(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// buildRespondent maps one CSV row onto a respondent. Values are trimmed
// here; storage normalization is left to the respondent service.
func buildRespondent(row []string, m *ColumnMapping) (*domain.Respondent, error) {
	r := &domain.Respondent{}
	for i, val := range row {
		field, ok := m.FieldMap[i]
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		if val == "" {
			continue
		}

		switch field {
		case FieldTimestamp:
			ts, err := parseTimestamp(val)
			if err != nil {
				return nil, err
			}
			r.Timestamp = ts
		case FieldName:
			r.RespondentName = val
		case FieldDistrict:
			r.District = val
		case FieldSubCounty:
			r.SubCounty = val
		case FieldParish:
			r.Parish = val
		case FieldAge:
			r.Age = val
		case FieldGender:
			r.Gender = val
		case FieldEducation:
			r.EducationLevel = val
		case FieldMaritalStatus:
			r.MaritalStatus = val
		case FieldOccupation:
			r.Occupation = val
		case FieldHouseholdSize:
			r.HouseholdSize = val
		case FieldDisability:
			r.HasDisability = parseBool(val)
		case FieldIndustry:
			r.IndustryInvolvement = val
		case FieldValueChainRole:
			r.ValueChainRole = val
		case FieldValueChainStage:
			r.ValueChainStage = val
		case FieldOtherActivities:
			r.OtherEconomicActivities = val
		case FieldBusinessTraining:
			r.HasBusinessTraining = parseBool(val)
		case FieldBusinessRegistered:
			r.IsBusinessRegistered = parseBool(val)
		case FieldFinancialAccess:
			r.HasFinancialAccess = parseBool(val)
		case FieldUsesTechnology:
			r.UsesTechnology = parseBool(val)
		case FieldBusinessChallenges:
			r.BusinessChallenges = splitList(val)
		case FieldFinancialChallenges:
			r.FinancialChallenges = splitList(val)
		case FieldMarketChallenges:
			r.MarketChallenges = splitList(val)
		case FieldTechnologyBarriers:
			r.TechnologyBarriers = splitList(val)
		case FieldFuturePlans:
			r.BusinessFuturePlans = splitList(val)
		case FieldSupportNeeded:
			r.SupportNeeded = val
		case FieldGroupName:
			r.GroupName = val
		}
	}
	return r, nil
}
