package export

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/osteele/liquid"

	"github.com/ignite/survey-tracker/internal/analytics"
	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/pkg/textnorm"
)

// ReportKind selects which sections a rendered report contains.
type ReportKind string

const (
	ReportComprehensive ReportKind = "comprehensive"
	ReportDemographics  ReportKind = "demographics"
	ReportBusiness      ReportKind = "business"
	ReportTechnology    ReportKind = "technology"
	ReportGeographic    ReportKind = "geographic"
)

// ReportKinds lists every report in menu order.
var ReportKinds = []ReportKind{
	ReportComprehensive, ReportDemographics, ReportBusiness, ReportTechnology, ReportGeographic,
}

var ErrUnknownReport = errors.New("unknown report kind")

// ParseReportKind accepts any case and surrounding whitespace.
func ParseReportKind(s string) (ReportKind, error) {
	k := ReportKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ReportKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownReport, s)
}

// Title is the report's heading.
func (k ReportKind) Title() string {
	switch k {
	case ReportDemographics:
		return "Demographics Report"
	case ReportBusiness:
		return "Business & Value Chain Report"
	case ReportTechnology:
		return "Technology Adoption Report"
	case ReportGeographic:
		return "Geographic Distribution Report"
	}
	return "Comprehensive Survey Report"
}

// Filename is <kind>_report_<date>.md.
func (k ReportKind) Filename(now time.Time) string {
	return string(k) + "_report_" + now.Format(dateLayout) + ".md"
}

// ReportData is everything a report can draw on. Followups is optional and
// only rendered by the comprehensive report.
type ReportData struct {
	GeneratedAt time.Time
	Filter      domain.RespondentFilter
	Baseline    analytics.BaselineSummary
	Followups   *analytics.FollowupSummary
}

const headerTemplate = `# {{ title }}

Generated {{ generated }}{% if filters != "" %} | Filters: {{ filters }}{% endif %}

- Total respondents: {{ total }}
- Coffee farmers: {{ coffee_farmers }}
- Tea farmers: {{ tea_farmers }}
`

const tableTemplate = `{% if rows.size == 0 %}
_No data._
{% else %}
| {{ label }} | Count | Share |
|---|---:|---:|
{% for row in rows %}| {{ row.name }} | {{ row.value }} | {{ row.pct | pct }} |
{% endfor %}{% endif %}`

var sectionTemplates = map[string]string{
	"demographics": `
## Demographics

### Gender
{% assign rows = gender %}{% assign label = "Gender" %}` + tableTemplate + `
### Education
{% assign rows = education %}{% assign label = "Education" %}` + tableTemplate + `
### Age groups
{% assign rows = age_groups %}{% assign label = "Age group" %}` + tableTemplate + `
### Marital status
{% assign rows = marital_status %}{% assign label = "Status" %}` + tableTemplate,

	"business": `
## Business & Value Chain

### Occupation
{% assign rows = occupation %}{% assign label = "Occupation" %}` + tableTemplate + `
### Industry involvement
{% assign rows = industry %}{% assign label = "Industry" %}` + tableTemplate + `
### Value chain stage
{% assign rows = value_chain_stage %}{% assign label = "Stage" %}` + tableTemplate + `
Processing-stage respondents: {{ processing_count }} ({{ processing_tea_pct | pct }} in tea)

### Top challenges
{% assign rows = challenges %}{% assign label = "Challenge" %}` + tableTemplate,

	"technology": `
## Technology

### Adoption
{% assign rows = adoption %}{% assign label = "Adoption" %}` + tableTemplate + `
### Barriers
{% assign rows = barriers %}{% assign label = "Barrier" %}` + tableTemplate,

	"geographic": `
## Geography

### Districts
{% assign rows = districts %}{% assign label = "District" %}` + tableTemplate + `
### Sub-counties
{% assign rows = sub_counties %}{% assign label = "Sub-county" %}` + tableTemplate,

	"followups": `{% if has_followups %}
## Follow-up Visits

- Follow-ups recorded: {{ total_followups }}
- New members: {{ new_members }}
- Respondents without a full baseline: {{ new_respondent_pct | pct }}

### Practices applied
{% assign rows = practices %}{% assign label = "Practice" %}` + tableTemplate + `
### Mentor evaluation
| Question | Average | Rating |
|---|---:|---|
{% for row in mentor %}| {{ row.name }} | {{ row.avg }} | {{ row.label }} |
{% endfor %}{% endif %}`,
}

var reportSections = map[ReportKind][]string{
	ReportComprehensive: {"demographics", "business", "technology", "geographic", "followups"},
	ReportDemographics:  {"demographics"},
	ReportBusiness:      {"business"},
	ReportTechnology:    {"technology"},
	ReportGeographic:    {"geographic"},
}

// Renderer renders Markdown reports from pre-parsed liquid templates.
type Renderer struct {
	templates map[ReportKind]*liquid.Template
}

// NewRenderer parses every report template up front.
func NewRenderer() (*Renderer, error) {
	engine := liquid.NewEngine()
	engine.RegisterFilter("pct", func(v interface{}) string {
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		default:
			return fmt.Sprintf("%v", v)
		}
		return fmt.Sprintf("%.1f%%", f)
	})

	r := &Renderer{templates: make(map[ReportKind]*liquid.Template, len(reportSections))}
	for kind, sections := range reportSections {
		var b strings.Builder
		b.WriteString(headerTemplate)
		for _, s := range sections {
			b.WriteString(sectionTemplates[s])
		}
		tpl, err := engine.ParseString(b.String())
		if err != nil {
			return nil, fmt.Errorf("parse %s report: %w", kind, err)
		}
		r.templates[kind] = tpl
	}
	return r, nil
}

// Render produces the Markdown report for kind.
func (r *Renderer) Render(kind ReportKind, data ReportData) (string, error) {
	tpl, ok := r.templates[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownReport, kind)
	}
	out, err := tpl.RenderString(bindings(kind, data))
	if err != nil {
		return "", fmt.Errorf("render %s report: %w", kind, err)
	}
	return out, nil
}

func bindings(kind ReportKind, data ReportData) map[string]interface{} {
	b := data.Baseline
	total := b.TotalRespondents
	out := map[string]interface{}{
		"title":          kind.Title(),
		"generated":      data.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"),
		"filters":        describeFilter(data.Filter),
		"total":          total,
		"coffee_farmers": b.CoffeeFarmers,
		"tea_farmers":    b.TeaFarmers,

		"gender":         rows(b.Demographics.Gender, total),
		"education":      rows(b.Demographics.Education, total),
		"age_groups":     rows(b.Demographics.AgeGroups, total),
		"marital_status": rows(b.Demographics.MaritalStatus, total),

		"occupation":         rows(b.Business.Occupation, total),
		"industry":           rows(b.Business.Industry, total),
		"value_chain_stage":  rows(b.Business.ValueChainStage, total),
		"processing_count":   b.Business.ProcessingTea.Count,
		"processing_tea_pct": b.Business.ProcessingTea.Percentage,
		"challenges":         rows(b.Business.Challenges, total),

		"adoption":     rows(b.Technology.Adoption, total),
		"barriers":     rows(b.Technology.Barriers, total),
		"districts":    rows(b.Geography.Districts, total),
		"sub_counties": rows(b.Geography.SubCounties, total),

		"has_followups": false,
	}
	if f := data.Followups; f != nil && f.TotalFollowups > 0 {
		out["has_followups"] = true
		out["total_followups"] = f.TotalFollowups
		out["new_members"] = f.NewMembers
		out["new_respondent_pct"] = f.NewRespondentPct
		out["practices"] = rows(f.Practices, f.TotalFollowups)
		mentor := make([]map[string]interface{}, 0, len(f.Mentor))
		for _, m := range f.Mentor {
			mentor = append(mentor, map[string]interface{}{
				"name":  m.Name,
				"avg":   fmt.Sprintf("%.2f", m.Avg),
				"label": m.Label,
			})
		}
		out["mentor"] = mentor
	}
	return out
}

// rows turns chart data into table rows with each value's share of total.
func rows(data []domain.ChartDatum, total int) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(data))
	for _, d := range data {
		out = append(out, map[string]interface{}{
			"name":  d.Name,
			"value": d.Value,
			"pct":   math.Round(analytics.Percentage(d.Value, total)*10) / 10,
		})
	}
	return out
}

func describeFilter(f domain.RespondentFilter) string {
	var parts []string
	if f.District != "" {
		parts = append(parts, "district "+textnorm.TitleCase(f.District))
	}
	if f.Gender != "" {
		parts = append(parts, "gender "+textnorm.TitleCase(f.Gender))
	}
	if f.Group != "" {
		parts = append(parts, "group "+textnorm.TitleCase(f.Group))
	}
	return strings.Join(parts, ", ")
}
