package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/pkg/textnorm"
)

const dateLayout = "2006-01-02"

// RespondentHeader is the respondent export's header row.
var RespondentHeader = []string{
	"Name", "District", "Sub-county", "Parish", "Age", "Gender", "Education",
	"Marital Status", "Occupation", "Industry", "Value Chain Role", "Group Name", "Survey Date",
}

// FollowupHeader is the follow-up export's header row.
var FollowupHeader = []string{
	"Respondent", "District", "Group Name", "Visit Date", "Conducted By", "Attended Training",
	"Practices Applied", "Practice Frequency", "Group Progress", "Income Change",
	"Group Earnings", "Mentor Overall", "General Feedback",
}

// RespondentsFilename is survey_respondents_<date>.csv.
func RespondentsFilename(now time.Time) string {
	return "survey_respondents_" + now.Format(dateLayout) + ".csv"
}

// FollowupsFilename is followup_surveys_<date>.csv.
func FollowupsFilename(now time.Time) string {
	return "followup_surveys_" + now.Format(dateLayout) + ".csv"
}

// WriteRespondentsCSV writes the header and one row per respondent. Every
// field is quoted. The survey date falls back to the creation date when the
// form timestamp is missing.
func WriteRespondentsCSV(w io.Writer, respondents []domain.Respondent) error {
	cw := newQuotedWriter(w)
	cw.row(RespondentHeader)
	for i := range respondents {
		r := &respondents[i]
		surveyed := r.CreatedAt
		if r.Timestamp != nil {
			surveyed = *r.Timestamp
		}
		cw.row([]string{
			r.RespondentName,
			textnorm.TitleCase(r.District),
			textnorm.TitleCase(r.SubCounty),
			textnorm.TitleCase(r.Parish),
			r.Age,
			textnorm.TitleCase(r.Gender),
			textnorm.TitleCase(r.EducationLevel),
			textnorm.TitleCase(r.MaritalStatus),
			textnorm.TitleCase(r.Occupation),
			r.IndustryInvolvement,
			textnorm.TitleCase(r.ValueChainRole),
			textnorm.TitleCase(r.GroupName),
			formatDate(surveyed),
		})
	}
	return cw.flush()
}

// WriteFollowupsCSV writes the follow-up history export. Unanswered
// questions are empty cells.
func WriteFollowupsCSV(w io.Writer, followups []domain.Followup) error {
	cw := newQuotedWriter(w)
	cw.row(FollowupHeader)
	for i := range followups {
		f := &followups[i]
		var name, district, group string
		if f.Respondent != nil {
			name = f.Respondent.RespondentName
			district = textnorm.TitleCase(f.Respondent.District)
			group = textnorm.TitleCase(f.Respondent.GroupName)
		}
		attended := ""
		if f.AttendedTraining != nil {
			attended = "No"
			if *f.AttendedTraining {
				attended = "Yes"
			}
		}
		cw.row([]string{
			name,
			district,
			group,
			formatDate(f.VisitDate),
			f.ConductedBy,
			attended,
			strings.Join(f.PracticesApplied, "; "),
			scaleCell(domain.PracticeFrequency, f.PracticeFrequency),
			scaleCell(domain.GroupProgress, f.GroupProgress),
			scaleCell(domain.IncomeChange, f.IncomeChange),
			scaleCell(domain.GroupEarnings, f.GroupEarnings),
			intCell(f.Mentor.Overall),
			strCell(f.GeneralFeedback),
		})
	}
	return cw.flush()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func scaleCell(sc domain.Scale, v *int) string {
	if v == nil {
		return ""
	}
	return sc.Label(*v)
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func strCell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// quotedWriter writes RFC 4180 rows with every field quoted. encoding/csv
// only quotes fields that need it.
type quotedWriter struct {
	w   *bufio.Writer
	err error
}

func newQuotedWriter(w io.Writer) *quotedWriter {
	return &quotedWriter{w: bufio.NewWriter(w)}
}

func (q *quotedWriter) row(fields []string) {
	if q.err != nil {
		return
	}
	for i, f := range fields {
		if i > 0 {
			q.w.WriteByte(',')
		}
		q.w.WriteByte('"')
		q.w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		q.w.WriteByte('"')
	}
	_, q.err = q.w.WriteString("\r\n")
}

func (q *quotedWriter) flush() error {
	if q.err != nil {
		return q.err
	}
	return q.w.Flush()
}
