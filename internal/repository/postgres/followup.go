package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignite/survey-tracker/internal/domain"
)

const followupColumns = `
	f.id, f.original_respondent_id, f.visit_date, f.conducted_by, f.attended_training,
	f.practices_applied, f.practice_frequency, f.practice_results,
	f.group_progress, f.income_change, f.group_earnings,
	f.low_interest_areas, f.support_gaps,
	f.mentor_preparedness, f.mentor_clarity, f.mentor_relevance,
	f.mentor_practicality, f.mentor_availability, f.mentor_overall,
	f.do_better, f.example_use, f.current_challenges, f.future_interests,
	f.general_feedback, f.governance_steps, f.new_markets, f.quality_steps,
	f.created_at,
	r.id, COALESCE(r.respondent_name,''), COALESCE(r.district,''),
	COALESCE(r.gender,''), COALESCE(r.group_name,'')`

const followupFrom = `
	FROM followup_surveys f
	LEFT JOIN survey_respondents r ON r.id = f.original_respondent_id`

// FollowupRepo implements followup.Repository against PostgreSQL.
type FollowupRepo struct{ db *sql.DB }

// NewFollowupRepo creates a Postgres-backed follow-up repository.
func NewFollowupRepo(db *sql.DB) *FollowupRepo { return &FollowupRepo{db: db} }

func scanFollowup(row rowScanner) (domain.Followup, error) {
	var (
		f        domain.Followup
		parentID sql.NullString
		ref      domain.RespondentRef
	)
	err := row.Scan(
		&f.ID, &f.OriginalRespondentID, &f.VisitDate, &f.ConductedBy, &f.AttendedTraining,
		pq.Array(&f.PracticesApplied), &f.PracticeFrequency, pq.Array(&f.PracticeResults),
		&f.GroupProgress, &f.IncomeChange, &f.GroupEarnings,
		pq.Array(&f.LowInterestAreas), pq.Array(&f.SupportGaps),
		&f.Mentor.Preparedness, &f.Mentor.Clarity, &f.Mentor.Relevance,
		&f.Mentor.Practicality, &f.Mentor.Availability, &f.Mentor.Overall,
		&f.DoBetter, &f.ExampleUse, pq.Array(&f.CurrentChallenges), pq.Array(&f.FutureInterests),
		&f.GeneralFeedback, pq.Array(&f.GovernanceSteps), &f.NewMarkets, &f.QualitySteps,
		&f.CreatedAt,
		&parentID, &ref.RespondentName, &ref.District,
		&ref.Gender, &ref.GroupName,
	)
	if err != nil {
		return f, err
	}
	if parentID.Valid {
		f.Respondent = &ref
	}
	return f, nil
}

func (r *FollowupRepo) Insert(ctx context.Context, f *domain.Followup) (string, error) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO followup_surveys
			(id, original_respondent_id, visit_date, conducted_by, attended_training,
			 practices_applied, practice_frequency, practice_results,
			 group_progress, income_change, group_earnings, low_interest_areas, support_gaps,
			 mentor_preparedness, mentor_clarity, mentor_relevance,
			 mentor_practicality, mentor_availability, mentor_overall,
			 do_better, example_use, current_challenges, future_interests,
			 general_feedback, governance_steps, new_markets, quality_steps, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, NOW())
		RETURNING created_at
	`,
		f.ID, f.OriginalRespondentID, f.VisitDate, f.ConductedBy, f.AttendedTraining,
		pq.Array(f.PracticesApplied), f.PracticeFrequency, pq.Array(f.PracticeResults),
		f.GroupProgress, f.IncomeChange, f.GroupEarnings,
		pq.Array(f.LowInterestAreas), pq.Array(f.SupportGaps),
		f.Mentor.Preparedness, f.Mentor.Clarity, f.Mentor.Relevance,
		f.Mentor.Practicality, f.Mentor.Availability, f.Mentor.Overall,
		f.DoBetter, f.ExampleUse, pq.Array(f.CurrentChallenges), pq.Array(f.FutureInterests),
		f.GeneralFeedback, pq.Array(f.GovernanceSteps), f.NewMarkets, f.QualitySteps,
	).Scan(&f.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert followup: %w", err)
	}
	return f.ID, nil
}

func (r *FollowupRepo) List(ctx context.Context, filter domain.FollowupFilter) ([]domain.Followup, int, error) {
	conds := []string{}
	args := []interface{}{}
	add := func(cond string, val interface{}) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.District != "" {
		add("LOWER(r.district) = $%d", filter.District)
	}
	if filter.Gender != "" {
		add("LOWER(r.gender) = $%d", filter.Gender)
	}
	if filter.Group != "" {
		add("LOWER(r.group_name) = $%d", filter.Group)
	}
	if filter.RespondentID != "" {
		add("f.original_respondent_id = $%d", filter.RespondentID)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+followupFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count followups: %w", err)
	}

	q := `SELECT` + followupColumns + followupFrom + where + ` ORDER BY f.visit_date DESC, f.created_at DESC`
	if filter.Limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	out, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *FollowupRepo) ListForRespondent(ctx context.Context, respondentID string) ([]domain.Followup, error) {
	return r.query(ctx, `SELECT`+followupColumns+followupFrom+`
		WHERE f.original_respondent_id = $1
		ORDER BY f.visit_date ASC, f.created_at ASC`, respondentID)
}

func (r *FollowupRepo) query(ctx context.Context, q string, args ...interface{}) ([]domain.Followup, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list followups: %w", err)
	}
	defer rows.Close()

	out := []domain.Followup{}
	for rows.Next() {
		f, err := scanFollowup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan followup: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list followups: %w", err)
	}
	return out, nil
}

func (r *FollowupRepo) CountOrphans(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM followup_surveys f
		WHERE NOT EXISTS (SELECT 1 FROM survey_respondents r WHERE r.id = f.original_respondent_id)
	`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orphaned followups: %w", err)
	}
	return n, nil
}
