package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/service/respondent"
)

const respondentColumns = `
	id, timestamp, respondent_name,
	COALESCE(district,''), COALESCE(sub_county,''), COALESCE(parish,''),
	COALESCE(age,''), COALESCE(gender,''), COALESCE(education_level,''),
	COALESCE(marital_status,''), COALESCE(occupation,''), COALESCE(household_size,''),
	COALESCE(has_disability,false),
	COALESCE(industry_involvement,''), COALESCE(value_chain_role,''),
	COALESCE(value_chain_stage,''), COALESCE(other_economic_activities,''),
	COALESCE(has_business_training,false), COALESCE(is_business_registered,false),
	COALESCE(has_financial_access,false), COALESCE(uses_technology,false),
	COALESCE(business_challenges,'{}'), COALESCE(financial_challenges,'{}'),
	COALESCE(market_challenges,'{}'), COALESCE(technology_barriers,'{}'),
	COALESCE(business_future_plans,'{}'), COALESCE(support_needed,''),
	COALESCE(group_name,''), group_id, district_id, created_at, updated_at`

// RespondentRepo implements respondent.Repository against PostgreSQL.
type RespondentRepo struct{ db *sql.DB }

// NewRespondentRepo creates a Postgres-backed respondent repository.
func NewRespondentRepo(db *sql.DB) *RespondentRepo { return &RespondentRepo{db: db} }

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRespondent(row rowScanner) (domain.Respondent, error) {
	var r domain.Respondent
	err := row.Scan(
		&r.ID, &r.Timestamp, &r.RespondentName,
		&r.District, &r.SubCounty, &r.Parish,
		&r.Age, &r.Gender, &r.EducationLevel,
		&r.MaritalStatus, &r.Occupation, &r.HouseholdSize,
		&r.HasDisability,
		&r.IndustryInvolvement, &r.ValueChainRole,
		&r.ValueChainStage, &r.OtherEconomicActivities,
		&r.HasBusinessTraining, &r.IsBusinessRegistered,
		&r.HasFinancialAccess, &r.UsesTechnology,
		pq.Array(&r.BusinessChallenges), pq.Array(&r.FinancialChallenges),
		pq.Array(&r.MarketChallenges), pq.Array(&r.TechnologyBarriers),
		pq.Array(&r.BusinessFuturePlans), &r.SupportNeeded,
		&r.GroupName, &r.GroupID, &r.DistrictID, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// respondentWhere builds the WHERE clause shared by the count and page
// queries. Category filters compare against the normalized column.
func respondentWhere(f domain.RespondentFilter, prefix string) (string, []interface{}) {
	conds := []string{}
	args := []interface{}{}
	add := func(cond string, val interface{}) {
		args = append(args, val)
		conds = append(conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(args))))
	}

	if f.District != "" {
		add("LOWER("+prefix+"district) = ?", f.District)
	}
	if f.Gender != "" {
		add("LOWER("+prefix+"gender) = ?", f.Gender)
	}
	if f.Group != "" {
		add("LOWER("+prefix+"group_name) = ?", f.Group)
	}
	if f.SubCounty != "" {
		add("LOWER("+prefix+"sub_county) = ?", f.SubCounty)
	}
	if f.Search != "" {
		add("("+prefix+"respondent_name ILIKE ? OR "+prefix+"district ILIKE ? OR "+prefix+"sub_county ILIKE ?)",
			"%"+escapeLike(f.Search)+"%")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *RespondentRepo) List(ctx context.Context, f domain.RespondentFilter) ([]domain.Respondent, int, error) {
	where, args := respondentWhere(f, "")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM survey_respondents`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count respondents: %w", err)
	}

	q := `SELECT` + respondentColumns + `
		FROM survey_respondents` + where + ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list respondents: %w", err)
	}
	defer rows.Close()

	out := []domain.Respondent{}
	for rows.Next() {
		rec, err := scanRespondent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan respondent: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list respondents: %w", err)
	}
	return out, total, nil
}

func (r *RespondentRepo) Get(ctx context.Context, id string) (*domain.Respondent, error) {
	rec, err := scanRespondent(r.db.QueryRowContext(ctx,
		`SELECT`+respondentColumns+` FROM survey_respondents WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, respondent.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get respondent: %w", err)
	}
	return &rec, nil
}

// writeArgs lists the editable columns in insert/update order.
func writeArgs(rec *domain.Respondent) []interface{} {
	return []interface{}{
		rec.Timestamp, rec.RespondentName,
		rec.District, rec.SubCounty, rec.Parish,
		rec.Age, rec.Gender, rec.EducationLevel,
		rec.MaritalStatus, rec.Occupation, rec.HouseholdSize,
		rec.HasDisability,
		rec.IndustryInvolvement, rec.ValueChainRole,
		rec.ValueChainStage, rec.OtherEconomicActivities,
		rec.HasBusinessTraining, rec.IsBusinessRegistered,
		rec.HasFinancialAccess, rec.UsesTechnology,
		pq.Array(rec.BusinessChallenges), pq.Array(rec.FinancialChallenges),
		pq.Array(rec.MarketChallenges), pq.Array(rec.TechnologyBarriers),
		pq.Array(rec.BusinessFuturePlans), rec.SupportNeeded,
		rec.GroupName, rec.GroupID, rec.DistrictID,
	}
}

func (r *RespondentRepo) Create(ctx context.Context, rec *domain.Respondent) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	args := append([]interface{}{rec.ID}, writeArgs(rec)...)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO survey_respondents
			(id, timestamp, respondent_name, district, sub_county, parish,
			 age, gender, education_level, marital_status, occupation, household_size,
			 has_disability, industry_involvement, value_chain_role, value_chain_stage,
			 other_economic_activities, has_business_training, is_business_registered,
			 has_financial_access, uses_technology, business_challenges, financial_challenges,
			 market_challenges, technology_barriers, business_future_plans, support_needed,
			 group_name, group_id, district_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, NOW(), NOW())
	`, args...)
	if err != nil {
		return "", fmt.Errorf("create respondent: %w", err)
	}
	return rec.ID, nil
}

func (r *RespondentRepo) Update(ctx context.Context, id string, rec *domain.Respondent) error {
	args := append(writeArgs(rec), id)
	res, err := r.db.ExecContext(ctx, `
		UPDATE survey_respondents SET
			timestamp = $1, respondent_name = $2, district = $3, sub_county = $4, parish = $5,
			age = $6, gender = $7, education_level = $8, marital_status = $9, occupation = $10,
			household_size = $11, has_disability = $12, industry_involvement = $13,
			value_chain_role = $14, value_chain_stage = $15, other_economic_activities = $16,
			has_business_training = $17, is_business_registered = $18, has_financial_access = $19,
			uses_technology = $20, business_challenges = $21, financial_challenges = $22,
			market_challenges = $23, technology_barriers = $24, business_future_plans = $25,
			support_needed = $26, group_name = $27, group_id = $28, district_id = $29,
			updated_at = NOW()
		WHERE id = $30
	`, args...)
	if err != nil {
		return fmt.Errorf("update respondent: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return respondent.ErrNotFound
	}
	return nil
}

// Delete removes the respondent and its industry links. Follow-ups are kept.
func (r *RespondentRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM respondent_industries WHERE respondent_id = $1`, id); err != nil {
		return fmt.Errorf("delete respondent industries: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM survey_respondents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete respondent: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return respondent.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

func (r *RespondentRepo) SetIndustries(ctx context.Context, respondentID string, industryIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set industries: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM respondent_industries WHERE respondent_id = $1`, respondentID); err != nil {
		return fmt.Errorf("clear industries: %w", err)
	}
	if len(industryIDs) > 0 {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO respondent_industries (respondent_id, industry_id)
			SELECT $1, unnest($2::uuid[])
			ON CONFLICT DO NOTHING
		`, respondentID, pq.Array(industryIDs)); err != nil {
			return fmt.Errorf("link industries: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit industries: %w", err)
	}
	return nil
}

func (r *RespondentRepo) Industries(ctx context.Context, respondentID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ri.industry_id
		FROM respondent_industries ri
		JOIN industries i ON i.id = ri.industry_id
		WHERE ri.respondent_id = $1
		ORDER BY i.name
	`, respondentID)
	if err != nil {
		return nil, fmt.Errorf("list industries: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan industry: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
