package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/service/reference"
)

// ReferenceRepo implements reference.Repository against PostgreSQL. Each
// kind is its own table; groups carry an optional district id.
type ReferenceRepo struct{ db *sql.DB }

// NewReferenceRepo creates a Postgres-backed lookup-table repository.
func NewReferenceRepo(db *sql.DB) *ReferenceRepo { return &ReferenceRepo{db: db} }

// table returns the table for kind. Only known kinds reach SQL.
func table(kind domain.ReferenceKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: unknown table %q", reference.ErrInvalid, kind)
	}
	return string(kind), nil
}

func refColumns(kind domain.ReferenceKind) string {
	if kind == domain.KindGroup {
		return "id, name, district_id, created_at"
	}
	return "id, name, NULL::uuid, created_at"
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *ReferenceRepo) List(ctx context.Context, kind domain.ReferenceKind) ([]domain.Reference, error) {
	t, err := table(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT %s FROM %s ORDER BY name`, refColumns(kind), t))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t, err)
	}
	defer rows.Close()

	out := []domain.Reference{}
	for rows.Next() {
		ref := domain.Reference{Kind: kind}
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.DistrictID, &ref.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t, err)
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

func (r *ReferenceRepo) FindByName(ctx context.Context, kind domain.ReferenceKind, name string) (*domain.Reference, error) {
	t, err := table(kind)
	if err != nil {
		return nil, err
	}
	ref := &domain.Reference{Kind: kind}
	err = r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(name) = LOWER($1)`, refColumns(kind), t), name,
	).Scan(&ref.ID, &ref.Name, &ref.DistrictID, &ref.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, reference.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", t, err)
	}
	return ref, nil
}

func (r *ReferenceRepo) Create(ctx context.Context, ref *domain.Reference) (string, error) {
	t, err := table(ref.Kind)
	if err != nil {
		return "", err
	}
	if ref.ID == "" {
		ref.ID = uuid.New().String()
	}
	if ref.Kind == domain.KindGroup {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO groups (id, name, district_id, created_at) VALUES ($1, $2, $3, NOW())`,
			ref.ID, ref.Name, ref.DistrictID)
	} else {
		_, err = r.db.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (id, name, created_at) VALUES ($1, $2, NOW())`, t),
			ref.ID, ref.Name)
	}
	if isUniqueViolation(err) {
		return "", fmt.Errorf("%w: %s %q", reference.ErrDuplicate, t, ref.Name)
	}
	if err != nil {
		return "", fmt.Errorf("create %s: %w", t, err)
	}
	return ref.ID, nil
}

func (r *ReferenceRepo) Update(ctx context.Context, ref *domain.Reference) error {
	t, err := table(ref.Kind)
	if err != nil {
		return err
	}
	var res sql.Result
	if ref.Kind == domain.KindGroup {
		res, err = r.db.ExecContext(ctx,
			`UPDATE groups SET name = $1, district_id = $2 WHERE id = $3`,
			ref.Name, ref.DistrictID, ref.ID)
	} else {
		res, err = r.db.ExecContext(ctx,
			fmt.Sprintf(`UPDATE %s SET name = $1 WHERE id = $2`, t),
			ref.Name, ref.ID)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s %q", reference.ErrDuplicate, t, ref.Name)
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", t, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return reference.ErrNotFound
	}
	return nil
}

func (r *ReferenceRepo) Delete(ctx context.Context, kind domain.ReferenceKind, id string) error {
	t, err := table(kind)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return reference.ErrNotFound
	}
	return nil
}

func (r *ReferenceRepo) ListLocations(ctx context.Context, districtID string) ([]domain.Location, error) {
	q := `SELECT id, district_id, sub_county, parish, created_at FROM locations`
	args := []interface{}{}
	if districtID != "" {
		q += ` WHERE district_id = $1`
		args = append(args, districtID)
	}
	q += ` ORDER BY sub_county, parish`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	out := []domain.Location{}
	for rows.Next() {
		var loc domain.Location
		if err := rows.Scan(&loc.ID, &loc.DistrictID, &loc.SubCounty, &loc.Parish, &loc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

func (r *ReferenceRepo) FindLocation(ctx context.Context, districtID *string, subCounty, parish string) (*domain.Location, error) {
	loc := &domain.Location{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, district_id, sub_county, parish, created_at FROM locations
		WHERE sub_county = $1 AND parish = $2 AND district_id IS NOT DISTINCT FROM $3
	`, subCounty, parish, districtID).Scan(&loc.ID, &loc.DistrictID, &loc.SubCounty, &loc.Parish, &loc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, reference.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find location: %w", err)
	}
	return loc, nil
}

func (r *ReferenceRepo) CreateLocation(ctx context.Context, loc *domain.Location) (string, error) {
	if loc.ID == "" {
		loc.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO locations (id, district_id, sub_county, parish, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`, loc.ID, loc.DistrictID, loc.SubCounty, loc.Parish)
	if isUniqueViolation(err) {
		return "", fmt.Errorf("%w: location %s / %s", reference.ErrDuplicate, loc.SubCounty, loc.Parish)
	}
	if err != nil {
		return "", fmt.Errorf("create location: %w", err)
	}
	return loc.ID, nil
}

func (r *ReferenceRepo) UpdateLocation(ctx context.Context, loc *domain.Location) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE locations SET district_id = $1, sub_county = $2, parish = $3 WHERE id = $4
	`, loc.DistrictID, loc.SubCounty, loc.Parish, loc.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: location %s / %s", reference.ErrDuplicate, loc.SubCounty, loc.Parish)
	}
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return reference.ErrNotFound
	}
	return nil
}

func (r *ReferenceRepo) DeleteLocation(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return reference.ErrNotFound
	}
	return nil
}
