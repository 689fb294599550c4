package postgres

import (
	"context"
	"database/sql"
	"time"

	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/repository"
)

type officeRepository struct {
	db *sql.DB
}

func NewOfficeRepository(db *sql.DB) repository.OfficeRepository {
	return &officeRepository{db: db}
}

func (r *officeRepository) Create(ctx context.Context, o *domain.Office) error {
	query := `INSERT INTO offices (name, address, latitude, longitude, has_location, headcount_target, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	o.CreatedOn = time.Now().UTC().Format("2006-01-02")
	err := r.db.QueryRowContext(ctx, query,
		o.Name, o.Address, o.Latitude, o.Longitude, o.HasLocation, o.HeadcountTarget, o.CreatedOn,
	).Scan(&o.ID)
	return mapErr(err)
}

func (r *officeRepository) GetByID(ctx context.Context, id int32) (*domain.Office, error) {
	o := &domain.Office{}
	query := `SELECT id, name, COALESCE(address, ''), latitude, longitude, has_location, headcount_target, created_on FROM offices WHERE id = $1`
	var createdOn time.Time
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.Name, &o.Address, &o.Latitude, &o.Longitude, &o.HasLocation, &o.HeadcountTarget, &createdOn)
	if err != nil {
		return nil, mapErr(err)
	}
	o.CreatedOn = createdOn.Format("2006-01-02")
	return o, nil
}

func (r *officeRepository) List(ctx context.Context) ([]domain.Office, error) {
	query := `SELECT id, name, COALESCE(address, ''), latitude, longitude, has_location, headcount_target, created_on FROM offices ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var offices []domain.Office
	for rows.Next() {
		var o domain.Office
		var createdOn time.Time
		if err := rows.Scan(&o.ID, &o.Name, &o.Address, &o.Latitude, &o.Longitude, &o.HasLocation, &o.HeadcountTarget, &createdOn); err != nil {
			return nil, mapErr(err)
		}
		o.CreatedOn = createdOn.Format("2006-01-02")
		offices = append(offices, o)
	}
	return offices, rows.Err()
}

func (r *officeRepository) Update(ctx context.Context, o *domain.Office) error {
	query := `UPDATE offices SET name=$1, address=$2, latitude=$3, longitude=$4, has_location=$5, headcount_target=$6 WHERE id=$7`
	_, err := r.db.ExecContext(ctx, query, o.Name, o.Address, o.Latitude, o.Longitude, o.HasLocation, o.HeadcountTarget, o.ID)
	return mapErr(err)
}

func (r *officeRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM offices WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *officeRepository) CountDependents(ctx context.Context, id int32) (domain.OfficeDependents, error) {
	var d domain.OfficeDependents
	query := `SELECT
	            (SELECT COUNT(*) FROM users WHERE primary_office_id = $1 OR assigned_office_id = $1),
	            (SELECT COUNT(*) FROM attendance_records WHERE office_id = $1),
	            (SELECT COUNT(*) FROM distributions WHERE office_id = $1)`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&d.Members, &d.Attendance, &d.Distributions)
	return d, mapErr(err)
}
