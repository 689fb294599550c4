package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/repository"
)

type attendanceRepository struct {
	db *sql.DB
}

func NewAttendanceRepository(db *sql.DB) repository.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Create relies on the UNIQUE (user_id, date) index: the insert either
// lands or comes back as repository.ErrDuplicateKey. There is no
// existence pre-check here; closing the check-then-insert race is the
// whole point of pushing uniqueness into the database.
func (r *attendanceRepository) Create(ctx context.Context, rec *domain.AttendanceRecord) error {
	query := `INSERT INTO attendance_records (user_id, office_id, date, marked_at, latitude, longitude)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		rec.UserID, rec.OfficeID, rec.Date, rec.MarkedAt, rec.Latitude, rec.Longitude,
	).Scan(&rec.ID)
	return mapErr(err)
}

func (r *attendanceRepository) GetByID(ctx context.Context, id int32) (*domain.AttendanceRecord, error) {
	rec := &domain.AttendanceRecord{}
	query := `SELECT id, user_id, office_id, date, marked_at, latitude, longitude FROM attendance_records WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.UserID, &rec.OfficeID, &rec.Date, &rec.MarkedAt, &rec.Latitude, &rec.Longitude)
	if err != nil {
		return nil, mapErr(err)
	}
	return rec, nil
}

func (r *attendanceRepository) List(ctx context.Context, f domain.AttendanceFilter) ([]domain.AttendanceRecord, int32, error) {
	where := ` WHERE 1=1`
	var args []any
	add := func(clause string, v any) {
		args = append(args, v)
		where += ` AND ` + clause + `$` + strconv.Itoa(len(args))
	}
	if f.OfficeID != nil {
		add(`office_id = `, *f.OfficeID)
	}
	if f.UserID != nil {
		add(`user_id = `, *f.UserID)
	}
	if f.From != nil {
		add(`date >= `, *f.From)
	}
	if f.To != nil {
		add(`date <= `, *f.To)
	}

	var total int32
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendance_records`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	offset := (f.Page - 1) * f.PageSize
	query := `SELECT id, user_id, office_id, date, marked_at, latitude, longitude FROM attendance_records` +
		where + ` ORDER BY date DESC, id DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, f.PageSize, offset)...)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	var records []domain.AttendanceRecord
	for rows.Next() {
		var rec domain.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.OfficeID, &rec.Date, &rec.MarkedAt, &rec.Latitude, &rec.Longitude); err != nil {
			return nil, 0, mapErr(err)
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

func (r *attendanceRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *attendanceRepository) CountByOfficeAndDate(ctx context.Context, officeID int32, date time.Time) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendance_records WHERE office_id = $1 AND date = $2`,
		officeID, date).Scan(&count)
	return count, mapErr(err)
}
