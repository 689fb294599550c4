package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/repository"

	"github.com/lib/pq"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, name, COALESCE(employee_code, ''), role, status, primary_office_id, assigned_office_id, created_on, updated_on`

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, password_hash, name, employee_code, role, status, primary_office_id, assigned_office_id, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now().UTC().Format("2006-01-02")
	u.CreatedOn = now
	u.UpdatedOn = now
	err := r.db.QueryRowContext(ctx, query,
		u.Email, u.PasswordHash, u.Name, u.EmployeeCode, u.Role, u.Status,
		u.PrimaryOfficeID, u.AssignedOfficeID, u.CreatedOn, u.UpdatedOn,
	).Scan(&u.ID)
	return mapErr(err)
}

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	var createdOn, updatedOn time.Time
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.EmployeeCode,
		&u.Role, &u.Status, &u.PrimaryOfficeID, &u.AssignedOfficeID, &createdOn, &updatedOn)
	if err != nil {
		return nil, mapErr(err)
	}
	u.CreatedOn = createdOn.Format("2006-01-02")
	u.UpdatedOn = updatedOn.Format("2006-01-02")
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email=$1, name=$2, employee_code=$3, status=$4, updated_on=$5 WHERE id=$6`
	u.UpdatedOn = time.Now().UTC().Format("2006-01-02")
	_, err := r.db.ExecContext(ctx, query, u.Email, u.Name, u.EmployeeCode, u.Status, u.UpdatedOn, u.ID)
	return mapErr(err)
}

func (r *userRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) listQuery(ctx context.Context, where string, args []any, page, pageSize int32) ([]domain.User, int32, error) {
	var total int32
	countQuery := `SELECT COUNT(*) FROM users` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + userColumns + ` FROM users` + where + ` ORDER BY id LIMIT $` +
		strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, pageSize, offset)...)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *userRepository) ListByOffice(ctx context.Context, officeID int32, page, pageSize int32) ([]domain.User, int32, error) {
	return r.listQuery(ctx, ` WHERE primary_office_id = $1 OR assigned_office_id = $1`, []any{officeID}, page, pageSize)
}

func (r *userRepository) List(ctx context.Context, page, pageSize int32) ([]domain.User, int32, error) {
	return r.listQuery(ctx, ``, nil, page, pageSize)
}

func (r *userRepository) CountActiveTargets(ctx context.Context, officeID int32, userIDs []int32) (int32, error) {
	query := `SELECT COUNT(*) FROM users WHERE id = ANY($1) AND primary_office_id = $2 AND status = $3`
	var count int32
	err := r.db.QueryRowContext(ctx, query, pq.Array(userIDs), officeID, domain.UserStatusActive).Scan(&count)
	return count, mapErr(err)
}

