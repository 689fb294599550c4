package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/repository"

	"github.com/google/uuid"
)

type distributionRepository struct {
	db *sql.DB
}

func NewDistributionRepository(db *sql.DB) repository.DistributionRepository {
	return &distributionRepository{db: db}
}

func (r *distributionRepository) Create(ctx context.Context, d *domain.Distribution) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	d.CreatedOn = time.Now().UTC().Format("2006-01-02")
	query := `INSERT INTO distributions (office_id, goodies_type, distribution_date, total_quantity, distributed_by, is_for_all_employees, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		d.OfficeID, d.GoodiesType, d.DistributionDate, d.TotalQuantity,
		d.DistributedBy, d.IsForAllEmployees, d.CreatedOn,
	).Scan(&d.ID)
	if err != nil {
		return mapErr(err)
	}

	for _, userID := range d.TargetEmployeeIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO distribution_targets (distribution_id, user_id) VALUES ($1, $2)`,
			d.ID, userID); err != nil {
			return mapErr(err)
		}
	}

	for i := range d.UnregisteredRecipients {
		rec := &d.UnregisteredRecipients[i]
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO unregistered_recipients (id, distribution_id, name, office_id, employee_code, is_claimed)
			 VALUES ($1, $2, $3, $4, $5, false)`,
			rec.ID, d.ID, rec.Name, rec.OfficeID, rec.EmployeeCode); err != nil {
			return mapErr(err)
		}
	}

	return tx.Commit()
}

func (r *distributionRepository) GetByID(ctx context.Context, id int32) (*domain.Distribution, error) {
	d := &domain.Distribution{}
	var createdOn time.Time
	query := `SELECT id, office_id, goodies_type, distribution_date, total_quantity, distributed_by, is_for_all_employees, created_on
	          FROM distributions WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.OfficeID, &d.GoodiesType, &d.DistributionDate, &d.TotalQuantity,
		&d.DistributedBy, &d.IsForAllEmployees, &createdOn)
	if err != nil {
		return nil, mapErr(err)
	}
	d.CreatedOn = createdOn.Format("2006-01-02")

	if err := r.loadTargets(ctx, d); err != nil {
		return nil, err
	}
	if err := r.loadUnregistered(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *distributionRepository) loadTargets(ctx context.Context, d *domain.Distribution) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM distribution_targets WHERE distribution_id = $1 ORDER BY user_id`, d.ID)
	if err != nil {
		return mapErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		var userID int32
		if err := rows.Scan(&userID); err != nil {
			return mapErr(err)
		}
		d.TargetEmployeeIDs = append(d.TargetEmployeeIDs, userID)
	}
	return rows.Err()
}

func (r *distributionRepository) loadUnregistered(ctx context.Context, d *domain.Distribution) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, office_id, COALESCE(employee_code, ''), is_claimed, claimed_at, handed_over_by
		 FROM unregistered_recipients WHERE distribution_id = $1 ORDER BY name`, d.ID)
	if err != nil {
		return mapErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		var rec domain.UnregisteredRecipient
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.OfficeID, &rec.EmployeeCode,
			&rec.IsClaimed, &rec.ClaimedAt, &rec.HandedOverBy); err != nil {
			return mapErr(err)
		}
		rec.DistributionID = d.ID
		d.UnregisteredRecipients = append(d.UnregisteredRecipients, rec)
	}
	return rows.Err()
}

func (r *distributionRepository) List(ctx context.Context, f domain.DistributionFilter) ([]domain.Distribution, int32, error) {
	where := ` WHERE 1=1`
	var args []any
	if f.OfficeID != nil {
		// org-wide distributions carry a NULL office and are visible from
		// every office, so an office filter must not drop them
		args = append(args, *f.OfficeID)
		where += ` AND (d.office_id = $` + strconv.Itoa(len(args)) + ` OR d.office_id IS NULL)`
	}
	if f.Date != nil {
		args = append(args, *f.Date)
		where += ` AND d.distribution_date = $` + strconv.Itoa(len(args))
	}
	if f.VisibleTo != nil {
		args = append(args, *f.VisibleTo)
		where += ` AND (d.is_for_all_employees OR EXISTS (SELECT 1 FROM distribution_targets t WHERE t.distribution_id = d.id AND t.user_id = $` +
			strconv.Itoa(len(args)) + `))`
	}

	var total int32
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM distributions d`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	offset := (f.Page - 1) * f.PageSize
	query := `SELECT d.id, d.office_id, d.goodies_type, d.distribution_date, d.total_quantity, d.distributed_by, d.is_for_all_employees, d.created_on
	          FROM distributions d` + where +
		` ORDER BY d.distribution_date DESC, d.id DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, f.PageSize, offset)...)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	var list []domain.Distribution
	for rows.Next() {
		var d domain.Distribution
		var createdOn time.Time
		if err := rows.Scan(&d.ID, &d.OfficeID, &d.GoodiesType, &d.DistributionDate,
			&d.TotalQuantity, &d.DistributedBy, &d.IsForAllEmployees, &createdOn); err != nil {
			return nil, 0, mapErr(err)
		}
		d.CreatedOn = createdOn.Format("2006-01-02")
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range list {
		if err := r.loadTargets(ctx, &list[i]); err != nil {
			return nil, 0, err
		}
		if err := r.loadUnregistered(ctx, &list[i]); err != nil {
			return nil, 0, err
		}
	}
	return list, total, nil
}

func (r *distributionRepository) Delete(ctx context.Context, id int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM distribution_targets WHERE distribution_id = $1`,
		`DELETE FROM unregistered_recipients WHERE distribution_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return mapErr(err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM distributions WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return tx.Commit()
}

func (r *distributionRepository) IsTarget(ctx context.Context, distributionID, userID int32) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM distribution_targets WHERE distribution_id = $1 AND user_id = $2)`,
		distributionID, userID).Scan(&exists)
	return exists, mapErr(err)
}

// ClaimedCount counts registered claims plus claimed unregistered
// recipients. Always computed live; the count backs the advisory
// capacity check and the reported remaining quantity.
func (r *distributionRepository) ClaimedCount(ctx context.Context, distributionID int32) (int32, error) {
	var count int32
	query := `SELECT
	            (SELECT COUNT(*) FROM received_records WHERE distribution_id = $1) +
	            (SELECT COUNT(*) FROM unregistered_recipients WHERE distribution_id = $1 AND is_claimed)`
	err := r.db.QueryRowContext(ctx, query, distributionID).Scan(&count)
	return count, mapErr(err)
}

// CreateReceived relies on the UNIQUE (distribution_id, user_id) index;
// a second claim by the same user surfaces as repository.ErrDuplicateKey
// no matter how the requests interleave.
func (r *distributionRepository) CreateReceived(ctx context.Context, rec *domain.ReceivedRecord) error {
	query := `INSERT INTO received_records (distribution_id, user_id, received_at, received_at_office_id, handed_over_by)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		rec.DistributionID, rec.UserID, rec.ReceivedAt, rec.ReceivedAtOfficeID, rec.HandedOverBy,
	).Scan(&rec.ID)
	return mapErr(err)
}

const receivedColumns = `id, distribution_id, user_id, received_at, received_at_office_id, handed_over_by`

func scanReceived(row interface{ Scan(...any) error }) (*domain.ReceivedRecord, error) {
	rec := &domain.ReceivedRecord{}
	err := row.Scan(&rec.ID, &rec.DistributionID, &rec.UserID, &rec.ReceivedAt,
		&rec.ReceivedAtOfficeID, &rec.HandedOverBy)
	if err != nil {
		return nil, mapErr(err)
	}
	return rec, nil
}

func (r *distributionRepository) GetReceived(ctx context.Context, distributionID, userID int32) (*domain.ReceivedRecord, error) {
	query := `SELECT ` + receivedColumns + ` FROM received_records WHERE distribution_id = $1 AND user_id = $2`
	return scanReceived(r.db.QueryRowContext(ctx, query, distributionID, userID))
}

func (r *distributionRepository) GetReceivedByID(ctx context.Context, id int32) (*domain.ReceivedRecord, error) {
	query := `SELECT ` + receivedColumns + ` FROM received_records WHERE id = $1`
	return scanReceived(r.db.QueryRowContext(ctx, query, id))
}

func (r *distributionRepository) DeleteReceived(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM received_records WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *distributionRepository) GetUnregistered(ctx context.Context, recipientID string) (*domain.UnregisteredRecipient, error) {
	rec := &domain.UnregisteredRecipient{}
	query := `SELECT id, distribution_id, name, office_id, COALESCE(employee_code, ''), is_claimed, claimed_at, handed_over_by
	          FROM unregistered_recipients WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, recipientID).Scan(
		&rec.ID, &rec.DistributionID, &rec.Name, &rec.OfficeID, &rec.EmployeeCode, &rec.IsClaimed, &rec.ClaimedAt, &rec.HandedOverBy)
	if err != nil {
		return nil, mapErr(err)
	}
	return rec, nil
}

// ClaimUnregistered flips the claimed flag with one conditional update.
// Concurrent claims on different recipients of the same distribution
// touch different rows and cannot clobber each other; a repeat claim on
// the same recipient matches zero rows and reports ErrDuplicateKey.
func (r *distributionRepository) ClaimUnregistered(ctx context.Context, recipientID string, claimedAt time.Time, handedOverBy int32) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE unregistered_recipients SET is_claimed = true, claimed_at = $2, handed_over_by = $3
		 WHERE id = $1 AND NOT is_claimed`,
		recipientID, claimedAt, handedOverBy)
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// distinguish a repeat claim from a bogus id
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM unregistered_recipients WHERE id = $1)`, recipientID).Scan(&exists); err != nil {
			return mapErr(err)
		}
		if !exists {
			return repository.ErrNotFound
		}
		return fmt.Errorf("recipient %s: %w", recipientID, repository.ErrDuplicateKey)
	}
	return nil
}
