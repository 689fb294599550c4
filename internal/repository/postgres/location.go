package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/repository"
)

type locationRepository struct {
	db *sql.DB
}

func NewLocationRepository(db *sql.DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) CreateShare(ctx context.Context, s *domain.LocationShare) error {
	query := `INSERT INTO location_shares (user_id, latitude, longitude, shared_at, reason, office_id)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		s.UserID, s.Latitude, s.Longitude, s.SharedAt, s.Reason, s.OfficeID,
	).Scan(&s.ID)
	return mapErr(err)
}

func (r *locationRepository) ListShares(ctx context.Context, userID *int32, officeID *int32, page, pageSize int32) ([]domain.LocationShare, int32, error) {
	where := ` WHERE 1=1`
	var args []any
	if userID != nil {
		args = append(args, *userID)
		where += ` AND user_id = $` + strconv.Itoa(len(args))
	}
	if officeID != nil {
		args = append(args, *officeID)
		where += ` AND office_id = $` + strconv.Itoa(len(args))
	}

	var total int32
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM location_shares`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, user_id, latitude, longitude, shared_at, COALESCE(reason, ''), office_id FROM location_shares` +
		where + ` ORDER BY shared_at DESC, id DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, pageSize, offset)...)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	var shares []domain.LocationShare
	for rows.Next() {
		var s domain.LocationShare
		if err := rows.Scan(&s.ID, &s.UserID, &s.Latitude, &s.Longitude, &s.SharedAt, &s.Reason, &s.OfficeID); err != nil {
			return nil, 0, mapErr(err)
		}
		shares = append(shares, s)
	}
	return shares, total, rows.Err()
}

func (r *locationRepository) CreateRequest(ctx context.Context, req *domain.LocationRequest) error {
	query := `INSERT INTO location_requests (requester_id, target_user_id, status, requested_at)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		req.RequesterID, req.TargetUserID, req.Status, req.RequestedAt,
	).Scan(&req.ID)
	return mapErr(err)
}

func (r *locationRepository) GetRequest(ctx context.Context, id int32) (*domain.LocationRequest, error) {
	req := &domain.LocationRequest{}
	query := `SELECT id, requester_id, target_user_id, status, requested_at, responded_at, location_share_id
	          FROM location_requests WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.RequesterID, &req.TargetUserID, &req.Status,
		&req.RequestedAt, &req.RespondedAt, &req.LocationShareID)
	if err != nil {
		return nil, mapErr(err)
	}
	return req, nil
}

// TransitionRequest performs the state transition as a conditional
// update keyed on the current status, so two racing responses cannot
// both leave PENDING.
func (r *locationRepository) TransitionRequest(ctx context.Context, id int32, from, to domain.LocationRequestStatus, respondedAt time.Time, shareID *int32) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE location_requests SET status = $3, responded_at = $4, location_share_id = $5
		 WHERE id = $1 AND status = $2`,
		id, from, to, respondedAt, shareID)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *locationRepository) ListRequests(ctx context.Context, requesterID, targetUserID *int32, page, pageSize int32) ([]domain.LocationRequest, int32, error) {
	where := ` WHERE 1=1`
	var args []any
	if requesterID != nil {
		args = append(args, *requesterID)
		where += ` AND requester_id = $` + strconv.Itoa(len(args))
	}
	if targetUserID != nil {
		args = append(args, *targetUserID)
		where += ` AND target_user_id = $` + strconv.Itoa(len(args))
	}

	var total int32
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM location_requests`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, requester_id, target_user_id, status, requested_at, responded_at, location_share_id FROM location_requests` +
		where + ` ORDER BY requested_at DESC, id DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, pageSize, offset)...)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	var requests []domain.LocationRequest
	for rows.Next() {
		var req domain.LocationRequest
		if err := rows.Scan(&req.ID, &req.RequesterID, &req.TargetUserID, &req.Status,
			&req.RequestedAt, &req.RespondedAt, &req.LocationShareID); err != nil {
			return nil, 0, mapErr(err)
		}
		requests = append(requests, req)
	}
	return requests, total, rows.Err()
}

func (r *locationRepository) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE location_requests SET status = $1 WHERE status = $2 AND requested_at < $3`,
		domain.LocationRequestExpired, domain.LocationRequestPending, cutoff)
	if err != nil {
		return 0, mapErr(err)
	}
	return res.RowsAffected()
}
