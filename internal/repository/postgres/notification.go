package postgres

import (
	"context"
	"database/sql"
	"time"

	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/repository"

	"github.com/google/uuid"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `INSERT INTO notifications (user_id, title, message, type, related_id, is_read, created_on)
	          VALUES ($1, $2, $3, $4, $5, false, $6) RETURNING id`
	n.CreatedOn = time.Now().UTC().Format("2006-01-02")
	err := r.db.QueryRowContext(ctx, query,
		n.UserID, n.Title, n.Message, n.Type, n.RelatedID, n.CreatedOn,
	).Scan(&n.ID)
	return mapErr(err)
}

func (r *notificationRepository) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	var total int32
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	query := `SELECT id, user_id, title, message, type, related_id, is_read, created_on
	          FROM notifications WHERE user_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var createdOn time.Time
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.RelatedID, &n.IsRead, &createdOn); err != nil {
			return nil, 0, mapErr(err)
		}
		n.CreatedOn = createdOn.Format("2006-01-02")
		notes = append(notes, n)
	}
	return notes, total, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) SaveDeviceToken(ctx context.Context, t *domain.DeviceToken) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedOn = time.Now().UTC().Format("2006-01-02")
	query := `INSERT INTO device_tokens (id, user_id, token, platform, created_on)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (user_id, token) DO UPDATE SET platform = EXCLUDED.platform`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.UserID, t.Token, t.Platform, t.CreatedOn)
	return mapErr(err)
}

func (r *notificationRepository) ListDeviceTokens(ctx context.Context, userID int32) ([]domain.DeviceToken, error) {
	query := `SELECT id, user_id, token, platform, created_on FROM device_tokens WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var tokens []domain.DeviceToken
	for rows.Next() {
		var t domain.DeviceToken
		var createdOn time.Time
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.Platform, &createdOn); err != nil {
			return nil, mapErr(err)
		}
		t.CreatedOn = createdOn.Format("2006-01-02")
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
