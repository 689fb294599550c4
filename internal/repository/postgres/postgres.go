package postgres

import (
	"database/sql"
	"errors"

	"officetrack-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.OfficeRepository
	repository.AttendanceRepository
	repository.DistributionRepository
	repository.LocationRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		OfficeRepository:       NewOfficeRepository(db),
		AttendanceRepository:   NewAttendanceRepository(db),
		DistributionRepository: NewDistributionRepository(db),
		LocationRepository:     NewLocationRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

// uniqueViolation is the postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

// mapErr converts driver errors into the repository sentinels so the
// service layer never inspects pq internals.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return repository.ErrDuplicateKey
	}
	return err
}
