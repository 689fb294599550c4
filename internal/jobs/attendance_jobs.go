package jobs

import (
	"context"
	"time"

	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/logger"
)

// SendAttendanceSummary emails each office's admins a headcount summary
// for the previous UTC day
func (jr *JobRunner) SendAttendanceSummary() {
	jr.runWithRecovery("SendAttendanceSummary", func() {
		ctx := context.Background()

		day := domain.AttendanceDay(time.Now().UTC().AddDate(0, 0, -1))

		offices, err := jr.store.OfficeRepository.List(ctx)
		if err != nil {
			logger.Error("Failed to list offices for attendance summary", "error", err)
			return
		}

		sent := 0
		for _, office := range offices {
			present, err := jr.store.AttendanceRepository.CountByOfficeAndDate(ctx, office.ID, day)
			if err != nil {
				logger.Error("Failed to count attendance", "office_id", office.ID, "error", err)
				continue
			}

			admins, err := jr.officeAdmins(ctx, office.ID)
			if err != nil {
				logger.Error("Failed to list office admins", "office_id", office.ID, "error", err)
				continue
			}

			for _, admin := range admins {
				if err := jr.services.Email.SendAttendanceSummary(ctx, admin.Email, office.Name, day, present, office.HeadcountTarget); err != nil {
					logger.Error("Failed to send attendance summary",
						"office_id", office.ID,
						"admin_id", admin.ID,
						"error", err)
					continue
				}
				sent++
			}
		}

		logger.Info("Sent attendance summaries", "date", day.Format("2006-01-02"), "emails", sent)
	})
}

// officeAdmins returns the active admins assigned to an office
func (jr *JobRunner) officeAdmins(ctx context.Context, officeID int32) ([]domain.User, error) {
	const pageSize = 100

	var admins []domain.User
	var page int32 = 1
	for {
		users, total, err := jr.store.UserRepository.ListByOffice(ctx, officeID, page, pageSize)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			if u.Role == domain.RoleAdmin && u.Status == domain.UserStatusActive {
				admins = append(admins, u)
			}
		}
		if page*pageSize >= total || len(users) == 0 {
			break
		}
		page++
	}
	return admins, nil
}
