package jobs

import (
	"context"
	"time"

	"officetrack-backend/internal/logger"
)

// ExpireLocationRequests marks PENDING location requests older than the
// configured TTL as EXPIRED
func (jr *JobRunner) ExpireLocationRequests() {
	jr.runWithRecovery("ExpireLocationRequests", func() {
		ctx := context.Background()

		ttl := time.Duration(jr.config.Location.RequestExpiryHours) * time.Hour
		count, err := jr.services.Location.ExpireStaleRequests(ctx, ttl)
		if err != nil {
			logger.Error("Failed to expire location requests", "error", err)
			return
		}

		logger.Info("Expired stale location requests", "count", count, "ttl_hours", jr.config.Location.RequestExpiryHours)
	})
}
