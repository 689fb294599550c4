package service

import (
	"context"

	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/logger"
	"officetrack-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
	push     PushSender
}

// NewNotificationService builds the notify collaborator. push may be nil
// when no FCM credentials are configured; in-app rows are still written.
func NewNotificationService(noteRepo repository.NotificationRepository, push PushSender) NotificationService {
	return &notificationService{noteRepo: noteRepo, push: push}
}

// Notify is fire-and-forget by contract: attendance marks, claims and
// location transitions must succeed or fail on their own invariants, so
// every failure here is logged and swallowed.
func (s *notificationService) Notify(ctx context.Context, recipientID int32, title, message string, ntype domain.NotificationType, relatedID *int32) {
	note := &domain.Notification{
		UserID:    recipientID,
		Title:     title,
		Message:   message,
		Type:      ntype,
		RelatedID: relatedID,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to persist notification", "user_id", recipientID, "type", ntype, "error", err)
	}

	if s.push == nil {
		return
	}
	tokens, err := s.noteRepo.ListDeviceTokens(ctx, recipientID)
	if err != nil {
		logger.Warn("Failed to load device tokens", "user_id", recipientID, "error", err)
		return
	}
	data := map[string]string{"type": string(ntype)}
	for _, t := range tokens {
		if err := s.push.Send(ctx, t.Token, title, message, data); err != nil {
			logger.Warn("Push delivery failed", "user_id", recipientID, "platform", t.Platform, "error", err)
		}
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, userID, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, userID)
}

func (s *notificationService) RegisterDeviceToken(ctx context.Context, userID int32, token, platform string) error {
	if token == "" {
		return ErrInvalidInput
	}
	return s.noteRepo.SaveDeviceToken(ctx, &domain.DeviceToken{
		UserID:   userID,
		Token:    token,
		Platform: platform,
	})
}
