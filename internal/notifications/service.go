package notifications

import (
	"fmt"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/interfaces"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// Service implements the NotificationService interface for the doctor's
// notification feed
type Service struct {
	repository interfaces.NotificationRepository
	logger     *logger.Logger
}

// NewService creates a new notification service
func NewService(repo interfaces.NotificationRepository, log *logger.Logger) interfaces.NotificationService {
	return &Service{
		repository: repo,
		logger:     log,
	}
}

// List retrieves one page of the doctor's notification feed
func (s *Service) List(userID string, filters *types.NotificationFilters) (*types.NotificationPage, error) {
	if filters == nil {
		filters = &types.NotificationFilters{}
	}
	if filters.Status != "" && filters.Status != types.NotificationUnread && filters.Status != types.NotificationRead {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput,
			"invalid status filter", map[string]interface{}{"status": filters.Status})
	}

	return s.repository.ListNotifications(userID, types.UserTypeDoctor, filters)
}

// MarkRead marks one of the doctor's notifications read
func (s *Service) MarkRead(notificationID, userID string) error {
	updated, err := s.repository.MarkRead(notificationID, userID, types.UserTypeDoctor)
	if err != nil {
		return err
	}
	if !updated {
		return types.NewNotFoundError(types.ErrCodeNotFound,
			fmt.Sprintf("notification not found: %s", notificationID))
	}
	return nil
}

// MarkAllRead marks all of the doctor's unread notifications read
func (s *Service) MarkAllRead(userID string) error {
	count, err := s.repository.MarkAllRead(userID, types.UserTypeDoctor)
	if err != nil {
		return err
	}

	s.logger.Infof("Marked %d notifications read for user %s", count, userID)
	return nil
}

// Delete removes one of the doctor's notifications
func (s *Service) Delete(notificationID, userID string) error {
	deleted, err := s.repository.DeleteNotification(notificationID, userID, types.UserTypeDoctor)
	if err != nil {
		return err
	}
	if !deleted {
		return types.NewNotFoundError(types.ErrCodeNotFound,
			fmt.Sprintf("notification not found: %s", notificationID))
	}
	return nil
}

// ClearRead removes all of the doctor's read notifications
func (s *Service) ClearRead(userID string) error {
	count, err := s.repository.ClearRead(userID, types.UserTypeDoctor)
	if err != nil {
		return err
	}

	s.logger.Infof("Cleared %d read notifications for user %s", count, userID)
	return nil
}
