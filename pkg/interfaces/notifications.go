package interfaces

import (
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// NotificationService defines the interface for a user's notification feed
type NotificationService interface {
	List(userID string, filters *types.NotificationFilters) (*types.NotificationPage, error)
	MarkRead(notificationID, userID string) error
	MarkAllRead(userID string) error
	Delete(notificationID, userID string) error
	ClearRead(userID string) error
}

// NotificationWriter is the narrow interface components use to emit
// notifications
type NotificationWriter interface {
	// InsertNotification inserts a notification, returning false when a
	// dedup key collision suppressed the insert.
	InsertNotification(n *types.Notification) (bool, error)
}

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	NotificationWriter

	ListNotifications(userID, userType string, filters *types.NotificationFilters) (*types.NotificationPage, error)
	MarkRead(id, userID, userType string) (bool, error)
	MarkAllRead(userID, userType string) (int64, error)
	DeleteNotification(id, userID, userType string) (bool, error)
	ClearRead(userID, userType string) (int64, error)

	// Batch job queries
	OverdueScheduledAppointments(day, cutoffTime string) ([]*types.OverdueAppointment, error)
	DoctorsWithAppointmentsOn(day string) ([]string, error)
}
