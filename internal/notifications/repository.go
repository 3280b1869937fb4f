package notifications

import (
	"fmt"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/database"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/interfaces"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// DefaultPageSize is the notification feed page size
const DefaultPageSize = 15

// Repository implements the NotificationRepository interface
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new notification repository
func NewRepository(db *database.DB, log *logger.Logger) interfaces.NotificationRepository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

// InsertNotification inserts a notification. When the notification carries
// a dedup key, the partial unique index on (user_id, user_type, dedup_key)
// suppresses duplicate inserts; the return value reports whether a row
// actually landed.
func (r *Repository) InsertNotification(n *types.Notification) (bool, error) {
	query := `
		INSERT INTO notifications (
			id, user_id, user_type, type, title, message, related_id, status, dedup_key, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, NULLIF($9, ''), $10)
		ON CONFLICT (user_id, user_type, dedup_key) WHERE dedup_key IS NOT NULL
		DO NOTHING`

	result, err := r.db.Exec(query,
		n.ID,
		n.UserID,
		n.UserType,
		n.Type,
		n.Title,
		n.Message,
		n.RelatedID,
		n.Status,
		n.DedupKey,
		n.CreatedAt,
	)
	if err != nil {
		r.logger.Errorf("Failed to insert notification: %v", err)
		return false, fmt.Errorf("failed to insert notification: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// ListNotifications retrieves one page of a user's feed, newest first,
// with its total and unread counts
func (r *Repository) ListNotifications(userID, userType string, filters *types.NotificationFilters) (*types.NotificationPage, error) {
	where := ` WHERE user_id = $1 AND user_type = $2`
	args := []interface{}{userID, userType}
	argIndex := 3

	if filters.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, filters.Status)
		argIndex++
	}

	if filters.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", argIndex)
		args = append(args, filters.Type)
		argIndex++
	}

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	var unread int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND user_type = $2 AND status = 'unread'`,
		userID, userType,
	).Scan(&unread)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}

	query := `
		SELECT id, user_id, user_type, type, title, message,
		       COALESCE(related_id, ''), status, created_at
		FROM notifications` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, DefaultPageSize, (page-1)*DefaultPageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Errorf("Failed to list notifications: %v", err)
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*types.Notification{}
	for rows.Next() {
		n := &types.Notification{}
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.UserType,
			&n.Type,
			&n.Title,
			&n.Message,
			&n.RelatedID,
			&n.Status,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return &types.NotificationPage{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
		Page:          page,
		PageSize:      DefaultPageSize,
	}, nil
}

// MarkRead marks one notification read. Returns false when no
// notification matched the id and owner.
func (r *Repository) MarkRead(id, userID, userType string) (bool, error) {
	query := `
		UPDATE notifications SET status = 'read'
		WHERE id = $1 AND user_id = $2 AND user_type = $3`

	result, err := r.db.Exec(query, id, userID, userType)
	if err != nil {
		r.logger.Errorf("Failed to mark notification %s read: %v", id, err)
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// MarkAllRead marks all of a user's unread notifications read and returns
// how many changed
func (r *Repository) MarkAllRead(userID, userType string) (int64, error) {
	query := `
		UPDATE notifications SET status = 'read'
		WHERE user_id = $1 AND user_type = $2 AND status = 'unread'`

	result, err := r.db.Exec(query, userID, userType)
	if err != nil {
		r.logger.Errorf("Failed to mark all notifications read: %v", err)
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}

	return result.RowsAffected()
}

// DeleteNotification deletes one notification. Returns false when no
// notification matched the id and owner.
func (r *Repository) DeleteNotification(id, userID, userType string) (bool, error) {
	result, err := r.db.Exec(
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2 AND user_type = $3`,
		id, userID, userType,
	)
	if err != nil {
		r.logger.Errorf("Failed to delete notification %s: %v", id, err)
		return false, fmt.Errorf("failed to delete notification: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// ClearRead deletes all of a user's read notifications and returns how
// many were removed
func (r *Repository) ClearRead(userID, userType string) (int64, error) {
	result, err := r.db.Exec(
		`DELETE FROM notifications WHERE user_id = $1 AND user_type = $2 AND status = 'read'`,
		userID, userType,
	)
	if err != nil {
		r.logger.Errorf("Failed to clear read notifications: %v", err)
		return 0, fmt.Errorf("failed to clear read notifications: %w", err)
	}

	return result.RowsAffected()
}

// OverdueScheduledAppointments selects the day's appointments still
// scheduled whose start time has already passed the cutoff, joined to the
// patient for the alert message
func (r *Repository) OverdueScheduledAppointments(day, cutoffTime string) ([]*types.OverdueAppointment, error) {
	query := `
		SELECT a.id, a.doctor_id, p.name,
		       to_char(a.appointment_date, 'YYYY-MM-DD'), to_char(a.appointment_time, 'HH24:MI:SS')
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		WHERE a.appointment_date = $1
		  AND a.appointment_time < $2
		  AND a.status = 'scheduled'
		ORDER BY a.appointment_time ASC`

	rows, err := r.db.Query(query, day, cutoffTime)
	if err != nil {
		r.logger.Errorf("Failed to select overdue appointments: %v", err)
		return nil, fmt.Errorf("failed to select overdue appointments: %w", err)
	}
	defer rows.Close()

	var overdue []*types.OverdueAppointment
	for rows.Next() {
		o := &types.OverdueAppointment{}
		if err := rows.Scan(&o.AppointmentID, &o.DoctorID, &o.PatientName, &o.Date, &o.Time); err != nil {
			return nil, fmt.Errorf("failed to scan overdue appointment: %w", err)
		}
		overdue = append(overdue, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overdue appointments: %w", err)
	}

	return overdue, nil
}

// DoctorsWithAppointmentsOn returns the distinct doctors holding at least
// one scheduled appointment on the given day
func (r *Repository) DoctorsWithAppointmentsOn(day string) ([]string, error) {
	query := `
		SELECT DISTINCT doctor_id FROM appointments
		WHERE appointment_date = $1 AND status = 'scheduled'`

	rows, err := r.db.Query(query, day)
	if err != nil {
		r.logger.Errorf("Failed to select doctors with appointments: %v", err)
		return nil, fmt.Errorf("failed to select doctors with appointments: %w", err)
	}
	defer rows.Close()

	var doctorIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan doctor id: %w", err)
		}
		doctorIDs = append(doctorIDs, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating doctor ids: %w", err)
	}

	return doctorIDs, nil
}
