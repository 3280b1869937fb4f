package types

import "time"

// Notification represents one entry in a user's notification feed
type Notification struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	UserType  string    `json:"user_type" db:"user_type"`
	Type      string    `json:"type" db:"type"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	RelatedID string    `json:"related_id,omitempty" db:"related_id"`
	Status    string    `json:"status" db:"status"`
	DedupKey  string    `json:"-" db:"dedup_key"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Notification types
const (
	NotificationAppointment = "appointment"
	NotificationReminder    = "reminder"
	NotificationSystem      = "system"
	NotificationAlert       = "alert"
)

// Notification statuses
const (
	NotificationUnread = "unread"
	NotificationRead   = "read"
)

// User types owning notifications
const (
	UserTypeDoctor  = "doctor"
	UserTypePatient = "patient"
)

// NotificationFilters represents filters for the notification feed
type NotificationFilters struct {
	Status string `json:"status,omitempty"` // "", "unread" or "read"
	Type   string `json:"type,omitempty"`
	Page   int    `json:"page,omitempty"`
}

// OverdueAppointment is a scheduled appointment whose start time has
// already passed, as selected by the batch notifier
type OverdueAppointment struct {
	AppointmentID string `json:"appointment_id"`
	DoctorID      string `json:"doctor_id"`
	PatientName   string `json:"patient_name"`
	Date          string `json:"appointment_date"`
	Time          string `json:"appointment_time"`
}

// NotificationPage is one page of a user's feed plus its unread count
type NotificationPage struct {
	Notifications []*Notification `json:"notifications"`
	Total         int             `json:"total"`
	Unread        int             `json:"unread"`
	Page          int             `json:"page"`
	PageSize      int             `json:"page_size"`
}
