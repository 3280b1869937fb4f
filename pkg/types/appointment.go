package types

import "time"

// Layouts for the portal's wire/date formats. Dates are stored as
// YYYY-MM-DD and times of day as HH:MM:SS.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Appointment represents a booked visit between a patient and a doctor
type Appointment struct {
	ID           string     `json:"id" db:"id"`
	PatientID    string     `json:"patient_id" db:"patient_id"`
	DoctorID     string     `json:"doctor_id" db:"doctor_id"`
	Date         string     `json:"appointment_date" db:"appointment_date"`
	Time         string     `json:"appointment_time" db:"appointment_time"`
	Type         string     `json:"appointment_type" db:"appointment_type"`
	Status       string     `json:"status" db:"status"`
	Symptoms     string     `json:"symptoms" db:"symptoms"`
	Notes        string     `json:"notes" db:"notes"`
	Diagnosis    string     `json:"diagnosis" db:"diagnosis"`
	Prescription string     `json:"prescription" db:"prescription"`
	Treatment    string     `json:"treatment" db:"treatment"`
	FollowUpDate string     `json:"follow_up_date,omitempty" db:"follow_up_date"`
	Rating       int        `json:"rating" db:"rating"`
	Review       string     `json:"review" db:"review"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// AppointmentStatus represents appointment status values
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusMissed    AppointmentStatus = "missed"
)

// IsTerminal reports whether the status admits no further transitions
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusMissed
}

// BookingRequest carries the fields of a new appointment booking
type BookingRequest struct {
	PatientID string `json:"patient_id"`
	Date      string `json:"appointment_date"`
	Time      string `json:"appointment_time"`
	Symptoms  string `json:"symptoms,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Type      string `json:"appointment_type,omitempty"`
}

// CompletionRequest carries the consultation outcome recorded when a
// doctor completes an appointment
type CompletionRequest struct {
	Diagnosis    string `json:"diagnosis"`
	Prescription string `json:"prescription,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Treatment    string `json:"treatment,omitempty"`
	FollowUpDate string `json:"follow_up_date,omitempty"`
	Rating       int    `json:"rating,omitempty"`
}

// MedicalFieldsUpdate carries the mutable clinical fields of an appointment
type MedicalFieldsUpdate struct {
	Diagnosis    string `json:"diagnosis"`
	Prescription string `json:"prescription"`
	Notes        string `json:"notes"`
}

// AppointmentFilters represents filters for appointment list queries
type AppointmentFilters struct {
	Status   AppointmentStatus `json:"status,omitempty"`
	FromDate string            `json:"from_date,omitempty"`
	ToDate   string            `json:"to_date,omitempty"`
	Limit    int               `json:"limit,omitempty"`
	Offset   int               `json:"offset,omitempty"`
}
