package types

import "time"

// Doctor represents a doctor account in the portal
type Doctor struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Specialization string    `json:"specialization" db:"specialization"`
	CityID         string    `json:"city_id" db:"city_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Patient represents a patient linked to appointments
type Patient struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Phone          string    `json:"phone" db:"phone"`
	DateOfBirth    string    `json:"date_of_birth" db:"date_of_birth"`
	Gender         string    `json:"gender" db:"gender"`
	BloodGroup     string    `json:"blood_group" db:"blood_group"`
	Allergies      string    `json:"allergies" db:"allergies"`
	MedicalHistory string    `json:"medical_history" db:"medical_history"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// MedicalRecord is a persisted clinical note tied to a
// patient/doctor/appointment triple. Records are keyed by appointment so
// the completion flow and later edits converge on one row.
type MedicalRecord struct {
	ID            string    `json:"id" db:"id"`
	PatientID     string    `json:"patient_id" db:"patient_id"`
	DoctorID      string    `json:"doctor_id" db:"doctor_id"`
	AppointmentID string    `json:"appointment_id" db:"appointment_id"`
	RecordType    string    `json:"record_type" db:"record_type"`
	Description   string    `json:"description" db:"description"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// HistoryEntry is one row of a patient's merged medical history. Entries
// come from the medical_records table or from clinical fields written
// directly on appointment rows.
type HistoryEntry struct {
	Source          string    `json:"source"`
	AppointmentID   string    `json:"appointment_id"`
	AppointmentDate string    `json:"appointment_date,omitempty"`
	RecordType      string    `json:"record_type"`
	Description     string    `json:"description"`
	Diagnosis       string    `json:"diagnosis,omitempty"`
	Prescription    string    `json:"prescription,omitempty"`
	Treatment       string    `json:"treatment,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// History entry sources
const (
	HistorySourceRecord      = "medical_record"
	HistorySourceAppointment = "appointment"
)

// PatientProfile aggregates a patient's demographics with the acting
// doctor's appointment history for that patient
type PatientProfile struct {
	Patient      *Patient       `json:"patient"`
	Appointments []*Appointment `json:"appointments"`
}
