package interfaces

import (
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// RecordsService defines the interface for the patient records viewer
type RecordsService interface {
	GetPatientProfile(patientID, doctorID string) (*types.PatientProfile, error)
	GetMedicalHistory(patientID, doctorID string) ([]*types.HistoryEntry, error)
}

// RecordsRepository defines the interface for patient record reads
type RecordsRepository interface {
	// HasTreated reports whether the doctor has at least one appointment of
	// any status with the patient. Visibility is earned by treatment.
	HasTreated(doctorID, patientID string) (bool, error)

	GetPatient(patientID string) (*types.Patient, error)
	GetPatientAppointments(doctorID, patientID string) ([]*types.Appointment, error)

	// The two history sources merged by the service
	GetRecordEntries(patientID string) ([]*types.HistoryEntry, error)
	GetAppointmentEntries(patientID string) ([]*types.HistoryEntry, error)
}
