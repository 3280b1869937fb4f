package interfaces

import (
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// AppointmentService defines the interface for the appointment lifecycle
type AppointmentService interface {
	// Booking and queries
	Create(doctorID string, req *types.BookingRequest) (*types.Appointment, error)
	Get(aptID, doctorID string) (*types.Appointment, error)
	List(doctorID string, filters *types.AppointmentFilters) ([]*types.Appointment, error)

	// Lifecycle transitions
	Complete(aptID, doctorID string, req *types.CompletionRequest) error
	Cancel(aptID, doctorID string) error
	MarkMissed(aptID, doctorID string) error

	// Clinical fields, allowed pre- or post-completion
	UpdateMedicalFields(aptID, doctorID string, upd *types.MedicalFieldsUpdate) error
}

// AppointmentRepository defines the interface for appointment persistence
type AppointmentRepository interface {
	PatientExists(patientID string) (bool, error)
	HasActiveAppointment(doctorID, date, timeOfDay string) (bool, error)

	CreateAppointment(apt *types.Appointment) error
	GetAppointmentByID(id string) (*types.Appointment, error)
	ListAppointments(doctorID string, filters *types.AppointmentFilters) ([]*types.Appointment, error)

	// CompleteAppointment updates the appointment row and upserts the
	// medical record in a single transaction.
	CompleteAppointment(apt *types.Appointment, record *types.MedicalRecord) error

	// MarkMissedIfScheduled and CancelIfScheduled return false when the
	// appointment was not in the scheduled state (guarded no-op).
	MarkMissedIfScheduled(id, doctorID string) (bool, error)
	CancelIfScheduled(id, doctorID string) (bool, error)

	// UpdateMedicalInfo updates the appointment's clinical columns and
	// upserts the medical record keyed by appointment id, transactionally.
	UpdateMedicalInfo(apt *types.Appointment, upd *types.MedicalFieldsUpdate, record *types.MedicalRecord) error
}
