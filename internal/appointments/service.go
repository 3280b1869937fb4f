package appointments

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/interfaces"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// Service implements the AppointmentService interface
type Service struct {
	repository interfaces.AppointmentRepository
	notifier   interfaces.NotificationWriter
	logger     *logger.Logger
}

// NewService creates a new appointment service
func NewService(repo interfaces.AppointmentRepository, notifier interfaces.NotificationWriter, log *logger.Logger) interfaces.AppointmentService {
	return &Service{
		repository: repo,
		notifier:   notifier,
		logger:     log,
	}
}

// Create books a new appointment for the doctor. Conflicting bookings on
// the same (doctor, date, time) slot are rejected while a non-cancelled
// appointment holds it.
func (s *Service) Create(doctorID string, req *types.BookingRequest) (*types.Appointment, error) {
	if err := validateBooking(req); err != nil {
		return nil, err
	}

	exists, err := s.repository.PatientExists(req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify patient: %w", err)
	}
	if !exists {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput,
			"patient does not exist", map[string]interface{}{"patient_id": req.PatientID})
	}

	conflict, err := s.repository.HasActiveAppointment(doctorID, req.Date, req.Time)
	if err != nil {
		return nil, fmt.Errorf("failed to check for conflicts: %w", err)
	}
	if conflict {
		return nil, types.NewConflictError(types.ErrCodeDoubleBooking,
			"an active appointment already exists for this time slot")
	}

	aptType := req.Type
	if aptType == "" {
		aptType = "consultation"
	}

	apt := &types.Appointment{
		ID:        uuid.New().String(),
		PatientID: req.PatientID,
		DoctorID:  doctorID,
		Date:      req.Date,
		Time:      req.Time,
		Type:      aptType,
		Status:    string(types.StatusScheduled),
		Symptoms:  req.Symptoms,
		Notes:     req.Notes,
		CreatedAt: time.Now(),
	}

	if err := s.repository.CreateAppointment(apt); err != nil {
		return nil, err
	}

	// Notify the patient about the new booking. A notification failure
	// does not fail the booking.
	notification := &types.Notification{
		ID:        uuid.New().String(),
		UserID:    apt.PatientID,
		UserType:  types.UserTypePatient,
		Type:      types.NotificationAppointment,
		Title:     "Appointment Scheduled",
		Message:   fmt.Sprintf("Your appointment has been scheduled for %s at %s.", apt.Date, apt.Time),
		RelatedID: apt.ID,
		Status:    types.NotificationUnread,
		CreatedAt: time.Now(),
	}
	if _, err := s.notifier.InsertNotification(notification); err != nil {
		s.logger.Errorf("Failed to send booking notification for appointment %s: %v", apt.ID, err)
	}

	s.logger.WithDoctorID(doctorID).Infof("Successfully created appointment %s", apt.ID)
	return apt, nil
}

// Get retrieves an appointment, enforcing ownership by the acting doctor
func (s *Service) Get(aptID, doctorID string) (*types.Appointment, error) {
	apt, err := s.repository.GetAppointmentByID(aptID)
	if err != nil {
		return nil, err
	}

	if apt.DoctorID != doctorID {
		return nil, types.NewAuthorizationError(types.ErrCodeForbidden,
			"appointment does not belong to the acting doctor")
	}

	return apt, nil
}

// List retrieves the doctor's appointments with optional filters
func (s *Service) List(doctorID string, filters *types.AppointmentFilters) ([]*types.Appointment, error) {
	if filters == nil {
		filters = &types.AppointmentFilters{}
	}
	return s.repository.ListAppointments(doctorID, filters)
}

// Complete records the consultation outcome and transitions the
// appointment to completed. The appointment update and the medical record
// upsert happen in one transaction: a failure of either leaves the
// appointment unchanged.
func (s *Service) Complete(aptID, doctorID string, req *types.CompletionRequest) error {
	if strings.TrimSpace(req.Diagnosis) == "" {
		return types.NewValidationError(types.ErrCodeInvalidInput, "diagnosis is required", nil)
	}
	if req.Rating != 0 && (req.Rating < 1 || req.Rating > 5) {
		return types.NewValidationError(types.ErrCodeInvalidInput,
			"rating must be between 1 and 5", map[string]interface{}{"rating": req.Rating})
	}

	apt, err := s.Get(aptID, doctorID)
	if err != nil {
		return err
	}

	if types.AppointmentStatus(apt.Status).IsTerminal() {
		return types.NewConflictError(types.ErrCodeConflict,
			fmt.Sprintf("appointment is already %s", apt.Status))
	}

	now := time.Now()
	apt.Status = string(types.StatusCompleted)
	apt.CompletedAt = &now
	apt.Diagnosis = req.Diagnosis
	apt.Prescription = req.Prescription
	apt.Notes = req.Notes
	apt.Treatment = req.Treatment
	apt.FollowUpDate = req.FollowUpDate
	apt.Rating = req.Rating

	record := &types.MedicalRecord{
		ID:            uuid.New().String(),
		PatientID:     apt.PatientID,
		DoctorID:      doctorID,
		AppointmentID: apt.ID,
		RecordType:    "consultation",
		Description:   buildRecordDescription(req.Diagnosis, req.Treatment),
		CreatedAt:     now,
	}

	if err := s.repository.CompleteAppointment(apt, record); err != nil {
		return err
	}

	s.logger.WithDoctorID(doctorID).Infof("Successfully completed appointment %s", aptID)
	return nil
}

// Cancel transitions a scheduled appointment to cancelled. Calling it on
// an appointment in a terminal state is a no-op.
func (s *Service) Cancel(aptID, doctorID string) error {
	if _, err := s.Get(aptID, doctorID); err != nil {
		return err
	}

	transitioned, err := s.repository.CancelIfScheduled(aptID, doctorID)
	if err != nil {
		return err
	}
	if !transitioned {
		s.logger.Infof("Cancel was a no-op for appointment %s", aptID)
		return nil
	}

	s.logger.Infof("Successfully cancelled appointment %s", aptID)
	return nil
}

// MarkMissed transitions a scheduled appointment to missed. Idempotent:
// any state other than scheduled is left unchanged.
func (s *Service) MarkMissed(aptID, doctorID string) error {
	if _, err := s.Get(aptID, doctorID); err != nil {
		return err
	}

	transitioned, err := s.repository.MarkMissedIfScheduled(aptID, doctorID)
	if err != nil {
		return err
	}
	if !transitioned {
		s.logger.Infof("Mark-missed was a no-op for appointment %s", aptID)
		return nil
	}

	s.logger.Infof("Marked appointment %s as missed", aptID)
	return nil
}

// UpdateMedicalFields updates the appointment's clinical fields and
// upserts the medical record keyed by the appointment. Allowed both before
// and after completion.
func (s *Service) UpdateMedicalFields(aptID, doctorID string, upd *types.MedicalFieldsUpdate) error {
	apt, err := s.Get(aptID, doctorID)
	if err != nil {
		return err
	}

	// The update carries no treatment field, so the rebuilt record keeps
	// the treatment already on the appointment.
	record := &types.MedicalRecord{
		ID:            uuid.New().String(),
		PatientID:     apt.PatientID,
		DoctorID:      doctorID,
		AppointmentID: apt.ID,
		RecordType:    "consultation",
		Description:   buildRecordDescription(upd.Diagnosis, apt.Treatment),
		CreatedAt:     time.Now(),
	}

	if err := s.repository.UpdateMedicalInfo(apt, upd, record); err != nil {
		return err
	}

	s.logger.Infof("Successfully updated medical fields for appointment %s", aptID)
	return nil
}

// validateBooking checks the required booking fields and formats
func validateBooking(req *types.BookingRequest) error {
	missing := []string{}
	if req.PatientID == "" {
		missing = append(missing, "patient_id")
	}
	if req.Date == "" {
		missing = append(missing, "appointment_date")
	}
	if req.Time == "" {
		missing = append(missing, "appointment_time")
	}
	if len(missing) > 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput,
			"missing required fields", map[string]interface{}{"fields": missing})
	}

	if _, err := time.Parse(types.DateLayout, req.Date); err != nil {
		return types.NewValidationError(types.ErrCodeInvalidInput,
			"invalid appointment date", map[string]interface{}{"appointment_date": req.Date})
	}
	if _, err := time.Parse(types.TimeLayout, req.Time); err != nil {
		return types.NewValidationError(types.ErrCodeInvalidInput,
			"invalid appointment time", map[string]interface{}{"appointment_time": req.Time})
	}

	return nil
}

// buildRecordDescription builds the medical record text blob from the
// consultation outcome
func buildRecordDescription(diagnosis, treatment string) string {
	parts := []string{}
	if diagnosis != "" {
		parts = append(parts, "Diagnosis: "+diagnosis)
	}
	if treatment != "" {
		parts = append(parts, "Treatment: "+treatment)
	}
	return strings.Join(parts, "\n")
}
