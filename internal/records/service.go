package records

import (
	"fmt"
	"sort"
	"time"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/interfaces"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// Service implements the RecordsService interface
type Service struct {
	repository interfaces.RecordsRepository
	logger     *logger.Logger
}

// NewService creates a new records service
func NewService(repo interfaces.RecordsRepository, log *logger.Logger) interfaces.RecordsService {
	return &Service{
		repository: repo,
		logger:     log,
	}
}

// GetPatientProfile returns a patient's demographics and the acting
// doctor's appointment history with them. Visibility is earned by having
// at least one appointment with the patient, not by a static ACL.
func (s *Service) GetPatientProfile(patientID, doctorID string) (*types.PatientProfile, error) {
	if err := s.authorize(patientID, doctorID); err != nil {
		return nil, err
	}

	patient, err := s.repository.GetPatient(patientID)
	if err != nil {
		return nil, err
	}

	appointments, err := s.repository.GetPatientAppointments(doctorID, patientID)
	if err != nil {
		return nil, err
	}

	return &types.PatientProfile{
		Patient:      patient,
		Appointments: appointments,
	}, nil
}

// GetMedicalHistory merges the patient's two record sources: the
// medical_records table and clinical fields written directly on
// appointment rows. Entries sharing an appointment keep only the
// medical_records row. The merged set is sorted newest first by visit
// date, falling back to creation time for dateless entries.
func (s *Service) GetMedicalHistory(patientID, doctorID string) ([]*types.HistoryEntry, error) {
	if err := s.authorize(patientID, doctorID); err != nil {
		return nil, err
	}

	recordEntries, err := s.repository.GetRecordEntries(patientID)
	if err != nil {
		return nil, err
	}

	appointmentEntries, err := s.repository.GetAppointmentEntries(patientID)
	if err != nil {
		return nil, err
	}

	covered := make(map[string]bool, len(recordEntries))
	for _, entry := range recordEntries {
		if entry.AppointmentID != "" {
			covered[entry.AppointmentID] = true
		}
	}

	merged := make([]*types.HistoryEntry, 0, len(recordEntries)+len(appointmentEntries))
	merged = append(merged, recordEntries...)
	for _, entry := range appointmentEntries {
		if covered[entry.AppointmentID] {
			continue
		}
		merged = append(merged, entry)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return entrySortKey(merged[i]).After(entrySortKey(merged[j]))
	})

	return merged, nil
}

// authorize enforces the treatment-based visibility rule. Record access is
// an audited action either way.
func (s *Service) authorize(patientID, doctorID string) error {
	treated, err := s.repository.HasTreated(doctorID, patientID)
	if err != nil {
		return fmt.Errorf("failed to check patient visibility: %w", err)
	}
	if !treated {
		s.logger.Audit(doctorID, "access_patient_records", "patient:"+patientID, false, nil)
		return types.NewAuthorizationError(types.ErrCodeForbidden,
			"no treatment relationship with this patient")
	}
	s.logger.Audit(doctorID, "access_patient_records", "patient:"+patientID, true, nil)
	return nil
}

// entrySortKey orders history by visit date when known, else by creation
// time
func entrySortKey(entry *types.HistoryEntry) time.Time {
	if entry.AppointmentDate != "" {
		if day, err := time.Parse(types.DateLayout, entry.AppointmentDate); err == nil {
			return day
		}
	}
	return entry.CreatedAt
}
