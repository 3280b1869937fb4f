package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// MockRecordsRepository is a mock implementation of RecordsRepository
type MockRecordsRepository struct {
	mock.Mock
}

func (m *MockRecordsRepository) HasTreated(doctorID, patientID string) (bool, error) {
	args := m.Called(doctorID, patientID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordsRepository) GetPatient(patientID string) (*types.Patient, error) {
	args := m.Called(patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Patient), args.Error(1)
}

func (m *MockRecordsRepository) GetPatientAppointments(doctorID, patientID string) ([]*types.Appointment, error) {
	args := m.Called(doctorID, patientID)
	return args.Get(0).([]*types.Appointment), args.Error(1)
}

func (m *MockRecordsRepository) GetRecordEntries(patientID string) ([]*types.HistoryEntry, error) {
	args := m.Called(patientID)
	return args.Get(0).([]*types.HistoryEntry), args.Error(1)
}

func (m *MockRecordsRepository) GetAppointmentEntries(patientID string) ([]*types.HistoryEntry, error) {
	args := m.Called(patientID)
	return args.Get(0).([]*types.HistoryEntry), args.Error(1)
}

func setupTestService() (*Service, *MockRecordsRepository) {
	mockRepo := &MockRecordsRepository{}
	service := &Service{
		repository: mockRepo,
		logger:     logger.New("debug"),
	}
	return service, mockRepo
}

func TestService_GetPatientProfile(t *testing.T) {
	service, mockRepo := setupTestService()

	patient := &types.Patient{ID: "patient-123", Name: "Jane Roe"}
	appointments := []*types.Appointment{{ID: "apt-1", PatientID: "patient-123"}}

	mockRepo.On("HasTreated", "doctor-456", "patient-123").Return(true, nil)
	mockRepo.On("GetPatient", "patient-123").Return(patient, nil)
	mockRepo.On("GetPatientAppointments", "doctor-456", "patient-123").Return(appointments, nil)

	profile, err := service.GetPatientProfile("patient-123", "doctor-456")

	assert.NoError(t, err)
	assert.Equal(t, patient, profile.Patient)
	assert.Len(t, profile.Appointments, 1)
	mockRepo.AssertExpectations(t)
}

func TestService_GetPatientProfile_NoTreatmentRelationship(t *testing.T) {
	service, mockRepo := setupTestService()

	mockRepo.On("HasTreated", "doctor-456", "patient-123").Return(false, nil)

	_, err := service.GetPatientProfile("patient-123", "doctor-456")

	assert.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeAuthorization))
	mockRepo.AssertNotCalled(t, "GetPatient", mock.Anything)
}

func TestService_GetMedicalHistory_MergesAndSorts(t *testing.T) {
	service, mockRepo := setupTestService()

	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	recordEntries := []*types.HistoryEntry{
		{Source: types.HistorySourceRecord, AppointmentID: "apt-1", AppointmentDate: "2026-09-10", CreatedAt: base},
	}
	appointmentEntries := []*types.HistoryEntry{
		// Shares an appointment with a medical_records row: dropped
		{Source: types.HistorySourceAppointment, AppointmentID: "apt-1", AppointmentDate: "2026-09-10", CreatedAt: base},
		// Newer visit: sorts first
		{Source: types.HistorySourceAppointment, AppointmentID: "apt-2", AppointmentDate: "2026-09-20", CreatedAt: base},
		// Older visit: sorts last
		{Source: types.HistorySourceAppointment, AppointmentID: "apt-3", AppointmentDate: "2026-08-15", CreatedAt: base},
	}

	mockRepo.On("HasTreated", "doctor-456", "patient-123").Return(true, nil)
	mockRepo.On("GetRecordEntries", "patient-123").Return(recordEntries, nil)
	mockRepo.On("GetAppointmentEntries", "patient-123").Return(appointmentEntries, nil)

	history, err := service.GetMedicalHistory("patient-123", "doctor-456")

	assert.NoError(t, err)
	assert.Len(t, history, 3)
	assert.Equal(t, "apt-2", history[0].AppointmentID)
	assert.Equal(t, "apt-1", history[1].AppointmentID)
	assert.Equal(t, types.HistorySourceRecord, history[1].Source)
	assert.Equal(t, "apt-3", history[2].AppointmentID)
}

func TestService_GetMedicalHistory_DatelessEntriesSortByCreation(t *testing.T) {
	service, mockRepo := setupTestService()

	recordEntries := []*types.HistoryEntry{
		// No linked appointment: ordering falls back to creation time
		{Source: types.HistorySourceRecord, CreatedAt: time.Date(2026, 9, 25, 9, 0, 0, 0, time.UTC)},
	}
	appointmentEntries := []*types.HistoryEntry{
		{Source: types.HistorySourceAppointment, AppointmentID: "apt-1", AppointmentDate: "2026-09-10",
			CreatedAt: time.Date(2026, 9, 5, 9, 0, 0, 0, time.UTC)},
	}

	mockRepo.On("HasTreated", "doctor-456", "patient-123").Return(true, nil)
	mockRepo.On("GetRecordEntries", "patient-123").Return(recordEntries, nil)
	mockRepo.On("GetAppointmentEntries", "patient-123").Return(appointmentEntries, nil)

	history, err := service.GetMedicalHistory("patient-123", "doctor-456")

	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, types.HistorySourceRecord, history[0].Source)
	assert.Equal(t, "apt-1", history[1].AppointmentID)
}

func TestService_GetMedicalHistory_NoTreatmentRelationship(t *testing.T) {
	service, mockRepo := setupTestService()

	mockRepo.On("HasTreated", "doctor-456", "patient-123").Return(false, nil)

	_, err := service.GetMedicalHistory("patient-123", "doctor-456")

	assert.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeAuthorization))
}
