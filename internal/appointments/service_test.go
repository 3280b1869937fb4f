package appointments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// MockAppointmentRepository is a mock implementation of AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) PatientExists(patientID string) (bool, error) {
	args := m.Called(patientID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAppointmentRepository) HasActiveAppointment(doctorID, date, timeOfDay string) (bool, error) {
	args := m.Called(doctorID, date, timeOfDay)
	return args.Bool(0), args.Error(1)
}

func (m *MockAppointmentRepository) CreateAppointment(apt *types.Appointment) error {
	args := m.Called(apt)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetAppointmentByID(id string) (*types.Appointment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListAppointments(doctorID string, filters *types.AppointmentFilters) ([]*types.Appointment, error) {
	args := m.Called(doctorID, filters)
	return args.Get(0).([]*types.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) CompleteAppointment(apt *types.Appointment, record *types.MedicalRecord) error {
	args := m.Called(apt, record)
	return args.Error(0)
}

func (m *MockAppointmentRepository) MarkMissedIfScheduled(id, doctorID string) (bool, error) {
	args := m.Called(id, doctorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAppointmentRepository) CancelIfScheduled(id, doctorID string) (bool, error) {
	args := m.Called(id, doctorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAppointmentRepository) UpdateMedicalInfo(apt *types.Appointment, upd *types.MedicalFieldsUpdate, record *types.MedicalRecord) error {
	args := m.Called(apt, upd, record)
	return args.Error(0)
}

// MockNotificationWriter is a mock implementation of NotificationWriter
type MockNotificationWriter struct {
	mock.Mock
}

func (m *MockNotificationWriter) InsertNotification(n *types.Notification) (bool, error) {
	args := m.Called(n)
	return args.Bool(0), args.Error(1)
}

func setupTestService() (*Service, *MockAppointmentRepository, *MockNotificationWriter) {
	mockRepo := &MockAppointmentRepository{}
	mockNotifier := &MockNotificationWriter{}

	service := &Service{
		repository: mockRepo,
		notifier:   mockNotifier,
		logger:     logger.New("debug"),
	}

	return service, mockRepo, mockNotifier
}

func validBooking() *types.BookingRequest {
	return &types.BookingRequest{
		PatientID: "patient-123",
		Date:      "2026-09-15",
		Time:      "10:30:00",
		Symptoms:  "headache",
	}
}

func TestService_Create(t *testing.T) {
	service, mockRepo, mockNotifier := setupTestService()
	req := validBooking()

	mockRepo.On("PatientExists", "patient-123").Return(true, nil)
	mockRepo.On("HasActiveAppointment", "doctor-456", req.Date, req.Time).Return(false, nil)
	mockRepo.On("CreateAppointment", mock.AnythingOfType("*types.Appointment")).Return(nil)
	mockNotifier.On("InsertNotification", mock.AnythingOfType("*types.Notification")).Return(true, nil)

	apt, err := service.Create("doctor-456", req)

	assert.NoError(t, err)
	assert.NotEmpty(t, apt.ID)
	assert.Equal(t, "doctor-456", apt.DoctorID)
	assert.Equal(t, string(types.StatusScheduled), apt.Status)
	assert.Equal(t, "consultation", apt.Type)
	mockRepo.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestService_Create_NotifiesPatient(t *testing.T) {
	service, mockRepo, mockNotifier := setupTestService()
	req := validBooking()

	mockRepo.On("PatientExists", "patient-123").Return(true, nil)
	mockRepo.On("HasActiveAppointment", "doctor-456", req.Date, req.Time).Return(false, nil)
	mockRepo.On("CreateAppointment", mock.AnythingOfType("*types.Appointment")).Return(nil)
	mockNotifier.On("InsertNotification", mock.MatchedBy(func(n *types.Notification) bool {
		return n.UserID == "patient-123" &&
			n.UserType == types.UserTypePatient &&
			n.Type == types.NotificationAppointment
	})).Return(true, nil)

	_, err := service.Create("doctor-456", req)

	assert.NoError(t, err)
	mockNotifier.AssertExpectations(t)
}

func TestService_Create_MissingFields(t *testing.T) {
	service, _, _ := setupTestService()

	_, err := service.Create("doctor-456", &types.BookingRequest{PatientID: "patient-123"})

	assert.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeValidation))
}

func TestService_Create_UnknownPatient(t *testing.T) {
	service, mockRepo, _ := setupTestService()
	req := validBooking()

	mockRepo.On("PatientExists", "patient-123").Return(false, nil)

	_, err := service.Create("doctor-456", req)

	assert.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeValidation))
	mockRepo.AssertNotCalled(t, "CreateAppointment", mock.Anything)
}

func TestService_Create_SlotConflict(t *testing.T) {
	service, mockRepo, _ := setupTestService()
	req := validBooking()

	mockRepo.On("PatientExists", "patient-123").Return(true, nil)
	mockRepo.On("HasActiveAppointment", "doctor-456", req.Date, req.Time).Return(true, nil)

	_, err := service.Create("doctor-456", req)

	assert.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeConflict))
	mockRepo.AssertNotCalled(t, "CreateAppointment", mock.Anything)
}

func TestService_Create_NotificationFailureDoesNotFailBooking(t *testing.T) {
	service, mockRepo, mockNotifier := setupTestService()
	req := validBooking()

	mockRepo.On("PatientExists", "patient-123").Return(true, nil)
	mockRepo.On("HasActiveAppointment", "doctor-456", req.Date, req.Time).Return(false, nil)
	mockRepo.On("CreateAppointment", mock.AnythingOfType("*types.Appointment")).Return(nil)
	mockNotifier.On("InsertNotification", mock.Anything).Return(false, assert.AnError)

	apt, err := service.Create("doctor-456", req)

	assert.NoError(t, err)
	assert.NotNil(t, apt)
}

func TestService_Get_WrongDoctor(t *testing.T) {
	service, mockRepo, _ := setupTestService()

	mockRepo.On("GetAppointmentByID", "apt-1").Return(&types.Appointment{
		ID:       "apt-1",
		DoctorID: "someone-else",
	}, nil)

	_, err := service.Get("apt-1", "doctor-456")

	assert.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeAuthorization))
}

func TestService_Complete(t *testing.T) {
	service, mockRepo, _ := setupTestService()

	mockRepo.On("GetAppointmentByID", "apt-1").Return(&types.Appointment{
		ID:        "apt-1",
		PatientID: "patient-123",
		DoctorID:  "doctor-456",
		Status:    string(types.StatusScheduled),
	}, nil)
	mockRepo.On("CompleteAppointment",
		mock.AnythingOfType("*types.Appointment"),
		mock.MatchedBy(func(record *types.MedicalRecord) bool {
			return record.AppointmentID == "apt-1" &&
				record.Description == "Diagnosis: migraine\nTreatment: rest"
		}),
	).Return(nil)

	err := service.Complete("apt-1", "doctor-456", &types.CompletionRequest{
		Diagnosis: "migraine",
		Treatment: "rest",
		Rating:    5,
	})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_Complete_RequiresDiagnosis(t *testing.T) {
	service, _, _ := setupTestService()

	err := service.Complete("apt-1", "doctor-456", &types.CompletionRequest{Diagnosis: "  "})

	assert.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeValidation))
}

func TestService_Complete_InvalidRating(t *testing.T) {
	service, _, _ := setupTestService()

	err := service.Complete("apt-1", "doctor-456", &types.CompletionRequest{
		Diagnosis: "migraine",
		Rating:    6,
	})

	assert.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeValidation))
}

func TestService_Complete_TerminalStateIsRejected(t *testing.T) {
	// A terminal appointment never transitions to completed, no matter
	// which terminal state it is in
	terminal := []types.AppointmentStatus{
		types.StatusCompleted,
		types.StatusCancelled,
		types.StatusMissed,
	}

	for _, status := range terminal {
		t.Run(string(status), func(t *testing.T) {
			service, mockRepo, _ := setupTestService()

			mockRepo.On("GetAppointmentByID", "apt-1").Return(&types.Appointment{
				ID:       "apt-1",
				DoctorID: "doctor-456",
				Status:   string(status),
			}, nil)

			err := service.Complete("apt-1", "doctor-456", &types.CompletionRequest{Diagnosis: "migraine"})

			assert.Error(t, err)
			assert.True(t, types.IsErrorType(err, types.ErrorTypeConflict))
			mockRepo.AssertNotCalled(t, "CompleteAppointment", mock.Anything, mock.Anything)
		})
	}
}

func TestService_MarkMissed(t *testing.T) {
	service, mockRepo, _ := setupTestService()

	mockRepo.On("GetAppointmentByID", "apt-1").Return(&types.Appointment{
		ID:       "apt-1",
		DoctorID: "doctor-456",
		Status:   string(types.StatusScheduled),
	}, nil)
	mockRepo.On("MarkMissedIfScheduled", "apt-1", "doctor-456").Return(true, nil)

	err := service.MarkMissed("apt-1", "doctor-456")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_MarkMissed_TerminalStateIsNoOp(t *testing.T) {
	service, mockRepo, _ := setupTestService()

	// Already cancelled: the guarded transition matches no row and the
	// call succeeds without changing anything
	mockRepo.On("GetAppointmentByID", "apt-1").Return(&types.Appointment{
		ID:       "apt-1",
		DoctorID: "doctor-456",
		Status:   string(types.StatusCancelled),
	}, nil)
	mockRepo.On("MarkMissedIfScheduled", "apt-1", "doctor-456").Return(false, nil)

	err := service.MarkMissed("apt-1", "doctor-456")

	assert.NoError(t, err)
}

func TestService_Cancel_TerminalStateIsNoOp(t *testing.T) {
	service, mockRepo, _ := setupTestService()

	mockRepo.On("GetAppointmentByID", "apt-1").Return(&types.Appointment{
		ID:       "apt-1",
		DoctorID: "doctor-456",
		Status:   string(types.StatusMissed),
	}, nil)
	mockRepo.On("CancelIfScheduled", "apt-1", "doctor-456").Return(false, nil)

	err := service.Cancel("apt-1", "doctor-456")

	assert.NoError(t, err)
}

func TestService_UpdateMedicalFields(t *testing.T) {
	service, mockRepo, _ := setupTestService()

	apt := &types.Appointment{
		ID:        "apt-1",
		PatientID: "patient-123",
		DoctorID:  "doctor-456",
		Status:    string(types.StatusCompleted),
	}
	upd := &types.MedicalFieldsUpdate{Diagnosis: "updated diagnosis"}

	mockRepo.On("GetAppointmentByID", "apt-1").Return(apt, nil)
	mockRepo.On("UpdateMedicalInfo", apt, upd,
		mock.MatchedBy(func(record *types.MedicalRecord) bool {
			return record.AppointmentID == "apt-1" && record.PatientID == "patient-123"
		}),
	).Return(nil)

	err := service.UpdateMedicalFields("apt-1", "doctor-456", upd)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_UpdateMedicalFields_KeepsTreatmentInRecord(t *testing.T) {
	service, mockRepo, _ := setupTestService()

	// Editing the diagnosis after completion must not drop the treatment
	// from the upserted record
	apt := &types.Appointment{
		ID:        "apt-1",
		PatientID: "patient-123",
		DoctorID:  "doctor-456",
		Status:    string(types.StatusCompleted),
		Diagnosis: "migraine",
		Treatment: "rest",
	}
	upd := &types.MedicalFieldsUpdate{Diagnosis: "tension headache"}

	mockRepo.On("GetAppointmentByID", "apt-1").Return(apt, nil)
	mockRepo.On("UpdateMedicalInfo", apt, upd,
		mock.MatchedBy(func(record *types.MedicalRecord) bool {
			return record.Description == "Diagnosis: tension headache\nTreatment: rest"
		}),
	).Return(nil)

	err := service.UpdateMedicalFields("apt-1", "doctor-456", upd)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAppointmentStatus_IsTerminal(t *testing.T) {
	assert.False(t, types.StatusScheduled.IsTerminal())
	assert.True(t, types.StatusCompleted.IsTerminal())
	assert.True(t, types.StatusCancelled.IsTerminal())
	assert.True(t, types.StatusMissed.IsTerminal())
}
