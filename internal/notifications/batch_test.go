package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/config"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/monitoring"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) InsertNotification(n *types.Notification) (bool, error) {
	args := m.Called(n)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) ListNotifications(userID, userType string, filters *types.NotificationFilters) (*types.NotificationPage, error) {
	args := m.Called(userID, userType, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.NotificationPage), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(id, userID, userType string) (bool, error) {
	args := m.Called(id, userID, userType)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(userID, userType string) (int64, error) {
	args := m.Called(userID, userType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) DeleteNotification(id, userID, userType string) (bool, error) {
	args := m.Called(id, userID, userType)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) ClearRead(userID, userType string) (int64, error) {
	args := m.Called(userID, userType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) OverdueScheduledAppointments(day, cutoffTime string) ([]*types.OverdueAppointment, error) {
	args := m.Called(day, cutoffTime)
	return args.Get(0).([]*types.OverdueAppointment), args.Error(1)
}

func (m *MockNotificationRepository) DoctorsWithAppointmentsOn(day string) ([]string, error) {
	args := m.Called(day)
	return args.Get(0).([]string), args.Error(1)
}

// fakeLocker simulates the advisory run-lock
type fakeLocker struct {
	held     bool
	acquired int
	released int
}

func (l *fakeLocker) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	if l.held {
		return false, nil
	}
	l.held = true
	l.acquired++
	return true, nil
}

func (l *fakeLocker) AdvisoryUnlock(ctx context.Context, key int64) error {
	l.held = false
	l.released++
	return nil
}

func setupTestGenerator(at time.Time) (*Generator, *MockNotificationRepository, *fakeLocker) {
	mockRepo := &MockNotificationRepository{}
	locker := &fakeLocker{}

	generator := NewGenerator(mockRepo, locker, &config.NotifierConfig{
		IntervalMinutes: 15,
		ReminderHour:    8,
		WindowMinutes:   15,
		LockKey:         74011,
	}, monitoring.NewMetricsCollector("notifier-test"), logger.New("debug"))
	generator.now = func() time.Time { return at }

	return generator, mockRepo, locker
}

func TestGenerator_MissedAlerts(t *testing.T) {
	// 14:00, outside the reminder window: only alerts run
	at := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)
	generator, mockRepo, _ := setupTestGenerator(at)

	mockRepo.On("OverdueScheduledAppointments", "2026-09-15", "14:00:00").
		Return([]*types.OverdueAppointment{
			{AppointmentID: "apt-1", DoctorID: "doctor-456", PatientName: "Jane Roe", Date: "2026-09-15", Time: "10:30:00"},
		}, nil)
	mockRepo.On("InsertNotification", mock.MatchedBy(func(n *types.Notification) bool {
		return n.UserID == "doctor-456" &&
			n.Type == types.NotificationAlert &&
			n.RelatedID == "apt-1" &&
			n.DedupKey == "alert:apt-1:2026-09-15"
	})).Return(true, nil)

	err := generator.Run(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "DoctorsWithAppointmentsOn", mock.Anything)
}

func TestGenerator_MissedAlerts_DuplicateSuppressed(t *testing.T) {
	at := time.Date(2026, 9, 15, 14, 15, 0, 0, time.UTC)
	generator, mockRepo, _ := setupTestGenerator(at)

	// A later run selects the same overdue appointment; the dedup index
	// swallows the insert and the run still succeeds
	mockRepo.On("OverdueScheduledAppointments", "2026-09-15", "14:15:00").
		Return([]*types.OverdueAppointment{
			{AppointmentID: "apt-1", DoctorID: "doctor-456", PatientName: "Jane Roe", Date: "2026-09-15", Time: "10:30:00"},
		}, nil)
	mockRepo.On("InsertNotification", mock.Anything).Return(false, nil)

	err := generator.Run(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestGenerator_DailyReminders_InsideWindow(t *testing.T) {
	at := time.Date(2026, 9, 15, 8, 5, 0, 0, time.UTC)
	generator, mockRepo, _ := setupTestGenerator(at)

	mockRepo.On("OverdueScheduledAppointments", "2026-09-15", "08:05:00").
		Return([]*types.OverdueAppointment{}, nil)
	mockRepo.On("DoctorsWithAppointmentsOn", "2026-09-15").
		Return([]string{"doctor-456", "doctor-789"}, nil)
	mockRepo.On("InsertNotification", mock.MatchedBy(func(n *types.Notification) bool {
		return n.Type == types.NotificationReminder &&
			n.UserType == types.UserTypeDoctor &&
			n.DedupKey == "reminder::2026-09-15"
	})).Return(true, nil).Twice()

	err := generator.Run(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestGenerator_DailyReminders_OutsideWindow(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
	}{
		{"before window", time.Date(2026, 9, 15, 7, 59, 0, 0, time.UTC)},
		{"at window end", time.Date(2026, 9, 15, 8, 15, 0, 0, time.UTC)},
		{"afternoon", time.Date(2026, 9, 15, 16, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator, mockRepo, _ := setupTestGenerator(tt.at)

			mockRepo.On("OverdueScheduledAppointments", mock.Anything, mock.Anything).
				Return([]*types.OverdueAppointment{}, nil)

			err := generator.Run(context.Background())

			assert.NoError(t, err)
			mockRepo.AssertNotCalled(t, "DoctorsWithAppointmentsOn", mock.Anything)
		})
	}
}

func TestGenerator_WindowBoundaries(t *testing.T) {
	generator, _, _ := setupTestGenerator(time.Time{})

	assert.True(t, generator.inReminderWindow(time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC)))
	assert.True(t, generator.inReminderWindow(time.Date(2026, 9, 15, 8, 14, 59, 0, time.UTC)))
	assert.False(t, generator.inReminderWindow(time.Date(2026, 9, 15, 8, 15, 0, 0, time.UTC)))
	assert.False(t, generator.inReminderWindow(time.Date(2026, 9, 15, 7, 59, 59, 0, time.UTC)))
}

func TestGenerator_SkipsWhenLockHeld(t *testing.T) {
	at := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)
	generator, mockRepo, locker := setupTestGenerator(at)
	locker.held = true

	err := generator.Run(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "OverdueScheduledAppointments", mock.Anything, mock.Anything)
}

func TestGenerator_ReleasesLock(t *testing.T) {
	at := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)
	generator, mockRepo, locker := setupTestGenerator(at)

	mockRepo.On("OverdueScheduledAppointments", mock.Anything, mock.Anything).
		Return([]*types.OverdueAppointment{}, nil)

	err := generator.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, locker.acquired)
	assert.Equal(t, 1, locker.released)
	assert.False(t, locker.held)
}

func TestGenerator_ReleasesLockOnError(t *testing.T) {
	at := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)
	generator, mockRepo, locker := setupTestGenerator(at)

	mockRepo.On("OverdueScheduledAppointments", mock.Anything, mock.Anything).
		Return([]*types.OverdueAppointment{}, assert.AnError)

	err := generator.Run(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 1, locker.released)
	assert.False(t, locker.held)
}
