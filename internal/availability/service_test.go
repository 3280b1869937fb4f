package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// MockAvailabilityRepository is a mock implementation of AvailabilityRepository
type MockAvailabilityRepository struct {
	mock.Mock
}

func (m *MockAvailabilityRepository) CreateSlot(slot *types.AvailabilitySlot) error {
	args := m.Called(slot)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) ListSlots(doctorID string) ([]*types.AvailabilitySlot, error) {
	args := m.Called(doctorID)
	return args.Get(0).([]*types.AvailabilitySlot), args.Error(1)
}

func (m *MockAvailabilityRepository) UpdateSlot(slotID, doctorID string, upd *types.SlotUpdate) (bool, error) {
	args := m.Called(slotID, doctorID, upd)
	return args.Bool(0), args.Error(1)
}

func (m *MockAvailabilityRepository) DeleteSlot(slotID, doctorID string) (bool, error) {
	args := m.Called(slotID, doctorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAvailabilityRepository) CountActiveSlots(doctorID string) (int, error) {
	args := m.Called(doctorID)
	return args.Int(0), args.Error(1)
}

func (m *MockAvailabilityRepository) CountDistinctDays(doctorID string) (int, error) {
	args := m.Called(doctorID)
	return args.Int(0), args.Error(1)
}

func (m *MockAvailabilityRepository) SumCapacity(doctorID string) (int, error) {
	args := m.Called(doctorID)
	return args.Int(0), args.Error(1)
}

func (m *MockAvailabilityRepository) CountBookedFrom(doctorID, fromDate string) (int, error) {
	args := m.Called(doctorID, fromDate)
	return args.Int(0), args.Error(1)
}

func setupTestService() (*Service, *MockAvailabilityRepository) {
	mockRepo := &MockAvailabilityRepository{}
	service := &Service{
		repository: mockRepo,
		logger:     logger.New("debug"),
	}
	return service, mockRepo
}

func testSlot(slotType string) *types.AvailabilitySlot {
	return &types.AvailabilitySlot{
		Type:        slotType,
		StartDate:   "2026-09-15",
		StartTime:   "09:00:00",
		EndTime:     "17:00:00",
		MaxPatients: 10,
		IsActive:    true,
	}
}

func TestDeriveEndDate(t *testing.T) {
	tests := []struct {
		name     string
		slotType types.AvailabilityType
		endDate  string
		expected string
	}{
		{"daily ends on start date", types.AvailabilityDaily, "", "2026-09-15"},
		{"daily ignores provided end date", types.AvailabilityDaily, "2026-09-30", "2026-09-15"},
		{"weekly spans seven days", types.AvailabilityWeekly, "", "2026-09-21"},
		{"monthly spans one calendar month", types.AvailabilityMonthly, "", "2026-10-14"},
		{"weekly keeps explicit end date", types.AvailabilityWeekly, "2026-09-18", "2026-09-18"},
		{"monthly keeps explicit end date", types.AvailabilityMonthly, "2026-09-25", "2026-09-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endDate, err := deriveEndDate(tt.slotType, "2026-09-15", tt.endDate)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, endDate)
		})
	}
}

func TestDeriveEndDate_MonthlyEndOfJanuary(t *testing.T) {
	// AddDate normalization: Jan 31 + 1 month - 1 day lands on Mar 2
	// rather than an invalid Feb 31, then back one day
	endDate, err := deriveEndDate(types.AvailabilityMonthly, "2026-01-31", "")
	assert.NoError(t, err)
	assert.Equal(t, "2026-03-02", endDate)
}

func TestDeriveEndDate_InvalidType(t *testing.T) {
	_, err := deriveEndDate("biweekly", "2026-09-15", "")
	assert.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeValidation))
}

func TestDeriveEndDate_EndBeforeStart(t *testing.T) {
	_, err := deriveEndDate(types.AvailabilityWeekly, "2026-09-15", "2026-09-10")
	assert.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeValidation))
}

func TestService_AddSlot(t *testing.T) {
	service, mockRepo := setupTestService()
	slot := testSlot("weekly")

	mockRepo.On("CreateSlot", mock.MatchedBy(func(s *types.AvailabilitySlot) bool {
		return s.DoctorID == "doctor-456" && s.EndDate == "2026-09-21" && s.ID != ""
	})).Return(nil)

	created, err := service.AddSlot("doctor-456", slot)

	assert.NoError(t, err)
	assert.Equal(t, "2026-09-21", created.EndDate)
	mockRepo.AssertExpectations(t)
}

func TestService_AddSlot_InvalidTimeWindow(t *testing.T) {
	service, _ := setupTestService()
	slot := testSlot("daily")
	slot.StartTime = "17:00:00"
	slot.EndTime = "09:00:00"

	_, err := service.AddSlot("doctor-456", slot)

	assert.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeValidation))
}

func TestService_AddSlot_MissingFields(t *testing.T) {
	service, _ := setupTestService()

	_, err := service.AddSlot("doctor-456", &types.AvailabilitySlot{Type: "daily"})

	assert.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeValidation))
}

func TestService_UpdateSlot_NotOwned(t *testing.T) {
	service, mockRepo := setupTestService()
	upd := &types.SlotUpdate{
		StartTime:   "09:00:00",
		EndTime:     "12:00:00",
		MaxPatients: 5,
		IsActive:    true,
	}

	// Another doctor's slot: the ownership-scoped update matches nothing
	mockRepo.On("UpdateSlot", "slot-1", "doctor-456", upd).Return(false, nil)

	err := service.UpdateSlot("slot-1", "doctor-456", upd)

	assert.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeNotFound))
}

func TestService_DeleteSlot_NotOwned(t *testing.T) {
	service, mockRepo := setupTestService()

	mockRepo.On("DeleteSlot", "slot-1", "doctor-456").Return(false, nil)

	err := service.DeleteSlot("slot-1", "doctor-456")

	assert.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeNotFound))
}

func TestService_ComputeStats(t *testing.T) {
	service, mockRepo := setupTestService()

	mockRepo.On("CountActiveSlots", "doctor-456").Return(3, nil)
	mockRepo.On("CountDistinctDays", "doctor-456").Return(12, nil)
	mockRepo.On("SumCapacity", "doctor-456").Return(30, nil)
	mockRepo.On("CountBookedFrom", "doctor-456", mock.AnythingOfType("string")).Return(7, nil)

	stats, err := service.ComputeStats("doctor-456")

	assert.NoError(t, err)
	assert.Equal(t, 3, stats.ActiveSlots)
	assert.Equal(t, 12, stats.DaysCovered)
	assert.Equal(t, 30, stats.TotalCapacity)
	assert.Equal(t, 7, stats.BookedAhead)
	mockRepo.AssertExpectations(t)
}
