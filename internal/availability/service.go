package availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/interfaces"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// Service implements the AvailabilityService interface
type Service struct {
	repository interfaces.AvailabilityRepository
	logger     *logger.Logger
}

// NewService creates a new availability service
func NewService(repo interfaces.AvailabilityRepository, log *logger.Logger) interfaces.AvailabilityService {
	return &Service{
		repository: repo,
		logger:     log,
	}
}

// AddSlot publishes a new availability window. The end date is derived
// from the recurrence type when omitted: daily windows always end on the
// start date, weekly windows span seven days, monthly windows span one
// calendar month. Overlapping windows are permitted.
func (s *Service) AddSlot(doctorID string, slot *types.AvailabilitySlot) (*types.AvailabilitySlot, error) {
	if err := validateSlot(slot); err != nil {
		return nil, err
	}

	endDate, err := deriveEndDate(types.AvailabilityType(slot.Type), slot.StartDate, slot.EndDate)
	if err != nil {
		return nil, err
	}

	slot.ID = uuid.New().String()
	slot.DoctorID = doctorID
	slot.EndDate = endDate
	slot.CreatedAt = time.Now()

	if err := s.repository.CreateSlot(slot); err != nil {
		return nil, err
	}

	s.logger.Infof("Successfully added availability slot %s", slot.ID)
	return slot, nil
}

// UpdateSlot updates the mutable fields of a slot the doctor owns.
// Recurrence type and dates are immutable after creation.
func (s *Service) UpdateSlot(slotID, doctorID string, upd *types.SlotUpdate) error {
	if err := validateTimeWindow(upd.StartTime, upd.EndTime); err != nil {
		return err
	}
	if upd.MaxPatients <= 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput,
			"max_patients must be positive", map[string]interface{}{"max_patients": upd.MaxPatients})
	}

	updated, err := s.repository.UpdateSlot(slotID, doctorID, upd)
	if err != nil {
		return err
	}
	if !updated {
		return types.NewNotFoundError(types.ErrCodeNotFound,
			fmt.Sprintf("availability slot not found: %s", slotID))
	}

	s.logger.Infof("Successfully updated availability slot %s", slotID)
	return nil
}

// DeleteSlot removes a slot the doctor owns
func (s *Service) DeleteSlot(slotID, doctorID string) error {
	deleted, err := s.repository.DeleteSlot(slotID, doctorID)
	if err != nil {
		return err
	}
	if !deleted {
		return types.NewNotFoundError(types.ErrCodeNotFound,
			fmt.Sprintf("availability slot not found: %s", slotID))
	}

	s.logger.Infof("Successfully deleted availability slot %s", slotID)
	return nil
}

// ListSlots retrieves the doctor's availability slots
func (s *Service) ListSlots(doctorID string) ([]*types.AvailabilitySlot, error) {
	return s.repository.ListSlots(doctorID)
}

// ComputeStats assembles the availability stat panel from four independent
// aggregate queries. The counts carry no cross-consistency guarantee.
func (s *Service) ComputeStats(doctorID string) (*types.AvailabilityStats, error) {
	activeSlots, err := s.repository.CountActiveSlots(doctorID)
	if err != nil {
		return nil, err
	}

	daysCovered, err := s.repository.CountDistinctDays(doctorID)
	if err != nil {
		return nil, err
	}

	totalCapacity, err := s.repository.SumCapacity(doctorID)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format(types.DateLayout)
	bookedAhead, err := s.repository.CountBookedFrom(doctorID, today)
	if err != nil {
		return nil, err
	}

	return &types.AvailabilityStats{
		ActiveSlots:   activeSlots,
		DaysCovered:   daysCovered,
		TotalCapacity: totalCapacity,
		BookedAhead:   bookedAhead,
	}, nil
}

// deriveEndDate resolves the slot's end date from its recurrence type.
// Daily slots always end on the start date regardless of any provided end
// date; weekly and monthly slots derive their span only when the end date
// is omitted.
func deriveEndDate(slotType types.AvailabilityType, startDate, endDate string) (string, error) {
	start, err := time.Parse(types.DateLayout, startDate)
	if err != nil {
		return "", types.NewValidationError(types.ErrCodeInvalidInput,
			"invalid start date", map[string]interface{}{"start_date": startDate})
	}

	switch slotType {
	case types.AvailabilityDaily:
		return startDate, nil
	case types.AvailabilityWeekly:
		if endDate == "" {
			return start.AddDate(0, 0, 6).Format(types.DateLayout), nil
		}
	case types.AvailabilityMonthly:
		if endDate == "" {
			return start.AddDate(0, 1, 0).AddDate(0, 0, -1).Format(types.DateLayout), nil
		}
	default:
		return "", types.NewValidationError(types.ErrCodeInvalidInput,
			"invalid availability type", map[string]interface{}{"availability_type": string(slotType)})
	}

	end, err := time.Parse(types.DateLayout, endDate)
	if err != nil {
		return "", types.NewValidationError(types.ErrCodeInvalidInput,
			"invalid end date", map[string]interface{}{"end_date": endDate})
	}
	if end.Before(start) {
		return "", types.NewValidationError(types.ErrCodeInvalidInput,
			"end date precedes start date", nil)
	}

	return endDate, nil
}

// validateSlot checks the required slot fields and formats
func validateSlot(slot *types.AvailabilitySlot) error {
	missing := []string{}
	if slot.Type == "" {
		missing = append(missing, "availability_type")
	}
	if slot.StartDate == "" {
		missing = append(missing, "start_date")
	}
	if slot.StartTime == "" {
		missing = append(missing, "start_time")
	}
	if slot.EndTime == "" {
		missing = append(missing, "end_time")
	}
	if len(missing) > 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput,
			"missing required fields", map[string]interface{}{"fields": missing})
	}

	if err := validateTimeWindow(slot.StartTime, slot.EndTime); err != nil {
		return err
	}
	if slot.MaxPatients <= 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput,
			"max_patients must be positive", map[string]interface{}{"max_patients": slot.MaxPatients})
	}

	return nil
}

// validateTimeWindow checks that both times parse and the window is
// non-empty
func validateTimeWindow(startTime, endTime string) error {
	start, err := time.Parse(types.TimeLayout, startTime)
	if err != nil {
		return types.NewValidationError(types.ErrCodeInvalidInput,
			"invalid start time", map[string]interface{}{"start_time": startTime})
	}
	end, err := time.Parse(types.TimeLayout, endTime)
	if err != nil {
		return types.NewValidationError(types.ErrCodeInvalidInput,
			"invalid end time", map[string]interface{}{"end_time": endTime})
	}
	if !end.After(start) {
		return types.NewValidationError(types.ErrCodeInvalidInput,
			"end time must be after start time", nil)
	}
	return nil
}
