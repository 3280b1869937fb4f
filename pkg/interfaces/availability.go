package interfaces

import (
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// AvailabilityService defines the interface for recurring availability windows
type AvailabilityService interface {
	AddSlot(doctorID string, slot *types.AvailabilitySlot) (*types.AvailabilitySlot, error)
	UpdateSlot(slotID, doctorID string, upd *types.SlotUpdate) error
	DeleteSlot(slotID, doctorID string) error
	ListSlots(doctorID string) ([]*types.AvailabilitySlot, error)
	ComputeStats(doctorID string) (*types.AvailabilityStats, error)
}

// AvailabilityRepository defines the interface for availability persistence
type AvailabilityRepository interface {
	CreateSlot(slot *types.AvailabilitySlot) error
	ListSlots(doctorID string) ([]*types.AvailabilitySlot, error)

	// UpdateSlot and DeleteSlot return false when no slot matched both the
	// slot id and the owning doctor.
	UpdateSlot(slotID, doctorID string, upd *types.SlotUpdate) (bool, error)
	DeleteSlot(slotID, doctorID string) (bool, error)

	// Independent aggregate queries backing the stats panel
	CountActiveSlots(doctorID string) (int, error)
	CountDistinctDays(doctorID string) (int, error)
	SumCapacity(doctorID string) (int, error)
	CountBookedFrom(doctorID, fromDate string) (int, error)
}
