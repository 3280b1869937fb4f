package types

import "time"

// AvailabilitySlot represents a recurring availability window a doctor
// publishes for bookings
type AvailabilitySlot struct {
	ID          string    `json:"id" db:"id"`
	DoctorID    string    `json:"doctor_id" db:"doctor_id"`
	Type        string    `json:"availability_type" db:"availability_type"`
	StartDate   string    `json:"start_date" db:"start_date"`
	EndDate     string    `json:"end_date" db:"end_date"`
	StartTime   string    `json:"start_time" db:"start_time"`
	EndTime     string    `json:"end_time" db:"end_time"`
	MaxPatients int       `json:"max_patients" db:"max_patients"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// AvailabilityType represents the recurrence of a slot
type AvailabilityType string

const (
	AvailabilityDaily   AvailabilityType = "daily"
	AvailabilityWeekly  AvailabilityType = "weekly"
	AvailabilityMonthly AvailabilityType = "monthly"
)

// SlotUpdate carries the mutable fields of an availability slot. Type and
// dates are immutable after creation.
type SlotUpdate struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	MaxPatients int    `json:"max_patients"`
	IsActive    bool   `json:"is_active"`
}

// AvailabilityStats is the aggregate panel shown on the availability page.
// The four counts come from independent queries and carry no
// cross-consistency guarantee.
type AvailabilityStats struct {
	ActiveSlots   int `json:"active_slots"`
	DaysCovered   int `json:"days_covered"`
	TotalCapacity int `json:"total_capacity"`
	BookedAhead   int `json:"booked_ahead"`
}
