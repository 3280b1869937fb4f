package availability

import (
	"fmt"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/database"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/interfaces"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// Repository implements the AvailabilityRepository interface
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new availability repository
func NewRepository(db *database.DB, log *logger.Logger) interfaces.AvailabilityRepository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

// CreateSlot inserts a new availability slot
func (r *Repository) CreateSlot(slot *types.AvailabilitySlot) error {
	query := `
		INSERT INTO doctor_availability (
			id, doctor_id, availability_type, start_date, end_date,
			start_time, end_time, max_patients, is_active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		slot.ID,
		slot.DoctorID,
		slot.Type,
		slot.StartDate,
		slot.EndDate,
		slot.StartTime,
		slot.EndTime,
		slot.MaxPatients,
		slot.IsActive,
		slot.CreatedAt,
	)
	if err != nil {
		r.logger.Errorf("Failed to create availability slot: %v", err)
		return fmt.Errorf("failed to create availability slot: %w", err)
	}

	r.logger.Infof("Created availability slot %s for doctor %s", slot.ID, slot.DoctorID)
	return nil
}

// ListSlots retrieves all availability slots for a doctor, newest first
func (r *Repository) ListSlots(doctorID string) ([]*types.AvailabilitySlot, error) {
	query := `
		SELECT id, doctor_id, availability_type,
		       to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
		       to_char(start_time, 'HH24:MI:SS'), to_char(end_time, 'HH24:MI:SS'),
		       max_patients, is_active, created_at
		FROM doctor_availability
		WHERE doctor_id = $1
		ORDER BY start_date DESC, start_time ASC`

	rows, err := r.db.Query(query, doctorID)
	if err != nil {
		r.logger.Errorf("Failed to list availability slots: %v", err)
		return nil, fmt.Errorf("failed to list availability slots: %w", err)
	}
	defer rows.Close()

	var slots []*types.AvailabilitySlot
	for rows.Next() {
		slot := &types.AvailabilitySlot{}
		err := rows.Scan(
			&slot.ID,
			&slot.DoctorID,
			&slot.Type,
			&slot.StartDate,
			&slot.EndDate,
			&slot.StartTime,
			&slot.EndTime,
			&slot.MaxPatients,
			&slot.IsActive,
			&slot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan availability slot: %w", err)
		}
		slots = append(slots, slot)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating availability slots: %w", err)
	}

	return slots, nil
}

// UpdateSlot updates the mutable slot fields. Returns false when no slot
// matched both the slot id and the owning doctor.
func (r *Repository) UpdateSlot(slotID, doctorID string, upd *types.SlotUpdate) (bool, error) {
	query := `
		UPDATE doctor_availability
		SET start_time = $1, end_time = $2, max_patients = $3, is_active = $4
		WHERE id = $5 AND doctor_id = $6`

	result, err := r.db.Exec(query, upd.StartTime, upd.EndTime, upd.MaxPatients, upd.IsActive, slotID, doctorID)
	if err != nil {
		r.logger.Errorf("Failed to update availability slot %s: %v", slotID, err)
		return false, fmt.Errorf("failed to update availability slot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// DeleteSlot hard-deletes a slot. Returns false when no slot matched both
// the slot id and the owning doctor.
func (r *Repository) DeleteSlot(slotID, doctorID string) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM doctor_availability WHERE id = $1 AND doctor_id = $2`, slotID, doctorID)
	if err != nil {
		r.logger.Errorf("Failed to delete availability slot %s: %v", slotID, err)
		return false, fmt.Errorf("failed to delete availability slot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// CountActiveSlots counts the doctor's active availability slots
func (r *Repository) CountActiveSlots(doctorID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM doctor_availability WHERE doctor_id = $1 AND is_active = true`,
		doctorID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active slots: %w", err)
	}
	return count, nil
}

// CountDistinctDays counts the distinct calendar days covered by the
// doctor's active slots
func (r *Repository) CountDistinctDays(doctorID string) (int, error) {
	query := `
		SELECT COUNT(DISTINCT day)
		FROM doctor_availability,
		     generate_series(start_date, end_date, interval '1 day') AS day
		WHERE doctor_id = $1 AND is_active = true`

	var count int
	if err := r.db.QueryRow(query, doctorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count covered days: %w", err)
	}
	return count, nil
}

// SumCapacity sums max_patients across the doctor's active slots
func (r *Repository) SumCapacity(doctorID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(max_patients), 0)
		FROM doctor_availability
		WHERE doctor_id = $1 AND is_active = true`

	var total int
	if err := r.db.QueryRow(query, doctorID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum slot capacity: %w", err)
	}
	return total, nil
}

// CountBookedFrom counts scheduled and completed appointments on or after
// the given date
func (r *Repository) CountBookedFrom(doctorID, fromDate string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM appointments
		WHERE doctor_id = $1
		  AND appointment_date >= $2
		  AND status IN ('scheduled', 'completed')`

	var count int
	if err := r.db.QueryRow(query, doctorID, fromDate).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count booked appointments: %w", err)
	}
	return count, nil
}
