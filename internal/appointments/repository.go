package appointments

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/database"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/interfaces"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// Repository implements the AppointmentRepository interface
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new appointment repository
func NewRepository(db *database.DB, log *logger.Logger) interfaces.AppointmentRepository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

const appointmentColumns = `
	id, patient_id, doctor_id,
	to_char(appointment_date, 'YYYY-MM-DD'), to_char(appointment_time, 'HH24:MI:SS'),
	appointment_type, status,
	COALESCE(symptoms, ''), COALESCE(notes, ''), COALESCE(diagnosis, ''),
	COALESCE(prescription, ''), COALESCE(treatment, ''),
	COALESCE(to_char(follow_up_date, 'YYYY-MM-DD'), ''),
	COALESCE(rating, 0), COALESCE(review, ''),
	created_at, completed_at`

func scanAppointment(row interface{ Scan(...interface{}) error }) (*types.Appointment, error) {
	apt := &types.Appointment{}
	err := row.Scan(
		&apt.ID,
		&apt.PatientID,
		&apt.DoctorID,
		&apt.Date,
		&apt.Time,
		&apt.Type,
		&apt.Status,
		&apt.Symptoms,
		&apt.Notes,
		&apt.Diagnosis,
		&apt.Prescription,
		&apt.Treatment,
		&apt.FollowUpDate,
		&apt.Rating,
		&apt.Review,
		&apt.CreatedAt,
		&apt.CompletedAt,
	)
	return apt, err
}

// PatientExists reports whether a patient row exists
func (r *Repository) PatientExists(patientID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM patients WHERE id = $1)`, patientID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check patient existence: %w", err)
	}
	return exists, nil
}

// HasActiveAppointment reports whether a non-cancelled appointment already
// occupies the doctor's (date, time) slot
func (r *Repository) HasActiveAppointment(doctorID, date, timeOfDay string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			  AND appointment_date = $2
			  AND appointment_time = $3
			  AND status <> 'cancelled'
		)`

	var exists bool
	if err := r.db.QueryRow(query, doctorID, date, timeOfDay).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check booking conflict: %w", err)
	}
	return exists, nil
}

// CreateAppointment inserts a new appointment. The partial unique index on
// (doctor_id, appointment_date, appointment_time) backs the conflict check:
// a concurrent booking that slips past HasActiveAppointment surfaces here
// as a unique violation.
func (r *Repository) CreateAppointment(apt *types.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, appointment_date, appointment_time,
			appointment_type, status, symptoms, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		apt.ID,
		apt.PatientID,
		apt.DoctorID,
		apt.Date,
		apt.Time,
		apt.Type,
		apt.Status,
		apt.Symptoms,
		apt.Notes,
		apt.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return types.NewConflictError(types.ErrCodeDoubleBooking,
				"an active appointment already exists for this time slot")
		}
		r.logger.Errorf("Failed to create appointment: %v", err)
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	r.logger.Infof("Created appointment %s for patient %s with doctor %s", apt.ID, apt.PatientID, apt.DoctorID)
	return nil
}

// GetAppointmentByID retrieves an appointment by ID
func (r *Repository) GetAppointmentByID(id string) (*types.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	apt, err := scanAppointment(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.ErrCodeNotFound,
				fmt.Sprintf("appointment not found: %s", id))
		}
		r.logger.Errorf("Failed to get appointment %s: %v", id, err)
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	return apt, nil
}

// ListAppointments retrieves a doctor's appointments with optional filters
func (r *Repository) ListAppointments(doctorID string, filters *types.AppointmentFilters) ([]*types.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE doctor_id = $1`
	args := []interface{}{doctorID}
	argIndex := 2

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, string(filters.Status))
		argIndex++
	}

	if filters.FromDate != "" {
		query += fmt.Sprintf(" AND appointment_date >= $%d", argIndex)
		args = append(args, filters.FromDate)
		argIndex++
	}

	if filters.ToDate != "" {
		query += fmt.Sprintf(" AND appointment_date <= $%d", argIndex)
		args = append(args, filters.ToDate)
		argIndex++
	}

	query += " ORDER BY appointment_date DESC, appointment_time DESC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filters.Limit)
		argIndex++
	}

	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Errorf("Failed to list appointments: %v", err)
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*types.Appointment
	for rows.Next() {
		apt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, apt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointments: %w", err)
	}

	return appointments, nil
}

// CompleteAppointment updates the appointment row and upserts its medical
// record in one transaction. Either both writes land or neither does. Only
// a scheduled appointment matches the guarded update; completed, cancelled
// and missed are terminal.
func (r *Repository) CompleteAppointment(apt *types.Appointment, record *types.MedicalRecord) error {
	ctx := context.Background()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	updateQuery := `
		UPDATE appointments
		SET status = 'completed', completed_at = $1,
		    diagnosis = $2, prescription = $3, notes = $4, treatment = $5,
		    follow_up_date = NULLIF($6, '')::date, rating = $7
		WHERE id = $8 AND doctor_id = $9 AND status = 'scheduled'`

	result, err := tx.Exec(updateQuery,
		apt.CompletedAt,
		apt.Diagnosis,
		apt.Prescription,
		apt.Notes,
		apt.Treatment,
		apt.FollowUpDate,
		apt.Rating,
		apt.ID,
		apt.DoctorID,
	)
	if err != nil {
		tx.Rollback()
		return types.NewInternalError(types.ErrCodeTransactionFail, "failed to complete appointment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		tx.Rollback()
		return types.NewNotFoundError(types.ErrCodeNotFound,
			fmt.Sprintf("appointment not found or not in scheduled state: %s", apt.ID))
	}

	if err := upsertMedicalRecord(tx, record); err != nil {
		tx.Rollback()
		return types.NewInternalError(types.ErrCodeTransactionFail, "failed to write medical record", err)
	}

	if err := tx.Commit(); err != nil {
		return types.NewInternalError(types.ErrCodeTransactionFail, "failed to commit completion", err)
	}

	r.logger.Infof("Completed appointment %s", apt.ID)
	return nil
}

// MarkMissedIfScheduled transitions scheduled -> missed. Returns false when
// the appointment was not in the scheduled state.
func (r *Repository) MarkMissedIfScheduled(id, doctorID string) (bool, error) {
	return r.transitionIfScheduled(id, doctorID, string(types.StatusMissed))
}

// CancelIfScheduled transitions scheduled -> cancelled. Returns false when
// the appointment was not in the scheduled state.
func (r *Repository) CancelIfScheduled(id, doctorID string) (bool, error) {
	return r.transitionIfScheduled(id, doctorID, string(types.StatusCancelled))
}

func (r *Repository) transitionIfScheduled(id, doctorID, newStatus string) (bool, error) {
	query := `
		UPDATE appointments SET status = $1
		WHERE id = $2 AND doctor_id = $3 AND status = 'scheduled'`

	result, err := r.db.Exec(query, newStatus, id, doctorID)
	if err != nil {
		r.logger.Errorf("Failed to transition appointment %s to %s: %v", id, newStatus, err)
		return false, fmt.Errorf("failed to update appointment status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// UpdateMedicalInfo updates the appointment's clinical columns and upserts
// the medical record keyed by appointment id, transactionally
func (r *Repository) UpdateMedicalInfo(apt *types.Appointment, upd *types.MedicalFieldsUpdate, record *types.MedicalRecord) error {
	ctx := context.Background()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `
		UPDATE appointments
		SET diagnosis = $1, prescription = $2, notes = $3
		WHERE id = $4 AND doctor_id = $5`

	result, err := tx.Exec(query, upd.Diagnosis, upd.Prescription, upd.Notes, apt.ID, apt.DoctorID)
	if err != nil {
		tx.Rollback()
		return types.NewInternalError(types.ErrCodeTransactionFail, "failed to update medical fields", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		tx.Rollback()
		return types.NewNotFoundError(types.ErrCodeNotFound,
			fmt.Sprintf("appointment not found: %s", apt.ID))
	}

	if err := upsertMedicalRecord(tx, record); err != nil {
		tx.Rollback()
		return types.NewInternalError(types.ErrCodeTransactionFail, "failed to write medical record", err)
	}

	if err := tx.Commit(); err != nil {
		return types.NewInternalError(types.ErrCodeTransactionFail, "failed to commit medical update", err)
	}

	r.logger.Infof("Updated medical fields for appointment %s", apt.ID)
	return nil
}

// upsertMedicalRecord converges both clinical write paths on the single
// medical_records row keyed by appointment id
func upsertMedicalRecord(tx *sql.Tx, record *types.MedicalRecord) error {
	query := `
		INSERT INTO medical_records (
			id, patient_id, doctor_id, appointment_id, record_type, description, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (appointment_id)
		DO UPDATE SET record_type = EXCLUDED.record_type,
		              description = EXCLUDED.description`

	_, err := tx.Exec(query,
		record.ID,
		record.PatientID,
		record.DoctorID,
		record.AppointmentID,
		record.RecordType,
		record.Description,
		record.CreatedAt,
	)
	return err
}
