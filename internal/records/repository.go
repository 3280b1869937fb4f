package records

import (
	"database/sql"
	"fmt"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/database"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/interfaces"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// Repository implements the RecordsRepository interface
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new records repository
func NewRepository(db *database.DB, log *logger.Logger) interfaces.RecordsRepository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

// HasTreated reports whether the doctor has at least one appointment of
// any status with the patient
func (r *Repository) HasTreated(doctorID, patientID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM appointments WHERE doctor_id = $1 AND patient_id = $2)`,
		doctorID, patientID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check treatment relationship: %w", err)
	}
	return exists, nil
}

// GetPatient retrieves a patient's demographics
func (r *Repository) GetPatient(patientID string) (*types.Patient, error) {
	query := `
		SELECT id, name, email, COALESCE(phone, ''),
		       COALESCE(to_char(date_of_birth, 'YYYY-MM-DD'), ''), COALESCE(gender, ''),
		       COALESCE(blood_group, ''), COALESCE(allergies, ''), COALESCE(medical_history, ''),
		       created_at
		FROM patients WHERE id = $1`

	patient := &types.Patient{}
	err := r.db.QueryRow(query, patientID).Scan(
		&patient.ID,
		&patient.Name,
		&patient.Email,
		&patient.Phone,
		&patient.DateOfBirth,
		&patient.Gender,
		&patient.BloodGroup,
		&patient.Allergies,
		&patient.MedicalHistory,
		&patient.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.ErrCodeNotFound,
				fmt.Sprintf("patient not found: %s", patientID))
		}
		r.logger.Errorf("Failed to get patient %s: %v", patientID, err)
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	return patient, nil
}

// GetPatientAppointments retrieves the doctor's appointments with the
// patient, newest first
func (r *Repository) GetPatientAppointments(doctorID, patientID string) ([]*types.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id,
		       to_char(appointment_date, 'YYYY-MM-DD'), to_char(appointment_time, 'HH24:MI:SS'),
		       appointment_type, status,
		       COALESCE(symptoms, ''), COALESCE(notes, ''), COALESCE(diagnosis, ''),
		       COALESCE(prescription, ''), COALESCE(treatment, ''),
		       COALESCE(to_char(follow_up_date, 'YYYY-MM-DD'), ''),
		       COALESCE(rating, 0), COALESCE(review, ''),
		       created_at, completed_at
		FROM appointments
		WHERE doctor_id = $1 AND patient_id = $2
		ORDER BY appointment_date DESC, appointment_time DESC`

	rows, err := r.db.Query(query, doctorID, patientID)
	if err != nil {
		r.logger.Errorf("Failed to get patient appointments: %v", err)
		return nil, fmt.Errorf("failed to get patient appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*types.Appointment
	for rows.Next() {
		apt := &types.Appointment{}
		err := rows.Scan(
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

// GetRecordEntries retrieves the patient's medical_records rows as history
// entries, joined to their appointment for the visit date
func (r *Repository) GetRecordEntries(patientID string) ([]*types.HistoryEntry, error) {
	query := `
		SELECT COALESCE(mr.appointment_id, ''), mr.record_type, mr.description,
		       COALESCE(to_char(a.appointment_date, 'YYYY-MM-DD'), ''), mr.created_at
		FROM medical_records mr
		LEFT JOIN appointments a ON a.id = mr.appointment_id
		WHERE mr.patient_id = $1`

	rows, err := r.db.Query(query, patientID)
	if err != nil {
		r.logger.Errorf("Failed to get medical record entries: %v", err)
		return nil, fmt.Errorf("failed to get medical record entries: %w", err)
	}
	defer rows.Close()

	var entries []*types.HistoryEntry
	for rows.Next() {
		entry := &types.HistoryEntry{Source: types.HistorySourceRecord}
		err := rows.Scan(
			&entry.AppointmentID,
			&entry.RecordType,
			&entry.Description,
			&entry.AppointmentDate,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record entries: %w", err)
	}

	return entries, nil
}

// GetAppointmentEntries retrieves history entries from clinical fields
// written directly on appointment rows. Rows with no populated clinical
// field are skipped.
func (r *Repository) GetAppointmentEntries(patientID string) ([]*types.HistoryEntry, error) {
	query := `
		SELECT id, to_char(appointment_date, 'YYYY-MM-DD'),
		       COALESCE(diagnosis, ''), COALESCE(prescription, ''),
		       COALESCE(treatment, ''), COALESCE(notes, ''), created_at
		FROM appointments
		WHERE patient_id = $1
		  AND (COALESCE(diagnosis, '') <> '' OR COALESCE(prescription, '') <> ''
		    OR COALESCE(treatment, '') <> '' OR COALESCE(notes, '') <> '')`

	rows, err := r.db.Query(query, patientID)
	if err != nil {
		r.logger.Errorf("Failed to get appointment entries: %v", err)
		return nil, fmt.Errorf("failed to get appointment entries: %w", err)
	}
	defer rows.Close()

	var entries []*types.HistoryEntry
	for rows.Next() {
		entry := &types.HistoryEntry{
			Source:     types.HistorySourceAppointment,
			RecordType: "consultation",
		}
		err := rows.Scan(
			&entry.AppointmentID,
			&entry.AppointmentDate,
			&entry.Diagnosis,
			&entry.Prescription,
			&entry.Treatment,
			&entry.Notes,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointment entries: %w", err)
	}

	return entries, nil
}
