package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the database schema for the doctor portal
func (db *DB) CreateSchema(ctx context.Context) error {
	db.logger.Info("Creating database schema...")

	// Create extension for UUID generation
	if err := db.createExtensions(ctx); err != nil {
		return fmt.Errorf("failed to create extensions: %w", err)
	}

	// Create tables
	tables := []string{
		createCitiesTable,
		createDoctorsTable,
		createPatientsTable,
		createAppointmentsTable,
		createAvailabilityTable,
		createMedicalRecordsTable,
		createNotificationsTable,
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	// Create indexes
	indexes := []string{
		createAppointmentsIndexes,
		createAvailabilityIndexes,
		createMedicalRecordsIndexes,
		createNotificationsIndexes,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	db.logger.Info("Database schema created successfully")
	return nil
}

// createExtensions creates required PostgreSQL extensions
func (db *DB) createExtensions(ctx context.Context) error {
	extensions := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, ext := range extensions {
		if _, err := db.ExecContext(ctx, ext); err != nil {
			return fmt.Errorf("failed to create extension: %w", err)
		}
	}

	return nil
}

// SQL DDL statements for table creation
const (
	createCitiesTable = `
		CREATE TABLE IF NOT EXISTS cities (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(100) NOT NULL,
			state VARCHAR(100),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createDoctorsTable = `
		CREATE TABLE IF NOT EXISTS doctors (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(200) NOT NULL,
			email VARCHAR(200) UNIQUE NOT NULL,
			specialization VARCHAR(100),
			city_id UUID REFERENCES cities(id),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createPatientsTable = `
		CREATE TABLE IF NOT EXISTS patients (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(200) NOT NULL,
			email VARCHAR(200),
			phone VARCHAR(30),
			date_of_birth DATE,
			gender VARCHAR(20),
			blood_group VARCHAR(10),
			allergies TEXT,
			medical_history TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createAppointmentsTable = `
		CREATE TABLE IF NOT EXISTS appointments (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			patient_id UUID NOT NULL REFERENCES patients(id),
			doctor_id UUID NOT NULL REFERENCES doctors(id),
			appointment_date DATE NOT NULL,
			appointment_time TIME NOT NULL,
			appointment_type VARCHAR(50) NOT NULL DEFAULT 'consultation',
			status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
			symptoms TEXT,
			notes TEXT,
			diagnosis TEXT,
			prescription TEXT,
			treatment TEXT,
			follow_up_date DATE,
			rating INTEGER DEFAULT 0,
			review TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			completed_at TIMESTAMP WITH TIME ZONE
		);`

	createAvailabilityTable = `
		CREATE TABLE IF NOT EXISTS doctor_availability (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			doctor_id UUID NOT NULL REFERENCES doctors(id),
			availability_type VARCHAR(20) NOT NULL,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			start_time TIME NOT NULL,
			end_time TIME NOT NULL,
			max_patients INTEGER NOT NULL DEFAULT 1,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createMedicalRecordsTable = `
		CREATE TABLE IF NOT EXISTS medical_records (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			patient_id UUID NOT NULL REFERENCES patients(id),
			doctor_id UUID NOT NULL REFERENCES doctors(id),
			appointment_id UUID NOT NULL REFERENCES appointments(id),
			record_type VARCHAR(50) NOT NULL,
			description TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createNotificationsTable = `
		CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			user_type VARCHAR(20) NOT NULL,
			type VARCHAR(20) NOT NULL,
			title VARCHAR(200) NOT NULL,
			message TEXT NOT NULL,
			related_id UUID,
			status VARCHAR(10) NOT NULL DEFAULT 'unread',
			dedup_key VARCHAR(120),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`
)

// SQL DDL statements for index creation. The booking index is the
// database-level guard behind the no-double-booking invariant: at most one
// non-cancelled appointment per (doctor, date, time). The dedup index is
// the structural key the batch notifier relies on.
const (
	createAppointmentsIndexes = `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_booking
			ON appointments(doctor_id, appointment_date, appointment_time)
			WHERE status <> 'cancelled';
		CREATE INDEX IF NOT EXISTS idx_appointments_doctor_date
			ON appointments(doctor_id, appointment_date);
		CREATE INDEX IF NOT EXISTS idx_appointments_patient
			ON appointments(patient_id);`

	createAvailabilityIndexes = `
		CREATE INDEX IF NOT EXISTS idx_availability_doctor
			ON doctor_availability(doctor_id);`

	createMedicalRecordsIndexes = `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_medical_records_appointment
			ON medical_records(appointment_id);
		CREATE INDEX IF NOT EXISTS idx_medical_records_patient
			ON medical_records(patient_id);`

	createNotificationsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_notifications_user
			ON notifications(user_id, user_type, created_at DESC);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_notifications_dedup
			ON notifications(user_id, user_type, dedup_key)
			WHERE dedup_key IS NOT NULL;`
)
