package reviews

import (
	"fmt"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/database"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/interfaces"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// Repository implements the ReviewRepository interface
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new review repository
func NewRepository(db *database.DB, log *logger.Logger) interfaces.ReviewRepository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

const reviewFilter = ` WHERE a.doctor_id = $1 AND a.status = 'completed' AND COALESCE(a.rating, 0) > 0`

// ListReviews retrieves one page of the doctor's rated, completed
// appointments, newest first, optionally filtered by patient name
// substring. Returns the page and the filtered total.
func (r *Repository) ListReviews(doctorID string, search string, limit, offset int) ([]*types.Review, int, error) {
	where := reviewFilter
	args := []interface{}{doctorID}
	argIndex := 2

	if search != "" {
		where += fmt.Sprintf(" AND p.name ILIKE $%d", argIndex)
		args = append(args, "%"+search+"%")
		argIndex++
	}

	countQuery := `SELECT COUNT(*) FROM appointments a JOIN patients p ON p.id = a.patient_id` + where

	var total int
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	query := `
		SELECT a.id, a.patient_id, p.name,
		       to_char(a.appointment_date, 'YYYY-MM-DD'), a.rating, COALESCE(a.review, '')
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id` + where +
		fmt.Sprintf(" ORDER BY a.appointment_date DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Errorf("Failed to list reviews: %v", err)
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*types.Review{}
	for rows.Next() {
		review := &types.Review{}
		err := rows.Scan(
			&review.AppointmentID,
			&review.PatientID,
			&review.PatientName,
			&review.AppointmentDate,
			&review.Rating,
			&review.Review,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, total, nil
}

// GetRatingAggregate returns the mean rating and count over the doctor's
// rated, completed appointments
func (r *Repository) GetRatingAggregate(doctorID string) (float64, int, error) {
	query := `
		SELECT COALESCE(AVG(a.rating), 0), COUNT(*)
		FROM appointments a` + reviewFilter

	var average float64
	var count int
	if err := r.db.QueryRow(query, doctorID).Scan(&average, &count); err != nil {
		r.logger.Errorf("Failed to aggregate ratings: %v", err)
		return 0, 0, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	return average, count, nil
}
