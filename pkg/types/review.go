package types

// Review is one rated, completed appointment as shown on the reviews page
type Review struct {
	AppointmentID   string `json:"appointment_id"`
	PatientID       string `json:"patient_id"`
	PatientName     string `json:"patient_name"`
	AppointmentDate string `json:"appointment_date"`
	Rating          int    `json:"rating"`
	Review          string `json:"review"`
}

// ReviewFilters represents filters for the review list
type ReviewFilters struct {
	Search string `json:"search,omitempty"`
	Page   int    `json:"page,omitempty"`
}

// ReviewPage is one page of reviews with the list total
type ReviewPage struct {
	Reviews  []*Review `json:"reviews"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// RatingSummary is the aggregate rating panel. Stars follow the display
// rule: full stars floor the mean, a half star is shown for any fractional
// remainder.
type RatingSummary struct {
	Average   float64 `json:"average"`
	Count     int     `json:"count"`
	FullStars int     `json:"full_stars"`
	HalfStar  bool    `json:"half_star"`
}
