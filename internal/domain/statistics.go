package domain

import "time"

// Overview aggregate counters for a period
type Overview struct {
	Total         int
	Confirmed     int
	Cancelled     int
	Completed     int
	Revenue       float64
	AverageRating *float64
}

// ServiceStats per-service aggregate
type ServiceStats struct {
	ServiceName   string
	Count         int
	Revenue       float64
	AverageRating *float64
}

// DailyStats per-day aggregate
type DailyStats struct {
	Date    time.Time
	Count   int
	Revenue float64
}
