package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// PeriodRequest период статистики, границы включительно.
// Пустые границы заменяются последними 30 днями.
type PeriodRequest struct {
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// PeriodResponse фактически использованный период
type PeriodResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// OverviewResponse общие показатели
type OverviewResponse struct {
	TotalAppointments     int      `json:"totalAppointments"`
	ConfirmedAppointments int      `json:"confirmedAppointments"`
	CancelledAppointments int      `json:"cancelledAppointments"`
	CompletedAppointments int      `json:"completedAppointments"`
	TotalRevenue          float64  `json:"totalRevenue"`
	AverageRating         *float64 `json:"averageRating"`
}

// ServiceStatsResponse показатели одной услуги
type ServiceStatsResponse struct {
	Service       string   `json:"service"`
	Count         int      `json:"count"`
	Revenue       float64  `json:"revenue"`
	AverageRating *float64 `json:"averageRating"`
}

// DailyStatsResponse показатели одного дня
type DailyStatsResponse struct {
	Date    string  `json:"date"` // "2024-06-10"
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// StatsResponse все агрегаты периода
type StatsResponse struct {
	Period    PeriodResponse         `json:"period"`
	Overview  OverviewResponse       `json:"overview"`
	ByService []ServiceStatsResponse `json:"byService"`
	Daily     []DailyStatsResponse   `json:"daily"`
}

// Методы конвертации

// FromDomainOverview конвертирует domain модель в DTO
func FromDomainOverview(o *domain.Overview) OverviewResponse {
	if o == nil {
		return OverviewResponse{}
	}
	return OverviewResponse{
		TotalAppointments:     o.Total,
		ConfirmedAppointments: o.Confirmed,
		CancelledAppointments: o.Cancelled,
		CompletedAppointments: o.Completed,
		TotalRevenue:          o.Revenue,
		AverageRating:         o.AverageRating,
	}
}

// FromDomainServiceStats конвертирует список domain моделей в DTO
func FromDomainServiceStats(stats []domain.ServiceStats) []ServiceStatsResponse {
	resp := make([]ServiceStatsResponse, 0, len(stats))
	for _, s := range stats {
		resp = append(resp, ServiceStatsResponse{
			Service:       s.ServiceName,
			Count:         s.Count,
			Revenue:       s.Revenue,
			AverageRating: s.AverageRating,
		})
	}
	return resp
}

// FromDomainDailyStats конвертирует список domain моделей в DTO
func FromDomainDailyStats(stats []domain.DailyStats) []DailyStatsResponse {
	resp := make([]DailyStatsResponse, 0, len(stats))
	for _, d := range stats {
		resp = append(resp, DailyStatsResponse{
			Date:    d.Date.Format(domain.DateFormat),
			Count:   d.Count,
			Revenue: d.Revenue,
		})
	}
	return resp
}
