package get_statistics

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/statistics/models"
)

// ToServiceRequest формирует период из query параметров, пустые границы остаются nil
func ToServiceRequest(startDateStr, endDateStr string) (*models.PeriodRequest, error) {
	req := &models.PeriodRequest{}

	if startDateStr != "" {
		date, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %w", err)
		}
		req.StartDate = &date
	}
	if endDateStr != "" {
		date, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
		req.EndDate = &date
	}

	return req, nil
}
