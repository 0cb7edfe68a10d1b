package list_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(query url.Values) (*models.ListRequest, error) {
	req := &models.ListRequest{
		Search: strings.TrimSpace(query.Get("search")),
	}

	// Парсим status если указан
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	// Парсим даты если указаны
	if s := query.Get("startDate"); s != "" {
		date, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %w", err)
		}
		req.StartDate = &date
	}
	if s := query.Get("endDate"); s != "" {
		date, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
		req.EndDate = &date
	}

	if s := query.Get("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid page: %w", err)
		}
		req.Page = page
	}
	if s := query.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid limit: %w", err)
		}
		req.Limit = limit
	}

	return req, nil
}
