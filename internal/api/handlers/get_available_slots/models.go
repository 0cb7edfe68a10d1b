package get_available_slots

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const defaultDurationMinutes = 60

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date     string          `json:"date"`
	Timezone string          `json:"timezone"`
	Duration int             `json:"duration"`
	Slots    []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}

// ToUseCaseRequest конвертирует query параметры в модель use case.
// Без duration и serviceId используется 60 минут.
func ToUseCaseRequest(dateStr, durationStr, serviceID string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	duration := 0
	if durationStr != "" {
		duration, err = strconv.Atoi(durationStr)
		if err != nil {
			return nil, fmt.Errorf("parse duration: %w", err)
		}
	} else if serviceID == "" {
		duration = defaultDurationMinutes
	}

	return &getAvailableSlots.Request{
		Date:            date,
		DurationMinutes: duration,
		ServiceID:       serviceID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, AvailableSlot{
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
			Available: s.Available,
		})
	}

	return &AvailableSlotsResponse{
		Date:     resp.Date.Format(domain.DateFormat),
		Timezone: resp.Timezone,
		Duration: resp.DurationMinutes,
		Slots:    slots,
	}
}
