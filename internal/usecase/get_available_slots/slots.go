package get_available_slots

import (
	"iter"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Slots перечисляет слоты дня с шагом 30 минут, для которых start+duration <= 18:00.
// Слот недоступен, если пересекается с активной записью из existing.
// Последовательность пересчитывается при каждом обходе.
func Slots(durationMinutes int, existing []*domain.Appointment) iter.Seq[domain.Slot] {
	return func(yield func(domain.Slot) bool) {
		open, err := domain.BusinessOpen.Minutes()
		if err != nil {
			return
		}
		closing, err := domain.BusinessClose.Minutes()
		if err != nil {
			return
		}

		for start := open; start+durationMinutes <= closing; start += domain.SlotStepMinutes {
			startTime, err := types.NewTimeStringFromMinutes(start)
			if err != nil {
				return
			}
			endTime, err := startTime.AddMinutes(durationMinutes)
			if err != nil {
				return
			}

			conflict, err := domain.FindOverlapping(startTime, durationMinutes, existing, "")
			if err != nil {
				return
			}

			if !yield(domain.Slot{StartTime: startTime, EndTime: endTime, Available: conflict == nil}) {
				return
			}
		}
	}
}
