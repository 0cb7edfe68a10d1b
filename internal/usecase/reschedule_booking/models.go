package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Options бизнес-настройки переноса
type Options struct {
	AdvanceBookingMonths int                 // Максимальный горизонт записи, 0 = без ограничения
	ConflictMode         domain.ConflictMode // overlap или exact
	ICSDomain            string              // Домен для UID календарного события
}

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID string           // Публичный идентификатор записи
	NewDate       time.Time        // Новая дата (без времени)
	NewStartTime  types.TimeString // Новое время начала
	Reason        string           // Причина переноса (опционально)
}

// Response модель ответа с перенесенной записью
type Response struct {
	Appointment *domain.Appointment
	ICS         string // Обновленное календарное событие
}
