package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	Date            time.Time // Дата (без времени)
	DurationMinutes int       // Длительность услуги, если ServiceID не указан
	ServiceID       string    // Услуга из каталога (опционально, задает длительность)
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time     // Дата, на которую запрашивались слоты
	Timezone        string        // Часовой пояс, в котором заданы времена
	DurationMinutes int           // Длительность, для которой считались слоты
	Slots           []domain.Slot // Все слоты дня с признаком доступности
}
