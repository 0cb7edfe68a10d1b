package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Options бизнес-настройки записи
type Options struct {
	Timezone             string              // Часовой пояс по умолчанию
	AdvanceBookingMonths int                 // Максимальный горизонт записи, 0 = без ограничения
	ConflictMode         domain.ConflictMode // overlap или exact
	ICSDomain            string              // Домен для UID календарного события
}

// Request модель запроса на создание записи
type Request struct {
	ServiceID     string               // ID услуги из каталога
	Date          time.Time            // Дата записи (без времени)
	StartTime     types.TimeString     // Время начала, например "10:00"
	Timezone      string               // Часовой пояс (опционально)
	Client        domain.Client        // Контакты клиента
	PaymentOption domain.PaymentOption // onsite, full или deposit
	Metadata      RequestMetadata      // Источник запроса и согласие
}

// RequestMetadata происхождение запроса
type RequestMetadata struct {
	Source           string
	UserAgent        string
	IPAddress        string
	Referrer         string
	ConversionSource string
	CampaignID       string
	RGPDConsent      bool
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment // Созданная запись
	ICS         string              // Календарное событие для письма-подтверждения
}
