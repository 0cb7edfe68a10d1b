package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// ConfirmRequest запрос на подтверждение записи
type ConfirmRequest struct {
	PaymentReference *string `json:"paymentReference,omitempty"` // Ссылка платежного шлюза (опционально)
}

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	Reason string `json:"reason"`
}

// FeedbackRequest отзыв клиента
type FeedbackRequest struct {
	Rating         int     `json:"rating"`
	Comment        *string `json:"comment,omitempty"`
	Satisfaction   *int    `json:"satisfaction,omitempty"`
	WouldRecommend *bool   `json:"wouldRecommend,omitempty"`
	FollowUpNeeded *bool   `json:"followUpNeeded,omitempty"`
}

// ListRequest запрос на список записей для администратора
type ListRequest struct {
	Status    *string    `json:"status,omitempty"`    // Фильтр по статусу (опционально)
	StartDate *time.Time `json:"startDate,omitempty"` // Начало периода (опционально)
	EndDate   *time.Time `json:"endDate,omitempty"`   // Конец периода (опционально)
	Search    string     `json:"search,omitempty"`
	Page      int        `json:"page"`
	Limit     int        `json:"limit"`
}

// ToDomainFilter конвертирует request в domain фильтр.
// Пустые page и limit заменяются значениями по умолчанию.
func (r *ListRequest) ToDomainFilter() (domain.ListFilter, error) {
	filter := domain.ListFilter{
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Search:    r.Search,
		Page:      r.Page,
		Limit:     r.Limit,
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = domain.DefaultPageLimit
	}

	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// UpdateStatusRequest ручная смена статуса администратором
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// InternalNoteRequest заметка администратора
type InternalNoteRequest struct {
	Note      string `json:"note"`
	AddedBy   string `json:"addedBy"`
	IsPrivate bool   `json:"isPrivate"`
}

// NotificationRequest отчет почтового сервиса о доставке
type NotificationRequest struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

// Response модели

// ServiceResponse снимок услуги
type ServiceResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Duration int     `json:"duration"`
	Price    float64 `json:"price"`
}

// DateTimeResponse слот записи
type DateTimeResponse struct {
	Date      string `json:"date"`      // "2024-06-10"
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "11:00"
	Timezone  string `json:"timezone"`
}

// PaymentResponse оплата
type PaymentResponse struct {
	Option     string     `json:"option"`
	Amount     float64    `json:"amount"`
	Status     string     `json:"status"`
	Reference  *string    `json:"reference,omitempty"`
	PaidAt     *time.Time `json:"paidAt,omitempty"`
	RefundedAt *time.Time `json:"refundedAt,omitempty"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	AppointmentID string                `json:"appointmentId"`
	Service       ServiceResponse       `json:"service"`
	DateTime      DateTimeResponse      `json:"dateTime"`
	Client        domain.Client         `json:"client"`
	Status        string                `json:"status"`
	Payment       PaymentResponse       `json:"payment"`
	Notifications domain.Notifications  `json:"notifications"`
	Modifications []domain.Modification `json:"modifications"`
	Feedback      *domain.Feedback      `json:"feedback,omitempty"`
	Metadata      domain.Metadata       `json:"metadata"`
	InternalNotes []domain.InternalNote `json:"internalNotes,omitempty"` // Только для администратора

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Pagination параметры страницы
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Pagination   Pagination            `json:"pagination"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO.
// Заметки администратора попадают в ответ только при withInternalNotes.
func FromDomainAppointment(a *domain.Appointment, withInternalNotes bool) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		AppointmentID: a.AppointmentID,
		Service: ServiceResponse{
			ID:       a.Service.ID,
			Name:     a.Service.Name,
			Category: a.Service.Category,
			Duration: a.Service.DurationMinutes,
			Price:    a.Service.Price,
		},
		DateTime: DateTimeResponse{
			Date:      a.DateTime.Date.Format(domain.DateFormat),
			StartTime: a.DateTime.StartTime.String(),
			EndTime:   a.DateTime.EndTime.String(),
			Timezone:  a.DateTime.Timezone,
		},
		Client: a.Client,
		Status: string(a.Status),
		Payment: PaymentResponse{
			Option:     string(a.Payment.Option),
			Amount:     a.Payment.Amount,
			Status:     string(a.Payment.Status()),
			Reference:  a.Payment.Reference(),
			PaidAt:     a.Payment.PaidAt(),
			RefundedAt: a.Payment.RefundedAt(),
		},
		Notifications: a.Notifications,
		Modifications: a.Modifications,
		Feedback:      a.Feedback,
		Metadata:      a.Metadata,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}

	if resp.Modifications == nil {
		resp.Modifications = []domain.Modification{}
	}
	if resp.Notifications.EmailsSent == nil {
		resp.Notifications.EmailsSent = []domain.NotificationRecord{}
	}
	if withInternalNotes {
		resp.InternalNotes = a.InternalNotes
	}

	return resp
}

// FromDomainAppointmentList конвертирует страницу domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment, filter domain.ListFilter, total int) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
		Pagination: Pagination{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: total,
		},
	}

	if filter.Limit > 0 {
		resp.Pagination.Pages = (total + filter.Limit - 1) / filter.Limit
	}

	for _, a := range appointments {
		if item := FromDomainAppointment(a, true); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
