package create_booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/validation"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// clientInput правила проверки контактов клиента
type clientInput struct {
	FirstName   string `json:"firstName" validate:"required,min=2,max=50"`
	LastName    string `json:"lastName" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,frphone"`
	Company     string `json:"company" validate:"omitempty,max=100"`
	ProjectType string `json:"projectType" validate:"omitempty,oneof=website ecommerce mobile consulting other"`
	Message     string `json:"message" validate:"omitempty,max=1000"`
}

// normalizeClient обрезает пробелы и приводит email к нижнему регистру
func normalizeClient(c domain.Client) domain.Client {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	if c.Company != nil {
		company := strings.TrimSpace(*c.Company)
		c.Company = &company
	}
	return c
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if !req.Metadata.RGPDConsent {
		return ErrConsentRequired
	}

	if req.ServiceID == "" {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if !req.PaymentOption.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentOption, req.PaymentOption)
	}

	input := clientInput{
		FirstName: req.Client.FirstName,
		LastName:  req.Client.LastName,
		Email:     req.Client.Email,
		Phone:     req.Client.Phone,
	}
	if req.Client.Company != nil {
		input.Company = *req.Client.Company
	}
	if req.Client.ProjectType != nil {
		input.ProjectType = *req.Client.ProjectType
	}
	if req.Client.Message != nil {
		input.Message = *req.Client.Message
	}
	if err := validation.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и не дальше горизонта записи
func validateDate(date, today time.Time, advanceBookingMonths int) error {
	if date.Before(today) {
		return ErrDateInPast
	}

	if advanceBookingMonths == 0 {
		return nil
	}

	maxDate := today.AddDate(0, advanceBookingMonths, 0)
	if date.After(maxDate) {
		return fmt.Errorf("%w: can only book %d months in advance", ErrDateTooFarInFuture, advanceBookingMonths)
	}

	return nil
}

// validateStartTime проверяет рабочие часы и то, что начало еще не наступило
func validateStartTime(date time.Time, startTime types.TimeString, duration int, loc *time.Location, now time.Time) error {
	if !domain.WithinBusinessHours(startTime, duration) {
		return fmt.Errorf("%w: %s + %d minutes", ErrOutsideBusinessHours, startTime, duration)
	}

	start, err := startTime.On(date, loc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if start.Before(now) {
		return fmt.Errorf("%w: start time %s has already passed", ErrDateInPast, startTime)
	}

	return nil
}

// checkConflict проверяет занятость слота в выбранном режиме
func (uc *UseCase) checkConflict(ctx context.Context, date time.Time, startTime types.TimeString, duration int) error {
	if uc.options.ConflictMode == domain.ConflictModeExact {
		taken, err := uc.appointmentRepo.ExistsActiveAt(ctx, date, startTime, "")
		if err != nil {
			return fmt.Errorf("%w: failed to check slot: %w", ErrInternal, err)
		}
		if taken {
			return ErrSlotNotAvailable
		}
		return nil
	}

	existing, err := uc.appointmentRepo.GetActiveByDate(ctx, date)
	if err != nil {
		return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
	}

	conflict, err := domain.FindOverlapping(startTime, duration, existing, "")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if conflict != nil {
		return fmt.Errorf("%w: overlaps %s", ErrSlotNotAvailable, conflict.AppointmentID)
	}

	return nil
}
