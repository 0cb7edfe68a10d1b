package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис переходов состояния одной записи
type Service struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по публичному идентификатору.
// Заметки администратора в ответ не попадают.
func (s *Service) GetByID(ctx context.Context, appointmentID string) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s", appointmentID)

	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%s not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%s: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appointment, false), nil
}

// List возвращает страницу записей для администратора
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: status=%v, search=%q, page=%d, limit=%d", req.Status, req.Search, req.Page, req.Limit)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid status=%v", req.Status)
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, *req.Status)
	}

	if filter.Page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1", ErrInvalidInput)
	}
	if filter.Limit < 1 || filter.Limit > domain.MaxPageLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, domain.MaxPageLimit)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return nil, ErrInvalidPeriod
	}

	appointments, total, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d of %d appointments", len(appointments), total)
	return models.FromDomainAppointmentList(appointments, filter, total), nil
}

// Confirm подтверждает запись в статусе pending.
// При наличии ссылки на платеж оплата отмечается как проведенная.
func (s *Service) Confirm(ctx context.Context, appointmentID string, req *models.ConfirmRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Confirm: confirming appointment id=%s", appointmentID)

	var reference string
	if req.PaymentReference != nil {
		reference = strings.TrimSpace(*req.PaymentReference)
	}

	appointment, err := s.mutate(ctx, "Confirm", appointmentID, func(a *domain.Appointment, now time.Time) error {
		if a.Status != domain.StatusPending {
			return fmt.Errorf("%w: status=%s", ErrCannotConfirm, a.Status)
		}

		a.Status = domain.StatusConfirmed
		if reference != "" {
			a.Payment.MarkPaid(reference, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Confirm: appointment id=%s confirmed, payment=%s", appointmentID, appointment.Payment.Status())
	return models.FromDomainAppointment(appointment, false), nil
}

// Cancel отменяет подтвержденную запись не позднее чем за 24 часа до начала.
// Оплаченная запись помечается как возвращенная.
func (s *Service) Cancel(ctx context.Context, appointmentID string, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%s", appointmentID)

	reason := strings.TrimSpace(req.Reason)
	if utf8.RuneCountInString(reason) > domain.MaxReasonLength {
		s.logger.Warn("Cancel: reason too long for id=%s", appointmentID)
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}
	if reason == "" {
		reason = domain.DefaultCancelReason
	}

	appointment, err := s.mutate(ctx, "Cancel", appointmentID, func(a *domain.Appointment, now time.Time) error {
		if !a.CanBeCancelled(now) {
			return fmt.Errorf("%w: status=%s", ErrCannotCancel, a.Status)
		}

		a.Status = domain.StatusCancelled
		a.AppendModification(domain.Modification{
			Type:       domain.ModificationCancel,
			Reason:     reason,
			ModifiedAt: now,
			ModifiedBy: domain.ModifiedByClient,
		})
		if a.Payment.Refund(now) {
			s.logger.Info("Cancel: payment of id=%s marked as refunded", a.AppointmentID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: appointment id=%s cancelled", appointmentID)
	return models.FromDomainAppointment(appointment, false), nil
}

// AddFeedback сохраняет отзыв по завершенной записи. Повторный отзыв заменяет предыдущий.
func (s *Service) AddFeedback(ctx context.Context, appointmentID string, req *models.FeedbackRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("AddFeedback: appointment id=%s, rating=%d", appointmentID, req.Rating)

	if err := validateFeedback(req); err != nil {
		s.logger.Warn("AddFeedback: validation failed for id=%s: %v", appointmentID, err)
		return nil, err
	}

	appointment, err := s.mutate(ctx, "AddFeedback", appointmentID, func(a *domain.Appointment, now time.Time) error {
		if a.Status != domain.StatusCompleted {
			return fmt.Errorf("%w: status=%s", ErrFeedbackNotAllowed, a.Status)
		}

		a.Feedback = &domain.Feedback{
			Rating:         req.Rating,
			Comment:        req.Comment,
			Satisfaction:   req.Satisfaction,
			WouldRecommend: req.WouldRecommend,
			FollowUpNeeded: req.FollowUpNeeded,
			SubmittedAt:    now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("AddFeedback: feedback saved for id=%s", appointmentID)
	return models.FromDomainAppointment(appointment, false), nil
}

// UpdateStatus ручная смена статуса администратором.
// Разрешены confirmed -> completed и pending|confirmed -> no_show, только после начала записи.
func (s *Service) UpdateStatus(ctx context.Context, appointmentID string, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%s to status=%s", appointmentID, req.Status)

	target, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for id=%s", req.Status, appointmentID)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	reason := strings.TrimSpace(req.Reason)
	if utf8.RuneCountInString(reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	appointment, err := s.mutate(ctx, "UpdateStatus", appointmentID, func(a *domain.Appointment, now time.Time) error {
		if !canTransition(a, target, now) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, target)
		}

		// Повтор транзакции видит свежий статус, причину строим заново
		modReason := reason
		if modReason == "" {
			modReason = fmt.Sprintf("status changed from %s to %s", a.Status, target)
		}
		a.Status = target
		a.AppendModification(domain.Modification{
			Type:       domain.ModificationModify,
			Reason:     modReason,
			ModifiedAt: now,
			ModifiedBy: domain.ModifiedByAdmin,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: appointment id=%s is now %s", appointmentID, target)
	return models.FromDomainAppointment(appointment, true), nil
}

// AddInternalNote добавляет заметку администратора
func (s *Service) AddInternalNote(ctx context.Context, appointmentID string, req *models.InternalNoteRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("AddInternalNote: appointment id=%s by=%s", appointmentID, req.AddedBy)

	note := strings.TrimSpace(req.Note)
	if note == "" {
		return nil, fmt.Errorf("%w: note is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(note) > domain.MaxInternalNoteLength {
		return nil, fmt.Errorf("%w: note must be at most %d characters", ErrInvalidInput, domain.MaxInternalNoteLength)
	}

	addedBy := strings.TrimSpace(req.AddedBy)
	if addedBy == "" {
		addedBy = string(domain.ModifiedByAdmin)
	}

	appointment, err := s.mutate(ctx, "AddInternalNote", appointmentID, func(a *domain.Appointment, now time.Time) error {
		a.AddInternalNote(domain.InternalNote{
			Note:      note,
			AddedBy:   addedBy,
			AddedAt:   now,
			IsPrivate: req.IsPrivate,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(appointment, true), nil
}

// RecordNotification сохраняет отчет почтового сервиса о доставке письма
func (s *Service) RecordNotification(ctx context.Context, appointmentID string, req *models.NotificationRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("RecordNotification: appointment id=%s, type=%s, status=%s", appointmentID, req.Type, req.Status)

	notificationType := domain.NotificationType(req.Type)
	if !notificationType.IsValid() {
		return nil, fmt.Errorf("%w: unknown notification type %q", ErrInvalidInput, req.Type)
	}
	status := domain.NotificationStatus(req.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown notification status %q", ErrInvalidInput, req.Status)
	}

	appointment, err := s.mutate(ctx, "RecordNotification", appointmentID, func(a *domain.Appointment, now time.Time) error {
		a.Notifications.Record(notificationType, status, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(appointment, true), nil
}

// Вспомогательные методы

// mutate загружает запись с блокировкой, применяет fn и сохраняет документ целиком
// в одной сериализуемой транзакции. При ошибке ничего не записывается.
func (s *Service) mutate(ctx context.Context, op, appointmentID string, fn func(a *domain.Appointment, now time.Time) error) (*domain.Appointment, error) {
	now := s.timeProvider.Now()

	var result *domain.Appointment
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(txCtx, appointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: %s - get appointment: %w", ErrInternal, op, err)
		}

		if err := fn(appointment, now); err != nil {
			return err
		}

		if err := appointment.Normalize(); err != nil {
			return fmt.Errorf("%w: %s - normalize: %v", ErrInternal, op, err)
		}
		appointment.UpdatedAt = now

		if err := s.appointmentRepo.Update(txCtx, appointment); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: %s - update appointment: %w", ErrInternal, op, err)
		}

		result = appointment
		return nil
	})

	if err != nil {
		if isBusinessError(err) {
			s.logger.Warn("%s: appointment id=%s rejected: %v", op, appointmentID, err)
			return nil, err
		}
		s.logger.Error("%s: appointment id=%s failed: %v", op, appointmentID, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
	}

	return result, nil
}

func isBusinessError(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidState) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrInvalidRequest) ||
		errors.Is(err, domain.ErrConflict)
}

// canTransition ручные переходы администратора
func canTransition(a *domain.Appointment, target domain.AppointmentStatus, now time.Time) bool {
	switch target {
	case domain.StatusCompleted:
		return a.Status == domain.StatusConfirmed && a.HasStarted(now)
	case domain.StatusNoShow:
		return a.IsActive() && a.HasStarted(now)
	default:
		return false
	}
}

func validateFeedback(req *models.FeedbackRequest) error {
	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, req.Rating)
	}
	if req.Satisfaction != nil && (*req.Satisfaction < domain.MinRating || *req.Satisfaction > domain.MaxRating) {
		return fmt.Errorf("%w: satisfaction must be between 1 and 5", ErrInvalidInput)
	}
	if req.Comment != nil && utf8.RuneCountInString(*req.Comment) > domain.MaxFeedbackCommentLength {
		return fmt.Errorf("%w: comment must be at most %d characters", ErrInvalidInput, domain.MaxFeedbackCommentLength)
	}
	return nil
}
