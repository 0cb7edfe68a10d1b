package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/slotlock"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeRepo struct {
	byID      map[string]*domain.Appointment
	updated   []*domain.Appointment
	updateErr error
}

func newFakeRepo(appointments ...*domain.Appointment) *fakeRepo {
	r := &fakeRepo{byID: make(map[string]*domain.Appointment)}
	for _, a := range appointments {
		r.byID[a.AppointmentID] = a
	}
	return r
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", appointmentRepo.ErrAppointmentNotFound, id)
	}
	cp := *a
	cp.Modifications = append([]domain.Modification(nil), a.Modifications...)
	return &cp, nil
}

func (f *fakeRepo) Update(_ context.Context, a *domain.Appointment) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.byID[a.AppointmentID] = a
	f.updated = append(f.updated, a)
	return nil
}

func (f *fakeRepo) ExistsActiveAt(_ context.Context, date time.Time, start types.TimeString, excludeID string) (bool, error) {
	for _, a := range f.byID {
		if a.AppointmentID == excludeID || !a.IsActive() {
			continue
		}
		if a.DateTime.Date.Equal(date) && a.DateTime.StartTime == start {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) GetActiveByDate(_ context.Context, date time.Time) ([]*domain.Appointment, error) {
	var out []*domain.Appointment
	for _, a := range f.byID {
		if a.IsActive() && a.DateTime.Date.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

type passTx struct{}

func (passTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLocker struct {
	busy  bool
	names []string
}

func (f *fakeLocker) WithLock(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	f.names = append(f.names, name)
	if f.busy {
		return slotlock.ErrLockNotAcquired
	}
	return fn(ctx)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func appointment(id string, status domain.AppointmentStatus, date time.Time, start types.TimeString) *domain.Appointment {
	a := &domain.Appointment{
		AppointmentID: id,
		Service:       domain.ServiceSnapshot{ID: "consultation", Name: "Consultation", DurationMinutes: 60, Price: 150},
		DateTime:      domain.DateTime{Date: date, StartTime: start, Timezone: "UTC"},
		Client:        domain.Client{FirstName: "Jean", LastName: "Dupont"},
		Status:        status,
		Payment:       domain.NewPayment(domain.PaymentOnsite, 150),
	}
	_ = a.Normalize()
	return a
}

func newUseCase(repo *fakeRepo, locker *fakeLocker, mode domain.ConflictMode, now time.Time) *UseCase {
	uc := NewUseCase(repo, passTx{}, locker, Options{
		AdvanceBookingMonths: 3,
		ConflictMode:         mode,
		ICSDomain:            "example.com",
	}, logger.Nop())
	uc.timeProvider = fixedClock{now: now}
	return uc
}

func TestReschedule_AuditTrail(t *testing.T) {
	repo := newFakeRepo(appointment("APT-1", domain.StatusConfirmed, day(time.May, 1), "10:00"))
	locker := &fakeLocker{}
	now := time.Date(2024, 4, 25, 12, 0, 0, 0, time.UTC)
	uc := newUseCase(repo, locker, domain.ConflictModeOverlap, now)

	resp, err := uc.Execute(context.Background(), &Request{
		AppointmentID: "APT-1",
		NewDate:       day(time.May, 3),
		NewStartTime:  "14:00",
		Reason:        "  client request ",
	})
	require.NoError(t, err)

	a := resp.Appointment
	assert.Equal(t, domain.StatusConfirmed, a.Status)
	assert.Equal(t, day(time.May, 3), a.DateTime.Date)
	assert.Equal(t, types.TimeString("14:00"), a.DateTime.StartTime)
	assert.Equal(t, types.TimeString("15:00"), a.DateTime.EndTime)
	assert.Equal(t, now, a.UpdatedAt)

	require.Len(t, a.Modifications, 1)
	m := a.Modifications[0]
	assert.Equal(t, domain.ModificationReschedule, m.Type)
	assert.Equal(t, "client request", m.Reason)
	assert.Equal(t, domain.ModifiedByClient, m.ModifiedBy)
	assert.Equal(t, now, m.ModifiedAt)
	require.NotNil(t, m.OldDateTime)
	require.NotNil(t, m.NewDateTime)
	assert.True(t, m.OldDateTime.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
	assert.True(t, m.NewDateTime.Equal(time.Date(2024, 5, 3, 14, 0, 0, 0, time.UTC)))

	assert.Contains(t, resp.ICS, "DTSTART:20240503T140000Z")
	assert.Equal(t, []string{"2024-05-03"}, locker.names)
	assert.Len(t, repo.updated, 1)
}

func TestReschedule_KeepsExistingModifications(t *testing.T) {
	a := appointment("APT-1", domain.StatusPending, day(time.May, 10), "10:00")
	a.AppendModification(domain.Modification{Type: domain.ModificationModify, ModifiedBy: domain.ModifiedByAdmin})
	repo := newFakeRepo(a)
	uc := newUseCase(repo, &fakeLocker{}, domain.ConflictModeOverlap, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: "APT-1", NewDate: day(time.May, 11), NewStartTime: "09:00"})
	require.NoError(t, err)

	require.Len(t, resp.Appointment.Modifications, 2)
	assert.Equal(t, domain.ModificationModify, resp.Appointment.Modifications[0].Type)
	assert.Equal(t, domain.ModificationReschedule, resp.Appointment.Modifications[1].Type)
}

func TestReschedule_WindowBoundary(t *testing.T) {
	start := time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{name: "exactly 48h before", now: start.Add(-48 * time.Hour), wantErr: nil},
		{name: "47h59m before", now: start.Add(-48*time.Hour + time.Minute), wantErr: ErrCannotReschedule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo(appointment("APT-1", domain.StatusConfirmed, day(time.May, 10), "10:00"))
			uc := newUseCase(repo, &fakeLocker{}, domain.ConflictModeOverlap, tt.now)

			_, err := uc.Execute(context.Background(), &Request{AppointmentID: "APT-1", NewDate: day(time.May, 20), NewStartTime: "11:00"})
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrInvalidState)
		})
	}
}

func TestReschedule_InactiveStatus(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusCancelled, domain.StatusCompleted, domain.StatusNoShow} {
		t.Run(string(status), func(t *testing.T) {
			repo := newFakeRepo(appointment("APT-1", status, day(time.May, 10), "10:00"))
			uc := newUseCase(repo, &fakeLocker{}, domain.ConflictModeOverlap, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

			_, err := uc.Execute(context.Background(), &Request{AppointmentID: "APT-1", NewDate: day(time.May, 20), NewStartTime: "11:00"})
			assert.ErrorIs(t, err, ErrCannotReschedule)
			assert.Empty(t, repo.updated)
		})
	}
}

func TestReschedule_Errors(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
		kind    error
	}{
		{
			name:    "unknown id",
			req:     &Request{AppointmentID: "APT-missing", NewDate: day(time.May, 20), NewStartTime: "11:00"},
			wantErr: ErrAppointmentNotFound,
			kind:    domain.ErrNotFound,
		},
		{
			name:    "missing id",
			req:     &Request{NewDate: day(time.May, 20), NewStartTime: "11:00"},
			wantErr: ErrInvalidInput,
			kind:    domain.ErrValidation,
		},
		{
			name:    "bad time",
			req:     &Request{AppointmentID: "APT-1", NewDate: day(time.May, 20), NewStartTime: "11h"},
			wantErr: ErrInvalidInput,
			kind:    domain.ErrValidation,
		},
		{
			name:    "past date",
			req:     &Request{AppointmentID: "APT-1", NewDate: day(time.April, 30), NewStartTime: "11:00"},
			wantErr: ErrDateInPast,
			kind:    domain.ErrInvalidRequest,
		},
		{
			name:    "outside business hours",
			req:     &Request{AppointmentID: "APT-1", NewDate: day(time.May, 20), NewStartTime: "17:30"},
			wantErr: ErrOutsideBusinessHours,
			kind:    domain.ErrInvalidRequest,
		},
		{
			name:    "too far ahead",
			req:     &Request{AppointmentID: "APT-1", NewDate: day(time.September, 1), NewStartTime: "11:00"},
			wantErr: ErrDateTooFarInFuture,
			kind:    domain.ErrInvalidRequest,
		},
		{
			name:    "slot taken",
			req:     &Request{AppointmentID: "APT-1", NewDate: day(time.May, 20), NewStartTime: "14:30"},
			wantErr: ErrSlotNotAvailable,
			kind:    domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo(
				appointment("APT-1", domain.StatusConfirmed, day(time.May, 10), "10:00"),
				appointment("APT-2", domain.StatusPending, day(time.May, 20), "14:00"),
			)
			uc := newUseCase(repo, &fakeLocker{}, domain.ConflictModeOverlap, now)

			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, tt.kind)
			assert.Empty(t, repo.updated)
		})
	}
}

func TestReschedule_ExcludesItselfFromConflicts(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	for _, mode := range []domain.ConflictMode{domain.ConflictModeOverlap, domain.ConflictModeExact} {
		t.Run(string(mode), func(t *testing.T) {
			repo := newFakeRepo(appointment("APT-1", domain.StatusConfirmed, day(time.May, 10), "10:00"))
			uc := newUseCase(repo, &fakeLocker{}, mode, now)

			// сдвиг на полчаса пересекается только с самой записью
			_, err := uc.Execute(context.Background(), &Request{AppointmentID: "APT-1", NewDate: day(time.May, 10), NewStartTime: "10:30"})
			assert.NoError(t, err)
		})
	}
}

func TestReschedule_ExactModeAllowsOverlap(t *testing.T) {
	repo := newFakeRepo(
		appointment("APT-1", domain.StatusConfirmed, day(time.May, 10), "10:00"),
		appointment("APT-2", domain.StatusPending, day(time.May, 20), "14:00"),
	)
	uc := newUseCase(repo, &fakeLocker{}, domain.ConflictModeExact, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: "APT-1", NewDate: day(time.May, 20), NewStartTime: "14:30"})
	assert.NoError(t, err)
}

func TestReschedule_UniqueIndexViolation(t *testing.T) {
	repo := newFakeRepo(appointment("APT-1", domain.StatusConfirmed, day(time.May, 10), "10:00"))
	repo.updateErr = fmt.Errorf("%w: Update", appointmentRepo.ErrSlotTaken)
	uc := newUseCase(repo, &fakeLocker{}, domain.ConflictModeOverlap, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: "APT-1", NewDate: day(time.May, 20), NewStartTime: "11:00"})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestReschedule_LockBusy(t *testing.T) {
	repo := newFakeRepo(appointment("APT-1", domain.StatusConfirmed, day(time.May, 10), "10:00"))
	uc := newUseCase(repo, &fakeLocker{busy: true}, domain.ConflictModeOverlap, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: "APT-1", NewDate: day(time.May, 20), NewStartTime: "11:00"})
	assert.ErrorIs(t, err, ErrSlotBeingBooked)
	assert.Empty(t, repo.updated)
}

func TestReschedule_FailedUpdateKeepsStoredSlot(t *testing.T) {
	repo := newFakeRepo(appointment("APT-1", domain.StatusConfirmed, day(time.May, 10), "10:00"))
	repo.updateErr = errors.New("connection reset")
	uc := newUseCase(repo, &fakeLocker{}, domain.ConflictModeOverlap, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: "APT-1", NewDate: day(time.May, 20), NewStartTime: "11:00"})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Nil(t, resp)
	assert.Equal(t, types.TimeString("10:00"), repo.byID["APT-1"].DateTime.StartTime)
	assert.Empty(t, repo.byID["APT-1"].Modifications)
}

func TestReschedule_StartTimeFormatMessage(t *testing.T) {
	repo := newFakeRepo(appointment("APT-1", domain.StatusConfirmed, day(time.May, 10), "10:00"))
	uc := newUseCase(repo, &fakeLocker{}, domain.ConflictModeOverlap, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: "APT-1", NewDate: day(time.May, 20), NewStartTime: "25:00"})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "newStartTime must be in HH:MM format")

	_, err = uc.Execute(context.Background(), &Request{AppointmentID: "APT-1", NewDate: day(time.May, 20)})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "newStartTime is required")
}
