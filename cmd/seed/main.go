// Command seed fills the appointments table with demo data for local development.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/brianvoe/gofakeit/v7"
	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/idgen"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var paymentOptions = []domain.PaymentOption{domain.PaymentOnsite, domain.PaymentFull, domain.PaymentDeposit}

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	days := flag.Int("days", 30, "days before and after today to fill")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("", cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	services, err := cfg.Catalog()
	if err != nil {
		log.Fatal("Failed to build service catalog: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	repo := appointmentRepo.NewRepository(dbmetrics.NewPlain(db))
	s := &seeder{
		repo:     repo,
		catalog:  services.List(),
		ids:      idgen.Generator{},
		location: domain.Location(cfg.Booking.Timezone),
		timezone: cfg.Booking.Timezone,
		now:      time.Now(),
	}

	created, err := s.run(context.Background(), *days)
	if err != nil {
		log.Fatal("Seed failed after %d appointments: %v", created, err)
	}
	log.Info("Seed complete: %d appointments", created)
}

type seeder struct {
	repo     *appointmentRepo.Repository
	catalog  []catalog.Service
	ids      idgen.Generator
	location *time.Location
	timezone string
	now      time.Time
}

// run заполняет каждый день периода несколькими непересекающимися записями
func (s *seeder) run(ctx context.Context, days int) (int, error) {
	today := domain.Today(s.now, s.location)
	closeMinutes, err := domain.BusinessClose.Minutes()
	if err != nil {
		return 0, err
	}

	created := 0
	for offset := -days; offset <= days; offset++ {
		date := today.AddDate(0, 0, offset)
		if date.Weekday() == time.Sunday {
			continue
		}

		cursor, err := domain.BusinessOpen.Minutes()
		if err != nil {
			return created, err
		}

		for {
			cursor += domain.SlotStepMinutes * gofakeit.Number(0, 3)
			service := s.catalog[gofakeit.Number(0, len(s.catalog)-1)]
			if cursor+service.DurationMinutes > closeMinutes {
				break
			}

			start, err := types.NewTimeStringFromMinutes(cursor)
			if err != nil {
				return created, err
			}

			a, err := s.appointment(service, date, start)
			if err != nil {
				return created, err
			}
			if _, err := s.repo.Create(ctx, a); err != nil {
				if errors.Is(err, appointmentRepo.ErrSlotTaken) {
					break
				}
				return created, fmt.Errorf("create %s: %w", a.AppointmentID, err)
			}
			created++

			// Следующая запись начинается на сетке после окончания текущей
			cursor += roundUp(service.DurationMinutes, domain.SlotStepMinutes)
		}
	}

	return created, nil
}

func (s *seeder) appointment(service catalog.Service, date time.Time, start types.TimeString) (*domain.Appointment, error) {
	createdAt := s.now.AddDate(0, 0, -gofakeit.Number(1, 20))
	if date.Before(createdAt) {
		createdAt = date.AddDate(0, 0, -gofakeit.Number(1, 10))
	}

	a := &domain.Appointment{
		AppointmentID: s.ids.NewAppointmentID(createdAt),
		Service:       service.Snapshot(),
		DateTime: domain.DateTime{
			Date:      date,
			StartTime: start,
			Timezone:  s.timezone,
		},
		Client: domain.Client{
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			Email:     gofakeit.Email(),
			Phone:     gofakeit.Phone(),
			Company:   ptr.Ptr(gofakeit.Company()),
			Message:   ptr.Ptr(gofakeit.Sentence(12)),
			Location: &domain.GeoLocation{
				City:       gofakeit.City(),
				PostalCode: gofakeit.Zip(),
				Country:    "France",
			},
		},
		Payment: domain.NewPayment(paymentOptions[gofakeit.Number(0, len(paymentOptions)-1)], service.Price),
		Metadata: domain.Metadata{
			Source:             domain.DefaultSource,
			UserAgent:          gofakeit.UserAgent(),
			IPAddress:          gofakeit.IPv4Address(),
			RGPDConsent:        true,
			ConsentDate:        createdAt,
			DataRetentionUntil: domain.RetentionDeadline(createdAt),
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := a.Normalize(); err != nil {
		return nil, err
	}

	startAt, err := a.DateTime.Start()
	if err != nil {
		return nil, err
	}
	s.assignStatus(a, startAt)

	return a, nil
}

// assignStatus прошедшим записям выдает итоговый статус, будущим pending или confirmed
func (s *seeder) assignStatus(a *domain.Appointment, startAt time.Time) {
	if startAt.After(s.now) {
		a.Status = domain.StatusPending
		if gofakeit.Bool() {
			a.Status = domain.StatusConfirmed
			s.markPaid(a, a.CreatedAt.Add(time.Hour))
		}
		return
	}

	switch roll := gofakeit.Number(1, 10); {
	case roll <= 7:
		a.Status = domain.StatusCompleted
		s.markPaid(a, a.CreatedAt.Add(time.Hour))
		if gofakeit.Bool() {
			a.Feedback = &domain.Feedback{
				Rating:         gofakeit.Number(domain.MinRating, domain.MaxRating),
				Comment:        ptr.Ptr(gofakeit.Sentence(8)),
				WouldRecommend: ptr.Ptr(gofakeit.Bool()),
				SubmittedAt:    startAt.Add(24 * time.Hour),
			}
		}
	case roll <= 9:
		a.Status = domain.StatusCancelled
		a.AppendModification(domain.Modification{
			Type:       domain.ModificationCancel,
			Reason:     domain.DefaultCancelReason,
			ModifiedAt: startAt.Add(-48 * time.Hour),
			ModifiedBy: domain.ModifiedByClient,
		})
	default:
		a.Status = domain.StatusNoShow
	}
}

func (s *seeder) markPaid(a *domain.Appointment, at time.Time) {
	if a.Payment.Option == domain.PaymentOnsite {
		return
	}
	a.Payment.MarkPaid(gofakeit.UUID(), at)
}

func roundUp(v, step int) int {
	return (v + step - 1) / step * step
}
