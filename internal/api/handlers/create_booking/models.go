package create_booking

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID        string        `json:"serviceId"`
	Date             string        `json:"date"`      // "2024-06-10"
	StartTime        string        `json:"startTime"` // "10:00"
	Timezone         string        `json:"timezone,omitempty"`
	Client           domain.Client `json:"client"`
	PaymentOption    string        `json:"paymentOption"`
	RGPDConsent      bool          `json:"rgpdConsent"`
	Source           string        `json:"source,omitempty"`
	Referrer         string        `json:"referrer,omitempty"`
	ConversionSource string        `json:"conversionSource,omitempty"`
	CampaignID       string        `json:"campaignId,omitempty"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Appointment *models.AppointmentResponse `json:"appointment"`
	ICS         string                      `json:"ics"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (req *CreateBookingRequest) ToUseCaseRequest(r *http.Request) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("parse start time: %w", err)
	}

	return &createBooking.Request{
		ServiceID:     req.ServiceID,
		Date:          date,
		StartTime:     startTime,
		Timezone:      req.Timezone,
		Client:        req.Client,
		PaymentOption: domain.PaymentOption(req.PaymentOption),
		Metadata: createBooking.RequestMetadata{
			Source:           req.Source,
			UserAgent:        r.UserAgent(),
			IPAddress:        clientIP(r),
			Referrer:         firstNonEmpty(req.Referrer, r.Referer()),
			ConversionSource: req.ConversionSource,
			CampaignID:       req.CampaignID,
			RGPDConsent:      req.RGPDConsent,
		},
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Appointment: models.FromDomainAppointment(resp.Appointment, false),
		ICS:         resp.ICS,
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
