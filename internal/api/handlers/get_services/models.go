package get_services

import (
	"github.com/m04kA/SMC-AppointmentService/internal/catalog"
)

// ServiceResponse услуга каталога
type ServiceResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Duration int      `json:"duration"`
	Price    float64  `json:"price"`
	Features []string `json:"features"`
}

// FromCatalog конвертирует каталог в HTTP response
func FromCatalog(services []catalog.Service) []ServiceResponse {
	resp := make([]ServiceResponse, 0, len(services))
	for _, s := range services {
		features := s.Features
		if features == nil {
			features = []string{}
		}
		resp = append(resp, ServiceResponse{
			ID:       s.ID,
			Name:     s.Name,
			Category: s.Category,
			Duration: s.DurationMinutes,
			Price:    s.Price,
			Features: features,
		})
	}
	return resp
}
