// Package catalog holds the bookable services loaded from configuration.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ErrServiceNotFound returned for an unknown service id
var ErrServiceNotFound = errors.New("catalog: service not found")

// Service is a catalog entry
type Service struct {
	ID              string
	Name            string
	Category        string
	DurationMinutes int
	Price           float64
	Features        []string
}

// Snapshot returns the copy stored in an appointment
func (s Service) Snapshot() domain.ServiceSnapshot {
	return domain.ServiceSnapshot{
		ID:              s.ID,
		Name:            s.Name,
		Category:        s.Category,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
	}
}

// Catalog is an immutable set of services
type Catalog struct {
	byID  map[string]Service
	order []string
}

// New builds a catalog. Duplicate ids are rejected.
func New(services []Service) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Service, len(services))}
	for _, s := range services {
		if _, exists := c.byID[s.ID]; exists {
			return nil, fmt.Errorf("catalog: duplicate service id %q", s.ID)
		}
		features := append([]string(nil), s.Features...)
		s.Features = features
		c.byID[s.ID] = s
		c.order = append(c.order, s.ID)
	}
	return c, nil
}

// Get returns the service with id
func (c *Catalog) Get(id string) (Service, error) {
	s, ok := c.byID[id]
	if !ok {
		return Service{}, fmt.Errorf("%w: %s", ErrServiceNotFound, id)
	}
	return s, nil
}

// List returns services in configuration order
func (c *Catalog) List() []Service {
	out := make([]Service, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Categories returns the distinct categories, sorted
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	for _, s := range c.byID {
		seen[s.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}
