// Package idgen produces public appointment identifiers.
package idgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	prefix       = "APT"
	suffixLength = 9
)

// Generator builds ids of the form APT-<unix millis>-<9 uppercase hex chars>
type Generator struct{}

// NewAppointmentID returns a new id stamped with now
func (Generator) NewAppointmentID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), strings.ToUpper(random[:suffixLength]))
}
