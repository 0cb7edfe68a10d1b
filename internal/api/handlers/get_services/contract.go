package get_services

import (
	"github.com/m04kA/SMC-AppointmentService/internal/catalog"
)

type Catalog interface {
	List() []catalog.Service
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
