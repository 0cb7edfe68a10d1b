package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotTaken возвращается при нарушении уникального индекса активного слота
	ErrSlotTaken = errors.New("appointment.repository: slot already taken")

	// ErrDuplicateID возвращается при повторе публичного идентификатора
	ErrDuplicateID = errors.New("appointment.repository: duplicate appointment id")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")

	// ErrEncode возвращается при ошибке сериализации вложенных документов
	ErrEncode = errors.New("appointment.repository: failed to encode document")
)
