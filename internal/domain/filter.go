package domain

import "time"

// ListFilter фильтр списка записей для администратора
type ListFilter struct {
	Status    *AppointmentStatus // Фильтр по статусу (опционально)
	StartDate *time.Time         // Начало периода включительно (опционально)
	EndDate   *time.Time         // Конец периода включительно (опционально)
	Search    string             // Поиск по имени, фамилии, email и номеру записи
	Page      int                // Номер страницы, с 1
	Limit     int                // Размер страницы, 1..100
}

// Offset returns the number of rows to skip
func (f ListFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// DateRange closed range of calendar days used by statistics
type DateRange struct {
	Start time.Time
	End   time.Time
}
