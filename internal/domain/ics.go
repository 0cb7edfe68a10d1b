package domain

import (
	"fmt"
	"strings"
	"time"
)

const icsTimeFormat = "20060102T150405Z"

// ICS renders the appointment as an iCalendar document (RFC 5545).
// uidDomain is appended to the appointment id to form the event UID.
func (a *Appointment) ICS(now time.Time, uidDomain string) (string, error) {
	start, err := a.DateTime.Start()
	if err != nil {
		return "", fmt.Errorf("ics: %w", err)
	}
	end := start.Add(time.Duration(a.Service.DurationMinutes) * time.Minute)

	description := fmt.Sprintf("%s\\nDuration: %d minutes\\nClient: %s",
		icsEscape(a.Service.Name), a.Service.DurationMinutes, icsEscape(a.Client.FullName()))

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//SMC//AppointmentService//EN",
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:%s@%s", a.AppointmentID, uidDomain),
		"DTSTAMP:" + now.UTC().Format(icsTimeFormat),
		"DTSTART:" + start.UTC().Format(icsTimeFormat),
		"DTEND:" + end.UTC().Format(icsTimeFormat),
		"SUMMARY:" + icsEscape(a.Service.Name),
		"DESCRIPTION:" + description,
		"STATUS:" + icsStatus(a.Status),
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n") + "\r\n", nil
}

func icsStatus(s AppointmentStatus) string {
	switch s {
	case StatusConfirmed, StatusCompleted:
		return "CONFIRMED"
	case StatusCancelled, StatusNoShow:
		return "CANCELLED"
	default:
		return "TENTATIVE"
	}
}

var icsReplacer = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

func icsEscape(s string) string {
	return icsReplacer.Replace(s)
}
