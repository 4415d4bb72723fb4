package notification

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cliniccore/clinic-appointment-service/internal/domain"
	"github.com/go-gomail/gomail"
)

// EmailDispatcher sends notifications over SMTP. Server settings come
// from SMTP_HOST, SMTP_PORT, SMTP_EMAIL and SMTP_PASSWORD.
type EmailDispatcher struct {
	host     string
	port     int
	sender   string
	password string
}

func NewEmailDispatcher() *EmailDispatcher {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return &EmailDispatcher{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		sender:   os.Getenv("SMTP_EMAIL"),
		password: os.Getenv("SMTP_PASSWORD"),
	}
}

func (d *EmailDispatcher) NotifyConfirmation(event domain.ConfirmationEvent) error {
	body := fmt.Sprintf(
		"Dear %s, your appointment is confirmed.\nDoctor: %s\nTime: %s\nLocation: %s consulting room\nFee: %.2f",
		event.PatientName, event.DoctorName,
		event.AppointmentTime.Format("2006-01-02 15:04"),
		event.Department, event.Fee)
	return d.send(event.Email, "Appointment Confirmation", body)
}

func (d *EmailDispatcher) NotifyReminder(event domain.ConfirmationEvent) error {
	body := fmt.Sprintf(
		"Dear %s, you have an unpaid appointment today with %s (%s) at %s.",
		event.PatientName, event.DoctorName, event.Department,
		event.AppointmentTime.Format("15:04"))
	return d.send(event.Email, "Appointment Reminder", body)
}

func (d *EmailDispatcher) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", d.sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	dialer := gomail.NewDialer(d.host, d.port, d.sender, d.password)
	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	return nil
}
