package notification

import (
	"fmt"
	"io"
	"sync"

	"github.com/cliniccore/clinic-appointment-service/internal/domain"
)

// Dispatcher delivers best-effort patient notifications. Callers treat
// delivery as fire-and-forget: a returned error may be logged but must
// never undo the state change that triggered the notification.
type Dispatcher interface {
	NotifyConfirmation(event domain.ConfirmationEvent) error
	NotifyReminder(event domain.ConfirmationEvent) error
}

// ConsoleDispatcher prints notifications to a writer. It is the
// default dispatcher of the interactive binary.
type ConsoleDispatcher struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleDispatcher(out io.Writer) *ConsoleDispatcher {
	return &ConsoleDispatcher{out: out}
}

func (d *ConsoleDispatcher) NotifyConfirmation(event domain.ConfirmationEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, "\n=== Appointment Confirmation ===")
	fmt.Fprintf(d.out, "To: %s\n", event.Email)
	fmt.Fprintf(d.out, "To: %s\n", event.Phone)
	fmt.Fprintf(d.out, "Dear %s, your appointment is confirmed.\n", event.PatientName)
	fmt.Fprintf(d.out, "    Doctor:   %s\n", event.DoctorName)
	fmt.Fprintf(d.out, "    Time:     %s\n", event.AppointmentTime.Format("2006-01-02 15:04"))
	fmt.Fprintf(d.out, "    Location: %s consulting room\n", event.Department)
	return nil
}

func (d *ConsoleDispatcher) NotifyReminder(event domain.ConfirmationEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, "\n=== Appointment Reminder ===")
	fmt.Fprintf(d.out, "To: %s\n", event.Email)
	fmt.Fprintf(d.out, "Dear %s, you have an unpaid appointment today with %s (%s) at %s.\n",
		event.PatientName, event.DoctorName, event.Department,
		event.AppointmentTime.Format("15:04"))
	return nil
}
