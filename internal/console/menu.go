package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cliniccore/clinic-appointment-service/internal/domain"
	"github.com/cliniccore/clinic-appointment-service/internal/service"
)

const dateTimeLayout = "2006-01-02 15:04"

// ParseError reports malformed user input. It is recovered at the
// menu loop: the message is shown and the session continues.
type ParseError struct {
	Field string
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Input)
}

type action struct {
	label string
	run   func() error
}

// Menu drives the interactive session. Actions are a dispatch table
// keyed by the typed selection; input and output are injected so the
// whole surface runs against plain readers in tests.
type Menu struct {
	patients     service.PatientService
	appointments service.AppointmentService
	payments     service.PaymentService
	in           *bufio.Reader
	out          io.Writer
	actions      map[string]action
	order        []string
}

func NewMenu(patients service.PatientService, appointments service.AppointmentService, payments service.PaymentService, in io.Reader, out io.Writer) *Menu {
	m := &Menu{
		patients:     patients,
		appointments: appointments,
		payments:     payments,
		in:           bufio.NewReader(in),
		out:          out,
	}
	m.actions = map[string]action{
		"1": {"Patient login / register", m.identifyOrRegister},
		"2": {"View doctor schedules", m.listSchedules},
		"3": {"Book an appointment", m.bookAppointment},
		"4": {"Cancel an appointment", m.cancelAppointment},
		"5": {"Pay for an appointment", m.payForAppointment},
		"6": {"View my appointments", m.listMyAppointments},
	}
	m.order = []string{"1", "2", "3", "4", "5", "6"}
	return m
}

// Run loops until the user exits or input is exhausted. Action errors
// are reported and never end the session.
func (m *Menu) Run() {
	for {
		fmt.Fprintln(m.out, "\n=== Clinic Appointment System ===")
		for _, key := range m.order {
			fmt.Fprintf(m.out, "%s. %s\n", key, m.actions[key].label)
		}
		fmt.Fprintln(m.out, "0. Exit")
		fmt.Fprint(m.out, "Select an option: ")

		choice, err := m.readLine()
		if err != nil {
			return
		}
		if choice == "0" {
			fmt.Fprintln(m.out, "Goodbye!")
			return
		}
		act, ok := m.actions[choice]
		if !ok {
			fmt.Fprintln(m.out, "Invalid selection, please try again.")
			continue
		}
		if err := act.run(); err != nil {
			if err == io.EOF {
				return
			}
			fmt.Fprintf(m.out, "Error: %v\n", err)
		}
	}
}

func (m *Menu) identifyOrRegister() error {
	patientId, err := m.prompt("Patient ID: ")
	if err != nil {
		return err
	}

	if patient, err := m.patients.GetProfile(patientId); err == nil {
		fmt.Fprintf(m.out, "Welcome back, %s!\n", patient.Name)
		return nil
	} else if err != domain.ErrUnknownPatient {
		return err
	}

	fmt.Fprintln(m.out, "New patient registration")
	name, err := m.prompt("Name: ")
	if err != nil {
		return err
	}
	phone, err := m.prompt("Phone: ")
	if err != nil {
		return err
	}
	email, err := m.prompt("Email: ")
	if err != nil {
		return err
	}

	patient, err := m.patients.Register(patientId, name, phone, email)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Registration complete. Welcome, %s!\n", patient.Name)
	return nil
}

func (m *Menu) listSchedules() error {
	doctors, err := m.appointments.ListDoctors()
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, "\n=== Doctor Schedules ===")
	fmt.Fprintf(m.out, "%-5s %-20s %-20s %-35s %-10s\n", "ID", "Name", "Department", "Schedule", "Fee")
	for _, doctor := range doctors {
		fmt.Fprintf(m.out, "%-5d %-20s %-20s %-35s %-10.2f\n",
			doctor.DoctorId, doctor.Name, doctor.Department, doctor.Schedule, doctor.Fee)
	}
	return nil
}

func (m *Menu) bookAppointment() error {
	patientId, err := m.prompt("Patient ID: ")
	if err != nil {
		return err
	}
	if err := m.listSchedules(); err != nil {
		return err
	}
	doctorId, err := m.promptInt("Doctor ID: ")
	if err != nil {
		return err
	}
	scheduledTime, err := m.promptDateTime("Date and time (yyyy-MM-dd HH:mm): ")
	if err != nil {
		return err
	}

	appointment, err := m.appointments.BookAppointment(patientId, doctorId, scheduledTime)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, "\nAppointment booked!")
	fmt.Fprintf(m.out, "Appointment ID: %d\n", appointment.AppointmentId)
	fmt.Fprintf(m.out, "Time:           %s\n", appointment.ScheduledTime.Format(dateTimeLayout))
	fmt.Fprintf(m.out, "Fee:            %.2f\n", appointment.Fee)
	fmt.Fprintf(m.out, "Status:         %s\n", appointment.Status)
	return nil
}

func (m *Menu) cancelAppointment() error {
	patientId, err := m.prompt("Patient ID: ")
	if err != nil {
		return err
	}
	appointmentId, err := m.promptInt("Appointment ID to cancel: ")
	if err != nil {
		return err
	}

	if _, err := m.appointments.CancelAppointment(appointmentId, patientId); err != nil {
		return err
	}
	fmt.Fprintln(m.out, "Appointment cancelled.")
	return nil
}

func (m *Menu) payForAppointment() error {
	patientId, err := m.prompt("Patient ID: ")
	if err != nil {
		return err
	}
	appointmentId, err := m.promptInt("Appointment ID to pay: ")
	if err != nil {
		return err
	}

	appointment, err := m.appointments.GetAppointment(appointmentId)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, "\n=== Payment Details ===")
	fmt.Fprintf(m.out, "Appointment ID: %d\n", appointment.AppointmentId)
	fmt.Fprintf(m.out, "Time:           %s\n", appointment.ScheduledTime.Format(dateTimeLayout))
	fmt.Fprintf(m.out, "Amount due:     %.2f\n", appointment.Fee)

	fmt.Fprintln(m.out, "\nPayment methods:")
	fmt.Fprintln(m.out, "1. Alipay")
	fmt.Fprintln(m.out, "2. WeChat Pay")
	fmt.Fprintln(m.out, "3. Bank card")
	method, err := m.promptPaymentMethod("Select method: ")
	if err != nil {
		return err
	}
	amount, err := m.promptFloat("Amount: ")
	if err != nil {
		return err
	}

	if _, err := m.payments.PayForAppointment(appointmentId, patientId, method, amount); err != nil {
		return err
	}
	fmt.Fprintln(m.out, "Payment successful! Appointment status updated.")
	return nil
}

func (m *Menu) listMyAppointments() error {
	patientId, err := m.prompt("Patient ID: ")
	if err != nil {
		return err
	}
	appointments, err := m.appointments.FetchAppointmentsByPatient(patientId)
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, "\n=== My Appointments ===")
	if len(appointments) == 0 {
		fmt.Fprintln(m.out, "You have no appointments.")
		return nil
	}
	for _, appointment := range appointments {
		fmt.Fprintf(m.out, "Appointment ID: %d\n", appointment.AppointmentId)
		fmt.Fprintf(m.out, "Doctor ID:      %d\n", appointment.DoctorId)
		fmt.Fprintf(m.out, "Time:           %s\n", appointment.ScheduledTime.Format(dateTimeLayout))
		fmt.Fprintf(m.out, "Fee:            %.2f\n", appointment.Fee)
		fmt.Fprintf(m.out, "Status:         %s\n", appointment.Status)
		fmt.Fprintln(m.out, "-----------------------")
	}
	return nil
}

func (m *Menu) readLine() (string, error) {
	line, err := m.in.ReadString('\n')
	if err != nil && line == "" {
		return "", io.EOF
	}
	return strings.TrimSpace(line), nil
}

func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	return m.readLine()
}

func (m *Menu) promptInt(label string) (int, error) {
	raw, err := m.prompt(label)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ParseError{Field: "number", Input: raw}
	}
	return value, nil
}

func (m *Menu) promptFloat(label string) (float64, error) {
	raw, err := m.prompt(label)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ParseError{Field: "amount", Input: raw}
	}
	return value, nil
}

// promptDateTime parses a local calendar date-time with minute
// precision. Malformed input surfaces as a ParseError instead of
// ending the session.
func (m *Menu) promptDateTime(label string) (time.Time, error) {
	raw, err := m.prompt(label)
	if err != nil {
		return time.Time{}, err
	}
	value, err := time.ParseInLocation(dateTimeLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, &ParseError{Field: "date-time", Input: raw}
	}
	return value, nil
}

func (m *Menu) promptPaymentMethod(label string) (domain.PaymentMethod, error) {
	raw, err := m.prompt(label)
	if err != nil {
		return "", err
	}
	switch raw {
	case "1":
		return domain.MethodAlipay, nil
	case "2":
		return domain.MethodWechatPay, nil
	case "3":
		return domain.MethodBankCard, nil
	}
	return "", &ParseError{Field: "payment method", Input: raw}
}
