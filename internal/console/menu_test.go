package console

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliniccore/clinic-appointment-service/internal/domain"
	"github.com/cliniccore/clinic-appointment-service/internal/notification"
	"github.com/cliniccore/clinic-appointment-service/internal/repository"
	"github.com/cliniccore/clinic-appointment-service/internal/service"
)

func newTestMenu(t *testing.T, input string) (*Menu, *bytes.Buffer) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	patientRepo := repository.NewMemoryPatientRepository()
	doctorRepo := repository.NewMemoryDoctorRepository()
	appointmentRepo := repository.NewMemoryAppointmentRepository()

	require.NoError(t, patientRepo.Save(&domain.Patient{
		PatientId: "patient1", Name: "Zhang San", Phone: "12345678901", Email: "zhangsan@example.com",
	}))
	require.NoError(t, doctorRepo.Save(&domain.Doctor{
		DoctorId: 1, Name: "Dr. Zhang", Department: "Internal Medicine", Schedule: "Mon-Fri 9:00-17:00", Fee: 50.0,
	}))

	out := &bytes.Buffer{}
	dispatcher := notification.NewConsoleDispatcher(out)

	appointments, err := service.NewAppointmentService(appointmentRepo, patientRepo, doctorRepo, dispatcher, logger)
	require.NoError(t, err)
	payments := service.NewPaymentService(appointmentRepo, patientRepo, doctorRepo, dispatcher, logger)
	patients := service.NewPatientService(patientRepo, logger)

	return NewMenu(patients, appointments, payments, strings.NewReader(input), out), out
}

func TestMenuLoginAndRegister(t *testing.T) {
	input := "1\npatient1\n" +
		"1\npatient9\nWang Wu\n12345678909\nwangwu@example.com\n" +
		"0\n"
	menu, out := newTestMenu(t, input)
	menu.Run()

	assert.Contains(t, out.String(), "Welcome back, Zhang San!")
	assert.Contains(t, out.String(), "Registration complete. Welcome, Wang Wu!")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestMenuMalformedDateDoesNotEndSession(t *testing.T) {
	input := "3\npatient1\n1\nnot-a-date\n" +
		"3\npatient1\n1\n2025-06-01 10:00\n" +
		"0\n"
	menu, out := newTestMenu(t, input)
	menu.Run()

	assert.Contains(t, out.String(), `Error: invalid date-time: "not-a-date"`)
	assert.Contains(t, out.String(), "Appointment booked!")
	assert.Contains(t, out.String(), "Status:         Pending")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestMenuBookPayAndList(t *testing.T) {
	input := "3\npatient1\n1\n2025-06-01 10:00\n" +
		"5\npatient1\n1\n3\n50.00\n" +
		"6\npatient1\n" +
		"0\n"
	menu, out := newTestMenu(t, input)
	menu.Run()

	assert.Contains(t, out.String(), "Payment successful! Appointment status updated.")
	assert.Contains(t, out.String(), "=== Appointment Confirmation ===")
	assert.Contains(t, out.String(), "To: zhangsan@example.com")
	assert.Contains(t, out.String(), "To: 12345678901")
	assert.Contains(t, out.String(), "Status:         Paid")
}

func TestMenuRejectsForeignCancellation(t *testing.T) {
	input := "3\npatient1\n1\n2025-06-01 10:00\n" +
		"4\npatient2\n1\n" +
		"0\n"
	menu, out := newTestMenu(t, input)
	menu.Run()

	assert.Contains(t, out.String(), "Error: "+domain.ErrOwnershipViolation.Error())
	assert.NotContains(t, out.String(), "Appointment cancelled.")
}

func TestMenuInvalidSelection(t *testing.T) {
	menu, out := newTestMenu(t, "9\n0\n")
	menu.Run()

	assert.Contains(t, out.String(), "Invalid selection, please try again.")
}

func TestMenuInvalidPaymentMethodSelection(t *testing.T) {
	input := "3\npatient1\n1\n2025-06-01 10:00\n" +
		"5\npatient1\n1\n7\n" +
		"0\n"
	menu, out := newTestMenu(t, input)
	menu.Run()

	assert.Contains(t, out.String(), `Error: invalid payment method: "7"`)
}
