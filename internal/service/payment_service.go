package service

import (
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cliniccore/clinic-appointment-service/internal/domain"
	"github.com/cliniccore/clinic-appointment-service/internal/notification"
	"github.com/cliniccore/clinic-appointment-service/internal/repository"
)

// amountTolerance is the accepted difference between the paid amount
// and the snapshotted fee.
const amountTolerance = 0.01

type PaymentService interface {
	PayForAppointment(appointmentId int, patientId string, method domain.PaymentMethod, amount float64) (domain.Appointment, error)
}

type paymentService struct {
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	doctors      repository.DoctorRepository
	dispatcher   notification.Dispatcher
	logger       *logrus.Logger
}

func NewPaymentService(appointments repository.AppointmentRepository, patients repository.PatientRepository, doctors repository.DoctorRepository, dispatcher notification.Dispatcher, logger *logrus.Logger) PaymentService {
	return &paymentService{
		appointments: appointments,
		patients:     patients,
		doctors:      doctors,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// PayForAppointment validates and commits a simulated payment. Checks
// run in order: existence, ownership, state, amount; the first failure
// aborts with no mutation and no notification. The Pending-to-Paid
// transition is compare-and-set, so a concurrent cancel or second pay
// on the same appointment loses with ErrInvalidStateTransition.
func (s *paymentService) PayForAppointment(appointmentId int, patientId string, method domain.PaymentMethod, amount float64) (domain.Appointment, error) {
	s.logger.WithFields(logrus.Fields{
		"Function":      "PayForAppointment",
		"AppointmentId": appointmentId,
		"PatientId":     patientId,
		"Method":        method,
		"Amount":        amount,
	}).Info("Processing payment")

	appointment, err := s.appointments.GetById(appointmentId)
	if err != nil {
		return domain.Appointment{}, err
	}
	if appointment.PatientId != patientId {
		s.logger.WithFields(logrus.Fields{
			"Function":      "PayForAppointment",
			"AppointmentId": appointmentId,
		}).Warn("Payment rejected: ownership violation")
		return domain.Appointment{}, domain.ErrOwnershipViolation
	}
	if appointment.Status != domain.StatusPending {
		s.logger.WithFields(logrus.Fields{
			"Function": "PayForAppointment",
			"Status":   appointment.Status,
		}).Warn("Payment rejected: appointment not payable")
		return domain.Appointment{}, domain.ErrInvalidStateTransition
	}
	if math.Abs(amount-appointment.Fee) > amountTolerance {
		s.logger.WithFields(logrus.Fields{
			"Function": "PayForAppointment",
			"Amount":   amount,
			"Fee":      appointment.Fee,
		}).Warn("Payment rejected: amount mismatch")
		return domain.Appointment{}, domain.ErrAmountMismatch
	}

	paid, err := s.appointments.MarkPaid(appointmentId, method, uuid.New().String())
	if err != nil {
		s.logger.WithError(err).Warn("Payment lost the status transition")
		return domain.Appointment{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"Function":      "PayForAppointment",
		"AppointmentId": appointmentId,
		"PaymentRef":    paid.PaymentRef,
	}).Info("Payment committed")

	s.sendConfirmation(paid)
	return paid, nil
}

// sendConfirmation dispatches the post-payment confirmation. Failures
// are logged and swallowed; the committed payment stands regardless.
func (s *paymentService) sendConfirmation(appointment domain.Appointment) {
	patient, err := s.patients.GetById(appointment.PatientId)
	if err != nil {
		s.logger.WithError(err).Warn("Skipping confirmation: failed to resolve patient")
		return
	}
	doctor, err := s.doctors.GetById(appointment.DoctorId)
	if err != nil {
		s.logger.WithError(err).Warn("Skipping confirmation: failed to resolve doctor")
		return
	}

	err = s.dispatcher.NotifyConfirmation(domain.ConfirmationEvent{
		AppointmentId:   appointment.AppointmentId,
		PatientName:     patient.Name,
		Email:           patient.Email,
		Phone:           patient.Phone,
		DoctorName:      doctor.Name,
		Department:      doctor.Department,
		AppointmentTime: appointment.ScheduledTime,
		Fee:             appointment.Fee,
	})
	if err != nil {
		s.logger.WithError(err).Warn("Failed to dispatch confirmation")
	}
}
