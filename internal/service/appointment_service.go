package service

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cliniccore/clinic-appointment-service/internal/domain"
	"github.com/cliniccore/clinic-appointment-service/internal/notification"
	"github.com/cliniccore/clinic-appointment-service/internal/repository"
)

type AppointmentService interface {
	BookAppointment(patientId string, doctorId int, scheduledTime time.Time) (domain.Appointment, error)
	CancelAppointment(appointmentId int, patientId string) (domain.Appointment, error)
	GetAppointment(appointmentId int) (domain.Appointment, error)
	FetchAppointmentsByPatient(patientId string) ([]domain.Appointment, error)
	ListDoctors() ([]domain.Doctor, error)
	SendDailyReminders()
}

type appointmentService struct {
	repo       repository.AppointmentRepository
	patients   repository.PatientRepository
	doctors    repository.DoctorRepository
	dispatcher notification.Dispatcher
	logger     *logrus.Logger
	idCounter  int64
}

func NewAppointmentService(repo repository.AppointmentRepository, patients repository.PatientRepository, doctors repository.DoctorRepository, dispatcher notification.Dispatcher, logger *logrus.Logger) (AppointmentService, error) {
	latestId, err := repo.GetLatestAppointmentId()
	if err != nil {
		return nil, err
	}
	return &appointmentService{
		repo:       repo,
		patients:   patients,
		doctors:    doctors,
		dispatcher: dispatcher,
		logger:     logger,
		idCounter:  int64(latestId),
	}, nil
}

// BookAppointment creates a Pending appointment with the doctor's fee
// snapshotted onto it. The fee never changes afterwards, even if the
// doctor's listed fee does.
func (s *appointmentService) BookAppointment(patientId string, doctorId int, scheduledTime time.Time) (domain.Appointment, error) {
	s.logger.WithFields(logrus.Fields{
		"Function":      "BookAppointment",
		"PatientId":     patientId,
		"DoctorId":      doctorId,
		"ScheduledTime": scheduledTime,
	}).Info("Booking appointment")

	if _, err := s.patients.GetById(patientId); err != nil {
		s.logger.WithError(err).Warn("Booking rejected: unknown patient")
		return domain.Appointment{}, err
	}
	doctor, err := s.doctors.GetById(doctorId)
	if err != nil {
		s.logger.WithError(err).Warn("Booking rejected: unknown doctor")
		return domain.Appointment{}, err
	}

	// TODO: slot-conflict policy is still undecided (reject overlap,
	// warn but allow, or fixed daily capacity); until it is, booking is
	// intentionally permissive for any resolvable patient/doctor pair.

	appointment := domain.Appointment{
		AppointmentId: int(atomic.AddInt64(&s.idCounter, 1)),
		PatientId:     patientId,
		DoctorId:      doctorId,
		ScheduledTime: scheduledTime,
		Fee:           doctor.Fee,
		Status:        domain.StatusPending,
	}
	if err := s.repo.Save(&appointment); err != nil {
		s.logger.WithError(err).Error("Failed to save appointment")
		return domain.Appointment{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"Function":      "BookAppointment",
		"AppointmentId": appointment.AppointmentId,
		"Fee":           appointment.Fee,
	}).Info("Appointment booked")
	return appointment, nil
}

// CancelAppointment moves the appointment to Cancelled. Checks run in
// order: existence, ownership, state.
func (s *appointmentService) CancelAppointment(appointmentId int, patientId string) (domain.Appointment, error) {
	s.logger.WithFields(logrus.Fields{
		"Function":      "CancelAppointment",
		"AppointmentId": appointmentId,
		"PatientId":     patientId,
	}).Info("Cancelling appointment")

	appointment, err := s.repo.GetById(appointmentId)
	if err != nil {
		return domain.Appointment{}, err
	}
	if appointment.PatientId != patientId {
		s.logger.WithFields(logrus.Fields{
			"Function":      "CancelAppointment",
			"AppointmentId": appointmentId,
		}).Warn("Cancellation rejected: ownership violation")
		return domain.Appointment{}, domain.ErrOwnershipViolation
	}

	cancelled, err := s.repo.MarkCancelled(appointmentId)
	if err != nil {
		s.logger.WithError(err).Warn("Cancellation rejected")
		return domain.Appointment{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"Function":      "CancelAppointment",
		"AppointmentId": appointmentId,
	}).Info("Appointment cancelled")
	return cancelled, nil
}

func (s *appointmentService) GetAppointment(appointmentId int) (domain.Appointment, error) {
	return s.repo.GetById(appointmentId)
}

func (s *appointmentService) FetchAppointmentsByPatient(patientId string) ([]domain.Appointment, error) {
	s.logger.WithFields(logrus.Fields{
		"Function":  "FetchAppointmentsByPatient",
		"PatientId": patientId,
	}).Info("Fetching appointments for patient")

	appointments, err := s.repo.FetchByPatient(patientId)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch appointments")
		return nil, err
	}
	return appointments, nil
}

func (s *appointmentService) ListDoctors() ([]domain.Doctor, error) {
	return s.doctors.ListAll()
}

// SendDailyReminders re-notifies patients with still-unpaid
// appointments scheduled for today. Delivery is best effort.
func (s *appointmentService) SendDailyReminders() {
	s.logger.Info("Sending daily appointment reminders")

	appointments, err := s.repo.FetchByDay(time.Now())
	if err != nil {
		s.logger.WithError(err).Error("Error fetching today's appointments")
		return
	}

	for _, appointment := range appointments {
		if appointment.Status != domain.StatusPending {
			continue
		}
		patient, err := s.patients.GetById(appointment.PatientId)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to resolve patient, skipping reminder")
			continue
		}
		doctor, err := s.doctors.GetById(appointment.DoctorId)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to resolve doctor, skipping reminder")
			continue
		}

		err = s.dispatcher.NotifyReminder(domain.ConfirmationEvent{
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
			s.logger.WithError(err).Warn("Failed to send reminder")
			continue
		}
	}

	s.logger.Info("Daily appointment reminders sent")
}
