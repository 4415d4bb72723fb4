package repository

import (
	"errors"
	"time"

	"github.com/cliniccore/clinic-appointment-service/internal/domain"
	"gorm.io/gorm"
)

// AppointmentRepository owns appointment storage. Appointments are
// never deleted; cancelled and completed rows stay queryable history.
// The Mark* transitions are compare-and-set on the status column so a
// payment and a cancellation racing on the same appointment cannot
// both commit.
type AppointmentRepository interface {
	Save(appointment *domain.Appointment) error
	GetById(appointmentId int) (domain.Appointment, error)
	FetchByPatient(patientId string) ([]domain.Appointment, error)
	FetchByDay(day time.Time) ([]domain.Appointment, error)
	GetLatestAppointmentId() (int, error)
	MarkCancelled(appointmentId int) (domain.Appointment, error)
	MarkPaid(appointmentId int, method domain.PaymentMethod, paymentRef string) (domain.Appointment, error)
}

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{
		db: db,
	}
}

func (r *appointmentRepository) Save(appointment *domain.Appointment) error {
	return r.db.Create(appointment).Error
}

func (r *appointmentRepository) GetById(appointmentId int) (domain.Appointment, error) {
	var appointment domain.Appointment
	err := r.db.Where("appointment_id = ?", appointmentId).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Appointment{}, domain.ErrUnknownAppointment
		}
		return domain.Appointment{}, err
	}
	return appointment, nil
}

func (r *appointmentRepository) FetchByPatient(patientId string) ([]domain.Appointment, error) {
	var appointments []domain.Appointment
	err := r.db.Where("patient_id = ?", patientId).Order("appointment_id ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FetchByDay(day time.Time) ([]domain.Appointment, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var appointments []domain.Appointment
	err := r.db.Where("scheduled_time >= ? AND scheduled_time < ?", start, end).
		Order("scheduled_time ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) GetLatestAppointmentId() (int, error) {
	var latestAppointment domain.Appointment
	if err := r.db.Order("appointment_id desc").First(&latestAppointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No appointments yet, ids start from 1.
			return 0, nil
		}
		return 0, err
	}
	return latestAppointment.AppointmentId, nil
}

// MarkCancelled moves the appointment to Cancelled. Allowed from
// Pending and Paid only.
func (r *appointmentRepository) MarkCancelled(appointmentId int) (domain.Appointment, error) {
	res := r.db.Model(&domain.Appointment{}).
		Where("appointment_id = ? AND status IN ?", appointmentId,
			[]domain.Status{domain.StatusPending, domain.StatusPaid}).
		Update("status", domain.StatusCancelled)
	if res.Error != nil {
		return domain.Appointment{}, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetById(appointmentId); err != nil {
			return domain.Appointment{}, err
		}
		return domain.Appointment{}, domain.ErrInvalidStateTransition
	}
	return r.GetById(appointmentId)
}

// MarkPaid moves the appointment from Pending to Paid and records the
// audit fields of the simulated payment.
func (r *appointmentRepository) MarkPaid(appointmentId int, method domain.PaymentMethod, paymentRef string) (domain.Appointment, error) {
	res := r.db.Model(&domain.Appointment{}).
		Where("appointment_id = ? AND status = ?", appointmentId, domain.StatusPending).
		Updates(map[string]interface{}{
			"status":         domain.StatusPaid,
			"payment_method": method,
			"payment_ref":    paymentRef,
		})
	if res.Error != nil {
		return domain.Appointment{}, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetById(appointmentId); err != nil {
			return domain.Appointment{}, err
		}
		return domain.Appointment{}, domain.ErrInvalidStateTransition
	}
	return r.GetById(appointmentId)
}
