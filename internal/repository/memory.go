package repository

import (
	"sync"
	"time"

	"github.com/cliniccore/clinic-appointment-service/internal/domain"
)

// In-memory implementations of the repository contracts, used by the
// console binary and the tests. Safe for concurrent use.

type memoryPatientRepository struct {
	mu       sync.RWMutex
	patients map[string]domain.Patient
}

func NewMemoryPatientRepository() PatientRepository {
	return &memoryPatientRepository{
		patients: make(map[string]domain.Patient),
	}
}

func (r *memoryPatientRepository) GetById(patientId string) (domain.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	patient, ok := r.patients[patientId]
	if !ok {
		return domain.Patient{}, domain.ErrUnknownPatient
	}
	return patient, nil
}

func (r *memoryPatientRepository) Save(patient *domain.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patients[patient.PatientId] = *patient
	return nil
}

type memoryDoctorRepository struct {
	mu      sync.RWMutex
	doctors map[int]domain.Doctor
	order   []int
}

func NewMemoryDoctorRepository() DoctorRepository {
	return &memoryDoctorRepository{
		doctors: make(map[int]domain.Doctor),
	}
}

func (r *memoryDoctorRepository) GetById(doctorId int) (domain.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doctor, ok := r.doctors[doctorId]
	if !ok {
		return domain.Doctor{}, domain.ErrUnknownDoctor
	}
	return doctor, nil
}

func (r *memoryDoctorRepository) ListAll() ([]domain.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doctors := make([]domain.Doctor, 0, len(r.order))
	for _, id := range r.order {
		doctors = append(doctors, r.doctors[id])
	}
	return doctors, nil
}

func (r *memoryDoctorRepository) Save(doctor *domain.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.doctors[doctor.DoctorId]; !ok {
		r.order = append(r.order, doctor.DoctorId)
	}
	r.doctors[doctor.DoctorId] = *doctor
	return nil
}

type memoryAppointmentRepository struct {
	mu           sync.RWMutex
	appointments map[int]domain.Appointment
	order        []int
}

func NewMemoryAppointmentRepository() AppointmentRepository {
	return &memoryAppointmentRepository{
		appointments: make(map[int]domain.Appointment),
	}
}

func (r *memoryAppointmentRepository) Save(appointment *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[appointment.AppointmentId]; !ok {
		r.order = append(r.order, appointment.AppointmentId)
	}
	r.appointments[appointment.AppointmentId] = *appointment
	return nil
}

func (r *memoryAppointmentRepository) GetById(appointmentId int) (domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	appointment, ok := r.appointments[appointmentId]
	if !ok {
		return domain.Appointment{}, domain.ErrUnknownAppointment
	}
	return appointment, nil
}

func (r *memoryAppointmentRepository) FetchByPatient(patientId string) ([]domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var appointments []domain.Appointment
	for _, id := range r.order {
		if r.appointments[id].PatientId == patientId {
			appointments = append(appointments, r.appointments[id])
		}
	}
	return appointments, nil
}

func (r *memoryAppointmentRepository) FetchByDay(day time.Time) ([]domain.Appointment, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	r.mu.RLock()
	defer r.mu.RUnlock()
	var appointments []domain.Appointment
	for _, id := range r.order {
		t := r.appointments[id].ScheduledTime
		if !t.Before(start) && t.Before(end) {
			appointments = append(appointments, r.appointments[id])
		}
	}
	return appointments, nil
}

func (r *memoryAppointmentRepository) GetLatestAppointmentId() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	latest := 0
	for id := range r.appointments {
		if id > latest {
			latest = id
		}
	}
	return latest, nil
}

func (r *memoryAppointmentRepository) MarkCancelled(appointmentId int) (domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointment, ok := r.appointments[appointmentId]
	if !ok {
		return domain.Appointment{}, domain.ErrUnknownAppointment
	}
	if !appointment.Status.CanTransitionTo(domain.StatusCancelled) {
		return domain.Appointment{}, domain.ErrInvalidStateTransition
	}
	appointment.Status = domain.StatusCancelled
	r.appointments[appointmentId] = appointment
	return appointment, nil
}

func (r *memoryAppointmentRepository) MarkPaid(appointmentId int, method domain.PaymentMethod, paymentRef string) (domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointment, ok := r.appointments[appointmentId]
	if !ok {
		return domain.Appointment{}, domain.ErrUnknownAppointment
	}
	if appointment.Status != domain.StatusPending {
		return domain.Appointment{}, domain.ErrInvalidStateTransition
	}
	appointment.Status = domain.StatusPaid
	appointment.PaymentMethod = method
	appointment.PaymentRef = paymentRef
	r.appointments[appointmentId] = appointment
	return appointment, nil
}
