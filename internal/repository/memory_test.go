package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliniccore/clinic-appointment-service/internal/domain"
)

func seedAppointment(t *testing.T, repo AppointmentRepository, id int, status domain.Status) {
	t.Helper()
	require.NoError(t, repo.Save(&domain.Appointment{
		AppointmentId: id,
		PatientId:     "patient1",
		DoctorId:      1,
		ScheduledTime: time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local),
		Fee:           50.0,
		Status:        status,
	}))
}

func TestMemoryAppointmentRepositoryMarkPaidCAS(t *testing.T) {
	repo := NewMemoryAppointmentRepository()
	seedAppointment(t, repo, 1, domain.StatusPending)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.MarkPaid(1, domain.MethodBankCard, "ref")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	winners := 0
	for err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
		}
	}
	assert.Equal(t, 1, winners)
}

func TestMemoryAppointmentRepositoryMarkCancelledFromPaid(t *testing.T) {
	repo := NewMemoryAppointmentRepository()
	seedAppointment(t, repo, 1, domain.StatusPaid)

	cancelled, err := repo.MarkCancelled(1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	// Payment audit fields stay on the record; there is no refund.
}

func TestMemoryAppointmentRepositoryMarkCancelledTerminal(t *testing.T) {
	repo := NewMemoryAppointmentRepository()
	seedAppointment(t, repo, 1, domain.StatusCancelled)
	seedAppointment(t, repo, 2, domain.StatusCompleted)

	_, err := repo.MarkCancelled(1)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = repo.MarkCancelled(2)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = repo.MarkCancelled(3)
	assert.ErrorIs(t, err, domain.ErrUnknownAppointment)
}

func TestMemoryAppointmentRepositoryLatestId(t *testing.T) {
	repo := NewMemoryAppointmentRepository()

	latest, err := repo.GetLatestAppointmentId()
	require.NoError(t, err)
	assert.Equal(t, 0, latest)

	seedAppointment(t, repo, 3, domain.StatusPending)
	seedAppointment(t, repo, 9, domain.StatusPending)
	seedAppointment(t, repo, 5, domain.StatusPending)

	latest, err = repo.GetLatestAppointmentId()
	require.NoError(t, err)
	assert.Equal(t, 9, latest)
}

func TestMemoryDoctorRepositoryInsertionOrder(t *testing.T) {
	repo := NewMemoryDoctorRepository()
	require.NoError(t, repo.Save(&domain.Doctor{DoctorId: 2, Name: "Dr. Li", Fee: 60}))
	require.NoError(t, repo.Save(&domain.Doctor{DoctorId: 1, Name: "Dr. Zhang", Fee: 50}))
	require.NoError(t, repo.Save(&domain.Doctor{DoctorId: 3, Name: "Dr. Wang", Fee: 45}))

	doctors, err := repo.ListAll()
	require.NoError(t, err)
	require.Len(t, doctors, 3)
	assert.Equal(t, []int{2, 1, 3}, []int{doctors[0].DoctorId, doctors[1].DoctorId, doctors[2].DoctorId})
}

func TestMemoryPatientRepositorySaveOverwrites(t *testing.T) {
	repo := NewMemoryPatientRepository()

	_, err := repo.GetById("patient1")
	assert.ErrorIs(t, err, domain.ErrUnknownPatient)

	require.NoError(t, repo.Save(&domain.Patient{PatientId: "patient1", Name: "Zhang San"}))
	require.NoError(t, repo.Save(&domain.Patient{PatientId: "patient1", Name: "Zhang San", Phone: "12345678901"}))

	patient, err := repo.GetById("patient1")
	require.NoError(t, err)
	assert.Equal(t, "12345678901", patient.Phone)
}

func TestMemoryAppointmentRepositoryFetchByDay(t *testing.T) {
	repo := NewMemoryAppointmentRepository()
	today := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)
	require.NoError(t, repo.Save(&domain.Appointment{AppointmentId: 1, PatientId: "patient1", ScheduledTime: today, Status: domain.StatusPending}))
	require.NoError(t, repo.Save(&domain.Appointment{AppointmentId: 2, PatientId: "patient1", ScheduledTime: today.Add(48 * time.Hour), Status: domain.StatusPending}))

	appointments, err := repo.FetchByDay(today)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, 1, appointments[0].AppointmentId)
}
